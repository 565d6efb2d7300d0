package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner represents an animated spinner for long operations such as a
// bulk Cortex Complete call.
type Spinner struct {
	out       io.Writer
	frames    []string
	current   int
	message   string
	startTime time.Time
	stop      chan struct{}
	done      chan struct{}
	stopped   bool
	mu        sync.Mutex
}

// NewSpinner creates a new spinner
func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:     out,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation. Without a color terminal the message
// is printed once instead.
func (s *Spinner) Start() {
	s.startTime = time.Now()
	if !supportsColor {
		fmt.Fprintf(s.out, "%s %s\n", "…", s.message)
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				if !s.stopped {
					fmt.Fprintf(s.out, "\r%s %s %s",
						ColorProgress(s.frames[s.current]),
						s.message,
						ColorDim(formatDuration(time.Since(s.startTime))),
					)
					s.current = (s.current + 1) % len(s.frames)
				}
				s.mu.Unlock()
			}
		}
	}()
}

// Stop stops the spinner and prints the final status with the elapsed time.
func (s *Spinner) Stop(success bool, message string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stop)
	<-s.done

	if supportsColor {
		fmt.Fprint(s.out, "\r\033[K")
	}

	elapsed := ColorDim("(" + formatDuration(time.Since(s.startTime)) + ")")
	if success {
		fmt.Fprintf(s.out, "%s %s %s\n", ColorSuccess("✅"), message, elapsed)
	} else {
		fmt.Fprintf(s.out, "%s %s %s\n", ColorError("❌"), message, elapsed)
	}
}
