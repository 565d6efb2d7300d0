package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// UI writes human-facing status lines. Structured logs go through zap;
// these are the ✅ / ⚠️ / ❌ lines a presenter watches during setup.
type UI struct {
	Out     io.Writer
	Verbose bool
	Quiet   bool
	spinner *Spinner
}

// NewUI creates a UI writing to stdout.
func NewUI(verbose, quiet bool) *UI {
	return &UI{Out: os.Stdout, Verbose: verbose, Quiet: quiet}
}

// NewWriterUI creates a UI writing to w.
func NewWriterUI(w io.Writer, verbose, quiet bool) *UI {
	return &UI{Out: w, Verbose: verbose, Quiet: quiet}
}

// Printf prints formatted output if not in quiet mode
func (u *UI) Printf(format string, args ...interface{}) {
	if !u.Quiet {
		fmt.Fprintf(u.Out, format, args...)
	}
}

// VerbosePrintf prints formatted output only in verbose mode
func (u *UI) VerbosePrintf(format string, args ...interface{}) {
	if u.Verbose && !u.Quiet {
		fmt.Fprintf(u.Out, format, args...)
	}
}

// Header prints a boxed title.
func (u *UI) Header(title string) {
	if !u.Quiet {
		ShowHeader(u.Out, title)
	}
}

// Section prints a section header
func (u *UI) Section(title string) {
	if !u.Quiet {
		fmt.Fprintf(u.Out, "\n%s %s\n", ColorBold("▶"), ColorBold(title))
		fmt.Fprintln(u.Out, strings.Repeat("─", 50))
	}
}

// Success prints a success line.
func (u *UI) Success(format string, args ...interface{}) {
	if !u.Quiet {
		fmt.Fprintf(u.Out, "%s %s\n", ColorSuccess("✅"), fmt.Sprintf(format, args...))
	}
}

// Warning prints a warning line.
func (u *UI) Warning(format string, args ...interface{}) {
	if !u.Quiet {
		fmt.Fprintf(u.Out, "%s %s\n", ColorWarning("⚠️ "), fmt.Sprintf(format, args...))
	}
}

// Error prints a failure line. Failures are shown even in quiet mode.
func (u *UI) Error(format string, args ...interface{}) {
	fmt.Fprintf(u.Out, "%s %s\n", ColorError("❌"), fmt.Sprintf(format, args...))
}

// Info prints an information line.
func (u *UI) Info(format string, args ...interface{}) {
	if !u.Quiet {
		fmt.Fprintf(u.Out, "%s %s\n", ColorInfo("•"), fmt.Sprintf(format, args...))
	}
}

// ShowError prints a detailed error.
func (u *UI) ShowError(err error) {
	ShowError(u.Out, err)
}

// StartProgress starts a spinner with message.
func (u *UI) StartProgress(message string) {
	if u.Quiet {
		return
	}
	u.spinner = NewSpinner(u.Out, message)
	u.spinner.Start()
}

// StopProgress stops the spinner and prints the final status.
func (u *UI) StopProgress(success bool, message string) {
	if u.spinner == nil {
		return
	}
	u.spinner.Stop(success, message)
	u.spinner = nil
}

// Interactive reports whether stdin is a terminal prompts can read from.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd())
}

// Confirm asks a yes/no question. A non-interactive stdin or an interrupt
// counts as no.
func Confirm(message string, defaultValue bool) (bool, error) {
	if !Interactive() {
		return false, nil
	}

	answer := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if err == terminal.InterruptErr {
			return false, nil
		}
		return false, err
	}
	return answer, nil
}

// Password prompts for a secret without echo.
func Password(message string) (string, error) {
	var password string
	prompt := &survey.Password{Message: message}
	if err := survey.AskOne(prompt, &password, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return password, nil
}

// Input prompts for a line of text with a default.
func Input(message, defaultValue string) (string, error) {
	var value string
	prompt := &survey.Input{Message: message, Default: defaultValue}
	if err := survey.AskOne(prompt, &value); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
