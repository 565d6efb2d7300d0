package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
)

var (
	// Check if output supports colors
	supportsColor = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	// Color functions
	ColorSuccess  = colorFunc(ansi.Green)
	ColorError    = colorFunc(ansi.Red)
	ColorWarning  = colorFunc(ansi.Yellow)
	ColorInfo     = colorFunc(ansi.Cyan)
	ColorProgress = colorFunc(ansi.Blue)
	ColorBold     = colorFunc("default+b")
	ColorDim      = colorFunc("default+h")
)

// colorFunc returns a function that colors text if supported
func colorFunc(color string) func(string) string {
	return func(text string) string {
		if supportsColor {
			return ansi.Color(text, color)
		}
		return text
	}
}

// SupportsColor reports whether stdout is a terminal.
func SupportsColor() bool {
	return supportsColor
}

// SetColor forces color output on or off, e.g. for --no-color or tests.
func SetColor(enabled bool) {
	supportsColor = enabled
}

// ShowHeader writes a boxed title.
func ShowHeader(w io.Writer, title string) {
	width := 50
	if len(title)+4 > width {
		width = len(title) + 4
	}
	padding := (width - len(title) - 2) / 2

	fmt.Fprintln(w, "\n+"+strings.Repeat("-", width-2)+"+")
	fmt.Fprintf(w, "|%s%s%s|\n",
		strings.Repeat(" ", padding),
		ColorBold(title),
		strings.Repeat(" ", width-2-padding-len(title)),
	)
	fmt.Fprintln(w, "+"+strings.Repeat("-", width-2)+"+")
}

// ShowError writes err with its suggestions dimmed and a tip when one
// applies.
func ShowError(w io.Writer, err error) {
	lines := strings.Split(err.Error(), "\n")

	fmt.Fprintf(w, "\n%s %s\n", ColorError("❌"), lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(w, "   %s\n", ColorDim(line))
	}

	if suggestion := getSuggestion(err.Error()); suggestion != "" {
		fmt.Fprintf(w, "\n   %s %s\n", ColorInfo("TIP:"), ColorInfo(suggestion))
	}
}

// getSuggestion returns helpful suggestions based on error messages
func getSuggestion(message string) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "incorrect username or password"):
		return "Check the user and password, or run 'snowdemo login' to store a password in the keyring"
	case strings.Contains(lower, "cortex") && strings.Contains(lower, "not available"):
		return "Cortex models differ per region; set 'model' in config.yaml or enable cross-region inference"
	case strings.Contains(lower, "insufficient privileges"):
		return "Ensure your role has CREATE DATABASE and the SNOWFLAKE.CORTEX_USER database role"
	case strings.Contains(lower, "does not exist"):
		return "Run the ddl step first, or check the database override in config.yaml"
	default:
		return ""
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, minutes)
}

// FormatDuration is formatDuration for callers outside the package.
func FormatDuration(d time.Duration) string {
	return formatDuration(d)
}
