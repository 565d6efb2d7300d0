package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestColorFunc(t *testing.T) {
	original := supportsColor
	defer func() { supportsColor = original }()

	SetColor(false)
	assert.Equal(t, "plain", ColorSuccess("plain"))

	SetColor(true)
	colored := ColorSuccess("plain")
	assert.NotEqual(t, "plain", colored)
	assert.Contains(t, colored, "plain")
}

func TestStatusLines(t *testing.T) {
	SetColor(false)

	var buf bytes.Buffer
	u := NewWriterUI(&buf, false, false)
	u.Success("loaded %d rows", 10)
	u.Warning("search service still %s", "INITIALIZING")
	u.Error("statement %d failed", 3)
	u.Info("using %s", "BANK_AI_DEMO")

	out := buf.String()
	assert.Contains(t, out, "✅ loaded 10 rows")
	assert.Contains(t, out, "search service still INITIALIZING")
	assert.Contains(t, out, "❌ statement 3 failed")
	assert.Contains(t, out, "using BANK_AI_DEMO")
}

func TestQuietKeepsErrors(t *testing.T) {
	SetColor(false)

	var buf bytes.Buffer
	u := NewWriterUI(&buf, false, true)
	u.Success("hidden")
	u.Section("hidden")
	u.VerbosePrintf("hidden")
	u.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestShowHeader(t *testing.T) {
	SetColor(false)

	var buf bytes.Buffer
	ShowHeader(&buf, "banking")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, len(lines[0]), len(lines[1]))
	assert.Contains(t, lines[1], "banking")
}

func TestShowErrorWithSuggestion(t *testing.T) {
	SetColor(false)

	var buf bytes.Buffer
	ShowError(&buf, errors.New("Object 'RAW.CLAIMS' does not exist\nCaused by: 002003"))
	out := buf.String()
	assert.Contains(t, out, "❌ Object 'RAW.CLAIMS' does not exist")
	assert.Contains(t, out, "Caused by: 002003")
	assert.Contains(t, out, "TIP: Run the ddl step first")
}

func TestSpinnerWithoutTerminal(t *testing.T) {
	SetColor(false)

	var buf bytes.Buffer
	u := NewWriterUI(&buf, false, false)
	u.StartProgress("generating documents")
	u.StopProgress(true, "generated 42 documents")
	u.StopProgress(true, "ignored")

	out := buf.String()
	assert.Contains(t, out, "generating documents")
	assert.Contains(t, out, "✅ generated 42 documents")
	assert.NotContains(t, out, "ignored")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 5*time.Minute, "2h5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}
