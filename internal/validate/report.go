package validate

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Report renders check results as a table.
type Report struct {
	useColor bool
}

// NewReport creates a report; color is applied only when useColor is set.
func NewReport(useColor bool) *Report {
	return &Report{useColor: useColor}
}

// Render writes the results table and a one-line tally to w.
func (r *Report) Render(w io.Writer, results []Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Check", "Status", "Detail"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	var pass, warn, fail int
	for _, res := range results {
		switch res.Status {
		case StatusPass:
			pass++
		case StatusWarn:
			warn++
		default:
			fail++
		}
		table.Append([]string{res.Status.Icon(), res.Name, r.status(res.Status), res.Detail})
	}
	table.Render()

	fmt.Fprintf(w, "\n%d passed, %d warnings, %d failed\n", pass, warn, fail)
}

func (r *Report) status(s Status) string {
	if !r.useColor {
		return string(s)
	}
	switch s {
	case StatusPass:
		return color.GreenString(string(s))
	case StatusWarn:
		return color.YellowString(string(s))
	default:
		return color.RedString(string(s))
	}
}
