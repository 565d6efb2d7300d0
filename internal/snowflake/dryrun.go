package snowflake

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// DryRun prints statements instead of executing them. Queries return zero
// values so validation reports every check as failed rather than guessing.
type DryRun struct {
	Out        io.Writer
	Statements []string
}

// NewDryRun returns a DryRun writing to out.
func NewDryRun(out io.Writer) *DryRun {
	return &DryRun{Out: out}
}

func (d *DryRun) record(stmt string, args []interface{}) {
	d.Statements = append(d.Statements, stmt)
	if d.Out == nil {
		return
	}
	if len(args) > 0 {
		fmt.Fprintf(d.Out, "%s;\n-- %d bound values\n\n", strings.TrimSpace(stmt), len(args))
		return
	}
	fmt.Fprintf(d.Out, "%s;\n\n", strings.TrimSpace(stmt))
}

// Exec implements Executor.
func (d *DryRun) Exec(_ context.Context, stmt string, args ...interface{}) (int64, error) {
	d.record(stmt, args)
	return 0, nil
}

// QueryInt implements Executor.
func (d *DryRun) QueryInt(_ context.Context, query string, args ...interface{}) (int64, error) {
	d.record(query, args)
	return 0, nil
}

// QueryFloat implements Executor.
func (d *DryRun) QueryFloat(_ context.Context, query string, args ...interface{}) (float64, error) {
	d.record(query, args)
	return 0, nil
}

// QueryMaps implements Executor.
func (d *DryRun) QueryMaps(_ context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	d.record(query, args)
	return nil, nil
}
