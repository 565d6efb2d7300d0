// Package validate runs the acceptance queries that confirm a demo database
// is ready: row counts in range, invariants with no violating groups, and
// named entities present.
package validate

import (
	"context"
	"fmt"
)

// Status is the outcome of a check.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Icon returns the report glyph for s.
func (s Status) Icon() string {
	switch s {
	case StatusPass:
		return "✅"
	case StatusWarn:
		return "⚠️"
	default:
		return "❌"
	}
}

// Result is the outcome of one check.
type Result struct {
	Name   string
	Status Status
	Detail string
	Value  int64
}

// Querier is the subset of snowflake.Executor checks need.
type Querier interface {
	QueryInt(ctx context.Context, query string, args ...interface{}) (int64, error)
}

// Check is a single validation query.
type Check interface {
	Name() string
	SQL() string
	Run(ctx context.Context, q Querier) Result
}

// CountRange passes when the count is within [Min, Max]. A non-zero count
// outside the range is a warning; zero rows is a failure.
type CountRange struct {
	Label string
	Query string
	Min   int64
	Max   int64
}

func (c CountRange) Name() string { return c.Label }
func (c CountRange) SQL() string  { return c.Query }

func (c CountRange) Run(ctx context.Context, q Querier) Result {
	n, err := q.QueryInt(ctx, c.Query)
	if err != nil {
		return failed(c.Label, err)
	}

	r := Result{Name: c.Label, Value: n}
	switch {
	case n == 0:
		r.Status, r.Detail = StatusFail, "no rows"
	case n < c.Min || (c.Max > 0 && n > c.Max):
		r.Status, r.Detail = StatusWarn, fmt.Sprintf("%d rows, expected %s", n, c.expected())
	default:
		r.Status, r.Detail = StatusPass, fmt.Sprintf("%d rows", n)
	}
	return r
}

func (c CountRange) expected() string {
	if c.Max <= 0 {
		return fmt.Sprintf(">= %d", c.Min)
	}
	return fmt.Sprintf("%d-%d", c.Min, c.Max)
}

// ZeroRows passes when Query, which counts violating groups, returns zero.
type ZeroRows struct {
	Label string
	Query string
}

func (c ZeroRows) Name() string { return c.Label }
func (c ZeroRows) SQL() string  { return c.Query }

func (c ZeroRows) Run(ctx context.Context, q Querier) Result {
	n, err := q.QueryInt(ctx, c.Query)
	if err != nil {
		return failed(c.Label, err)
	}
	if n > 0 {
		return Result{Name: c.Label, Status: StatusFail, Value: n, Detail: fmt.Sprintf("%d violations", n)}
	}
	return Result{Name: c.Label, Status: StatusPass, Detail: "no violations"}
}

// Exists passes when Query returns a count of at least one.
type Exists struct {
	Label string
	Query string
}

func (c Exists) Name() string { return c.Label }
func (c Exists) SQL() string  { return c.Query }

func (c Exists) Run(ctx context.Context, q Querier) Result {
	n, err := q.QueryInt(ctx, c.Query)
	if err != nil {
		return failed(c.Label, err)
	}
	if n == 0 {
		return Result{Name: c.Label, Status: StatusFail, Detail: "not found"}
	}
	return Result{Name: c.Label, Status: StatusPass, Value: n, Detail: "found"}
}

func failed(name string, err error) Result {
	return Result{Name: name, Status: StatusFail, Detail: firstLine(err.Error())}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

// RunAll runs every check in order.
func RunAll(ctx context.Context, q Querier, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		results = append(results, c.Run(ctx, q))
	}
	return results
}

// Passed reports whether no result failed. Warnings do not fail a run.
func Passed(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return false
		}
	}
	return true
}
