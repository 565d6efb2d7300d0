// Package testutil holds Snowflake test doubles shared by package tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"snowdemo/internal/snowflake"
	"snowdemo/pkg/errors"
)

// NewMockService returns a Service over sqlmock with exact query matching.
// The database is closed when the test ends.
func NewMockService(t *testing.T) (*snowflake.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return snowflake.NewServiceWithDB(db, snowflake.Config{}, nil), mock
}

// CountRows is the single-row result of a SELECT COUNT(*).
func CountRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(n)
}

// Recorder is an Executor that records every statement like a dry run.
// Statements containing one of FailOn fail with FailWith, a compilation
// error by default, and SHOW CORTEX SEARCH SERVICES reports SearchState.
type Recorder struct {
	*snowflake.DryRun
	FailOn      []string
	FailWith    error
	SearchState string
}

// NewRecorder returns a Recorder whose search services are ACTIVE.
func NewRecorder(failOn ...string) *Recorder {
	return &Recorder{DryRun: snowflake.NewDryRun(nil), FailOn: failOn, SearchState: "ACTIVE"}
}

// Exec implements snowflake.Executor.
func (r *Recorder) Exec(ctx context.Context, stmt string, args ...interface{}) (int64, error) {
	for _, f := range r.FailOn {
		if strings.Contains(stmt, f) {
			r.Statements = append(r.Statements, stmt)
			cause := r.FailWith
			if cause == nil {
				cause = errSyntax
			}
			return 0, errors.SQLError("Failed to execute statement", stmt, cause)
		}
	}
	return r.DryRun.Exec(ctx, stmt, args...)
}

// QueryMaps implements snowflake.Executor.
func (r *Recorder) QueryMaps(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	_, _ = r.DryRun.QueryMaps(ctx, query, args...)
	if strings.HasPrefix(query, "SHOW CORTEX SEARCH SERVICES") {
		return []map[string]interface{}{{"indexing_state": r.SearchState}}, nil
	}
	return nil, nil
}

// Ran reports whether any recorded statement contains fragment.
func (r *Recorder) Ran(fragment string) bool {
	for _, stmt := range r.Statements {
		if strings.Contains(stmt, fragment) {
			return true
		}
	}
	return false
}

var errSyntax = errors.New(errors.ErrCodeSQLSyntax, "SQL compilation error: syntax error")
