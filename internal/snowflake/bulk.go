package snowflake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"snowdemo/pkg/errors"

	"go.uber.org/zap"
)

// DefaultBatchSize is the number of rows bound per INSERT statement.
const DefaultBatchSize = 500

// Rows is a named block of rows ready for loading; datagen.Table satisfies it.
type Rows interface {
	TableName() string
	ColumnNames() []string
	Values() [][]interface{}
}

// Loader writes in-memory tables with batched multi-row INSERTs.
type Loader struct {
	exec      Executor
	batchSize int
	logger    *zap.Logger
}

// LoadResult reports a single table load.
type LoadResult struct {
	Table    string
	Rows     int64
	Batches  int
	Duration time.Duration
}

// NewLoader creates a loader; batchSize <= 0 selects DefaultBatchSize.
func NewLoader(exec Executor, batchSize int, logger *zap.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{exec: exec, batchSize: batchSize, logger: logger}
}

// Load inserts every row of t. With overwrite the table is truncated first,
// so repeated runs converge to the same contents.
func (l *Loader) Load(ctx context.Context, t Rows, overwrite bool) (*LoadResult, error) {
	start := time.Now()
	table := t.TableName()
	cols := t.ColumnNames()
	rows := t.Values()

	if len(cols) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "table has no columns").
			WithContext("table", table)
	}

	result := &LoadResult{Table: table}

	if overwrite {
		if _, err := l.exec.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE IF EXISTS %s", table)); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "Failed to truncate table").
				WithContext("table", table)
		}
	}

	for offset := 0; offset < len(rows); offset += l.batchSize {
		end := offset + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[offset:end]

		stmt, args, err := InsertStatement(table, cols, batch)
		if err != nil {
			return result, err
		}

		n, err := l.exec.Exec(ctx, stmt, args...)
		if err != nil {
			return result, errors.Wrap(err, errors.ErrCodeLoadFailed, "Failed to insert batch").
				WithContext("table", table).
				WithContext("offset", offset)
		}
		if n == 0 {
			n = int64(len(batch))
		}
		result.Rows += n
		result.Batches++
	}

	result.Duration = time.Since(start)
	l.logger.Debug("loaded table",
		zap.String("table", table),
		zap.Int64("rows", result.Rows),
		zap.Int("batches", result.Batches),
		zap.Duration("elapsed", result.Duration))
	return result, nil
}

// InsertStatement builds INSERT INTO table (cols) VALUES (?, ...), ... for rows.
func InsertStatement(table string, cols []string, rows [][]interface{}) (string, []interface{}, error) {
	if len(rows) == 0 {
		return "", nil, errors.New(errors.ErrCodeInvalidInput, "no rows to insert").WithContext("table", table)
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES ")

	args := make([]interface{}, 0, len(rows)*len(cols))
	for i, row := range rows {
		if len(row) != len(cols) {
			return "", nil, errors.New(errors.ErrCodeInvalidInput,
				fmt.Sprintf("row %d has %d values, want %d", i, len(row), len(cols))).
				WithContext("table", table)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholder)
		args = append(args, row...)
	}

	return b.String(), args, nil
}
