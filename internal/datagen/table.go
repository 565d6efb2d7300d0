package datagen

import (
	"fmt"
	"time"
)

// Table is an in-memory block of generated rows bound for one database table.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// NewTable returns an empty table with the given columns.
func NewTable(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Add appends a row; it panics when the arity does not match, which is a
// programming error in a generator.
func (t *Table) Add(values ...interface{}) {
	if len(values) != len(t.Columns) {
		panic(fmt.Sprintf("datagen: %s row has %d values, want %d", t.Name, len(values), len(t.Columns)))
	}
	for i, v := range values {
		if d, ok := v.(time.Time); ok {
			values[i] = d.Format("2006-01-02")
		}
	}
	t.Rows = append(t.Rows, values)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// TableName, ColumnNames and Values let the loader consume a Table.
func (t *Table) TableName() string       { return t.Name }
func (t *Table) ColumnNames() []string   { return t.Columns }
func (t *Table) Values() [][]interface{} { return t.Rows }

// Records returns rows as column-keyed maps, the shape prompt templates use.
func (t *Table) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			rec[c] = row[j]
		}
		out[i] = rec
	}
	return out
}
