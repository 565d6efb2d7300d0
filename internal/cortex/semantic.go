package cortex

import (
	"fmt"
	"strings"
)

// LogicalTable is a table entry of a semantic view.
type LogicalTable struct {
	Alias      string
	Table      string
	PrimaryKey []string
	Synonyms   []string
	Comment    string
}

// Relationship joins two logical tables on a column.
type Relationship struct {
	Name      string
	From      string
	FromCols  []string
	To        string
	ToColumns []string
}

// Expression is a fact, dimension or metric: Table.Name AS Expr.
type Expression struct {
	Table    string
	Name     string
	Expr     string
	Synonyms []string
	Comment  string
}

// SemanticView describes a CREATE SEMANTIC VIEW statement.
type SemanticView struct {
	Name          string
	Tables        []LogicalTable
	Relationships []Relationship
	Facts         []Expression
	Dimensions    []Expression
	Metrics       []Expression
	Comment       string
}

// DDL renders CREATE OR REPLACE SEMANTIC VIEW in schema. Table references
// are resolved against database.
func (v SemanticView) DDL(database, schema string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE SEMANTIC VIEW %s.%s.%s\n", database, schema, v.Name)

	tables := make([]string, len(v.Tables))
	for i, t := range v.Tables {
		line := fmt.Sprintf("%s AS %s.%s", t.Alias, database, t.Table)
		if len(t.PrimaryKey) > 0 {
			line += fmt.Sprintf(" PRIMARY KEY (%s)", strings.Join(t.PrimaryKey, ", "))
		}
		line += clauses(t.Synonyms, t.Comment)
		tables[i] = line
	}
	writeBlock(&b, "TABLES", tables)

	if len(v.Relationships) > 0 {
		rels := make([]string, len(v.Relationships))
		for i, r := range v.Relationships {
			rels[i] = fmt.Sprintf("%s AS %s (%s) REFERENCES %s (%s)",
				r.Name, r.From, strings.Join(r.FromCols, ", "), r.To, strings.Join(r.ToColumns, ", "))
		}
		writeBlock(&b, "RELATIONSHIPS", rels)
	}

	writeExpressions(&b, "FACTS", v.Facts)
	writeExpressions(&b, "DIMENSIONS", v.Dimensions)
	writeExpressions(&b, "METRICS", v.Metrics)

	if v.Comment != "" {
		fmt.Fprintf(&b, "  COMMENT = %s", QuoteLiteral(v.Comment))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeExpressions(b *strings.Builder, keyword string, exprs []Expression) {
	if len(exprs) == 0 {
		return
	}
	lines := make([]string, len(exprs))
	for i, e := range exprs {
		lines[i] = fmt.Sprintf("%s.%s AS %s", e.Table, e.Name, e.Expr) + clauses(e.Synonyms, e.Comment)
	}
	writeBlock(b, keyword, lines)
}

func writeBlock(b *strings.Builder, keyword string, lines []string) {
	fmt.Fprintf(b, "  %s (\n", keyword)
	for i, line := range lines {
		b.WriteString("    " + line)
		if i < len(lines)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  )\n")
}

func clauses(synonyms []string, comment string) string {
	var s string
	if len(synonyms) > 0 {
		quoted := make([]string, len(synonyms))
		for i, syn := range synonyms {
			quoted[i] = QuoteLiteral(syn)
		}
		s += fmt.Sprintf(" WITH SYNONYMS = (%s)", strings.Join(quoted, ", "))
	}
	if comment != "" {
		s += fmt.Sprintf(" COMMENT = %s", QuoteLiteral(comment))
	}
	return s
}
