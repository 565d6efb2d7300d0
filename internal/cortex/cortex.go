// Package cortex builds the SQL that drives Snowflake's managed AI services:
// Cortex Complete for document generation, Cortex Search services, and
// semantic views. The services themselves run inside Snowflake.
package cortex

import (
	"fmt"
	"strings"
)

// DocumentColumns are the columns of every vertical's DOCUMENTS table.
var DocumentColumns = []string{"DOCUMENT_ID", "SCENARIO", "DOC_TYPE", "ENTITY_ID", "TITLE", "CONTENT", "CREATED_AT"}

// QuoteLiteral renders s as a single-quoted SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// CompleteExpr returns the Cortex Complete call for model over column.
func CompleteExpr(model, column string) string {
	return fmt.Sprintf("SNOWFLAKE.CORTEX.COMPLETE(%s, %s)", QuoteLiteral(model), column)
}

// DeleteDocumentsSQL clears one scenario's documents so regeneration
// replaces rather than appends.
func DeleteDocumentsSQL(schema, scenario string) string {
	return fmt.Sprintf("DELETE FROM %s.DOCUMENTS WHERE SCENARIO = %s", schema, QuoteLiteral(scenario))
}

// BulkGenerateDocumentsSQL generates every rendered prompt of scenario into
// a document in one statement.
func BulkGenerateDocumentsSQL(schema, model, scenario string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s.DOCUMENTS (%s)\n", schema, strings.Join(DocumentColumns, ", "))
	b.WriteString("SELECT\n")
	b.WriteString("    PROMPT_ID,\n")
	b.WriteString("    SCENARIO,\n")
	b.WriteString("    DOC_TYPE,\n")
	b.WriteString("    ENTITY_ID,\n")
	b.WriteString("    TITLE,\n")
	fmt.Fprintf(&b, "    %s,\n", CompleteExpr(model, "PROMPT_TEXT"))
	b.WriteString("    CURRENT_TIMESTAMP()\n")
	fmt.Fprintf(&b, "FROM %s.RENDERED_PROMPTS\n", schema)
	fmt.Fprintf(&b, "WHERE SCENARIO = %s", QuoteLiteral(scenario))
	return b.String()
}

// DocumentCountSQL counts generated documents for scenario.
func DocumentCountSQL(schema, scenario string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s.DOCUMENTS WHERE SCENARIO = %s", schema, QuoteLiteral(scenario))
}

// ProbeSQL is a one-row Complete call used to verify the model is
// available to the current role before bulk generation.
func ProbeSQL(model string) string {
	return fmt.Sprintf("SELECT %s AS REPLY", CompleteExpr(model, "'Reply with OK.'"))
}
