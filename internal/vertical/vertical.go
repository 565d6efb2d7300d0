// Package vertical defines the four demo verticals: their schemas, data
// generators, document types, search services, semantic views and
// acceptance checks.
package vertical

import (
	"fmt"
	"sort"
	"strings"

	"snowdemo/internal/cortex"
	"snowdemo/internal/datagen"
	"snowdemo/internal/prompts"
	"snowdemo/internal/snowflake"
	"snowdemo/internal/validate"
	"snowdemo/pkg/errors"
	"snowdemo/pkg/models"
)

// Scenario is a demo storyline with its own documents and search services.
type Scenario struct {
	Name        string
	Description string
	Documents   []prompts.DocumentType
	Search      []cortex.SearchService
}

// Vertical is one demo database.
type Vertical struct {
	Name        string
	Aliases     []string
	Description string
	Database    string
	Schemas     []string
	// DocSchema holds DOCUMENTS and RENDERED_PROMPTS.
	DocSchema     string
	TableDDL      string
	Scenarios     []Scenario
	SemanticViews []cortex.SemanticView
	Disabled      bool

	// SecuritiesCSV, when set, replaces the generated security master.
	SecuritiesCSV string

	generate func(v *Vertical, g *datagen.Generator, scale float64) ([]*datagen.Table, error)
	checks   func(v *Vertical) []validate.Check
}

// All returns fresh copies of every vertical in display order.
func All() []*Vertical {
	return []*Vertical{Banking(), AssetManagement(), Insurance(), Research()}
}

// Names returns the canonical vertical names.
func Names() []string {
	var names []string
	for _, v := range All() {
		names = append(names, v.Name)
	}
	return names
}

// Get resolves a vertical by name or alias; dashes and underscores are
// interchangeable.
func Get(name string) (*Vertical, error) {
	key := normalize(name)
	for _, v := range All() {
		if normalize(v.Name) == key {
			return v, nil
		}
		for _, a := range v.Aliases {
			if normalize(a) == key {
				return v, nil
			}
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("Unknown vertical %q", name)).
		WithSuggestions(fmt.Sprintf("Available verticals: %s", strings.Join(Names(), ", "))).
		AsFatal()
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

// Configure applies config overrides for this vertical.
func (v *Vertical) Configure(cfg *models.Config) {
	if cfg == nil {
		return
	}
	if vc, ok := cfg.Verticals[v.Name]; ok {
		if vc.Database != "" {
			v.Database = vc.Database
		}
		v.Disabled = vc.Disabled
	}
	if v.Name == "asset_management" && cfg.AssetManagement.SecuritiesCSV != "" {
		v.SecuritiesCSV = cfg.AssetManagement.SecuritiesCSV
	}
}

// Scenario returns the named scenario.
func (v *Vertical) Scenario(name string) (Scenario, error) {
	for _, s := range v.Scenarios {
		if s.Name == normalize(name) {
			return s, nil
		}
	}
	names := make([]string, len(v.Scenarios))
	for i, s := range v.Scenarios {
		names[i] = s.Name
	}
	return Scenario{}, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("Unknown scenario %q for %s", name, v.Name)).
		WithSuggestions(fmt.Sprintf("Available scenarios: %s, all", strings.Join(names, ", "))).
		AsFatal()
}

// SelectScenarios returns every scenario for "" or "all", else the named one.
func (v *Vertical) SelectScenarios(name string) ([]Scenario, error) {
	if name == "" || strings.EqualFold(name, "all") {
		return v.Scenarios, nil
	}
	s, err := v.Scenario(name)
	if err != nil {
		return nil, err
	}
	return []Scenario{s}, nil
}

// DatabaseDDL creates the database and its schemas. CREATE OR REPLACE
// DATABASE drops anything left by a previous run.
func (v *Vertical) DatabaseDDL() []string {
	stmts := []string{
		fmt.Sprintf("CREATE OR REPLACE DATABASE %s", v.Database),
		fmt.Sprintf("USE DATABASE %s", v.Database),
	}
	for _, s := range v.Schemas {
		stmts = append(stmts, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s.%s", v.Database, s))
	}
	return stmts
}

// TableStatements returns the CREATE TABLE statements, including the
// document tables every vertical shares.
func (v *Vertical) TableStatements() []string {
	stmts := snowflake.SplitStatements(v.TableDDL)
	return append(stmts, documentTablesDDL(v.DocSchema)...)
}

func documentTablesDDL(schema string) []string {
	return []string{
		fmt.Sprintf(`CREATE OR REPLACE TABLE %s.RENDERED_PROMPTS (
    PROMPT_ID VARCHAR(36) PRIMARY KEY,
    SCENARIO VARCHAR(50),
    DOC_TYPE VARCHAR(50),
    ENTITY_ID VARCHAR(50),
    TITLE VARCHAR(500),
    PROMPT_TEXT VARCHAR
)`, schema),
		fmt.Sprintf(`CREATE OR REPLACE TABLE %s.DOCUMENTS (
    DOCUMENT_ID VARCHAR(36) PRIMARY KEY,
    SCENARIO VARCHAR(50),
    DOC_TYPE VARCHAR(50),
    ENTITY_ID VARCHAR(50),
    TITLE VARCHAR(500),
    CONTENT VARCHAR,
    CREATED_AT TIMESTAMP_NTZ
) CHANGE_TRACKING = TRUE`, schema),
	}
}

// Generate produces the structured tables for this vertical.
func (v *Vertical) Generate(g *datagen.Generator, scale float64) ([]*datagen.Table, error) {
	return v.generate(v, g, scale)
}

// PromptTable is the schema-qualified RENDERED_PROMPTS table name.
func (v *Vertical) PromptTable() string {
	return v.DocSchema + ".RENDERED_PROMPTS"
}

// Checks returns the acceptance checks: a non-empty count for every
// generated table, the document count per scenario, then the vertical's own
// invariants.
func (v *Vertical) Checks(tables []string, scenarios []Scenario, docMin, docMax int) []validate.Check {
	var checks []validate.Check
	for _, t := range tables {
		checks = append(checks, validate.CountRange{
			Label: t + " rows",
			Query: fmt.Sprintf("SELECT COUNT(*) FROM %s", t),
			Min:   1,
		})
	}
	for _, s := range scenarios {
		checks = append(checks, validate.CountRange{
			Label: s.Name + " documents",
			Query: cortex.DocumentCountSQL(v.DocSchema, s.Name),
			Min:   int64(docMin),
			Max:   int64(docMax),
		})
	}
	if v.checks != nil {
		checks = append(checks, v.checks(v)...)
	}
	return checks
}

// TableNames lists the structured tables declared in TableDDL, sorted.
func (v *Vertical) TableNames() []string {
	var names []string
	for _, stmt := range snowflake.SplitStatements(v.TableDDL) {
		fields := strings.Fields(stmt)
		for i, f := range fields {
			if strings.EqualFold(f, "TABLE") && i+1 < len(fields) {
				names = append(names, strings.TrimSuffix(fields[i+1], "("))
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// documentSearch indexes one scenario's documents.
func documentSearch(name, schema, scenario string) cortex.SearchService {
	return cortex.SearchService{
		Name:       name,
		Scenario:   scenario,
		On:         "CONTENT",
		Attributes: []string{"DOC_TYPE", "ENTITY_ID", "TITLE"},
		Source: fmt.Sprintf(`SELECT DOCUMENT_ID, TITLE, CONTENT, DOC_TYPE, ENTITY_ID, CREATED_AT
FROM %s.DOCUMENTS
WHERE SCENARIO = %s`, schema, cortex.QuoteLiteral(scenario)),
	}
}

func namedEntity(label, table, column, value string) validate.Check {
	return validate.Exists{
		Label: label,
		Query: fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = %s", table, column, cortex.QuoteLiteral(value)),
	}
}

func orphans(label, child, childKey, parent, parentKey string) validate.Check {
	return validate.ZeroRows{
		Label: label,
		Query: fmt.Sprintf("SELECT COUNT(*) FROM %s c LEFT JOIN %s p ON p.%s = c.%s WHERE p.%s IS NULL",
			child, parent, parentKey, childKey, parentKey),
	}
}

// finalize stamps each document type with its scenario.
func finalize(v *Vertical) *Vertical {
	for i := range v.Scenarios {
		for j := range v.Scenarios[i].Documents {
			v.Scenarios[i].Documents[j].Scenario = v.Scenarios[i].Name
		}
	}
	return v
}
