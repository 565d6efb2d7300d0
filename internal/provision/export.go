package provision

import (
	"encoding/json"
	"io"
	"time"

	"snowdemo/internal/datagen"
	"snowdemo/internal/prompts"
	"snowdemo/internal/vertical"
	"snowdemo/pkg/errors"
)

// Package is an offline snapshot of what a run would create: the DDL, a
// sample of every generated table and the rendered prompts.
type Package struct {
	Vertical       string                   `json:"vertical"`
	Description    string                   `json:"description"`
	Database       string                   `json:"database"`
	Seed           int64                    `json:"seed"`
	Scale          float64                  `json:"scale"`
	GeneratedAt    time.Time                `json:"generated_at"`
	DDL            []string                 `json:"ddl"`
	Tables         []TableSample            `json:"tables"`
	Prompts        []prompts.RenderedPrompt `json:"prompts"`
	SearchServices []string                 `json:"search_services"`
	SemanticViews  []string                 `json:"semantic_views"`
}

// TableSample holds the first rows of a generated table.
type TableSample struct {
	Name     string                   `json:"name"`
	Columns  []string                 `json:"columns"`
	RowCount int                      `json:"row_count"`
	Rows     []map[string]interface{} `json:"rows"`
}

// ExportOptions control BuildPackage.
type ExportOptions struct {
	Scenario  string
	Scale     float64
	Seed      int64
	DocMin    int
	DocMax    int
	Samples   int
	Warehouse string
	TargetLag string
}

// BuildPackage generates the tables and prompts a run with the same seed
// and scale would load, without touching Snowflake.
func BuildPackage(v *vertical.Vertical, opts ExportOptions) (*Package, error) {
	scenarios, err := v.SelectScenarios(opts.Scenario)
	if err != nil {
		return nil, err
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}

	tables, err := v.Generate(SeededGenerator(opts.Seed, "data"), opts.Scale)
	if err != nil {
		return nil, err
	}

	pkg := &Package{
		Vertical:    v.Name,
		Description: v.Description,
		Database:    v.Database,
		Seed:        opts.Seed,
		Scale:       opts.Scale,
		GeneratedAt: time.Now().UTC(),
		DDL:         append(v.DatabaseDDL(), v.TableStatements()...),
	}

	sources := make(map[string]*datagen.Table, len(tables))
	for _, t := range tables {
		sources[t.Name] = t
		records := t.Records()
		if opts.Samples >= 0 && len(records) > opts.Samples {
			records = records[:opts.Samples]
		}
		pkg.Tables = append(pkg.Tables, TableSample{
			Name:     t.Name,
			Columns:  t.Columns,
			RowCount: t.Len(),
			Rows:     records,
		})
	}

	for _, sc := range scenarios {
		builder := prompts.NewBuilder(SeededGenerator(opts.Seed, "documents/"+sc.Name), opts.DocMin, opts.DocMax)
		rendered, err := builder.Build(sc.Name, sc.Documents, sources)
		if err != nil {
			return nil, err
		}
		pkg.Prompts = append(pkg.Prompts, rendered...)

		for _, svc := range sc.Search {
			pkg.SearchServices = append(pkg.SearchServices, svc.DDL(v.DocSchema, warehouseOrPlaceholder(opts.Warehouse), opts.TargetLag))
		}
	}

	for _, view := range v.SemanticViews {
		pkg.SemanticViews = append(pkg.SemanticViews, view.DDL(v.Database, v.DocSchema))
	}

	return pkg, nil
}

// Write encodes the package as indented JSON.
func (p *Package) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to write export package")
	}
	return nil
}

// SecurityMaster returns the security master a run with seed would load.
func SecurityMaster(seed int64) []datagen.Security {
	return datagen.Securities(SeededGenerator(seed, "data"))
}

func warehouseOrPlaceholder(wh string) string {
	if wh == "" {
		return "<WAREHOUSE>"
	}
	return wh
}
