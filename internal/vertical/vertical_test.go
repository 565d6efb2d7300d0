package vertical

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowdemo/internal/datagen"
	"snowdemo/internal/prompts"
	"snowdemo/internal/validate"
	"snowdemo/pkg/errors"
	"snowdemo/pkg/models"
)

func TestGetByNameAndAlias(t *testing.T) {
	for _, name := range []string{"banking", "bank", "asset-management", "AM", "insurance", "investment_research"} {
		v, err := Get(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, v.Database)
	}

	_, err := Get("retail")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestGetReturnsFreshCopies(t *testing.T) {
	a, _ := Get("banking")
	a.Database = "CHANGED"
	b, _ := Get("banking")
	assert.Equal(t, "BANK_AI_DEMO", b.Database)
}

func TestConfigure(t *testing.T) {
	cfg := models.Defaults()
	cfg.Verticals = map[string]models.VerticalConfig{"asset_management": {Database: "SAM_DEMO", Disabled: true}}
	cfg.AssetManagement.SecuritiesCSV = "cache/securities.csv"

	v, _ := Get("asset_management")
	v.Configure(&cfg)
	assert.Equal(t, "SAM_DEMO", v.Database)
	assert.True(t, v.Disabled)
	assert.Equal(t, "cache/securities.csv", v.SecuritiesCSV)

	b, _ := Get("banking")
	b.Configure(&cfg)
	assert.Empty(t, b.SecuritiesCSV)
}

func TestSelectScenarios(t *testing.T) {
	v := Insurance()

	all, err := v.SelectScenarios("all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := v.SelectScenarios("claims")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "claims", one[0].Name)

	_, err = v.SelectScenarios("aml")
	require.Error(t, err)
}

func TestDDL(t *testing.T) {
	v := Banking()
	ddl := v.DatabaseDDL()
	assert.Equal(t, "CREATE OR REPLACE DATABASE BANK_AI_DEMO", ddl[0])
	assert.Contains(t, ddl, "CREATE SCHEMA IF NOT EXISTS BANK_AI_DEMO.MARKET_DATA")

	stmts := v.TableStatements()
	assert.Len(t, stmts, 7)
	assert.True(t, strings.HasPrefix(stmts[len(stmts)-1], "CREATE OR REPLACE TABLE RAW.DOCUMENTS"))

	assert.Equal(t, []string{
		"MARKET_DATA.COMPANIES", "MARKET_DATA.DAILY_PRICES", "RAW.CUSTOMERS", "RAW.LOANS", "RAW.TRANSACTIONS",
	}, v.TableNames())
}

// Every vertical's generated tables must match its DDL, and every prompt
// template must render against the rows it is fed.
func TestVerticalsAreConsistent(t *testing.T) {
	for _, v := range All() {
		t.Run(v.Name, func(t *testing.T) {
			tables, err := v.Generate(datagen.New(42), 0.2)
			require.NoError(t, err)

			sources := map[string]*datagen.Table{}
			var names []string
			for _, tbl := range tables {
				sources[tbl.Name] = tbl
				names = append(names, tbl.Name)
				assert.NotZero(t, tbl.Len(), tbl.Name)
			}
			assert.ElementsMatch(t, v.TableNames(), names)

			builder := prompts.NewBuilder(datagen.New(1), 7, 10)
			for _, s := range v.Scenarios {
				require.NotEmpty(t, s.Search)
				for _, dt := range s.Documents {
					assert.Equal(t, s.Name, dt.Scenario)
				}
				rendered, err := builder.Build(s.Name, s.Documents, sources)
				require.NoError(t, err, s.Name)
				assert.GreaterOrEqual(t, len(rendered), 7)
				assert.LessOrEqual(t, len(rendered), 10)
			}

			for _, view := range v.SemanticViews {
				assert.Contains(t, view.DDL(v.Database, v.DocSchema), "CREATE OR REPLACE SEMANTIC VIEW")
			}
		})
	}
}

func TestChecks(t *testing.T) {
	v := AssetManagement()
	checks := v.Checks(v.TableNames(), v.Scenarios, 35, 50)

	var labels []string
	for _, c := range checks {
		labels = append(labels, c.Name())
	}
	assert.Contains(t, labels, "portfolio_copilot documents")
	assert.Contains(t, labels, "portfolio weights sum to 1")
	assert.Contains(t, labels, "CURATED.FACT_POSITION_DAILY_ABOR rows")

	for _, c := range checks {
		if c.Name() == "research_copilot documents" {
			cr := c.(validate.CountRange)
			assert.Equal(t, int64(35), cr.Min)
			assert.Equal(t, int64(50), cr.Max)
			assert.Contains(t, cr.Query, "WHERE SCENARIO = 'research_copilot'")
		}
	}

	b := Banking()
	var found bool
	for _, c := range b.Checks(nil, nil, 1, 1) {
		if strings.Contains(c.SQL(), "MARKET_DATA.COMPANIES WHERE COMPANY_NAME = 'Helio Salmon AS'") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAssetManagementUsesSecuritiesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "securities.csv")
	secs := datagen.Securities(datagen.New(5))[:12]
	require.NoError(t, datagen.WriteSecuritiesCSV(path, secs))

	v := AssetManagement()
	v.SecuritiesCSV = path
	tables, err := v.Generate(datagen.New(42), 0.2)
	require.NoError(t, err)
	assert.Equal(t, 12, tables[0].Len())

	v.SecuritiesCSV = filepath.Join(t.TempDir(), "missing.csv")
	_, err = v.Generate(datagen.New(42), 0.2)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}
