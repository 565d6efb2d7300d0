package vertical

import (
	"snowdemo/internal/cortex"
	"snowdemo/internal/datagen"
	"snowdemo/internal/prompts"
	"snowdemo/internal/validate"
)

const assetManagementDDL = `
CREATE OR REPLACE TABLE CURATED.DIM_SECURITY (
    SecurityID VARCHAR(20) PRIMARY KEY,
    IssuerName VARCHAR(200),
    Ticker VARCHAR(30),
    AssetClass VARCHAR(30),
    Sector VARCHAR(100),
    CountryOfRisk VARCHAR(2),
    Currency VARCHAR(3)
);

CREATE OR REPLACE TABLE CURATED.DIM_SECURITY_IDENTIFIER_XREF (
    SecurityID VARCHAR(20) REFERENCES CURATED.DIM_SECURITY(SecurityID),
    IdentifierType VARCHAR(10),
    IdentifierValue VARCHAR(30),
    EffectiveStartDate DATE
);

CREATE OR REPLACE TABLE CURATED.DIM_PORTFOLIO (
    PortfolioID VARCHAR(20) PRIMARY KEY,
    PortfolioName VARCHAR(200),
    Strategy VARCHAR(50),
    BaseCurrency VARCHAR(3),
    InceptionDate DATE
);

CREATE OR REPLACE TABLE CURATED.FACT_POSITION_DAILY_ABOR (
    HoldingDate DATE,
    PortfolioID VARCHAR(20) REFERENCES CURATED.DIM_PORTFOLIO(PortfolioID),
    SecurityID VARCHAR(20) REFERENCES CURATED.DIM_SECURITY(SecurityID),
    Quantity NUMBER(18,0),
    MarketValueBase NUMBER(18,2),
    PortfolioWeight NUMBER(9,6)
);
`

// weightCheck counts (HoldingDate, PortfolioID) groups whose weights do not
// sum to one.
const weightCheck = `SELECT COUNT(*) FROM (
    SELECT HoldingDate, PortfolioID
    FROM CURATED.FACT_POSITION_DAILY_ABOR
    GROUP BY HoldingDate, PortfolioID
    HAVING ABS(SUM(PortfolioWeight) - 1) > 0.001
)`

// xrefCheck counts securities without any identifier.
const xrefCheck = `SELECT COUNT(*) FROM CURATED.DIM_SECURITY s
LEFT JOIN (
    SELECT SecurityID, COUNT(DISTINCT IdentifierType) AS IDENTIFIER_TYPES
    FROM CURATED.DIM_SECURITY_IDENTIFIER_XREF
    GROUP BY SecurityID
) x ON x.SecurityID = s.SecurityID
WHERE COALESCE(x.IDENTIFIER_TYPES, 0) < 1`

// AssetManagement is the investment management demo: portfolio managers
// and research analysts working off an ABOR position book.
func AssetManagement() *Vertical {
	return finalize(&Vertical{
		Name:        "asset_management",
		Aliases:     []string{"am", "asset"},
		Description: "Portfolio and research copilots over ABOR positions",
		Database:    "ASSET_MGMT_AI_DEMO",
		Schemas:     []string{"CURATED"},
		DocSchema:   "CURATED",
		TableDDL:    assetManagementDDL,
		Scenarios: []Scenario{
			{
				Name:        "portfolio_copilot",
				Description: "Portfolio manager preparing a client review",
				Documents: []prompts.DocumentType{
					{
						Name:      "portfolio_commentary",
						Source:    datagen.PortfolioTable,
						EntityKey: "PortfolioID",
						Title:     "Quarterly commentary: {{.PortfolioName}}",
						Template: `Write a quarterly portfolio commentary of about 350 words for {{.PortfolioName}}, a {{lower .Strategy}}
strategy in {{.BaseCurrency}} launched on {{.InceptionDate}}. Cover performance drivers, positioning changes,
top contributors and detractors, and the outlook. Write for institutional clients.`,
					},
					{
						Name:      "investment_policy",
						Source:    datagen.PortfolioTable,
						EntityKey: "PortfolioID",
						Title:     "Investment policy statement: {{.PortfolioName}}",
						Template: `Draft the investment policy statement for {{.PortfolioName}} ({{.Strategy}}). Include the objective,
benchmark, concentration limits (single issuer, sector, country), ESG exclusions and the rebalancing policy.`,
					},
				},
				Search: []cortex.SearchService{documentSearch("PORTFOLIO_DOCS_SEARCH", "CURATED", "portfolio_copilot")},
			},
			{
				Name:        "research_copilot",
				Description: "Analyst reviewing broker research on held securities",
				Documents: []prompts.DocumentType{
					{
						Name:      "broker_research",
						Source:    datagen.SecurityTable,
						EntityKey: "SecurityID",
						Title:     "Broker research: {{.IssuerName}} ({{.Ticker}})",
						Template: `You are a sell-side analyst. Write a research note on {{.IssuerName}} ({{.Ticker}}), a {{.Sector}} issuer
with country of risk {{.CountryOfRisk}}, covering the {{.AssetClass}} instrument. Include an investment thesis,
valuation view, key risks and a rating of Buy, Hold or Sell.`,
					},
					{
						Name:      "earnings_summary",
						Source:    datagen.SecurityTable,
						EntityKey: "SecurityID",
						Title:     "Earnings call summary: {{.IssuerName}}",
						Template: `Summarise the latest earnings call of {{.IssuerName}} ({{.Ticker}}) in {{.Currency}} terms. Cover revenue,
margins, guidance changes and notable analyst questions. Keep it under 300 words.`,
					},
				},
				Search: []cortex.SearchService{documentSearch("RESEARCH_DOCS_SEARCH", "CURATED", "research_copilot")},
			},
		},
		SemanticViews: []cortex.SemanticView{holdingsView()},
		generate: func(v *Vertical, g *datagen.Generator, scale float64) ([]*datagen.Table, error) {
			var securities []datagen.Security
			if v.SecuritiesCSV != "" {
				cached, err := datagen.ReadSecuritiesCSV(v.SecuritiesCSV)
				if err != nil {
					return nil, err
				}
				securities = cached
			}
			return datagen.AssetManagement(g, scale, securities), nil
		},
		checks: func(*Vertical) []validate.Check {
			return []validate.Check{
				validate.ZeroRows{Label: "portfolio weights sum to 1", Query: weightCheck},
				validate.ZeroRows{Label: "every security has an identifier", Query: xrefCheck},
				orphans("positions reference securities", datagen.PositionsTable, "SecurityID", datagen.SecurityTable, "SecurityID"),
			}
		},
	})
}

func holdingsView() cortex.SemanticView {
	return cortex.SemanticView{
		Name: "HOLDINGS_SEMANTIC_VIEW",
		Tables: []cortex.LogicalTable{
			{Alias: "holdings", Table: datagen.PositionsTable, Synonyms: []string{"positions"}},
			{Alias: "securities", Table: datagen.SecurityTable, PrimaryKey: []string{"SecurityID"}},
			{Alias: "portfolios", Table: datagen.PortfolioTable, PrimaryKey: []string{"PortfolioID"}, Synonyms: []string{"funds"}},
		},
		Relationships: []cortex.Relationship{
			{Name: "holding_security", From: "holdings", FromCols: []string{"SecurityID"}, To: "securities", ToColumns: []string{"SecurityID"}},
			{Name: "holding_portfolio", From: "holdings", FromCols: []string{"PortfolioID"}, To: "portfolios", ToColumns: []string{"PortfolioID"}},
		},
		Facts: []cortex.Expression{
			{Table: "holdings", Name: "market_value", Expr: "MarketValueBase"},
			{Table: "holdings", Name: "weight", Expr: "PortfolioWeight"},
		},
		Dimensions: []cortex.Expression{
			{Table: "holdings", Name: "holding_date", Expr: "HoldingDate"},
			{Table: "portfolios", Name: "portfolio_name", Expr: "PortfolioName", Synonyms: []string{"fund name"}},
			{Table: "portfolios", Name: "strategy", Expr: "Strategy"},
			{Table: "securities", Name: "issuer", Expr: "IssuerName", Synonyms: []string{"company"}},
			{Table: "securities", Name: "ticker", Expr: "Ticker"},
			{Table: "securities", Name: "sector", Expr: "Sector"},
			{Table: "securities", Name: "asset_class", Expr: "AssetClass"},
		},
		Metrics: []cortex.Expression{
			{Table: "holdings", Name: "total_market_value", Expr: "SUM(holdings.market_value)"},
			{Table: "holdings", Name: "total_weight", Expr: "SUM(holdings.weight)"},
			{Table: "holdings", Name: "holding_count", Expr: "COUNT(holdings.SecurityID)"},
		},
		Comment: "Month-end ABOR positions by portfolio and security",
	}
}
