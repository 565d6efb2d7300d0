package vertical

import (
	"snowdemo/internal/cortex"
	"snowdemo/internal/datagen"
	"snowdemo/internal/prompts"
	"snowdemo/internal/validate"
)

const researchDDL = `
CREATE OR REPLACE TABLE RAW.COMPANIES (
    COMPANY_ID VARCHAR(20) PRIMARY KEY,
    COMPANY_NAME VARCHAR(200),
    TICKER VARCHAR(10),
    SECTOR VARCHAR(100),
    COUNTRY VARCHAR(2),
    MARKET_CAP_USD_BN NUMBER(10,1),
    ANALYST VARCHAR(100)
);

CREATE OR REPLACE TABLE RAW.FINANCIALS (
    COMPANY_ID VARCHAR(20) REFERENCES RAW.COMPANIES(COMPANY_ID),
    FISCAL_YEAR INTEGER,
    FISCAL_QUARTER INTEGER,
    REVENUE_USD_M NUMBER(14,1),
    EBITDA_USD_M NUMBER(14,1),
    NET_INCOME_USD_M NUMBER(14,1),
    EPS NUMBER(10,2),
    GROSS_MARGIN NUMBER(4,3),
    DEBT_TO_EQUITY NUMBER(6,2)
);

CREATE OR REPLACE TABLE RAW.ANALYST_RATINGS (
    COMPANY_ID VARCHAR(20) REFERENCES RAW.COMPANIES(COMPANY_ID),
    RATING_DATE DATE,
    ANALYST VARCHAR(100),
    RATING VARCHAR(20),
    PRICE_TARGET NUMBER(10,2)
);
`

// Research is the investment research demo: equity research and earnings
// season coverage of a global large-cap universe.
func Research() *Vertical {
	return finalize(&Vertical{
		Name:        "research",
		Aliases:     []string{"investment_research"},
		Description: "Equity research and earnings analysis",
		Database:    "RESEARCH_AI_DEMO",
		Schemas:     []string{"RAW"},
		DocSchema:   "RAW",
		TableDDL:    researchDDL,
		Scenarios: []Scenario{
			{
				Name:        "equity_research",
				Description: "Analyst building an investment case",
				Documents: []prompts.DocumentType{
					{
						Name:      "initiation_report",
						Source:    datagen.ResearchCompanies,
						EntityKey: "COMPANY_ID",
						Title:     "Initiating coverage: {{.COMPANY_NAME}} ({{.TICKER}})",
						Template: `You are {{.ANALYST}}, an equity research analyst. Write an initiation of coverage report on
{{.COMPANY_NAME}} ({{.TICKER}}), a {{.SECTOR}} company from {{.COUNTRY}} with a market capitalisation of
{{.MARKET_CAP_USD_BN}} billion USD. Include the investment thesis, competitive position, valuation and key risks.`,
					},
					{
						Name:      "rating_change",
						Source:    datagen.ResearchRatings,
						EntityKey: "COMPANY_ID",
						Title:     "{{.RATING}} rating note {{.COMPANY_ID}} ({{.RATING_DATE}})",
						Template: `Write a short rating note by {{.ANALYST}} dated {{.RATING_DATE}} setting the rating on company
{{.COMPANY_ID}} to {{.RATING}} with a price target of {{usd .PRICE_TARGET}}. Explain what changed in the thesis.`,
					},
				},
				Search: []cortex.SearchService{documentSearch("EQUITY_RESEARCH_SEARCH", "RAW", "equity_research")},
			},
			{
				Name:        "earnings",
				Description: "Analyst reviewing quarterly results",
				Documents: []prompts.DocumentType{
					{
						Name:      "earnings_call_transcript",
						Source:    datagen.ResearchFinancials,
						EntityKey: "COMPANY_ID",
						Title:     "Q{{.FISCAL_QUARTER}} {{.FISCAL_YEAR}} earnings call {{.COMPANY_ID}}",
						Template: `Write an excerpt of the Q{{.FISCAL_QUARTER}} {{.FISCAL_YEAR}} earnings call of company {{.COMPANY_ID}}.
Revenue was {{.REVENUE_USD_M}} million USD, EBITDA {{.EBITDA_USD_M}} million, net income {{.NET_INCOME_USD_M}} million,
EPS {{.EPS}} and gross margin {{pct .GROSS_MARGIN}}. Include CEO remarks, CFO guidance and two analyst questions.`,
					},
					{
						Name:      "earnings_review",
						Source:    datagen.ResearchFinancials,
						EntityKey: "COMPANY_ID",
						Title:     "Q{{.FISCAL_QUARTER}} {{.FISCAL_YEAR}} results review {{.COMPANY_ID}}",
						Template: `Write a results review for company {{.COMPANY_ID}} for Q{{.FISCAL_QUARTER}} {{.FISCAL_YEAR}}: revenue
{{.REVENUE_USD_M}} million USD, EPS {{.EPS}}, debt to equity {{.DEBT_TO_EQUITY}}. State whether results beat or missed
consensus and how estimates change.`,
					},
				},
				Search: []cortex.SearchService{documentSearch("EARNINGS_SEARCH", "RAW", "earnings")},
			},
		},
		SemanticViews: []cortex.SemanticView{fundamentalsView()},
		generate: func(_ *Vertical, g *datagen.Generator, scale float64) ([]*datagen.Table, error) {
			return datagen.Research(g, scale), nil
		},
		checks: func(*Vertical) []validate.Check {
			return []validate.Check{
				orphans("financials reference companies", datagen.ResearchFinancials, "COMPANY_ID", datagen.ResearchCompanies, "COMPANY_ID"),
				validate.ZeroRows{
					Label: "one row per company quarter",
					Query: `SELECT COUNT(*) FROM (
    SELECT COMPANY_ID, FISCAL_YEAR, FISCAL_QUARTER
    FROM RAW.FINANCIALS
    GROUP BY COMPANY_ID, FISCAL_YEAR, FISCAL_QUARTER
    HAVING COUNT(*) > 1
)`,
				},
			}
		},
	})
}

func fundamentalsView() cortex.SemanticView {
	return cortex.SemanticView{
		Name: "FUNDAMENTALS_SEMANTIC_VIEW",
		Tables: []cortex.LogicalTable{
			{Alias: "companies", Table: datagen.ResearchCompanies, PrimaryKey: []string{"COMPANY_ID"}, Synonyms: []string{"coverage universe"}},
			{Alias: "financials", Table: datagen.ResearchFinancials, PrimaryKey: []string{"COMPANY_ID", "FISCAL_YEAR", "FISCAL_QUARTER"}},
			{Alias: "ratings", Table: datagen.ResearchRatings},
		},
		Relationships: []cortex.Relationship{
			{Name: "financials_company", From: "financials", FromCols: []string{"COMPANY_ID"}, To: "companies", ToColumns: []string{"COMPANY_ID"}},
			{Name: "rating_company", From: "ratings", FromCols: []string{"COMPANY_ID"}, To: "companies", ToColumns: []string{"COMPANY_ID"}},
		},
		Facts: []cortex.Expression{
			{Table: "financials", Name: "revenue", Expr: "REVENUE_USD_M"},
			{Table: "financials", Name: "net_income", Expr: "NET_INCOME_USD_M"},
			{Table: "ratings", Name: "price_target", Expr: "PRICE_TARGET"},
		},
		Dimensions: []cortex.Expression{
			{Table: "companies", Name: "company_name", Expr: "COMPANY_NAME"},
			{Table: "companies", Name: "ticker", Expr: "TICKER"},
			{Table: "companies", Name: "sector", Expr: "SECTOR", Synonyms: []string{"industry"}},
			{Table: "financials", Name: "fiscal_year", Expr: "FISCAL_YEAR"},
			{Table: "financials", Name: "fiscal_quarter", Expr: "FISCAL_QUARTER"},
			{Table: "ratings", Name: "rating", Expr: "RATING", Synonyms: []string{"recommendation"}},
		},
		Metrics: []cortex.Expression{
			{Table: "financials", Name: "total_revenue", Expr: "SUM(financials.revenue)"},
			{Table: "financials", Name: "total_net_income", Expr: "SUM(financials.net_income)"},
			{Table: "financials", Name: "average_gross_margin", Expr: "AVG(financials.GROSS_MARGIN)"},
			{Table: "ratings", Name: "average_price_target", Expr: "AVG(ratings.price_target)"},
		},
		Comment: "Quarterly fundamentals and analyst ratings",
	}
}
