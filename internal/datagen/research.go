package datagen

import "time"

// Research table names, schema-qualified.
const (
	ResearchCompanies  = "RAW.COMPANIES"
	ResearchFinancials = "RAW.FINANCIALS"
	ResearchRatings    = "RAW.ANALYST_RATINGS"
)

// Research generates the coverage universe, quarterly financials and analyst
// ratings for the investment research demo.
func Research(g *Generator, scale float64) []*Table {
	companies := NewTable(ResearchCompanies,
		"COMPANY_ID", "COMPANY_NAME", "TICKER", "SECTOR", "COUNTRY", "MARKET_CAP_USD_BN", "ANALYST")

	for i, issuer := range Issuers {
		companies.Add(ID("CO", i+1), issuer.Name, issuer.Ticker, issuer.Sector, issuer.Country,
			Round(g.Uniform(15, 3200), 1), Choice(g, Analysts))
	}

	financials := NewTable(ResearchFinancials,
		"COMPANY_ID", "FISCAL_YEAR", "FISCAL_QUARTER", "REVENUE_USD_M", "EBITDA_USD_M",
		"NET_INCOME_USD_M", "EPS", "GROSS_MARGIN", "DEBT_TO_EQUITY")

	quarters := Scale(8, scale, 4)
	for _, co := range companies.Rows {
		revenue := co[5].(float64) * g.Uniform(8, 40)
		for q := 0; q < quarters; q++ {
			year, quarter := 2023+(q/4), q%4+1
			revenue = revenue * (1 + g.Uniform(-0.05, 0.09))
			margin := Round(g.Uniform(0.25, 0.75), 3)
			ebitda := revenue * g.Uniform(0.12, 0.45)
			net := ebitda * g.Uniform(0.3, 0.7)
			financials.Add(co[0], year, quarter, Round(revenue, 1), Round(ebitda, 1), Round(net, 1),
				Round(net/g.Uniform(200, 5000), 2), margin, Round(g.Uniform(0.05, 2.5), 2))
		}
	}

	ratings := NewTable(ResearchRatings,
		"COMPANY_ID", "RATING_DATE", "ANALYST", "RATING", "PRICE_TARGET")
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	for _, co := range companies.Rows {
		for i := 0; i < g.IntBetween(1, 4); i++ {
			ratings.Add(co[0], g.Date(from, to), co[6], g.Weighted(Ratings), Round(g.Uniform(20, 900), 2))
		}
	}

	return []*Table{companies, financials, ratings}
}
