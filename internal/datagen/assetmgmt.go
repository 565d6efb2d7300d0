package datagen

import (
	"fmt"
	"time"
)

// Asset management table names, schema-qualified.
const (
	SecurityTable   = "CURATED.DIM_SECURITY"
	IdentifierXref  = "CURATED.DIM_SECURITY_IDENTIFIER_XREF"
	PortfolioTable  = "CURATED.DIM_PORTFOLIO"
	PositionsTable  = "CURATED.FACT_POSITION_DAILY_ABOR"
	weightPrecision = 6
)

var holdingsAsOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

// Security is one row of the security master. It is also the CSV cache
// record format.
type Security struct {
	SecurityID string
	IssuerName string
	Ticker     string
	AssetClass string
	Sector     string
	Country    string
	Currency   string
	ISIN       string
	CUSIP      string
}

// Securities generates the security master: every issuer's equity plus
// bonds issued by a subset of issuers.
func Securities(g *Generator) []Security {
	var out []Security
	seq := 0
	for _, issuer := range Issuers {
		seq++
		out = append(out, newSecurity(g, seq, issuer, "Equity"))
		if g.Chance(0.5) {
			seq++
			out = append(out, newSecurity(g, seq, issuer, "Corporate Bond"))
		}
	}
	for _, country := range []string{"US", "NO", "DE", "GB"} {
		seq++
		out = append(out, newSecurity(g, seq, Issuer{
			Name:    fmt.Sprintf("%s Government", country),
			Ticker:  country + "GB10",
			Sector:  "Government",
			Country: country,
		}, "Government Bond"))
	}
	return out
}

func newSecurity(g *Generator, seq int, issuer Issuer, assetClass string) Security {
	ticker := issuer.Ticker
	if assetClass != "Equity" {
		ticker = fmt.Sprintf("%s %d", issuer.Ticker, g.IntBetween(2027, 2035))
	}
	s := Security{
		SecurityID: ID("SEC", seq),
		IssuerName: issuer.Name,
		Ticker:     ticker,
		AssetClass: assetClass,
		Sector:     issuer.Sector,
		Country:    issuer.Country,
		Currency:   Currencies[issuer.Country],
		ISIN:       issuer.Country + g.Letters(1) + g.Digits(9),
	}
	if issuer.Country == "US" {
		s.CUSIP = g.Digits(6) + g.Letters(2) + g.Digits(1)
	}
	return s
}

// AssetManagement generates the security master, identifier cross
// reference, portfolios and month-end ABOR positions. When securities is
// nil the master is generated; otherwise the given (cached) rows are used.
func AssetManagement(g *Generator, scale float64, securities []Security) []*Table {
	if securities == nil {
		securities = Securities(g)
	}

	secTable := NewTable(SecurityTable,
		"SecurityID", "IssuerName", "Ticker", "AssetClass", "Sector", "CountryOfRisk", "Currency")
	xref := NewTable(IdentifierXref,
		"SecurityID", "IdentifierType", "IdentifierValue", "EffectiveStartDate")

	for _, s := range securities {
		secTable.Add(s.SecurityID, s.IssuerName, s.Ticker, s.AssetClass, s.Sector, s.Country, s.Currency)

		start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
		xref.Add(s.SecurityID, "TICKER", s.Ticker, start)
		if s.ISIN != "" {
			xref.Add(s.SecurityID, "ISIN", s.ISIN, start)
		}
		if s.CUSIP != "" {
			xref.Add(s.SecurityID, "CUSIP", s.CUSIP, start)
		}
	}

	portfolios := NewTable(PortfolioTable,
		"PortfolioID", "PortfolioName", "Strategy", "BaseCurrency", "InceptionDate")
	for i, p := range PortfolioStrategies {
		portfolios.Add(ID("PF", i+1), p.Name, p.Strategy, "USD",
			g.Date(time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)))
	}

	positions := NewTable(PositionsTable,
		"HoldingDate", "PortfolioID", "SecurityID", "Quantity", "MarketValueBase", "PortfolioWeight")

	months := Scale(12, scale, 3)
	dates := monthEnds(holdingsAsOf, months)
	minHold, maxHold := Scale(30, scale, 8), Scale(60, scale, 12)

	for _, pf := range portfolios.Rows {
		pfID := pf[0].(string)
		aum := Round(g.Uniform(2e8, 5e9), 0)
		n := g.IntBetween(minHold, maxHold)
		holdings := Sample(g, securities, n)

		for _, date := range dates {
			aum = aum * (1 + g.Uniform(-0.04, 0.05))
			weights := g.Weights(len(holdings), weightPrecision)
			for i, s := range holdings {
				mv := Round(aum*weights[i], 2)
				price := g.Uniform(20, 600)
				positions.Add(date, pfID, s.SecurityID, Round(mv/price, 0), mv, weights[i])
			}
		}
	}

	return []*Table{secTable, xref, portfolios, positions}
}

// monthEnds returns n month-end dates ending at asOf, oldest first.
func monthEnds(asOf time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	first := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		monthStart := first.AddDate(0, -(n - 1 - i), 0)
		out[i] = monthStart.AddDate(0, 1, -1)
	}
	return out
}
