package datagen

import (
	"fmt"
	"sort"
	"time"
)

// Banking table names, schema-qualified.
const (
	BankCustomers    = "RAW.CUSTOMERS"
	BankLoans        = "RAW.LOANS"
	BankTransactions = "RAW.TRANSACTIONS"
	MarketCompanies  = "MARKET_DATA.COMPANIES"
	MarketPrices     = "MARKET_DATA.DAILY_PRICES"
)

var bankingEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
var bankingAsOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

// Banking generates corporate banking customers, their loans and
// transactions, plus the listed-company market data the credit analyst
// cross-references.
func Banking(g *Generator, scale float64) []*Table {
	customers := NewTable(BankCustomers,
		"CUSTOMER_ID", "COMPANY_NAME", "ORG_NUMBER", "INDUSTRY", "MUNICIPALITY", "COUNTY",
		"EMPLOYEES", "ANNUAL_REVENUE_NOK", "CREDIT_RATING", "RISK_SEGMENT", "ONBOARDED_DATE")

	n := Scale(500, scale, len(NamedCompanies)+20)
	used := map[string]bool{}

	for i := 0; i < n; i++ {
		var name, industry string
		var muni Municipality
		if i < len(NamedCompanies) {
			nc := NamedCompanies[i]
			name, industry, muni = nc.Name, nc.Industry, nc.Municipality
		} else {
			name = uniqueCompanyName(g, used)
			industry = Choice(g, Industries)
			muni = Choice(g, Municipalities)
		}
		used[name] = true

		employees := g.IntBetween(5, 2500)
		revenue := Round(float64(employees)*g.Uniform(0.8, 4.5)*1_000_000, 0)
		rating := Choice(g, CreditRatings)

		customers.Add(
			ID("CUST", i+1),
			name,
			"9"+g.Digits(8),
			industry,
			muni.Name,
			muni.County,
			employees,
			revenue,
			rating,
			riskSegment(rating),
			g.Date(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), bankingEpoch),
		)
	}

	loans := NewTable(BankLoans,
		"LOAN_ID", "CUSTOMER_ID", "PRODUCT", "PRINCIPAL_NOK", "INTEREST_RATE",
		"ORIGINATION_DATE", "MATURITY_DATE", "STATUS", "LTV_RATIO", "DSCR")

	loanSeq := 0
	for _, row := range customers.Rows {
		count := g.IntBetween(1, 3)
		revenue := row[7].(float64)
		for j := 0; j < count; j++ {
			loanSeq++
			start := g.Date(bankingEpoch.AddDate(-5, 0, 0), bankingAsOf)
			dscr := Round(g.Uniform(0.7, 3.2), 2)
			status := "Performing"
			switch {
			case dscr < 0.9:
				status = "Non-Performing"
			case dscr < 1.1:
				status = "Watchlist"
			}
			loans.Add(
				ID("LOAN", loanSeq),
				row[0],
				Choice(g, LoanProducts),
				Round(revenue*g.Uniform(0.05, 0.6), 0),
				Round(g.Uniform(0.045, 0.095), 4),
				start,
				start.AddDate(g.IntBetween(3, 15), 0, 0),
				status,
				Round(g.Uniform(0.35, 0.9), 2),
				dscr,
			)
		}
	}

	transactions := NewTable(BankTransactions,
		"TRANSACTION_ID", "CUSTOMER_ID", "TRANSACTION_DATE", "AMOUNT_NOK",
		"COUNTERPARTY_COUNTRY", "CHANNEL", "IS_FLAGGED")

	txCount := Scale(5000, scale, 200)
	for i := 0; i < txCount; i++ {
		cust := Choice(g, customers.Rows)
		country := g.Weighted(CounterpartyCountries)
		amount := Round(g.Uniform(1_000, 2_500_000), 2)
		flagged := amount > 2_000_000 || (isHighRisk(country) && g.Chance(0.6))
		transactions.Add(
			ID("TX", i+1),
			cust[0],
			g.Date(bankingEpoch, bankingAsOf),
			amount,
			country,
			Choice(g, TransactionChannels),
			flagged,
		)
	}

	companies, prices := marketData(g, scale)

	return []*Table{customers, loans, transactions, companies, prices}
}

func marketData(g *Generator, scale float64) (*Table, *Table) {
	companies := NewTable(MarketCompanies,
		"COMPANY_ID", "COMPANY_NAME", "TICKER", "EXCHANGE", "SECTOR", "MARKET_CAP_NOK")
	prices := NewTable(MarketPrices, "COMPANY_ID", "PRICE_DATE", "CLOSE_PRICE", "VOLUME")

	days := Scale(60, scale, 10)
	for i, nc := range NamedCompanies {
		id := ID("MKT", i+1)
		companies.Add(id, nc.Name, nc.Ticker, "Oslo Børs", nc.Industry, Round(g.Uniform(2e9, 8e10), 0))

		price := g.Uniform(40, 400)
		date := bankingAsOf.AddDate(0, 0, -days*7/5)
		for d := 0; d < days; d++ {
			date = nextBusinessDay(date)
			price = price * (1 + g.Uniform(-0.03, 0.03))
			prices.Add(id, date, Round(price, 2), g.IntBetween(20_000, 2_000_000))
		}
	}
	return companies, prices
}

func nextBusinessDay(t time.Time) time.Time {
	t = t.AddDate(0, 0, 1)
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func uniqueCompanyName(g *Generator, used map[string]bool) string {
	for attempt := 0; ; attempt++ {
		name := fmt.Sprintf("%s %s %s", Choice(g, companyPrefixes), Choice(g, companySuffixes), Choice(g, companyForms))
		if attempt > 20 {
			name = fmt.Sprintf("%s %s %d %s", Choice(g, companyPrefixes), Choice(g, companySuffixes), attempt, "AS")
		}
		if !used[name] {
			return name
		}
	}
}

func riskSegment(rating string) string {
	switch rating {
	case "AAA", "AA", "A":
		return "Low"
	case "BBB", "BB":
		return "Medium"
	default:
		return "High"
	}
}

func isHighRisk(country string) bool {
	for _, c := range HighRiskCountries {
		if c == country {
			return true
		}
	}
	return false
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
