package datagen

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowdemo/pkg/errors"
)

func TestWeightsSumToOne(t *testing.T) {
	g := New(7)
	for n := 1; n <= 80; n++ {
		weights := g.Weights(n, weightPrecision)
		require.Len(t, weights, n)

		sum := 0.0
		for _, w := range weights {
			assert.Greater(t, w, 0.0)
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "n=%d", n)
	}
	assert.Nil(t, g.Weights(0, 6))
}

func TestIntBetweenInclusive(t *testing.T) {
	g := New(1)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := g.IntBetween(1, 3)
		require.True(t, v >= 1 && v <= 3)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 5, g.IntBetween(5, 5))
}

func TestScale(t *testing.T) {
	assert.Equal(t, 100, Scale(500, 0.2, 10))
	assert.Equal(t, 10, Scale(20, 0.2, 10))
	assert.Equal(t, 500, Scale(500, 1, 10))
}

func TestTableAddFormatsDatesAndChecksArity(t *testing.T) {
	tbl := NewTable("RAW.T", "ID", "D")
	tbl.Add("a", bankingAsOf)
	assert.Equal(t, "2025-06-30", tbl.Rows[0][1])
	assert.Equal(t, "2025-06-30", tbl.Records()[0]["D"])
	assert.Panics(t, func() { tbl.Add("only one") })
}

func TestDeterministicBySeed(t *testing.T) {
	a := Banking(New(42), 0.2)
	b := Banking(New(42), 0.2)
	c := Banking(New(43), 0.2)

	assert.Equal(t, a[0].Rows, b[0].Rows)
	assert.Equal(t, a[2].Rows, b[2].Rows)
	assert.NotEqual(t, a[2].Rows, c[2].Rows)
}

func TestBankingNamedEntityInBothTables(t *testing.T) {
	tables := byName(Banking(New(42), 0.2))

	assert.Contains(t, column(tables[BankCustomers], "COMPANY_NAME"), "Helio Salmon AS")
	assert.Contains(t, column(tables[MarketCompanies], "COMPANY_NAME"), "Helio Salmon AS")

	ids := map[interface{}]bool{}
	for _, id := range column(tables[BankCustomers], "CUSTOMER_ID") {
		ids[id] = true
	}
	for _, id := range column(tables[BankLoans], "CUSTOMER_ID") {
		require.True(t, ids[id], "loan references unknown customer %v", id)
	}
}

func TestPortfolioWeightsPerHoldingDate(t *testing.T) {
	for _, scale := range []float64{0.2, 1} {
		tables := byName(AssetManagement(New(42), scale, nil))
		positions := tables[PositionsTable]
		require.NotZero(t, positions.Len())

		sums := map[[2]string]float64{}
		for _, rec := range positions.Records() {
			key := [2]string{rec["HoldingDate"].(string), rec["PortfolioID"].(string)}
			sums[key] += rec["PortfolioWeight"].(float64)
		}
		for key, sum := range sums {
			assert.LessOrEqual(t, math.Abs(sum-1), 0.001, "%v", key)
		}
	}
}

func TestEverySecurityHasAnIdentifier(t *testing.T) {
	tables := byName(AssetManagement(New(42), 1, nil))

	types := map[interface{}]int{}
	for _, rec := range tables[IdentifierXref].Records() {
		types[rec["SecurityID"]]++
	}
	for _, id := range column(tables[SecurityTable], "SecurityID") {
		assert.GreaterOrEqual(t, types[id], 1, "security %v", id)
	}
}

func TestMonthEnds(t *testing.T) {
	dates := monthEnds(holdingsAsOf, 3)
	require.Len(t, dates, 3)
	assert.Equal(t, "2025-04-30", dates[0].Format("2006-01-02"))
	assert.Equal(t, "2025-05-31", dates[1].Format("2006-01-02"))
	assert.Equal(t, "2025-06-30", dates[2].Format("2006-01-02"))
}

func TestInsuranceClaimsReferencePolicies(t *testing.T) {
	tables := byName(Insurance(New(42), 0.2))

	policies := map[interface{}]bool{}
	for _, id := range column(tables[InsurancePolicies], "POLICY_ID") {
		policies[id] = true
	}
	require.NotZero(t, tables[InsuranceClaims].Len())
	for _, id := range column(tables[InsuranceClaims], "POLICY_ID") {
		assert.True(t, policies[id])
	}
}

func TestResearchFinancialsPerCompany(t *testing.T) {
	tables := byName(Research(New(42), 1))
	assert.Equal(t, len(Issuers), tables[ResearchCompanies].Len())
	assert.Equal(t, len(Issuers)*8, tables[ResearchFinancials].Len())
}

func TestSecuritiesCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "securities.csv")
	want := Securities(New(3))

	require.NoError(t, WriteSecuritiesCSV(path, want))
	got, err := ReadSecuritiesCSV(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadSecuritiesCSVMissingIsFatal(t *testing.T) {
	_, err := ReadSecuritiesCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetErrorCode(err))
}

func TestReadSecuritiesCSVRejectsBadFiles(t *testing.T) {
	header := strings.Join(securityHeader, ",")
	reordered := "IssuerName,SecurityID,Ticker,AssetClass,Sector,Country,Currency,ISIN,CUSIP"
	row := "SEC000001,Helio Salmon AS,HSALM,Equity,Consumer Staples,NO,NOK,NO0010000001,"

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"header only", header + "\n"},
		{"reordered header", reordered + "\n" + row + "\n"},
		{"wrong width", header + "\nSEC000001,only\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readSecurities(strings.NewReader(tt.data), "securities.csv")
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeFileCorrupted, errors.GetErrorCode(err))
			assert.True(t, errors.IsFatal(err))
		})
	}

	got, err := readSecurities(strings.NewReader(header+"\n"+row+"\n"), "securities.csv")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Helio Salmon AS", got[0].IssuerName)
}

// column returns the values of one column of tbl.
func column(tbl *Table, name string) []interface{} {
	var out []interface{}
	for _, rec := range tbl.Records() {
		out = append(out, rec[name])
	}
	return out
}

func byName(tables []*Table) map[string]*Table {
	out := make(map[string]*Table, len(tables))
	for _, t := range tables {
		out[t.Name] = t
	}
	return out
}
