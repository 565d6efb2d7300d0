package datagen

import "time"

// Insurance table names, schema-qualified.
const (
	InsuranceCustomers = "RAW.CUSTOMERS"
	InsurancePolicies  = "RAW.POLICIES"
	InsuranceClaims    = "RAW.CLAIMS"
)

var insuranceAsOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

// Insurance generates retail customers, their policies and claims.
func Insurance(g *Generator, scale float64) []*Table {
	customers := NewTable(InsuranceCustomers,
		"CUSTOMER_ID", "FIRST_NAME", "LAST_NAME", "BIRTH_DATE", "MUNICIPALITY", "SEGMENT", "CUSTOMER_SINCE")

	n := Scale(1000, scale, 50)
	for i := 0; i < n; i++ {
		customers.Add(
			ID("CUST", i+1),
			Choice(g, FirstNames),
			Choice(g, LastNames),
			g.Date(time.Date(1945, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC)),
			Choice(g, Municipalities).Name,
			Choice(g, CustomerSegments),
			g.Date(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), insuranceAsOf),
		)
	}

	products := SortedKeys(InsuranceProducts)

	policies := NewTable(InsurancePolicies,
		"POLICY_ID", "CUSTOMER_ID", "PRODUCT", "START_DATE", "END_DATE",
		"ANNUAL_PREMIUM_NOK", "SUM_INSURED_NOK", "STATUS")
	claims := NewTable(InsuranceClaims,
		"CLAIM_ID", "POLICY_ID", "CLAIM_TYPE", "INCIDENT_DATE", "REPORTED_DATE",
		"CLAIM_AMOUNT_NOK", "STATUS", "FRAUD_SCORE")

	policySeq, claimSeq := 0, 0
	for _, cust := range customers.Rows {
		for _, product := range Sample(g, products, g.IntBetween(1, 3)) {
			policySeq++
			policyID := ID("POL", policySeq)
			band := InsuranceProducts[product]
			premium := Round(g.Uniform(band[0], band[1]), 0)
			start := g.Date(insuranceAsOf.AddDate(-4, 0, 0), insuranceAsOf.AddDate(0, -1, 0))
			end := start.AddDate(1, 0, 0)
			status := "Active"
			if end.Before(insuranceAsOf) {
				status = "Lapsed"
				if g.Chance(0.7) {
					status = "Renewed"
				}
			}

			policies.Add(policyID, cust[0], product, start, end, premium, Round(premium*g.Uniform(40, 120), -3), status)

			if !g.Chance(0.3) {
				continue
			}
			claimSeq++
			incident := g.Date(start, minTime(end, insuranceAsOf))
			reported := incident.AddDate(0, 0, g.IntBetween(0, 30))
			amount := Round(premium*g.Uniform(0.2, 8), 2)
			fraud := Round(g.Uniform(0, 0.6), 3)
			if reported.Sub(incident) > 21*24*time.Hour || amount > premium*6 {
				fraud = Round(g.Uniform(0.6, 0.98), 3)
			}
			claims.Add(
				ID("CLM", claimSeq),
				policyID,
				Choice(g, ClaimTypes[product]),
				incident,
				reported,
				amount,
				g.Weighted(ClaimStatuses),
				fraud,
			)
		}
	}

	return []*Table{customers, policies, claims}
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
