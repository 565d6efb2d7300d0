package vertical

import (
	"snowdemo/internal/cortex"
	"snowdemo/internal/datagen"
	"snowdemo/internal/prompts"
	"snowdemo/internal/validate"
)

const insuranceDDL = `
CREATE OR REPLACE TABLE RAW.CUSTOMERS (
    CUSTOMER_ID VARCHAR(20) PRIMARY KEY,
    FIRST_NAME VARCHAR(100),
    LAST_NAME VARCHAR(100),
    BIRTH_DATE DATE,
    MUNICIPALITY VARCHAR(100),
    SEGMENT VARCHAR(50),
    CUSTOMER_SINCE DATE
);

CREATE OR REPLACE TABLE RAW.POLICIES (
    POLICY_ID VARCHAR(20) PRIMARY KEY,
    CUSTOMER_ID VARCHAR(20) REFERENCES RAW.CUSTOMERS(CUSTOMER_ID),
    PRODUCT VARCHAR(50),
    START_DATE DATE,
    END_DATE DATE,
    ANNUAL_PREMIUM_NOK NUMBER(12,0),
    SUM_INSURED_NOK NUMBER(14,0),
    STATUS VARCHAR(20)
);

CREATE OR REPLACE TABLE RAW.CLAIMS (
    CLAIM_ID VARCHAR(20) PRIMARY KEY,
    POLICY_ID VARCHAR(20) REFERENCES RAW.POLICIES(POLICY_ID),
    CLAIM_TYPE VARCHAR(50),
    INCIDENT_DATE DATE,
    REPORTED_DATE DATE,
    CLAIM_AMOUNT_NOK NUMBER(14,2),
    STATUS VARCHAR(20),
    FRAUD_SCORE NUMBER(4,3)
);
`

// Insurance is the retail insurance demo: claims handling and underwriting.
func Insurance() *Vertical {
	return finalize(&Vertical{
		Name:        "insurance",
		Aliases:     []string{"ins"},
		Description: "Claims handling and underwriting for retail P&C",
		Database:    "INSURANCE_AI_DEMO",
		Schemas:     []string{"RAW"},
		DocSchema:   "RAW",
		TableDDL:    insuranceDDL,
		Scenarios: []Scenario{
			{
				Name:        "claims",
				Description: "Claims handler triaging open claims and fraud signals",
				Documents: []prompts.DocumentType{
					{
						Name:      "claim_notes",
						Source:    datagen.InsuranceClaims,
						EntityKey: "CLAIM_ID",
						Title:     "Claim file notes {{.CLAIM_ID}}",
						Template: `Write the claim handler's file notes for claim {{.CLAIM_ID}} on policy {{.POLICY_ID}}: a {{lower .CLAIM_TYPE}}
incident on {{.INCIDENT_DATE}}, reported {{.REPORTED_DATE}}, claimed amount {{nok .CLAIM_AMOUNT_NOK}}, current status {{.STATUS}}.
Include the first notice of loss conversation, documents requested and next steps.`,
					},
					{
						Name:      "adjuster_report",
						Source:    datagen.InsuranceClaims,
						EntityKey: "CLAIM_ID",
						Title:     "Loss adjuster report {{.CLAIM_ID}}",
						Template: `Write a loss adjuster report for claim {{.CLAIM_ID}} ({{.CLAIM_TYPE}}, {{nok .CLAIM_AMOUNT_NOK}}).
The fraud model score is {{.FRAUD_SCORE}} on a 0-1 scale. Describe the site inspection, cause of loss,
reserve recommendation and whether the claim should be referred to the special investigations unit.`,
					},
				},
				Search: []cortex.SearchService{documentSearch("CLAIMS_DOCS_SEARCH", "RAW", "claims")},
			},
			{
				Name:        "underwriting",
				Description: "Underwriter assessing renewals and new business",
				Documents: []prompts.DocumentType{
					{
						Name:      "policy_terms",
						Source:    datagen.InsurancePolicies,
						EntityKey: "POLICY_ID",
						Title:     "{{.PRODUCT}} insurance terms {{.POLICY_ID}}",
						Template: `Write the key policy terms for a Norwegian {{lower .PRODUCT}} insurance policy {{.POLICY_ID}} with sum insured
{{nok .SUM_INSURED_NOK}} and annual premium {{nok .ANNUAL_PREMIUM_NOK}}, valid {{.START_DATE}} to {{.END_DATE}}.
List coverage, exclusions, deductibles and claims conditions in plain language.`,
					},
					{
						Name:      "risk_assessment",
						Source:    datagen.InsurancePolicies,
						EntityKey: "POLICY_ID",
						Title:     "Underwriting assessment {{.POLICY_ID}}",
						Template: `Write an underwriting risk assessment for policy {{.POLICY_ID}} ({{.PRODUCT}}, status {{.STATUS}}) held by
customer {{.CUSTOMER_ID}}. Evaluate the premium adequacy of {{nok .ANNUAL_PREMIUM_NOK}} against a sum insured of
{{nok .SUM_INSURED_NOK}} and recommend renewal terms.`,
					},
				},
				Search: []cortex.SearchService{documentSearch("UNDERWRITING_DOCS_SEARCH", "RAW", "underwriting")},
			},
		},
		SemanticViews: []cortex.SemanticView{claimsView()},
		generate: func(_ *Vertical, g *datagen.Generator, scale float64) ([]*datagen.Table, error) {
			return datagen.Insurance(g, scale), nil
		},
		checks: func(*Vertical) []validate.Check {
			return []validate.Check{
				orphans("claims reference policies", datagen.InsuranceClaims, "POLICY_ID", datagen.InsurancePolicies, "POLICY_ID"),
				orphans("policies reference customers", datagen.InsurancePolicies, "CUSTOMER_ID", datagen.InsuranceCustomers, "CUSTOMER_ID"),
				validate.ZeroRows{
					Label: "fraud scores within 0-1",
					Query: "SELECT COUNT(*) FROM RAW.CLAIMS WHERE FRAUD_SCORE < 0 OR FRAUD_SCORE > 1",
				},
			}
		},
	})
}

func claimsView() cortex.SemanticView {
	return cortex.SemanticView{
		Name: "CLAIMS_SEMANTIC_VIEW",
		Tables: []cortex.LogicalTable{
			{Alias: "customers", Table: datagen.InsuranceCustomers, PrimaryKey: []string{"CUSTOMER_ID"}, Synonyms: []string{"policyholders"}},
			{Alias: "policies", Table: datagen.InsurancePolicies, PrimaryKey: []string{"POLICY_ID"}},
			{Alias: "claims", Table: datagen.InsuranceClaims, PrimaryKey: []string{"CLAIM_ID"}, Synonyms: []string{"losses"}},
		},
		Relationships: []cortex.Relationship{
			{Name: "policy_customer", From: "policies", FromCols: []string{"CUSTOMER_ID"}, To: "customers", ToColumns: []string{"CUSTOMER_ID"}},
			{Name: "claim_policy", From: "claims", FromCols: []string{"POLICY_ID"}, To: "policies", ToColumns: []string{"POLICY_ID"}},
		},
		Facts: []cortex.Expression{
			{Table: "policies", Name: "premium", Expr: "ANNUAL_PREMIUM_NOK"},
			{Table: "claims", Name: "claim_amount", Expr: "CLAIM_AMOUNT_NOK"},
		},
		Dimensions: []cortex.Expression{
			{Table: "customers", Name: "segment", Expr: "SEGMENT"},
			{Table: "customers", Name: "municipality", Expr: "MUNICIPALITY"},
			{Table: "policies", Name: "product", Expr: "PRODUCT", Synonyms: []string{"line of business"}},
			{Table: "claims", Name: "claim_type", Expr: "CLAIM_TYPE"},
			{Table: "claims", Name: "claim_status", Expr: "STATUS"},
			{Table: "claims", Name: "incident_date", Expr: "INCIDENT_DATE"},
		},
		Metrics: []cortex.Expression{
			{Table: "policies", Name: "gross_written_premium", Expr: "SUM(policies.premium)"},
			{Table: "claims", Name: "total_claimed", Expr: "SUM(claims.claim_amount)"},
			{Table: "claims", Name: "claim_count", Expr: "COUNT(claims.CLAIM_ID)"},
			{Table: "claims", Name: "average_fraud_score", Expr: "AVG(claims.FRAUD_SCORE)"},
		},
		Comment: "Policies, claims and policyholders",
	}
}
