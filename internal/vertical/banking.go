package vertical

import (
	"snowdemo/internal/cortex"
	"snowdemo/internal/datagen"
	"snowdemo/internal/prompts"
	"snowdemo/internal/validate"
)

const bankingDDL = `
CREATE OR REPLACE TABLE RAW.CUSTOMERS (
    CUSTOMER_ID VARCHAR(20) PRIMARY KEY,
    COMPANY_NAME VARCHAR(200),
    ORG_NUMBER VARCHAR(9),
    INDUSTRY VARCHAR(100),
    MUNICIPALITY VARCHAR(100),
    COUNTY VARCHAR(100),
    EMPLOYEES INTEGER,
    ANNUAL_REVENUE_NOK NUMBER(18,0),
    CREDIT_RATING VARCHAR(5),
    RISK_SEGMENT VARCHAR(20),
    ONBOARDED_DATE DATE
);

CREATE OR REPLACE TABLE RAW.LOANS (
    LOAN_ID VARCHAR(20) PRIMARY KEY,
    CUSTOMER_ID VARCHAR(20) REFERENCES RAW.CUSTOMERS(CUSTOMER_ID),
    PRODUCT VARCHAR(100),
    PRINCIPAL_NOK NUMBER(18,0),
    INTEREST_RATE NUMBER(6,4),
    ORIGINATION_DATE DATE,
    MATURITY_DATE DATE,
    STATUS VARCHAR(20),
    LTV_RATIO NUMBER(4,2),
    DSCR NUMBER(5,2)
);

CREATE OR REPLACE TABLE RAW.TRANSACTIONS (
    TRANSACTION_ID VARCHAR(20) PRIMARY KEY,
    CUSTOMER_ID VARCHAR(20) REFERENCES RAW.CUSTOMERS(CUSTOMER_ID),
    TRANSACTION_DATE DATE,
    AMOUNT_NOK NUMBER(18,2),
    COUNTERPARTY_COUNTRY VARCHAR(2),
    CHANNEL VARCHAR(30),
    IS_FLAGGED BOOLEAN
);

CREATE OR REPLACE TABLE MARKET_DATA.COMPANIES (
    COMPANY_ID VARCHAR(20) PRIMARY KEY,
    COMPANY_NAME VARCHAR(200),
    TICKER VARCHAR(10),
    EXCHANGE VARCHAR(50),
    SECTOR VARCHAR(100),
    MARKET_CAP_NOK NUMBER(18,0)
);

CREATE OR REPLACE TABLE MARKET_DATA.DAILY_PRICES (
    COMPANY_ID VARCHAR(20) REFERENCES MARKET_DATA.COMPANIES(COMPANY_ID),
    PRICE_DATE DATE,
    CLOSE_PRICE NUMBER(12,2),
    VOLUME INTEGER
);
`

// Banking is the corporate banking demo: credit risk and anti money
// laundering investigations over Norwegian business customers.
func Banking() *Vertical {
	return finalize(&Vertical{
		Name:        "banking",
		Aliases:     []string{"bank"},
		Description: "Corporate credit risk and AML investigations",
		Database:    "BANK_AI_DEMO",
		Schemas:     []string{"RAW", "MARKET_DATA"},
		DocSchema:   "RAW",
		TableDDL:    bankingDDL,
		Scenarios: []Scenario{
			{
				Name:        "credit_risk",
				Description: "Credit analyst reviewing a corporate loan application",
				Documents: []prompts.DocumentType{
					{
						Name:      "credit_memo",
						Source:    datagen.BankCustomers,
						EntityKey: "CUSTOMER_ID",
						Title:     "Credit memo: {{.COMPANY_NAME}}",
						Template: `You are a senior credit analyst at a Norwegian bank. Write a credit memo of about 400 words for
{{.COMPANY_NAME}} (org. no. {{.ORG_NUMBER}}), a {{lower .INDUSTRY}} company based in {{.MUNICIPALITY}}, {{.COUNTY}}.
The company has {{.EMPLOYEES}} employees and annual revenue of {{nok .ANNUAL_REVENUE_NOK}}.
Internal credit rating: {{.CREDIT_RATING}} ({{.RISK_SEGMENT}} risk).
Cover business overview, financial strength, key risks and a recommendation. Use plain prose, no markdown tables.`,
					},
					{
						Name:      "loan_review",
						Source:    datagen.BankLoans,
						EntityKey: "LOAN_ID",
						Title:     "Annual review of loan {{.LOAN_ID}}",
						Template: `Write an annual loan review for facility {{.LOAN_ID}} ({{.PRODUCT}}) held by customer {{.CUSTOMER_ID}}.
Principal {{nok .PRINCIPAL_NOK}}, interest rate {{pct .INTEREST_RATE}}, originated {{.ORIGINATION_DATE}}, matures {{.MATURITY_DATE}}.
Current status is {{.STATUS}} with a loan-to-value of {{pct .LTV_RATIO}} and a debt service coverage ratio of {{.DSCR}}.
Discuss covenant compliance, collateral and whether the facility should move to a watchlist.`,
					},
				},
				Search: []cortex.SearchService{documentSearch("CREDIT_DOCS_SEARCH", "RAW", "credit_risk")},
			},
			{
				Name:        "aml",
				Description: "Financial crime analyst investigating flagged payments",
				Documents: []prompts.DocumentType{
					{
						Name:      "kyc_profile",
						Source:    datagen.BankCustomers,
						EntityKey: "CUSTOMER_ID",
						Title:     "KYC profile: {{.COMPANY_NAME}}",
						Template: `Write a know-your-customer profile for {{.COMPANY_NAME}}, a {{lower .INDUSTRY}} business in {{.MUNICIPALITY}}
onboarded on {{.ONBOARDED_DATE}}. Describe beneficial ownership, expected transaction patterns for a company with
{{nok .ANNUAL_REVENUE_NOK}} in revenue, and the customer's overall money laundering risk classification.`,
					},
					{
						Name:      "transaction_alert",
						Source:    datagen.BankTransactions,
						EntityKey: "TRANSACTION_ID",
						Title:     "Alert investigation {{.TRANSACTION_ID}}",
						Template: `Write an alert investigation note for transaction {{.TRANSACTION_ID}} by customer {{.CUSTOMER_ID}}:
{{nok .AMOUNT_NOK}} sent via {{.CHANNEL}} on {{.TRANSACTION_DATE}} to a counterparty in {{.COUNTERPARTY_COUNTRY}}.
Automated monitoring flag: {{.IS_FLAGGED}}. Explain the red flags considered, the evidence gathered and whether a
suspicious activity report should be filed with Økokrim.`,
					},
				},
				Search: []cortex.SearchService{documentSearch("AML_DOCS_SEARCH", "RAW", "aml")},
			},
		},
		SemanticViews: []cortex.SemanticView{bankingView()},
		generate: func(_ *Vertical, g *datagen.Generator, scale float64) ([]*datagen.Table, error) {
			return datagen.Banking(g, scale), nil
		},
		checks: func(*Vertical) []validate.Check {
			return []validate.Check{
				namedEntity("Helio Salmon AS in RAW.CUSTOMERS", datagen.BankCustomers, "COMPANY_NAME", "Helio Salmon AS"),
				namedEntity("Helio Salmon AS in MARKET_DATA.COMPANIES", datagen.MarketCompanies, "COMPANY_NAME", "Helio Salmon AS"),
				orphans("loans reference customers", datagen.BankLoans, "CUSTOMER_ID", datagen.BankCustomers, "CUSTOMER_ID"),
			}
		},
	})
}

func bankingView() cortex.SemanticView {
	return cortex.SemanticView{
		Name: "BANKING_SEMANTIC_VIEW",
		Tables: []cortex.LogicalTable{
			{Alias: "customers", Table: datagen.BankCustomers, PrimaryKey: []string{"CUSTOMER_ID"}, Synonyms: []string{"clients", "borrowers"}},
			{Alias: "loans", Table: datagen.BankLoans, PrimaryKey: []string{"LOAN_ID"}, Synonyms: []string{"facilities"}},
			{Alias: "transactions", Table: datagen.BankTransactions, PrimaryKey: []string{"TRANSACTION_ID"}, Synonyms: []string{"payments"}},
		},
		Relationships: []cortex.Relationship{
			{Name: "loan_customer", From: "loans", FromCols: []string{"CUSTOMER_ID"}, To: "customers", ToColumns: []string{"CUSTOMER_ID"}},
			{Name: "transaction_customer", From: "transactions", FromCols: []string{"CUSTOMER_ID"}, To: "customers", ToColumns: []string{"CUSTOMER_ID"}},
		},
		Facts: []cortex.Expression{
			{Table: "loans", Name: "principal", Expr: "PRINCIPAL_NOK"},
			{Table: "transactions", Name: "amount", Expr: "AMOUNT_NOK"},
		},
		Dimensions: []cortex.Expression{
			{Table: "customers", Name: "company_name", Expr: "COMPANY_NAME"},
			{Table: "customers", Name: "industry", Expr: "INDUSTRY", Synonyms: []string{"sector"}},
			{Table: "customers", Name: "county", Expr: "COUNTY"},
			{Table: "customers", Name: "credit_rating", Expr: "CREDIT_RATING"},
			{Table: "loans", Name: "loan_status", Expr: "STATUS"},
			{Table: "loans", Name: "product", Expr: "PRODUCT"},
			{Table: "transactions", Name: "counterparty_country", Expr: "COUNTERPARTY_COUNTRY"},
			{Table: "transactions", Name: "is_flagged", Expr: "IS_FLAGGED"},
		},
		Metrics: []cortex.Expression{
			{Table: "loans", Name: "total_exposure", Expr: "SUM(loans.principal)", Comment: "Outstanding principal in NOK"},
			{Table: "loans", Name: "average_dscr", Expr: "AVG(loans.DSCR)"},
			{Table: "transactions", Name: "flagged_count", Expr: "COUNT_IF(transactions.IS_FLAGGED)"},
			{Table: "transactions", Name: "total_volume", Expr: "SUM(transactions.amount)"},
		},
		Comment: "Corporate banking customers, loans and payments",
	}
}
