package datagen

// Municipality is a Norwegian municipality with its county.
type Municipality struct {
	Name   string
	County string
}

var Municipalities = []Municipality{
	{"Oslo", "Oslo"},
	{"Bergen", "Vestland"},
	{"Trondheim", "Trøndelag"},
	{"Stavanger", "Rogaland"},
	{"Kristiansand", "Agder"},
	{"Tromsø", "Troms"},
	{"Drammen", "Buskerud"},
	{"Fredrikstad", "Østfold"},
	{"Sandnes", "Rogaland"},
	{"Ålesund", "Møre og Romsdal"},
	{"Bodø", "Nordland"},
	{"Sandefjord", "Vestfold"},
	{"Tønsberg", "Vestfold"},
	{"Haugesund", "Rogaland"},
	{"Molde", "Møre og Romsdal"},
	{"Hammerfest", "Finnmark"},
	{"Lillehammer", "Innlandet"},
	{"Hamar", "Innlandet"},
	{"Arendal", "Agder"},
	{"Frøya", "Trøndelag"},
	{"Hitra", "Trøndelag"},
	{"Lofoten", "Nordland"},
}

var Industries = []string{
	"Aquaculture",
	"Shipping",
	"Offshore Services",
	"Renewable Energy",
	"Construction",
	"Retail",
	"Real Estate",
	"Technology",
	"Agriculture",
	"Tourism",
	"Manufacturing",
	"Logistics",
}

// NamedCompanies are the demo storyline companies. They are always
// generated first so every run contains them.
var NamedCompanies = []struct {
	Name         string
	Industry     string
	Municipality Municipality
	Ticker       string
}{
	{"Helio Salmon AS", "Aquaculture", Municipality{"Frøya", "Trøndelag"}, "HELIO"},
	{"Nordlys Energi ASA", "Renewable Energy", Municipality{"Bergen", "Vestland"}, "NORDL"},
	{"Fjord Logistikk AS", "Logistics", Municipality{"Ålesund", "Møre og Romsdal"}, "FJORD"},
	{"Vestkyst Bygg AS", "Construction", Municipality{"Stavanger", "Rogaland"}, "VBYGG"},
	{"Polar Shipping ASA", "Shipping", Municipality{"Tromsø", "Troms"}, "POLAR"},
}

var companyPrefixes = []string{
	"Nord", "Vest", "Øst", "Sør", "Fjell", "Fjord", "Havbruk", "Kyst", "Viking", "Aurora",
	"Lofot", "Troll", "Midnatt", "Bølge", "Snø", "Skog", "Stein", "Elv", "Berg", "Storm",
}

var companySuffixes = []string{
	"Invest", "Eiendom", "Bygg", "Teknologi", "Transport", "Marine", "Energi", "Handel",
	"Solutions", "Partners", "Holding", "Service", "Fisk", "Drift",
}

var companyForms = []string{"AS", "AS", "AS", "ASA"}

var FirstNames = []string{
	"Ola", "Kari", "Per", "Ingrid", "Lars", "Anne", "Jon", "Marit", "Erik", "Silje",
	"Henrik", "Nora", "Magnus", "Emma", "Sindre", "Ida", "Thomas", "Hanne", "Andreas", "Sofie",
}

var LastNames = []string{
	"Hansen", "Johansen", "Olsen", "Larsen", "Andersen", "Pedersen", "Nilsen", "Kristiansen",
	"Jensen", "Karlsen", "Johnsen", "Pettersen", "Eriksen", "Berg", "Haugen", "Hagen",
	"Solberg", "Strand", "Bakken", "Lie",
}

var CreditRatings = []string{"AAA", "AA", "A", "BBB", "BB", "B", "CCC"}

var LoanProducts = []string{
	"Term Loan", "Revolving Credit Facility", "Commercial Mortgage", "Asset Financing", "Green Loan",
}

var TransactionChannels = []string{"SWIFT", "SEPA", "Domestic Transfer", "Card", "Cash Deposit"}

var CounterpartyCountries = map[string]float64{
	"NO": 60, "SE": 10, "DK": 8, "DE": 6, "GB": 5, "US": 4, "NL": 3, "CY": 1.5, "AE": 1.5, "PA": 1,
}

var HighRiskCountries = []string{"CY", "AE", "PA"}

// Insurance

var InsuranceProducts = map[string][2]float64{
	// product: annual premium range in NOK
	"Home":       {4000, 15000},
	"Contents":   {1200, 5000},
	"Motor":      {5000, 18000},
	"Travel":     {800, 2500},
	"Life":       {3000, 20000},
	"Pet":        {2000, 7000},
	"Commercial": {20000, 150000},
	"Cabin":      {3000, 9000},
}

var ClaimTypes = map[string][]string{
	"Home":       {"Water Damage", "Fire", "Storm Damage", "Burglary"},
	"Contents":   {"Theft", "Accidental Damage", "Water Damage"},
	"Motor":      {"Collision", "Windscreen", "Theft", "Parking Damage"},
	"Travel":     {"Medical Expenses", "Cancellation", "Lost Luggage"},
	"Life":       {"Critical Illness", "Disability"},
	"Pet":        {"Veterinary Treatment", "Surgery"},
	"Commercial": {"Business Interruption", "Liability", "Property Damage"},
	"Cabin":      {"Storm Damage", "Frozen Pipes", "Burglary"},
}

var ClaimStatuses = map[string]float64{
	"Open": 20, "Under Review": 15, "Approved": 40, "Paid": 15, "Rejected": 10,
}

var CustomerSegments = []string{"Young Adult", "Family", "Senior", "Premium", "Mass Market"}

// Securities

// Issuer is a member of the asset management security universe.
type Issuer struct {
	Name    string
	Ticker  string
	Sector  string
	Country string
}

var Issuers = []Issuer{
	{"Apple Inc.", "AAPL", "Information Technology", "US"},
	{"Microsoft Corporation", "MSFT", "Information Technology", "US"},
	{"NVIDIA Corporation", "NVDA", "Information Technology", "US"},
	{"Amazon.com Inc.", "AMZN", "Consumer Discretionary", "US"},
	{"Alphabet Inc.", "GOOGL", "Communication Services", "US"},
	{"JPMorgan Chase & Co.", "JPM", "Financials", "US"},
	{"Johnson & Johnson", "JNJ", "Health Care", "US"},
	{"Exxon Mobil Corporation", "XOM", "Energy", "US"},
	{"Procter & Gamble Co.", "PG", "Consumer Staples", "US"},
	{"Caterpillar Inc.", "CAT", "Industrials", "US"},
	{"Equinor ASA", "EQNR", "Energy", "NO"},
	{"DNB Bank ASA", "DNB", "Financials", "NO"},
	{"Mowi ASA", "MOWI", "Consumer Staples", "NO"},
	{"Telenor ASA", "TEL", "Communication Services", "NO"},
	{"Norsk Hydro ASA", "NHY", "Materials", "NO"},
	{"Kongsberg Gruppen ASA", "KOG", "Industrials", "NO"},
	{"Nestlé S.A.", "NESN", "Consumer Staples", "CH"},
	{"Novo Nordisk A/S", "NOVO-B", "Health Care", "DK"},
	{"ASML Holding N.V.", "ASML", "Information Technology", "NL"},
	{"SAP SE", "SAP", "Information Technology", "DE"},
	{"Siemens AG", "SIE", "Industrials", "DE"},
	{"LVMH Moët Hennessy", "MC", "Consumer Discretionary", "FR"},
	{"TotalEnergies SE", "TTE", "Energy", "FR"},
	{"Shell plc", "SHEL", "Energy", "GB"},
	{"AstraZeneca plc", "AZN", "Health Care", "GB"},
	{"HSBC Holdings plc", "HSBA", "Financials", "GB"},
	{"Toyota Motor Corporation", "7203", "Consumer Discretionary", "JP"},
	{"Sony Group Corporation", "6758", "Consumer Discretionary", "JP"},
	{"Taiwan Semiconductor", "2330", "Information Technology", "TW"},
	{"Samsung Electronics", "005930", "Information Technology", "KR"},
}

var AssetClasses = map[string]float64{"Equity": 70, "Corporate Bond": 20, "Government Bond": 10}

var Currencies = map[string]string{
	"US": "USD", "NO": "NOK", "CH": "CHF", "DK": "DKK", "NL": "EUR", "DE": "EUR",
	"FR": "EUR", "GB": "GBP", "JP": "JPY", "TW": "TWD", "KR": "KRW",
}

var PortfolioStrategies = []struct {
	Name     string
	Strategy string
}{
	{"SAM Global Thematic Growth", "Growth"},
	{"SAM Nordic Value", "Value"},
	{"SAM Technology & Infrastructure", "Thematic"},
	{"SAM Sustainable Global Equity", "ESG"},
	{"SAM Global Income", "Income"},
	{"SAM Defensive Multi-Asset", "Multi-Asset"},
	{"SAM European Leaders", "Core"},
	{"SAM Emerging Tech", "Thematic"},
	{"SAM Climate Transition", "ESG"},
	{"SAM Balanced Core", "Core"},
}

// Research

var Analysts = []string{
	"Astrid Moe", "Daniel Chen", "Priya Raman", "Lukas Weber", "Sara Lindqvist", "Marcus Okafor",
}

var Ratings = map[string]float64{"Buy": 45, "Overweight": 15, "Hold": 30, "Underweight": 5, "Sell": 5}
