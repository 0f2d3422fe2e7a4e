package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is the slice of the chart of accounts the journal engine needs:
// existence plus display metadata for line enrichment.
type Account struct {
	AccountID    string      `json:"accountID"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	CurrencyCode string      `json:"currencyCode"`
	IsActive     bool        `json:"isActive"`
	AuditFields
}
