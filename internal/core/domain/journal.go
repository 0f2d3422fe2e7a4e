package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultEntryNumberPrefix is the prefix of generated entry numbers (PREFIX-YYYYMM-NNNN).
const DefaultEntryNumberPrefix = "DIARIO"

// JournalEntry is the header of a double-entry journal entry.
// Once IsPosted is true every field except IsReversed is frozen.
type JournalEntry struct {
	EntryID        string             `json:"entryID"`
	EntryNumber    string             `json:"entryNumber"` // PREFIX-YYYYMM-NNNN, unique
	EntryDate      time.Time          `json:"entryDate"`
	Description    string             `json:"description"`
	VoucherNumber  *string            `json:"voucherNumber,omitempty"`
	CurrencyCode   string             `json:"currencyCode"`
	ExchangeRate   decimal.Decimal    `json:"exchangeRate"` // 6 fractional digits
	IsPosted       bool               `json:"isPosted"`
	PostedAt       *time.Time         `json:"postedAt,omitempty"`
	PostedBy       *string            `json:"postedBy,omitempty"`
	IsReversed     bool               `json:"isReversed"`
	ReversedFromID *string            `json:"reversedFromID,omitempty"`
	CreatedByName  string             `json:"createdByName,omitempty"` // read-only, joined from users
	Lines          []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine is one debit or credit line of an entry. Lines are owned by
// their entry and are always replaced as a set.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"` // 1-based, input order
	AccountID    string          `json:"accountID"`
	AccountCode  string          `json:"accountCode,omitempty"` // read-only
	AccountName  string          `json:"accountName,omitempty"` // read-only
	Description  *string         `json:"description,omitempty"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// BalanceValidation is the result of checking a candidate line set. It is never persisted.
type BalanceValidation struct {
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Difference  decimal.Decimal `json:"difference"`
	IsBalanced  bool            `json:"isBalanced"`
	Error       string          `json:"error,omitempty"`
}

// JournalEntryFilter narrows ListEntries. Zero values mean "no filter".
type JournalEntryFilter struct {
	IsPosted     *bool
	CurrencyCode string
	DateFrom     *time.Time
	DateTo       *time.Time
	Search       string // matched against entry number, description and voucher number
	IncludeLines bool
	Page         int
	PageSize     int
}

// JournalEntryPage is one page of ListEntries.
type JournalEntryPage struct {
	Entries  []JournalEntry `json:"entries"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// AccountIDs returns the distinct account ids referenced by lines, in first-seen order.
func AccountIDs(lines []JournalEntryLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}
