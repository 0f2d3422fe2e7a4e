package dto

import (
	"time"

	"github.com/SscSPs/accounting_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryLineRequest is one line of a create/update request.
type JournalEntryLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required,uuid"`
	Description  *string         `json:"description,omitempty" binding:"omitempty,max=500"`
	DebitAmount  decimal.Decimal `json:"debitAmount" binding:"decimal_nonneg"`
	CreditAmount decimal.Decimal `json:"creditAmount" binding:"decimal_nonneg"`
}

// CreateJournalEntryRequest defines the data needed to create an unposted entry.
type CreateJournalEntryRequest struct {
	EntryDate     time.Time                 `json:"entryDate" binding:"required"`
	Description   string                    `json:"description" binding:"required,max=1000"`
	VoucherNumber *string                   `json:"voucherNumber,omitempty" binding:"omitempty,max=50"`
	CurrencyCode  string                    `json:"currencyCode" binding:"required,len=3,alpha"`
	ExchangeRate  *decimal.Decimal          `json:"exchangeRate,omitempty" binding:"omitempty,decimal_positive"`
	Lines         []JournalEntryLineRequest `json:"lines" binding:"required,dive"`
}

// UpdateJournalEntryRequest changes an unposted entry. Nil fields are left
// untouched; a non-nil Lines replaces every line.
type UpdateJournalEntryRequest struct {
	EntryDate     *time.Time                `json:"entryDate,omitempty"`
	Description   *string                   `json:"description,omitempty" binding:"omitempty,max=1000"`
	VoucherNumber *string                   `json:"voucherNumber,omitempty" binding:"omitempty,max=50"`
	CurrencyCode  *string                   `json:"currencyCode,omitempty" binding:"omitempty,len=3,alpha"`
	ExchangeRate  *decimal.Decimal          `json:"exchangeRate,omitempty" binding:"omitempty,decimal_positive"`
	Lines         []JournalEntryLineRequest `json:"lines,omitempty" binding:"omitempty,dive"`
}

// ReverseJournalEntryRequest optionally overrides the reversal's description and date.
type ReverseJournalEntryRequest struct {
	Description *string    `json:"description,omitempty" binding:"omitempty,max=1000"`
	EntryDate   *time.Time `json:"entryDate,omitempty"`
}

// ValidateJournalLinesRequest checks a line set without persisting anything.
type ValidateJournalLinesRequest struct {
	Lines []JournalEntryLineRequest `json:"lines" binding:"required,dive"`
}

// ListJournalEntriesParams defines the query parameters of the list endpoint.
type ListJournalEntriesParams struct {
	IsPosted     *bool      `form:"isPosted"`
	CurrencyCode string     `form:"currencyCode" binding:"omitempty,len=3"`
	DateFrom     *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo       *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Search       string     `form:"search" binding:"omitempty,max=100"`
	IncludeLines bool       `form:"includeLines"`
	Page         int        `form:"page,default=1" binding:"min=1"`
	PageSize     int        `form:"pageSize,default=0" binding:"min=0"`
}

// ToFilter converts the query parameters to a repository filter.
func (p ListJournalEntriesParams) ToFilter() domain.JournalEntryFilter {
	return domain.JournalEntryFilter{
		IsPosted:     p.IsPosted,
		CurrencyCode: p.CurrencyCode,
		DateFrom:     p.DateFrom,
		DateTo:       p.DateTo,
		Search:       p.Search,
		IncludeLines: p.IncludeLines,
		Page:         p.Page,
		PageSize:     p.PageSize,
	}
}

// ToDomainLines converts request lines; line numbers follow input order.
func ToDomainLines(reqs []JournalEntryLineRequest) []domain.JournalEntryLine {
	lines := make([]domain.JournalEntryLine, len(reqs))
	for i, r := range reqs {
		lines[i] = domain.JournalEntryLine{
			LineNumber:   i + 1,
			AccountID:    r.AccountID,
			Description:  r.Description,
			DebitAmount:  r.DebitAmount,
			CreditAmount: r.CreditAmount,
		}
	}
	return lines
}

// JournalEntryLineResponse defines the data returned for a line.
type JournalEntryLineResponse struct {
	LineID       string          `json:"lineID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	AccountCode  string          `json:"accountCode,omitempty"`
	AccountName  string          `json:"accountName,omitempty"`
	Description  *string         `json:"description,omitempty"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// JournalEntryResponse defines the data returned for an entry.
type JournalEntryResponse struct {
	EntryID        string                     `json:"entryID"`
	EntryNumber    string                     `json:"entryNumber"`
	EntryDate      time.Time                  `json:"entryDate"`
	Description    string                     `json:"description"`
	VoucherNumber  *string                    `json:"voucherNumber,omitempty"`
	CurrencyCode   string                     `json:"currencyCode"`
	ExchangeRate   decimal.Decimal            `json:"exchangeRate"`
	IsPosted       bool                       `json:"isPosted"`
	PostedAt       *time.Time                 `json:"postedAt,omitempty"`
	PostedBy       *string                    `json:"postedBy,omitempty"`
	IsReversed     bool                       `json:"isReversed"`
	ReversedFromID *string                    `json:"reversedFromID,omitempty"`
	TotalDebit     decimal.Decimal            `json:"totalDebit"`
	TotalCredit    decimal.Decimal            `json:"totalCredit"`
	CreatedAt      time.Time                  `json:"createdAt"`
	CreatedBy      string                     `json:"createdBy"`
	CreatedByName  string                     `json:"createdByName,omitempty"`
	Lines          []JournalEntryLineResponse `json:"lines,omitempty"`
}

// ListJournalEntriesResponse wraps one page of entries.
type ListJournalEntriesResponse struct {
	Entries  []JournalEntryResponse `json:"entries"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:        e.EntryID,
		EntryNumber:    e.EntryNumber,
		EntryDate:      e.EntryDate,
		Description:    e.Description,
		VoucherNumber:  e.VoucherNumber,
		CurrencyCode:   e.CurrencyCode,
		ExchangeRate:   e.ExchangeRate,
		IsPosted:       e.IsPosted,
		PostedAt:       e.PostedAt,
		PostedBy:       e.PostedBy,
		IsReversed:     e.IsReversed,
		ReversedFromID: e.ReversedFromID,
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
		CreatedByName:  e.CreatedByName,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalEntryLineResponse, len(e.Lines))
	}
	for i, l := range e.Lines {
		resp.TotalDebit = resp.TotalDebit.Add(l.DebitAmount)
		resp.TotalCredit = resp.TotalCredit.Add(l.CreditAmount)
		resp.Lines[i] = JournalEntryLineResponse{
			LineID:       l.LineID,
			LineNumber:   l.LineNumber,
			AccountID:    l.AccountID,
			AccountCode:  l.AccountCode,
			AccountName:  l.AccountName,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
		}
	}
	return resp
}

// ToListJournalEntriesResponse converts a page of entries.
func ToListJournalEntriesResponse(page *domain.JournalEntryPage) ListJournalEntriesResponse {
	entries := make([]JournalEntryResponse, len(page.Entries))
	for i := range page.Entries {
		entries[i] = ToJournalEntryResponse(&page.Entries[i])
	}
	return ListJournalEntriesResponse{
		Entries:  entries,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
}
