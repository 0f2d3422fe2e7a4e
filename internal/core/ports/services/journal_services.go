package services

import (
	"context"

	"github.com/SscSPs/accounting_core/internal/core/domain"
	"github.com/SscSPs/accounting_core/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetEntryByID returns the entry with its lines, or nil if it does not exist.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// GetEntryByNumber returns the entry with its lines, or nil if it does not exist.
	GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListEntries returns one page of entries, newest entry date first.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*domain.JournalEntryPage, error)

	// ValidateLines runs the double-entry check on a candidate line set.
	ValidateLines(ctx context.Context, lines []dto.JournalEntryLineRequest) (domain.BalanceValidation, error)
}

// JournalWriterSvc defines the state transitions of a journal entry. Every
// method runs in a single transaction together with its audit record.
type JournalWriterSvc interface {
	// CreateEntry validates and persists a new unposted entry with a fresh number.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// UpdateEntry changes an unposted entry in an open period.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// PostEntry makes an entry immutable after re-checking its persisted lines.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// DeleteEntry removes an unposted entry and its lines.
	DeleteEntry(ctx context.Context, entryID string, userID string) error

	// ReverseEntry creates a posted mirror of a posted entry and marks the original reversed.
	ReverseEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
