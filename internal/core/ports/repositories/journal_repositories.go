package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/accounting_core/internal/core/domain"
)

// JournalReader defines read operations for journal entries.
// Missing entries are reported as apperrors.ErrNotFound.
type JournalReader interface {
	// FindEntryByID retrieves an entry header, enriched with the creator's name.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByNumber retrieves an entry header by its PREFIX-YYYYMM-NNNN number.
	FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves the lines of one entry ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// FindLinesByEntryIDs retrieves lines for several entries, grouped by entry id.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error)

	// ListEntries returns one page of headers ordered by entry date descending,
	// and the total number of matching entries.
	ListEntries(ctx context.Context, filter domain.JournalEntryFilter) ([]domain.JournalEntry, int, error)
}

// JournalWriter defines write operations for journal entries. All of them are
// meant to run inside a transaction obtained from WithTx.
type JournalWriter interface {
	// FindEntryByIDForUpdate loads a header and locks its row until the transaction ends.
	FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// InsertEntry persists a header and all of its lines.
	InsertEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryHeader updates the mutable header fields of an unposted entry.
	UpdateEntryHeader(ctx context.Context, entry domain.JournalEntry) error

	// ReplaceLines deletes every line of entryID and inserts lines in their place.
	ReplaceLines(ctx context.Context, entryID string, lines []domain.JournalEntryLine) error

	// MarkPosted flips is_posted and stamps the posting actor and time.
	MarkPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error

	// MarkReversed flips is_reversed on a posted entry.
	MarkReversed(ctx context.Context, entryID string, userID string, at time.Time) error

	// DeleteEntry removes a header; its lines go with it.
	DeleteEntry(ctx context.Context, entryID string) error
}

// EntryNumberSequencer supports gap-free numbering inside a month bucket.
type EntryNumberSequencer interface {
	// LockEntryNumberPrefix serializes numbering for monthPrefix until the transaction ends.
	LockEntryNumberPrefix(ctx context.Context, monthPrefix string) error

	// FindLastEntryNumber returns the highest number starting with monthPrefix, or "".
	FindLastEntryNumber(ctx context.Context, monthPrefix string) (string, error)
}

// JournalTxRepository is the view of the journal store bound to one transaction.
type JournalTxRepository interface {
	JournalReader
	JournalWriter
	EntryNumberSequencer
	AuditLogWriter
}

// JournalRepositoryWithTx is what the journal engine depends on: reads outside
// a transaction plus transactional execution.
type JournalRepositoryWithTx interface {
	JournalReader
	TransactionManager[JournalTxRepository]
}
