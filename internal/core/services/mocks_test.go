package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/accounting_core/internal/core/domain"
	portsrepo "github.com/SscSPs/accounting_core/internal/core/ports/repositories"
	"github.com/SscSPs/accounting_core/internal/encryption"
	"github.com/stretchr/testify/mock"
)

// --- Mock JournalRepository ---
// WithTx runs the callback against the mock itself so expectations set on the
// writer methods apply inside the transaction.
type MockJournalRepository struct {
	mock.Mock
}

var (
	_ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)
	_ portsrepo.JournalTxRepository     = (*MockJournalRepository)(nil)
)

func (m *MockJournalRepository) WithTx(ctx context.Context, fn func(txRepo portsrepo.JournalTxRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, filter domain.JournalEntryFilter) ([]domain.JournalEntry, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), args.Int(1), args.Error(2)
}

func (m *MockJournalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so the service cannot mutate the fixture.
	entry := *args.Get(0).(*domain.JournalEntry)
	return &entry, args.Error(1)
}

func (m *MockJournalRepository) InsertEntry(ctx context.Context, entry domain.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockJournalRepository) UpdateEntryHeader(ctx context.Context, entry domain.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockJournalRepository) ReplaceLines(ctx context.Context, entryID string, lines []domain.JournalEntryLine) error {
	return m.Called(ctx, entryID, lines).Error(0)
}

func (m *MockJournalRepository) MarkPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error {
	return m.Called(ctx, entryID, postedBy, postedAt).Error(0)
}

func (m *MockJournalRepository) MarkReversed(ctx context.Context, entryID string, userID string, at time.Time) error {
	return m.Called(ctx, entryID, userID, at).Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	return m.Called(ctx, entryID).Error(0)
}

func (m *MockJournalRepository) LockEntryNumberPrefix(ctx context.Context, monthPrefix string) error {
	return m.Called(ctx, monthPrefix).Error(0)
}

func (m *MockJournalRepository) FindLastEntryNumber(ctx context.Context, monthPrefix string) (string, error) {
	args := m.Called(ctx, monthPrefix)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

// --- Mock AccountReader ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

// --- Mock AuditLogWriter ---
type MockAuditLogRepository struct {
	mock.Mock
}

var _ portsrepo.AuditLogWriter = (*MockAuditLogRepository)(nil)

func (m *MockAuditLogRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	return m.Called(ctx, userID, deletedAt, deletedBy).Error(0)
}

func (m *MockUserRepository) ListProtectedRecords(ctx context.Context, limit int, afterID string) ([]encryption.Record, error) {
	args := m.Called(ctx, limit, afterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]encryption.Record), args.Error(1)
}

func (m *MockUserRepository) SaveProtectedRecord(ctx context.Context, record encryption.Record) error {
	return m.Called(ctx, record).Error(0)
}
