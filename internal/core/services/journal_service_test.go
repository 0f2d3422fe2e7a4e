package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/accounting_core/internal/apperrors"
	"github.com/SscSPs/accounting_core/internal/core/domain"
	portssvc "github.com/SscSPs/accounting_core/internal/core/ports/services"
	"github.com/SscSPs/accounting_core/internal/core/services"
	"github.com/SscSPs/accounting_core/internal/dto"
	"github.com/SscSPs/accounting_core/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	cashAccountID    = "8c1b0b3e-3f4a-4a44-9d0e-2f0c1a6b7e01"
	revenueAccountID = "8c1b0b3e-3f4a-4a44-9d0e-2f0c1a6b7e02"
	testUserID       = "user-1"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockAuditRepo   *MockAuditLogRepository
	service         portssvc.JournalSvcFacade
	ctx             context.Context
	now             time.Time
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.mockJournalRepo = new(MockJournalRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockAuditRepo = new(MockAuditLogRepository)
	s.ctx = context.Background()
	s.now = time.Date(2025, time.November, 15, 10, 30, 0, 0, time.UTC)
	s.service = services.NewJournalService(
		s.mockJournalRepo,
		s.mockAccountRepo,
		s.mockAuditRepo,
		services.WithClock(func() time.Time { return s.now }),
		services.WithPageSizes(20, 50),
	)
}

func (s *JournalServiceTestSuite) TearDownTest() {
	s.mockJournalRepo.AssertExpectations(s.T())
	s.mockAccountRepo.AssertExpectations(s.T())
	s.mockAuditRepo.AssertExpectations(s.T())
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

// --- fixtures ---

func (s *JournalServiceTestSuite) accounts() map[string]domain.Account {
	return map[string]domain.Account{
		cashAccountID:    {AccountID: cashAccountID, Code: "1101", Name: "Caja", IsActive: true},
		revenueAccountID: {AccountID: revenueAccountID, Code: "4101", Name: "Ventas", IsActive: true},
	}
}

func lineReq(accountID, debit, credit string) dto.JournalEntryLineRequest {
	return dto.JournalEntryLineRequest{
		AccountID:    accountID,
		DebitAmount:  decimal.RequireFromString(debit),
		CreditAmount: decimal.RequireFromString(credit),
	}
}

func (s *JournalServiceTestSuite) createRequest(debit, credit string) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:    s.now,
		Description:  "  Cash sale  ",
		CurrencyCode: "usd",
		Lines: []dto.JournalEntryLineRequest{
			lineReq(cashAccountID, debit, "0"),
			lineReq(revenueAccountID, "0", credit),
		},
	}
}

func (s *JournalServiceTestSuite) entry(posted, reversed bool, date time.Time) *domain.JournalEntry {
	e := &domain.JournalEntry{
		EntryID:      "entry-1",
		EntryNumber:  "DIARIO-202511-0003",
		EntryDate:    date,
		Description:  "Cash sale",
		CurrencyCode: "USD",
		ExchangeRate: decimal.NewFromInt(1),
		IsPosted:     posted,
		IsReversed:   reversed,
		AuditFields:  domain.NewAuditFields("creator", date),
	}
	if posted {
		at := date
		by := "creator"
		e.PostedAt = &at
		e.PostedBy = &by
	}
	return e
}

func persistedLines(debit, credit string) []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{LineID: "l1", EntryID: "entry-1", LineNumber: 1, AccountID: cashAccountID,
			DebitAmount: decimal.RequireFromString(debit), CreditAmount: decimal.Zero},
		{LineID: "l2", EntryID: "entry-1", LineNumber: 2, AccountID: revenueAccountID,
			DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString(credit)},
	}
}

func auditWith(action domain.AuditAction, success bool) any {
	return mock.MatchedBy(func(a domain.AuditLog) bool {
		return a.Action == action && a.Success == success && a.EntityType == domain.AuditEntityJournalEntry
	})
}

// --- CreateEntry ---

func (s *JournalServiceTestSuite) TestCreateEntry_Success() {
	var inserted domain.JournalEntry
	s.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, []string{cashAccountID, revenueAccountID}).Return(s.accounts(), nil).Once()
	withTx := s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	lock := s.mockJournalRepo.On("LockEntryNumberPrefix", mock.Anything, "DIARIO-202511-").Return(nil).Once().
		NotBefore(withTx)
	last := s.mockJournalRepo.On("FindLastEntryNumber", mock.Anything, "DIARIO-202511-").Return("DIARIO-202511-0007", nil).Once().
		NotBefore(lock)
	s.mockJournalRepo.On("InsertEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(domain.JournalEntry) }).
		Return(nil).Once().
		NotBefore(last)
	s.mockJournalRepo.On("AppendAuditLog", mock.Anything, mock.MatchedBy(func(a domain.AuditLog) bool {
		return a.Action == domain.AuditCreate && a.Success &&
			a.Details["totalDebit"] == "5000.00" && a.Details["totalCredit"] == "5000.00" &&
			a.Details["entryNumber"] == "DIARIO-202511-0008"
	})).Return(nil).Once()

	entry, err := s.service.CreateEntry(s.ctx, s.createRequest("5000", "5000"), testUserID)

	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal("DIARIO-202511-0008", entry.EntryNumber)
	s.Equal("Cash sale", entry.Description)
	s.Equal("USD", entry.CurrencyCode)
	s.True(entry.ExchangeRate.Equal(decimal.NewFromInt(1)))
	s.False(entry.IsPosted)
	s.Equal(testUserID, entry.CreatedBy)
	s.Require().Len(entry.Lines, 2)
	for i, l := range entry.Lines {
		s.Equal(i+1, l.LineNumber)
		s.Equal(entry.EntryID, l.EntryID)
		s.NotEmpty(l.LineID)
	}
	s.Equal("Caja", entry.Lines[0].AccountName)
	s.Equal(inserted.EntryID, entry.EntryID)
}

func (s *JournalServiceTestSuite) TestCreateEntry_FirstOfMonth() {
	s.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(s.accounts(), nil).Once()
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("LockEntryNumberPrefix", mock.Anything, "DIARIO-202511-").Return(nil).Once()
	s.mockJournalRepo.On("FindLastEntryNumber", mock.Anything, "DIARIO-202511-").Return("", nil).Once()
	s.mockJournalRepo.On("InsertEntry", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("AppendAuditLog", mock.Anything, auditWith(domain.AuditCreate, true)).Return(nil).Once()

	entry, err := s.service.CreateEntry(s.ctx, s.createRequest("10", "10"), testUserID)

	s.Require().NoError(err)
	s.Equal("DIARIO-202511-0001", entry.EntryNumber)
}

func (s *JournalServiceTestSuite) TestCreateEntry_UnbalancedFailsBeforeTransaction() {
	s.mockAuditRepo.On("AppendAuditLog", mock.Anything, auditWith(domain.AuditCreate, false)).Return(nil).Once()

	entry, err := s.service.CreateEntry(s.ctx, s.createRequest("6000", "5000"), testUserID)

	s.Nil(entry)
	s.ErrorIs(err, accounting.ErrUnbalanced)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "1000.00")
	s.mockJournalRepo.AssertNotCalled(s.T(), "WithTx", mock.Anything)
	s.mockAccountRepo.AssertNotCalled(s.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateEntry_FailedAuditIsBestEffort() {
	s.mockAuditRepo.On("AppendAuditLog", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	_, err := s.service.CreateEntry(s.ctx, s.createRequest("0", "0"), testUserID)

	s.ErrorIs(err, accounting.ErrZeroAmount)
}

func (s *JournalServiceTestSuite) TestCreateEntry_TooFewLines() {
	s.mockAuditRepo.On("AppendAuditLog", mock.Anything, auditWith(domain.AuditCreate, false)).Return(nil).Once()
	req := s.createRequest("10", "10")
	req.Lines = req.Lines[:1]

	_, err := s.service.CreateEntry(s.ctx, req, testUserID)

	s.ErrorIs(err, accounting.ErrTooFewLines)
}

func (s *JournalServiceTestSuite) TestCreateEntry_UnknownAccount() {
	accounts := s.accounts()
	delete(accounts, revenueAccountID)
	s.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(accounts, nil).Once()
	s.mockAuditRepo.On("AppendAuditLog", mock.Anything, auditWith(domain.AuditCreate, false)).Return(nil).Once()

	_, err := s.service.CreateEntry(s.ctx, s.createRequest("10", "10"), testUserID)

	s.ErrorIs(err, services.ErrAccountNotFound)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockJournalRepo.AssertNotCalled(s.T(), "WithTx", mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateEntry_InsertFailureSkipsAudit() {
	s.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(s.accounts(), nil).Once()
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("LockEntryNumberPrefix", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindLastEntryNumber", mock.Anything, mock.Anything).Return("", nil).Once()
	s.mockJournalRepo.On("InsertEntry", mock.Anything, mock.Anything).Return(errors.New("unique violation")).Once()

	entry, err := s.service.CreateEntry(s.ctx, s.createRequest("10", "10"), testUserID)

	s.Nil(entry)
	s.Error(err)
	s.mockJournalRepo.AssertNotCalled(s.T(), "AppendAuditLog", mock.Anything, mock.Anything)
}

// --- reads ---

func (s *JournalServiceTestSuite) TestGetEntryByID_NotFoundReturnsNil() {
	s.mockJournalRepo.On("FindEntryByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	entry, err := s.service.GetEntryByID(s.ctx, "missing")

	s.NoError(err)
	s.Nil(entry)
}

func (s *JournalServiceTestSuite) TestGetEntryByNumber_IncludesLines() {
	s.mockJournalRepo.On("FindEntryByNumber", mock.Anything, "DIARIO-202511-0003").Return(s.entry(false, false, s.now), nil).Once()
	s.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(persistedLines("10", "10"), nil).Once()

	entry, err := s.service.GetEntryByNumber(s.ctx, " DIARIO-202511-0003 ")

	s.Require().NoError(err)
	s.Len(entry.Lines, 2)
}

func (s *JournalServiceTestSuite) TestListEntries_ClampsPageSizeAndLoadsLines() {
	entries := []domain.JournalEntry{*s.entry(false, false, s.now)}
	s.mockJournalRepo.On("ListEntries", mock.Anything, mock.MatchedBy(func(f domain.JournalEntryFilter) bool {
		return f.Page == 1 && f.PageSize == 50 && f.CurrencyCode == "USD" && f.IncludeLines
	})).Return(entries, 1, nil).Once()
	s.mockJournalRepo.On("FindLinesByEntryIDs", mock.Anything, []string{"entry-1"}).
		Return(map[string][]domain.JournalEntryLine{"entry-1": persistedLines("10", "10")}, nil).Once()

	page, err := s.service.ListEntries(s.ctx, dto.ListJournalEntriesParams{
		Page: 0, PageSize: 500, CurrencyCode: "usd", IncludeLines: true,
	})

	s.Require().NoError(err)
	s.Equal(1, page.Total)
	s.Equal(50, page.PageSize)
	s.Len(page.Entries[0].Lines, 2)
}

func (s *JournalServiceTestSuite) TestListEntries_DefaultPageSize() {
	s.mockJournalRepo.On("ListEntries", mock.Anything, mock.MatchedBy(func(f domain.JournalEntryFilter) bool {
		return f.PageSize == 20
	})).Return([]domain.JournalEntry{}, 0, nil).Once()

	page, err := s.service.ListEntries(s.ctx, dto.ListJournalEntriesParams{Page: 2})

	s.Require().NoError(err)
	s.Equal(2, page.Page)
	s.Empty(page.Entries)
}

func (s *JournalServiceTestSuite) TestValidateLines() {
	v, err := s.service.ValidateLines(s.ctx, []dto.JournalEntryLineRequest{
		lineReq(cashAccountID, "100.01", "0"),
		lineReq(revenueAccountID, "0", "100.00"),
	})

	s.Require().NoError(err)
	s.False(v.IsBalanced)
	s.Equal("0.01", v.Difference.StringFixed(2))
}

// --- UpdateEntry ---

func (s *JournalServiceTestSuite) TestUpdateEntry_PostedEntryRejected() {
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(true, false, s.now), nil).Once()
	desc := "changed"

	_, err := s.service.UpdateEntry(s.ctx, "entry-1", dto.UpdateJournalEntryRequest{Description: &desc}, testUserID)

	s.ErrorIs(err, services.ErrEntryPosted)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockJournalRepo.AssertNotCalled(s.T(), "UpdateEntryHeader", mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestUpdateEntry_ClosedPeriod() {
	lastMonth := time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC)
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(false, false, lastMonth), nil).Once()
	desc := "changed"

	_, err := s.service.UpdateEntry(s.ctx, "entry-1", dto.UpdateJournalEntryRequest{Description: &desc}, testUserID)

	s.ErrorIs(err, accounting.ErrClosedPreviousMonth)
	s.Contains(err.Error(), "previous month")
}

func (s *JournalServiceTestSuite) TestUpdateEntry_NewDateInClosedPeriod() {
	lastYear := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(false, false, s.now), nil).Once()

	_, err := s.service.UpdateEntry(s.ctx, "entry-1", dto.UpdateJournalEntryRequest{EntryDate: &lastYear}, testUserID)

	s.ErrorIs(err, accounting.ErrClosedPreviousYear)
}

func (s *JournalServiceTestSuite) TestUpdateEntry_NotFound() {
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.UpdateEntry(s.ctx, "nope", dto.UpdateJournalEntryRequest{}, testUserID)

	s.ErrorIs(err, services.ErrEntryNotFound)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *JournalServiceTestSuite) TestUpdateEntry_ReplacesLines() {
	var replaced []domain.JournalEntryLine
	s.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(s.accounts(), nil).Once()
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(false, false, s.now), nil).Once()
	s.mockJournalRepo.On("UpdateEntryHeader", mock.Anything, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Description == "Corrected" && e.LastUpdatedBy == testUserID
	})).Return(nil).Once()
	s.mockJournalRepo.On("ReplaceLines", mock.Anything, "entry-1", mock.Anything).
		Run(func(args mock.Arguments) { replaced = args.Get(2).([]domain.JournalEntryLine) }).
		Return(nil).Once()
	s.mockJournalRepo.On("AppendAuditLog", mock.Anything, mock.MatchedBy(func(a domain.AuditLog) bool {
		before, okBefore := a.Details["before"].(map[string]any)
		after, okAfter := a.Details["after"].(map[string]any)
		return a.Action == domain.AuditUpdate && okBefore && okAfter &&
			before["description"] == "Cash sale" && after["description"] == "Corrected" &&
			after["totalDebit"] == "75.50"
	})).Return(nil).Once()

	desc := "Corrected"
	updated, err := s.service.UpdateEntry(s.ctx, "entry-1", dto.UpdateJournalEntryRequest{
		Description: &desc,
		Lines: []dto.JournalEntryLineRequest{
			lineReq(cashAccountID, "75.50", "0"),
			lineReq(revenueAccountID, "0", "70.50"),
			lineReq(revenueAccountID, "0", "5"),
		},
	}, testUserID)

	s.Require().NoError(err)
	s.Equal("Corrected", updated.Description)
	s.Require().Len(replaced, 3)
	s.Equal(3, replaced[2].LineNumber)
	s.Equal(updated.Lines, replaced)
}

func (s *JournalServiceTestSuite) TestUpdateEntry_UnbalancedLinesRejectedBeforeTransaction() {
	s.mockAuditRepo.On("AppendAuditLog", mock.Anything, mock.MatchedBy(func(a domain.AuditLog) bool {
		return a.Action == domain.AuditUpdate && !a.Success && a.EntityID != nil && *a.EntityID == "entry-1"
	})).Return(nil).Once()

	_, err := s.service.UpdateEntry(s.ctx, "entry-1", dto.UpdateJournalEntryRequest{
		Lines: []dto.JournalEntryLineRequest{lineReq(cashAccountID, "1", "0"), lineReq(revenueAccountID, "0", "2")},
	}, testUserID)

	s.ErrorIs(err, accounting.ErrUnbalanced)
	s.mockJournalRepo.AssertNotCalled(s.T(), "WithTx", mock.Anything)
}

// --- PostEntry ---

func (s *JournalServiceTestSuite) TestPostEntry_Success() {
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(false, false, s.now), nil).Once()
	s.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(persistedLines("250", "250"), nil).Once()
	s.mockJournalRepo.On("MarkPosted", mock.Anything, "entry-1", testUserID, s.now).Return(nil).Once()
	s.mockJournalRepo.On("AppendAuditLog", mock.Anything, auditWith(domain.AuditPost, true)).Return(nil).Once()

	posted, err := s.service.PostEntry(s.ctx, "entry-1", testUserID)

	s.Require().NoError(err)
	s.True(posted.IsPosted)
	s.Equal(s.now, *posted.PostedAt)
	s.Equal(testUserID, *posted.PostedBy)
	s.Len(posted.Lines, 2)
}

func (s *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(true, false, s.now), nil).Once()

	_, err := s.service.PostEntry(s.ctx, "entry-1", testUserID)

	s.ErrorIs(err, services.ErrEntryAlreadyPosted)
}

func (s *JournalServiceTestSuite) TestPostEntry_PersistedLinesUnbalanced() {
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(false, false, s.now), nil).Once()
	s.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(persistedLines("100.01", "100.00"), nil).Once()

	_, err := s.service.PostEntry(s.ctx, "entry-1", testUserID)

	s.ErrorIs(err, services.ErrCannotPost)
	s.Contains(err.Error(), "cannot post: entry is not balanced")
	s.Contains(err.Error(), "0.01")
	s.mockJournalRepo.AssertNotCalled(s.T(), "MarkPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestPostEntry_ClosedPeriodAllowed() {
	lastYear := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(false, false, lastYear), nil).Once()
	s.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(persistedLines("1", "1"), nil).Once()
	s.mockJournalRepo.On("MarkPosted", mock.Anything, "entry-1", testUserID, s.now).Return(nil).Once()
	s.mockJournalRepo.On("AppendAuditLog", mock.Anything, auditWith(domain.AuditPost, true)).Return(nil).Once()

	_, err := s.service.PostEntry(s.ctx, "entry-1", testUserID)

	s.NoError(err)
}

// --- DeleteEntry ---

func (s *JournalServiceTestSuite) TestDeleteEntry_Draft() {
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(false, false, s.now), nil).Once()
	s.mockJournalRepo.On("DeleteEntry", mock.Anything, "entry-1").Return(nil).Once()
	s.mockJournalRepo.On("AppendAuditLog", mock.Anything, auditWith(domain.AuditDelete, true)).Return(nil).Once()

	s.NoError(s.service.DeleteEntry(s.ctx, "entry-1", testUserID))
}

func (s *JournalServiceTestSuite) TestDeleteEntry_PostedRejected() {
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(true, false, s.now), nil).Once()

	err := s.service.DeleteEntry(s.ctx, "entry-1", testUserID)

	s.ErrorIs(err, services.ErrDeletePostedEntry)
	s.Contains(err.Error(), "use reversal instead")
	s.mockJournalRepo.AssertNotCalled(s.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

// --- ReverseEntry ---

func (s *JournalServiceTestSuite) TestReverseEntry_Success() {
	original := s.entry(true, false, s.now)
	voucher := "F-001"
	original.VoucherNumber = &voucher

	var inserted domain.JournalEntry
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(original, nil).Once()
	s.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(persistedLines("300", "300"), nil).Once()
	s.mockJournalRepo.On("LockEntryNumberPrefix", mock.Anything, "DIARIO-202511-").Return(nil).Once()
	s.mockJournalRepo.On("FindLastEntryNumber", mock.Anything, "DIARIO-202511-").Return("DIARIO-202511-0009", nil).Once()
	s.mockJournalRepo.On("InsertEntry", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(domain.JournalEntry) }).
		Return(nil).Once()
	s.mockJournalRepo.On("MarkReversed", mock.Anything, "entry-1", testUserID, s.now).Return(nil).Once()
	s.mockJournalRepo.On("AppendAuditLog", mock.Anything, mock.MatchedBy(func(a domain.AuditLog) bool {
		return a.Action == domain.AuditReverse &&
			a.Details["originalEntryNumber"] == "DIARIO-202511-0003" &&
			a.Details["reversalEntryNumber"] == "DIARIO-202511-0010"
	})).Return(nil).Once()

	reversal, err := s.service.ReverseEntry(s.ctx, "entry-1", dto.ReverseJournalEntryRequest{}, testUserID)

	s.Require().NoError(err)
	s.Equal(inserted.EntryID, reversal.EntryID)
	s.Equal("DIARIO-202511-0010", reversal.EntryNumber)
	s.Equal("REV-F-001", *reversal.VoucherNumber)
	s.Contains(reversal.Description, "DIARIO-202511-0003")
	s.True(reversal.IsPosted)
	s.False(reversal.IsReversed)
	s.Equal("entry-1", *reversal.ReversedFromID)
	s.Require().Len(reversal.Lines, 2)
	s.True(reversal.Lines[0].CreditAmount.Equal(decimal.NewFromInt(300)))
	s.True(reversal.Lines[0].DebitAmount.IsZero())
	s.True(reversal.Lines[1].DebitAmount.Equal(decimal.NewFromInt(300)))
	s.Equal(cashAccountID, reversal.Lines[0].AccountID)
	s.Equal(reversal.EntryID, reversal.Lines[0].EntryID)
}

func (s *JournalServiceTestSuite) TestReverseEntry_VoucherFallsBackToEntryNumber() {
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(s.entry(true, false, s.now), nil).Once()
	s.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(persistedLines("1", "1"), nil).Once()
	s.mockJournalRepo.On("LockEntryNumberPrefix", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("FindLastEntryNumber", mock.Anything, mock.Anything).Return("", nil).Once()
	s.mockJournalRepo.On("InsertEntry", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("MarkReversed", mock.Anything, "entry-1", testUserID, s.now).Return(nil).Once()
	s.mockJournalRepo.On("AppendAuditLog", mock.Anything, auditWith(domain.AuditReverse, true)).Return(nil).Once()

	custom := "Customer returned goods"
	reversal, err := s.service.ReverseEntry(s.ctx, "entry-1", dto.ReverseJournalEntryRequest{Description: &custom}, testUserID)

	s.Require().NoError(err)
	s.Equal("REV-DIARIO-202511-0003", *reversal.VoucherNumber)
	s.Equal(custom, reversal.Description)
}

func (s *JournalServiceTestSuite) TestReverseEntry_StateFaults() {
	tests := []struct {
		name     string
		entry    *domain.JournalEntry
		expected error
	}{
		{name: "not posted", entry: s.entry(false, false, s.now), expected: services.ErrReverseNotPosted},
		{name: "already reversed", entry: s.entry(true, true, s.now), expected: services.ErrEntryReversed},
		{name: "previous year", entry: s.entry(true, false, time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC)), expected: accounting.ErrClosedPreviousYear},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			repo := new(MockJournalRepository)
			svc := services.NewJournalService(repo, s.mockAccountRepo, s.mockAuditRepo,
				services.WithClock(func() time.Time { return s.now }))
			repo.On("WithTx", mock.Anything).Return(nil).Once()
			repo.On("FindEntryByIDForUpdate", mock.Anything, "entry-1").Return(tt.entry, nil).Once()

			_, err := svc.ReverseEntry(s.ctx, "entry-1", dto.ReverseJournalEntryRequest{}, testUserID)

			s.ErrorIs(err, tt.expected)
			s.ErrorIs(err, apperrors.ErrConflict)
			repo.AssertNotCalled(s.T(), "InsertEntry", mock.Anything, mock.Anything)
			repo.AssertExpectations(s.T())
		})
	}
}

func (s *JournalServiceTestSuite) TestWithTxFailurePropagates() {
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(errors.New("connection refused")).Once()

	err := s.service.DeleteEntry(s.ctx, "entry-1", testUserID)

	s.EqualError(err, "connection refused")
}

func (s *JournalServiceTestSuite) TestCustomEntryNumberPrefix() {
	svc := services.NewJournalService(s.mockJournalRepo, s.mockAccountRepo, s.mockAuditRepo,
		services.WithClock(func() time.Time { return s.now }),
		services.WithEntryNumberPrefix("JE"))
	s.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(s.accounts(), nil).Once()
	s.mockJournalRepo.On("WithTx", mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("LockEntryNumberPrefix", mock.Anything, "JE-202511-").Return(nil).Once()
	s.mockJournalRepo.On("FindLastEntryNumber", mock.Anything, "JE-202511-").Return("", nil).Once()
	s.mockJournalRepo.On("InsertEntry", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockJournalRepo.On("AppendAuditLog", mock.Anything, mock.Anything).Return(nil).Once()

	entry, err := svc.CreateEntry(s.ctx, s.createRequest("1", "1"), testUserID)

	s.Require().NoError(err)
	s.Equal("JE-202511-0001", entry.EntryNumber)
}
