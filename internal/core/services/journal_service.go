package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/accounting_core/internal/apperrors"
	"github.com/SscSPs/accounting_core/internal/core/domain"
	portsrepo "github.com/SscSPs/accounting_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/accounting_core/internal/core/ports/services"
	"github.com/SscSPs/accounting_core/internal/dto"
	"github.com/SscSPs/accounting_core/internal/platform/metrics"
	"github.com/SscSPs/accounting_core/internal/utils/accounting"
)

var (
	ErrEntryNotFound      = fmt.Errorf("%w: journal entry not found", apperrors.ErrNotFound)
	ErrAccountNotFound    = fmt.Errorf("%w: account not found", apperrors.ErrValidation)
	ErrAccountInactive    = fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)
	ErrEntryPosted        = fmt.Errorf("%w: cannot modify posted entry", apperrors.ErrConflict)
	ErrDeletePostedEntry  = fmt.Errorf("%w: cannot delete posted entry, use reversal instead", apperrors.ErrConflict)
	ErrEntryAlreadyPosted = fmt.Errorf("%w: entry is already posted", apperrors.ErrConflict)
	ErrCannotPost         = fmt.Errorf("%w: cannot post", apperrors.ErrConflict)
	ErrReverseNotPosted   = fmt.Errorf("%w: cannot reverse an entry that is not posted", apperrors.ErrConflict)
	ErrEntryReversed      = fmt.Errorf("%w: entry is already reversed", apperrors.ErrConflict)
)

const (
	opCreate   = "create"
	opUpdate   = "update"
	opPost     = "post"
	opDelete   = "delete"
	opReverse  = "reverse"
	opGet      = "get"
	opList     = "list"
	opValidate = "validate"

	defaultJournalPageSize = 20
	maxJournalPageSize     = 100

	reversalVoucherPrefix = "REV-"
)

// journalService is the journal entry engine: it gates every write with the
// double-entry validator and runs each state transition in one transaction
// together with its audit record.
type journalService struct {
	BaseService
	journalRepo     portsrepo.JournalRepositoryWithTx
	accountRepo     portsrepo.AccountReader
	auditRepo       portsrepo.AuditLogWriter
	now             func() time.Time
	numberPrefix    string
	defaultPageSize int
	maxPageSize     int
}

// JournalServiceOption configures the journal service.
type JournalServiceOption func(*journalService)

// WithClock replaces time.Now, which drives entry numbering and period closure.
func WithClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEntryNumberPrefix sets the PREFIX part of PREFIX-YYYYMM-NNNN.
func WithEntryNumberPrefix(prefix string) JournalServiceOption {
	return func(s *journalService) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			s.numberPrefix = prefix
		}
	}
}

// WithPageSizes sets the default and maximum page size of ListEntries.
func WithPageSizes(defaultSize, maxSize int) JournalServiceOption {
	return func(s *journalService) {
		if maxSize > 0 {
			s.maxPageSize = maxSize
		}
		if defaultSize > 0 && defaultSize <= s.maxPageSize {
			s.defaultPageSize = defaultSize
		}
	}
}

// NewJournalService creates the journal entry engine.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountReader,
	auditRepo portsrepo.AuditLogWriter,
	opts ...JournalServiceOption,
) portssvc.JournalSvcFacade {
	s := &journalService{
		journalRepo:     journalRepo,
		accountRepo:     accountRepo,
		auditRepo:       auditRepo,
		now:             time.Now,
		numberPrefix:    domain.DefaultEntryNumberPrefix,
		defaultPageSize: defaultJournalPageSize,
		maxPageSize:     maxJournalPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateEntry validates the lines before any transaction is opened, then
// numbers and inserts the entry and its audit record atomically.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (_ *domain.JournalEntry, err error) {
	defer s.observe(opCreate, time.Now(), &err)
	logger := s.GetLogger(ctx)

	lines := accounting.NormalizeLines(dto.ToDomainLines(req.Lines))
	validation, err := accounting.ValidateJournalEntry(lines)
	if err != nil {
		logger.Warn("Journal entry rejected by validation", slog.String("error", err.Error()))
		s.auditFailedAttempt(ctx, domain.AuditCreate, nil, userID, err)
		return nil, err
	}
	accounts, err := s.resolveAccounts(ctx, lines)
	if err != nil {
		s.auditFailedAttempt(ctx, domain.AuditCreate, nil, userID, err)
		return nil, err
	}

	now := s.now()
	entry := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		EntryDate:     req.EntryDate,
		Description:   strings.TrimSpace(req.Description),
		VoucherNumber: trimmedOrNil(req.VoucherNumber),
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		ExchangeRate:  normalizeExchangeRate(req.ExchangeRate),
		AuditFields:   domain.NewAuditFields(userID, now),
	}
	entry.Lines = withLineIdentity(entry.EntryID, lines, accounts)

	err = s.journalRepo.WithTx(ctx, func(txRepo portsrepo.JournalTxRepository) error {
		number, err := s.nextEntryNumber(ctx, txRepo, now)
		if err != nil {
			return err
		}
		entry.EntryNumber = number

		if err := txRepo.InsertEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to insert journal entry: %w", err)
		}
		return txRepo.AppendAuditLog(ctx, s.newAuditLog(domain.AuditCreate, entry.EntryID, userID, now, map[string]any{
			"entryNumber": entry.EntryNumber,
			"totalDebit":  validation.TotalDebit.StringFixed(accounting.AmountPlaces),
			"totalCredit": validation.TotalCredit.StringFixed(accounting.AmountPlaces),
			"lineCount":   len(entry.Lines),
		}))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create journal entry")
		return nil, err
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return &entry, nil
}

// GetEntryByID returns nil, nil when the entry does not exist.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (_ *domain.JournalEntry, err error) {
	defer s.observe(opGet, time.Now(), &err)
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	return s.withLines(ctx, entry, err)
}

// GetEntryByNumber returns nil, nil when the entry does not exist.
func (s *journalService) GetEntryByNumber(ctx context.Context, entryNumber string) (_ *domain.JournalEntry, err error) {
	defer s.observe(opGet, time.Now(), &err)
	entry, err := s.journalRepo.FindEntryByNumber(ctx, strings.TrimSpace(entryNumber))
	return s.withLines(ctx, entry, err)
}

func (s *journalService) withLines(ctx context.Context, entry *domain.JournalEntry, err error) (*domain.JournalEntry, error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry: %w", err)
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry lines: %w", err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries returns a page of entries ordered by entry date descending.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (_ *domain.JournalEntryPage, err error) {
	defer s.observe(opList, time.Now(), &err)

	filter := params.ToFilter()
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = s.defaultPageSize
	}
	if filter.PageSize > s.maxPageSize {
		filter.PageSize = s.maxPageSize
	}
	filter.CurrencyCode = strings.ToUpper(filter.CurrencyCode)
	filter.Search = strings.TrimSpace(filter.Search)

	entries, total, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	if filter.IncludeLines && len(entries) > 0 {
		ids := make([]string, len(entries))
		for i := range entries {
			ids[i] = entries[i].EntryID
		}
		linesByEntry, err := s.journalRepo.FindLinesByEntryIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to find journal entry lines: %w", err)
		}
		for i := range entries {
			entries[i].Lines = linesByEntry[entries[i].EntryID]
		}
	}

	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return &domain.JournalEntryPage{
		Entries:  entries,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ValidateLines reports the balance of a candidate line set without persisting it.
// Only a line count below the minimum is returned as an error.
func (s *journalService) ValidateLines(ctx context.Context, reqLines []dto.JournalEntryLineRequest) (_ domain.BalanceValidation, err error) {
	defer s.observe(opValidate, time.Now(), &err)
	lines := accounting.NormalizeLines(dto.ToDomainLines(reqLines))
	if err := accounting.ValidateMinimumLines(lines); err != nil {
		return domain.BalanceValidation{}, err
	}
	return accounting.ValidateDoubleEntry(lines), nil
}

// UpdateEntry changes an unposted entry whose date is in an open period.
// Supplied lines replace the existing set wholesale.
func (s *journalService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (_ *domain.JournalEntry, err error) {
	defer s.observe(opUpdate, time.Now(), &err)
	logger := s.GetLogger(ctx).With(slog.String("entry_id", entryID))

	var (
		newLines   []domain.JournalEntryLine
		validation domain.BalanceValidation
		accounts   map[string]domain.Account
	)
	if req.Lines != nil {
		newLines = accounting.NormalizeLines(dto.ToDomainLines(req.Lines))
		validation, err = accounting.ValidateJournalEntry(newLines)
		if err != nil {
			logger.Warn("Journal entry update rejected by validation", slog.String("error", err.Error()))
			s.auditFailedAttempt(ctx, domain.AuditUpdate, &entryID, userID, err)
			return nil, err
		}
		if accounts, err = s.resolveAccounts(ctx, newLines); err != nil {
			s.auditFailedAttempt(ctx, domain.AuditUpdate, &entryID, userID, err)
			return nil, err
		}
	}

	now := s.now()
	var updated *domain.JournalEntry
	err = s.journalRepo.WithTx(ctx, func(txRepo portsrepo.JournalTxRepository) error {
		entry, err := s.lockEntry(ctx, txRepo, entryID)
		if err != nil {
			return err
		}
		if entry.IsPosted {
			return ErrEntryPosted
		}
		if err := accounting.CheckOpenPeriod(entry.EntryDate, now); err != nil {
			return err
		}
		before := entrySnapshot(entry)

		if req.EntryDate != nil {
			if err := accounting.CheckOpenPeriod(*req.EntryDate, now); err != nil {
				return err
			}
			entry.EntryDate = *req.EntryDate
		}
		if req.Description != nil {
			entry.Description = strings.TrimSpace(*req.Description)
		}
		if req.VoucherNumber != nil {
			entry.VoucherNumber = trimmedOrNil(req.VoucherNumber)
		}
		if req.CurrencyCode != nil {
			entry.CurrencyCode = strings.ToUpper(*req.CurrencyCode)
		}
		if req.ExchangeRate != nil {
			entry.ExchangeRate = normalizeExchangeRate(req.ExchangeRate)
		}
		entry.Touch(userID, now)

		if err := txRepo.UpdateEntryHeader(ctx, *entry); err != nil {
			return fmt.Errorf("failed to update journal entry: %w", err)
		}

		if newLines != nil {
			entry.Lines = withLineIdentity(entry.EntryID, newLines, accounts)
			if err := txRepo.ReplaceLines(ctx, entry.EntryID, entry.Lines); err != nil {
				return fmt.Errorf("failed to replace journal entry lines: %w", err)
			}
		} else {
			if entry.Lines, err = txRepo.FindLinesByEntryID(ctx, entry.EntryID); err != nil {
				return fmt.Errorf("failed to find journal entry lines: %w", err)
			}
			validation = accounting.ValidateDoubleEntry(entry.Lines)
		}

		after := entrySnapshot(entry)
		after["totalDebit"] = validation.TotalDebit.StringFixed(accounting.AmountPlaces)
		after["totalCredit"] = validation.TotalCredit.StringFixed(accounting.AmountPlaces)
		after["linesReplaced"] = newLines != nil
		if err := txRepo.AppendAuditLog(ctx, s.newAuditLog(domain.AuditUpdate, entry.EntryID, userID, now, map[string]any{
			"before": before,
			"after":  after,
		})); err != nil {
			return err
		}
		updated = entry
		return nil
	})
	if err != nil {
		logger.Warn("Failed to update journal entry", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal entry updated", slog.String("entry_number", updated.EntryNumber))
	return updated, nil
}

// PostEntry freezes an entry after re-validating the lines as persisted.
func (s *journalService) PostEntry(ctx context.Context, entryID string, userID string) (_ *domain.JournalEntry, err error) {
	defer s.observe(opPost, time.Now(), &err)
	logger := s.GetLogger(ctx).With(slog.String("entry_id", entryID))

	now := s.now()
	var posted *domain.JournalEntry
	err = s.journalRepo.WithTx(ctx, func(txRepo portsrepo.JournalTxRepository) error {
		entry, err := s.lockEntry(ctx, txRepo, entryID)
		if err != nil {
			return err
		}
		if entry.IsPosted {
			return ErrEntryAlreadyPosted
		}

		lines, err := txRepo.FindLinesByEntryID(ctx, entry.EntryID)
		if err != nil {
			return fmt.Errorf("failed to find journal entry lines: %w", err)
		}
		validation, err := accounting.ValidateJournalEntry(lines)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrCannotPost, balanceMessage(err))
		}

		if err := txRepo.MarkPosted(ctx, entry.EntryID, userID, now); err != nil {
			return fmt.Errorf("failed to post journal entry: %w", err)
		}
		if err := txRepo.AppendAuditLog(ctx, s.newAuditLog(domain.AuditPost, entry.EntryID, userID, now, map[string]any{
			"entryNumber": entry.EntryNumber,
			"totalDebit":  validation.TotalDebit.StringFixed(accounting.AmountPlaces),
			"totalCredit": validation.TotalCredit.StringFixed(accounting.AmountPlaces),
		})); err != nil {
			return err
		}

		entry.IsPosted = true
		entry.PostedAt = &now
		entry.PostedBy = &userID
		entry.Touch(userID, now)
		entry.Lines = lines
		posted = entry
		return nil
	})
	if err != nil {
		logger.Warn("Failed to post journal entry", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal entry posted", slog.String("entry_number", posted.EntryNumber))
	return posted, nil
}

// DeleteEntry removes an unposted entry; its lines are deleted with it.
func (s *journalService) DeleteEntry(ctx context.Context, entryID string, userID string) (err error) {
	defer s.observe(opDelete, time.Now(), &err)
	logger := s.GetLogger(ctx).With(slog.String("entry_id", entryID))

	now := s.now()
	err = s.journalRepo.WithTx(ctx, func(txRepo portsrepo.JournalTxRepository) error {
		entry, err := s.lockEntry(ctx, txRepo, entryID)
		if err != nil {
			return err
		}
		if entry.IsPosted {
			return ErrDeletePostedEntry
		}
		if err := txRepo.DeleteEntry(ctx, entry.EntryID); err != nil {
			return fmt.Errorf("failed to delete journal entry: %w", err)
		}
		return txRepo.AppendAuditLog(ctx, s.newAuditLog(domain.AuditDelete, entry.EntryID, userID, now, map[string]any{
			"entryNumber": entry.EntryNumber,
			"entryDate":   entry.EntryDate.Format(time.DateOnly),
		}))
	})
	if err != nil {
		logger.Warn("Failed to delete journal entry", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Journal entry deleted")
	return nil
}

// ReverseEntry creates an already posted entry that mirrors entryID with
// debit and credit swapped, and flags the original as reversed.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, userID string) (_ *domain.JournalEntry, err error) {
	defer s.observe(opReverse, time.Now(), &err)
	logger := s.GetLogger(ctx).With(slog.String("entry_id", entryID))

	now := s.now()
	var reversal domain.JournalEntry
	err = s.journalRepo.WithTx(ctx, func(txRepo portsrepo.JournalTxRepository) error {
		original, err := s.lockEntry(ctx, txRepo, entryID)
		if err != nil {
			return err
		}
		if !original.IsPosted {
			return ErrReverseNotPosted
		}
		if original.IsReversed {
			return ErrEntryReversed
		}
		if err := accounting.CheckOpenPeriod(original.EntryDate, now); err != nil {
			return err
		}

		entryDate := now
		if req.EntryDate != nil {
			if err := accounting.CheckOpenPeriod(*req.EntryDate, now); err != nil {
				return err
			}
			entryDate = *req.EntryDate
		}

		lines, err := txRepo.FindLinesByEntryID(ctx, original.EntryID)
		if err != nil {
			return fmt.Errorf("failed to find journal entry lines: %w", err)
		}

		number, err := s.nextEntryNumber(ctx, txRepo, now)
		if err != nil {
			return err
		}

		reference := original.EntryNumber
		if original.VoucherNumber != nil && *original.VoucherNumber != "" {
			reference = *original.VoucherNumber
		}
		voucher := reversalVoucherPrefix + reference
		description := fmt.Sprintf("Reversal of entry %s", original.EntryNumber)
		if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
			description = strings.TrimSpace(*req.Description)
		}
		originalID := original.EntryID
		postedBy := userID

		reversal = domain.JournalEntry{
			EntryID:        uuid.NewString(),
			EntryNumber:    number,
			EntryDate:      entryDate,
			Description:    description,
			VoucherNumber:  &voucher,
			CurrencyCode:   original.CurrencyCode,
			ExchangeRate:   original.ExchangeRate,
			IsPosted:       true,
			PostedAt:       &now,
			PostedBy:       &postedBy,
			ReversedFromID: &originalID,
			AuditFields:    domain.NewAuditFields(userID, now),
		}
		reversal.Lines = withLineIdentity(reversal.EntryID, accounting.SwapLines(lines), nil)

		if err := txRepo.InsertEntry(ctx, reversal); err != nil {
			return fmt.Errorf("failed to insert reversal entry: %w", err)
		}
		if err := txRepo.MarkReversed(ctx, original.EntryID, userID, now); err != nil {
			return fmt.Errorf("failed to mark journal entry reversed: %w", err)
		}
		return txRepo.AppendAuditLog(ctx, s.newAuditLog(domain.AuditReverse, original.EntryID, userID, now, map[string]any{
			"originalEntryNumber": original.EntryNumber,
			"reversalEntryId":     reversal.EntryID,
			"reversalEntryNumber": reversal.EntryNumber,
		}))
	})
	if err != nil {
		logger.Warn("Failed to reverse journal entry", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal entry reversed", slog.String("reversal_entry_id", reversal.EntryID), slog.String("reversal_entry_number", reversal.EntryNumber))
	return &reversal, nil
}

// lockEntry loads an entry header and holds its row lock for the rest of the transaction.
func (s *journalService) lockEntry(ctx context.Context, txRepo portsrepo.JournalTxRepository, entryID string) (*domain.JournalEntry, error) {
	entry, err := txRepo.FindEntryByIDForUpdate(ctx, entryID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entry: %w", err)
	}
	return entry, nil
}

// nextEntryNumber must run inside the inserting transaction: the prefix lock
// keeps concurrent creators from reading the same highest number.
func (s *journalService) nextEntryNumber(ctx context.Context, txRepo portsrepo.JournalTxRepository, now time.Time) (string, error) {
	monthPrefix := accounting.EntryNumberPrefix(s.numberPrefix, now)
	if err := txRepo.LockEntryNumberPrefix(ctx, monthPrefix); err != nil {
		return "", fmt.Errorf("failed to lock entry numbering: %w", err)
	}
	last, err := txRepo.FindLastEntryNumber(ctx, monthPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to read last entry number: %w", err)
	}
	return accounting.NextEntryNumber(monthPrefix, last)
}

// resolveAccounts checks that every referenced account exists and is active.
func (s *journalService) resolveAccounts(ctx context.Context, lines []domain.JournalEntryLine) (map[string]domain.Account, error) {
	ids := domain.AccountIDs(lines)
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrAccountInactive, acc.Code)
		}
	}
	return accounts, nil
}

// auditFailedAttempt records a rejected write outside any transaction. It is
// best effort; a failure here is logged and otherwise ignored.
func (s *journalService) auditFailedAttempt(ctx context.Context, action domain.AuditAction, entryID *string, userID string, cause error) {
	if s.auditRepo == nil {
		return
	}
	record := s.newAuditLog(action, "", userID, s.now(), map[string]any{"error": cause.Error()})
	record.EntityID = entryID
	record.Success = false
	if err := s.auditRepo.AppendAuditLog(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to write audit record for rejected journal operation", slog.String("action", string(action)))
	}
}

func (s *journalService) newAuditLog(action domain.AuditAction, entryID, userID string, now time.Time, details map[string]any) domain.AuditLog {
	record := domain.AuditLog{
		AuditID:    uuid.NewString(),
		Action:     action,
		EntityType: domain.AuditEntityJournalEntry,
		UserID:     userID,
		Success:    true,
		Details:    details,
		CreatedAt:  now,
	}
	if entryID != "" {
		record.EntityID = &entryID
	}
	return record
}

func (s *journalService) observe(operation string, start time.Time, errp *error) {
	metrics.JournalOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.ObserveJournalOperation(operation, *errp)
}

// withLineIdentity assigns fresh line ids and display fields.
func withLineIdentity(entryID string, lines []domain.JournalEntryLine, accounts map[string]domain.Account) []domain.JournalEntryLine {
	out := make([]domain.JournalEntryLine, len(lines))
	for i, l := range lines {
		l.LineID = uuid.NewString()
		l.EntryID = entryID
		l.LineNumber = i + 1
		if acc, ok := accounts[l.AccountID]; ok {
			l.AccountCode = acc.Code
			l.AccountName = acc.Name
		}
		out[i] = l
	}
	return out
}

func entrySnapshot(e *domain.JournalEntry) map[string]any {
	snapshot := map[string]any{
		"entryDate":    e.EntryDate.Format(time.DateOnly),
		"description":  e.Description,
		"currencyCode": e.CurrencyCode,
		"exchangeRate": e.ExchangeRate.StringFixed(accounting.ExchangeRatePlaces),
	}
	if e.VoucherNumber != nil {
		snapshot["voucherNumber"] = *e.VoucherNumber
	}
	return snapshot
}

func normalizeExchangeRate(rate *decimal.Decimal) decimal.Decimal {
	if rate == nil || !rate.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return rate.Round(accounting.ExchangeRatePlaces)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func balanceMessage(err error) string {
	if v, ok := accounting.BalanceOf(err); ok {
		return v.Error
	}
	return err.Error()
}
