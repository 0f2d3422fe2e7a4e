package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/accounting_core/internal/apperrors"
	"github.com/SscSPs/accounting_core/internal/core/domain"
	portsrepo "github.com/SscSPs/accounting_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `
	je.entry_id, je.entry_number, je.entry_date, je.description, je.voucher_number,
	je.currency_code, je.exchange_rate, je.is_posted, je.posted_at, je.posted_by,
	je.is_reversed, je.reversed_from_id, COALESCE(u.name, ''),
	je.created_at, je.created_by, je.last_updated_at, je.last_updated_by`

const entryFrom = `
	FROM journal_entries je
	LEFT JOIN users u ON u.user_id = je.created_by`

const lineSelect = `
	SELECT l.line_id, l.entry_id, l.line_number, l.account_id, a.code, a.name,
	       l.description, l.debit_amount, l.credit_amount
	FROM journal_entry_lines l
	JOIN accounts a ON a.account_id = l.account_id`

const lineInsert = `
	INSERT INTO journal_entry_lines (line_id, entry_id, line_number, account_id, description, debit_amount, credit_amount)
	VALUES ($1, $2, $3, $4, $5, $6, $7);`

// PgxJournalRepository stores journal entries. Outside a transaction db is the
// pool; the copy handed to WithTx callbacks runs every query on the transaction.
type PgxJournalRepository struct {
	BaseRepository
	db DBTX
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		db:             pool,
	}
}

var (
	_ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)
	_ portsrepo.JournalTxRepository     = (*PgxJournalRepository)(nil)
)

// WithTx runs fn with a repository bound to a new transaction.
func (r *PgxJournalRepository) WithTx(ctx context.Context, fn func(txRepo portsrepo.JournalTxRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(&PgxJournalRepository{BaseRepository: r.BaseRepository, db: tx})
	})
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.EntryNumber,
		&e.EntryDate,
		&e.Description,
		&e.VoucherNumber,
		&e.CurrencyCode,
		&e.ExchangeRate,
		&e.IsPosted,
		&e.PostedAt,
		&e.PostedBy,
		&e.IsReversed,
		&e.ReversedFromID,
		&e.CreatedByName,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + entryFrom + ` WHERE je.entry_id = $1;`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, notFoundOr(err, "find journal entry %s", entryID)
	}
	return entry, nil
}

func (r *PgxJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + entryFrom + ` WHERE je.entry_number = $1;`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, entryNumber))
	if err != nil {
		return nil, notFoundOr(err, "find journal entry %s", entryNumber)
	}
	return entry, nil
}

// FindEntryByIDForUpdate locks only the header row; the users join is kept
// out of the lock with OF je.
func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + entryFrom + ` WHERE je.entry_id = $1 FOR UPDATE OF je;`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, notFoundOr(err, "lock journal entry %s", entryID)
	}
	return entry, nil
}

func scanLines(rows pgx.Rows) ([]domain.JournalEntryLine, error) {
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		var l domain.JournalEntryLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.LineNumber,
			&l.AccountID,
			&l.AccountCode,
			&l.AccountName,
			&l.Description,
			&l.DebitAmount,
			&l.CreditAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry lines: %w", err)
	}
	return lines, nil
}

func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	rows, err := r.db.Query(ctx, lineSelect+` WHERE l.entry_id = $1 ORDER BY l.line_number;`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of entry %s: %w", entryID, err)
	}
	return scanLines(rows)
}

func (r *PgxJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	result := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, lineSelect+` WHERE l.entry_id = ANY($1) ORDER BY l.entry_id, l.line_number;`, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of %d entries: %w", len(entryIDs), err)
	}
	lines, err := scanLines(rows)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		result[l.EntryID] = append(result[l.EntryID], l)
	}
	return result, nil
}

// entryFilterClause turns a filter into a WHERE clause and its arguments.
func entryFilterClause(filter domain.JournalEntryFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.IsPosted != nil {
		add("je.is_posted = $%d", *filter.IsPosted)
	}
	if filter.CurrencyCode != "" {
		add("je.currency_code = $%d", filter.CurrencyCode)
	}
	if filter.DateFrom != nil {
		add("je.entry_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("je.entry_date <= $%d", *filter.DateTo)
	}
	if filter.Search != "" {
		add("(je.entry_number ILIKE $%[1]d OR je.description ILIKE $%[1]d OR je.voucher_number ILIKE $%[1]d)",
			"%"+escapeLike(filter.Search)+"%")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.JournalEntryFilter) ([]domain.JournalEntry, int, error) {
	where, args := entryFilterClause(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries je`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count journal entries: %w", err)
	}

	pageArgs := append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := fmt.Sprintf(`SELECT %s %s %s
		ORDER BY je.entry_date DESC, je.entry_number DESC
		LIMIT $%d OFFSET $%d;`, entryColumns, entryFrom, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating journal entries: %w", err)
	}
	return entries, total, nil
}

func (r *PgxJournalRepository) InsertEntry(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (
			entry_id, entry_number, entry_date, description, voucher_number,
			currency_code, exchange_rate, is_posted, posted_at, posted_by,
			is_reversed, reversed_from_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := r.db.Exec(ctx, query,
		entry.EntryID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		entry.VoucherNumber,
		entry.CurrencyCode,
		entry.ExchangeRate,
		entry.IsPosted,
		entry.PostedAt,
		entry.PostedBy,
		entry.IsReversed,
		entry.ReversedFromID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entry number %s", apperrors.ErrDuplicate, entry.EntryNumber)
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryID, err)
	}
	return r.insertLines(ctx, entry.EntryID, entry.Lines)
}

func (r *PgxJournalRepository) insertLines(ctx context.Context, entryID string, lines []domain.JournalEntryLine) error {
	if len(lines) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(lineInsert,
			l.LineID,
			entryID,
			l.LineNumber,
			l.AccountID,
			l.Description,
			l.DebitAmount,
			l.CreditAmount,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	// Close reports the first failing statement of the batch.
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal entry "+entryID, err)
	}
	return nil
}

func (r *PgxJournalRepository) UpdateEntryHeader(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		UPDATE journal_entries
		SET entry_date = $2, description = $3, voucher_number = $4,
		    currency_code = $5, exchange_rate = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE entry_id = $1 AND is_posted = FALSE;`
	tag, err := r.db.Exec(ctx, query,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.VoucherNumber,
		entry.CurrencyCode,
		entry.ExchangeRate,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: unposted journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	return nil
}

func (r *PgxJournalRepository) ReplaceLines(ctx context.Context, entryID string, lines []domain.JournalEntryLine) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines of journal entry %s: %w", entryID, err)
	}
	return r.insertLines(ctx, entryID, lines)
}

func (r *PgxJournalRepository) MarkPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET is_posted = TRUE, posted_at = $2, posted_by = $3,
		    last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND is_posted = FALSE;`
	tag, err := r.db.Exec(ctx, query, entryID, postedAt, postedBy)
	if err != nil {
		return fmt.Errorf("failed to post journal entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: unposted journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}

func (r *PgxJournalRepository) MarkReversed(ctx context.Context, entryID string, userID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET is_reversed = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND is_posted = TRUE AND is_reversed = FALSE;`
	tag, err := r.db.Exec(ctx, query, entryID, at, userID)
	if err != nil {
		return fmt.Errorf("failed to mark journal entry %s reversed: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reversible journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}

func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND is_posted = FALSE;`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: unposted journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}

// LockEntryNumberPrefix takes a transaction-scoped advisory lock keyed by the
// month prefix. It is released on commit or rollback.
func (r *PgxJournalRepository) LockEntryNumberPrefix(ctx context.Context, monthPrefix string) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0));`, monthPrefix); err != nil {
		return fmt.Errorf("failed to lock entry numbering for %s: %w", monthPrefix, err)
	}
	return nil
}

func (r *PgxJournalRepository) FindLastEntryNumber(ctx context.Context, monthPrefix string) (string, error) {
	// Longer numbers sort first so that 10000 beats 9999 once the sequence outgrows four digits.
	query := `
		SELECT entry_number
		FROM journal_entries
		WHERE entry_number LIKE $1 || '%'
		ORDER BY length(entry_number) DESC, entry_number DESC
		LIMIT 1;`
	var last string
	err := r.db.QueryRow(ctx, query, escapeLike(monthPrefix)).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find last entry number for %s: %w", monthPrefix, err)
	}
	return last, nil
}

func (r *PgxJournalRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLog) error {
	return insertAuditLog(ctx, r.db, entry)
}
