package pgsql

import (
	"testing"
	"time"

	"github.com/SscSPs/accounting_core/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestEntryFilterClause(t *testing.T) {
	posted := true
	from := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no filter", func(t *testing.T) {
		where, args := entryFilterClause(domain.JournalEntryFilter{Page: 1, PageSize: 20})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("all filters are numbered in order", func(t *testing.T) {
		where, args := entryFilterClause(domain.JournalEntryFilter{
			IsPosted:     &posted,
			CurrencyCode: "USD",
			DateFrom:     &from,
			Search:       "rent",
		})
		assert.Equal(t,
			" WHERE je.is_posted = $1 AND je.currency_code = $2 AND je.entry_date >= $3"+
				" AND (je.entry_number ILIKE $4 OR je.description ILIKE $4 OR je.voucher_number ILIKE $4)",
			where)
		assert.Equal(t, []any{true, "USD", from, "%rent%"}, args)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_off\\`, escapeLike(`100%_off\`))
	assert.Equal(t, "DIARIO-202511-", escapeLike("DIARIO-202511-"))
}
