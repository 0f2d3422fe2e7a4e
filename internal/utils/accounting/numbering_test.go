package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/accounting_core/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryNumberPrefix(t *testing.T) {
	at := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "DIARIO-202511-", accounting.EntryNumberPrefix("DIARIO", at))
	assert.Equal(t, "JE-202501-", accounting.EntryNumberPrefix("JE", time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC)))
}

func TestNextEntryNumber_Sequence(t *testing.T) {
	prefix := "DIARIO-202511-"

	first, err := accounting.NextEntryNumber(prefix, "")
	require.NoError(t, err)
	assert.Equal(t, "DIARIO-202511-0001", first)

	last := first
	for want := 2; want <= 12; want++ {
		next, err := accounting.NextEntryNumber(prefix, last)
		require.NoError(t, err)
		assert.Greater(t, next, last)
		last = next
	}
	assert.Equal(t, "DIARIO-202511-0012", last)
}

func TestNextEntryNumber_NewMonthResets(t *testing.T) {
	december := accounting.EntryNumberPrefix("DIARIO", time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC))
	next, err := accounting.NextEntryNumber(december, "")
	require.NoError(t, err)
	assert.Equal(t, "DIARIO-202512-0001", next)
}

func TestNextEntryNumber_BeyondFourDigits(t *testing.T) {
	next, err := accounting.NextEntryNumber("DIARIO-202511-", "DIARIO-202511-9999")
	require.NoError(t, err)
	assert.Equal(t, "DIARIO-202511-10000", next)
}

func TestNextEntryNumber_Invalid(t *testing.T) {
	_, err := accounting.NextEntryNumber("DIARIO-202511-", "DIARIO-202510-0004")
	assert.Error(t, err)

	_, err = accounting.NextEntryNumber("DIARIO-202511-", "DIARIO-202511-abcd")
	assert.Error(t, err)
}
