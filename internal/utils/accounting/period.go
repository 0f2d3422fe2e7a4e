package accounting

import (
	"fmt"
	"time"

	"github.com/SscSPs/accounting_core/internal/apperrors"
)

var (
	// ErrClosedPeriod is matched by both closure rules.
	ErrClosedPeriod = fmt.Errorf("%w: accounting period is closed", apperrors.ErrConflict)

	ErrClosedPreviousYear  = fmt.Errorf("%w (previous year)", ErrClosedPeriod)
	ErrClosedPreviousMonth = fmt.Errorf("%w (previous month)", ErrClosedPeriod)
)

// CheckOpenPeriod reports whether entryDate is still open relative to now.
// A date in an earlier year is closed, and so is an earlier month of the
// current year. The entry date is a calendar date, so its own year and
// month are used as is, never shifted into now's location.
func CheckOpenPeriod(entryDate, now time.Time) error {
	switch {
	case entryDate.Year() < now.Year():
		return fmt.Errorf("%w: entry dated %s", ErrClosedPreviousYear, entryDate.Format(time.DateOnly))
	case entryDate.Year() == now.Year() && entryDate.Month() < now.Month():
		return fmt.Errorf("%w: entry dated %s", ErrClosedPreviousMonth, entryDate.Format(time.DateOnly))
	}
	return nil
}
