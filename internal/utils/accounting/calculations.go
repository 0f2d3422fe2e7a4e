package accounting

import (
	"errors"
	"fmt"

	"github.com/SscSPs/accounting_core/internal/apperrors"
	"github.com/SscSPs/accounting_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits of debit/credit amounts.
const AmountPlaces = 2

// ExchangeRatePlaces is the number of fractional digits of an exchange rate.
const ExchangeRatePlaces = 6

// MinimumLines is the minimum number of lines of a journal entry.
const MinimumLines = 2

const (
	zeroAmountText = "total amount of the entry must be greater than zero"
	unbalancedText = "entry is not balanced"
)

var (
	ErrTooFewLines    = fmt.Errorf("%w: journal entry must have at least %d lines", apperrors.ErrValidation, MinimumLines)
	ErrNegativeAmount = fmt.Errorf("%w: line amounts cannot be negative", apperrors.ErrValidation)
	ErrZeroAmount     = fmt.Errorf("%w: %s", apperrors.ErrValidation, zeroAmountText)
	ErrUnbalanced     = fmt.Errorf("%w: %s", apperrors.ErrValidation, unbalancedText)
)

// ValidationFault is a journal validation failure that carries the
// user-facing message and the balance figures behind it.
type ValidationFault struct {
	reason     error
	Validation domain.BalanceValidation
}

func (f *ValidationFault) Error() string {
	return fmt.Sprintf("%s: %s", apperrors.ErrValidation.Error(), f.Validation.Error)
}

func (f *ValidationFault) Unwrap() error {
	return f.reason
}

// TotalDebit sums the debit column rounded to AmountPlaces.
func TotalDebit(lines []domain.JournalEntryLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.DebitAmount.Round(AmountPlaces))
	}
	return total
}

// TotalCredit sums the credit column rounded to AmountPlaces.
func TotalCredit(lines []domain.JournalEntryLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.CreditAmount.Round(AmountPlaces))
	}
	return total
}

// ValidateMinimumLines fails when fewer than MinimumLines lines are given.
func ValidateMinimumLines(lines []domain.JournalEntryLine) error {
	if len(lines) < MinimumLines {
		return ErrTooFewLines
	}
	return nil
}

// ValidateDoubleEntry compares the debit and credit totals. It never returns
// an error; an invalid set yields IsBalanced=false and a message with both
// totals and the difference. Equality is exact, there is no tolerance.
func ValidateDoubleEntry(lines []domain.JournalEntryLine) domain.BalanceValidation {
	totalDebit := TotalDebit(lines)
	totalCredit := TotalCredit(lines)
	v := domain.BalanceValidation{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  totalDebit.Sub(totalCredit).Abs(),
	}

	switch {
	case !totalDebit.IsPositive() || !totalCredit.IsPositive():
		v.Error = fmt.Sprintf("%s (debit %s, credit %s, difference %s)", zeroAmountText,
			totalDebit.StringFixed(AmountPlaces), totalCredit.StringFixed(AmountPlaces), v.Difference.StringFixed(AmountPlaces))
	case !v.Difference.IsZero():
		v.Error = fmt.Sprintf("%s: total debit %s, total credit %s, difference %s", unbalancedText,
			totalDebit.StringFixed(AmountPlaces), totalCredit.StringFixed(AmountPlaces), v.Difference.StringFixed(AmountPlaces))
	default:
		v.IsBalanced = true
	}
	return v
}

// ValidateJournalEntry is the gate run before any persistence: minimum lines,
// non-negative amounts, then the double-entry check.
func ValidateJournalEntry(lines []domain.JournalEntryLine) (domain.BalanceValidation, error) {
	if err := ValidateMinimumLines(lines); err != nil {
		return domain.BalanceValidation{}, err
	}
	for _, l := range lines {
		if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
			return domain.BalanceValidation{}, fmt.Errorf("%w (line %d)", ErrNegativeAmount, l.LineNumber)
		}
	}

	v := ValidateDoubleEntry(lines)
	if v.IsBalanced {
		return v, nil
	}
	reason := ErrUnbalanced
	if !v.TotalDebit.IsPositive() || !v.TotalCredit.IsPositive() {
		reason = ErrZeroAmount
	}
	return v, &ValidationFault{reason: reason, Validation: v}
}

// BalanceOf extracts the BalanceValidation from a fault returned by ValidateJournalEntry.
func BalanceOf(err error) (domain.BalanceValidation, bool) {
	var fault *ValidationFault
	if errors.As(err, &fault) {
		return fault.Validation, true
	}
	return domain.BalanceValidation{}, false
}

// NormalizeLines rounds amounts to AmountPlaces and renumbers lines 1..N in input order.
func NormalizeLines(lines []domain.JournalEntryLine) []domain.JournalEntryLine {
	out := make([]domain.JournalEntryLine, len(lines))
	for i, l := range lines {
		l.LineNumber = i + 1
		l.DebitAmount = l.DebitAmount.Round(AmountPlaces)
		l.CreditAmount = l.CreditAmount.Round(AmountPlaces)
		out[i] = l
	}
	return out
}

// SwapLines returns copies of lines with debit and credit exchanged, keeping
// line order, accounts and descriptions. Identity fields are cleared.
func SwapLines(lines []domain.JournalEntryLine) []domain.JournalEntryLine {
	out := make([]domain.JournalEntryLine, len(lines))
	for i, l := range lines {
		out[i] = domain.JournalEntryLine{
			LineNumber:   i + 1,
			AccountID:    l.AccountID,
			AccountCode:  l.AccountCode,
			AccountName:  l.AccountName,
			Description:  l.Description,
			DebitAmount:  l.CreditAmount,
			CreditAmount: l.DebitAmount,
		}
	}
	return out
}
