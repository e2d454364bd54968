package accounting

import (
	"fmt"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// minLines is the smallest number of lines a balanced entry can have.
const minLines = 2

// ValidateDoubleEntry checks that lines form a balanced double entry: at least two
// lines, exactly one nonzero non-negative side per line, and equal debit and credit
// totals. The totals are returned whether or not validation passes; they are zero
// when a side overflows.
func ValidateDoubleEntry(lines []domain.JournalLine) (domain.EntryTotals, error) {
	totals, sumErr := domain.SumLinesChecked(lines)

	if len(lines) < minLines {
		return totals, apperrors.NewValidationError("a journal entry needs at least %d lines, got %d", minLines, len(lines))
	}

	for i, l := range lines {
		if l.Debit < 0 || l.Credit < 0 {
			return totals, apperrors.NewValidationError("line %d: amounts must not be negative", i+1)
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			return totals, apperrors.NewValidationError("line %d: exactly one of debit or credit must be nonzero", i+1)
		}
		if l.GLAccountID == "" {
			return totals, apperrors.NewValidationError("line %d: account is required", i+1)
		}
		if l.Debit > domain.MaxAmount || l.Credit > domain.MaxAmount {
			return totals, apperrors.NewValidationError("line %d: amount exceeds the maximum of %s", i+1, domain.MaxAmount.Dollars())
		}
	}
	if sumErr != nil {
		return totals, apperrors.NewValidationError("entry totals exceed the representable range")
	}

	if totals.TotalDebit != totals.TotalCredit {
		return totals, apperrors.NewValidationError("Debits (%s) must equal credits (%s): imbalance of %s",
			totals.TotalDebit.Dollars(), totals.TotalCredit.Dollars(), totals.Imbalance().Abs().Dollars())
	}
	return totals, nil
}

// SignedBalance returns the balance of an account for the given debit and credit
// totals, positive on the account's normal side.
func SignedBalance(account domain.Account, debit, credit domain.Amount) domain.Amount {
	return account.NormalBalance.Signed(debit, credit)
}

// EntryNumber formats the human entry number for the n-th entry of a year.
func EntryNumber(year int, n int64) string {
	return fmt.Sprintf("JE-%04d-%06d", year, n)
}

// ReversalLines returns the lines of a reversing entry: every line of the original
// with its debit and credit exchanged.
func ReversalLines(original []domain.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(original))
	for i, l := range original {
		swapped := l.Swapped()
		swapped.LineID = ""
		swapped.JournalEntryID = ""
		out[i] = swapped
	}
	return out
}
