// Package statements derives financial statements from posted account activity.
// Nothing in this package performs I/O; callers load activity inside a single
// read snapshot and hand it over.
package statements

import (
	"sort"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/apperrors"
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// TrialBalance builds the trial balance of the given activity. It returns the
// report together with an integrity error when debit and credit balances differ.
func TrialBalance(organizationID string, asOf *time.Time, activity []domain.AccountActivity) (domain.TrialBalance, error) {
	tb := domain.TrialBalance{
		OrganizationID: organizationID,
		AsOf:           asOf,
		Rows:           make([]domain.TrialBalanceRow, 0, len(activity)),
	}
	if err := checkRange(organizationID, activity); err != nil {
		return tb, err
	}
	for _, a := range sortByCode(activity) {
		row := domain.TrialBalanceRow{
			AccountID:      a.Account.AccountID,
			Code:           a.Account.Code,
			AccountName:    a.Account.Name,
			Classification: a.Account.Classification,
			NormalBalance:  a.Account.NormalBalance,
			TotalDebit:     a.Debit,
			TotalCredit:    a.Credit,
		}
		if net := a.NetDebit(); net >= 0 {
			row.DebitBalance = net
		} else {
			row.CreditBalance = -net
		}
		tb.TotalDebitBalance += row.DebitBalance
		tb.TotalCreditBalance += row.CreditBalance
		tb.Rows = append(tb.Rows, row)
	}
	if tb.TotalDebitBalance != tb.TotalCreditBalance {
		return tb, apperrors.NewIntegrityError("trial balance for organization %s does not net to zero: debits %s, credits %s",
			organizationID, tb.TotalDebitBalance.Dollars(), tb.TotalCreditBalance.Dollars())
	}
	return tb, nil
}

// IncomeStatement sums revenue and expense activity over [start, end]. Lines keep
// their normal-balance sign, so a contra-revenue account shows as negative revenue.
func IncomeStatement(organizationID string, start, end time.Time, activity []domain.AccountActivity) (domain.IncomeStatement, error) {
	is := domain.IncomeStatement{
		OrganizationID: organizationID,
		StartDate:      start,
		EndDate:        end,
		Revenue:        []domain.StatementLine{},
		Expenses:       []domain.StatementLine{},
	}
	if err := checkRange(organizationID, activity); err != nil {
		return is, err
	}
	for _, a := range sortByCode(activity) {
		switch a.Account.Classification {
		case domain.Revenue:
			is.Revenue = appendLine(is.Revenue, a.Account, a.Balance())
			is.TotalRevenue += a.Balance()
		case domain.Expense:
			is.Expenses = appendLine(is.Expenses, a.Account, a.Balance())
			is.TotalExpenses += a.Balance()
		}
	}
	is.NetIncome = is.TotalRevenue - is.TotalExpenses
	return is, nil
}

// BalanceSheet sums cumulative asset, liability and equity positions. Revenue and
// expense activity not yet closed to equity is shown as current earnings inside
// equity. An integrity error accompanies the sheet when the accounting identity fails.
func BalanceSheet(organizationID string, asOf time.Time, cumulative []domain.AccountActivity) (domain.BalanceSheet, error) {
	bs := domain.BalanceSheet{
		OrganizationID: organizationID,
		AsOf:           asOf,
		Assets:         []domain.StatementLine{},
		Liabilities:    []domain.StatementLine{},
		Equity:         []domain.StatementLine{},
	}
	if err := checkRange(organizationID, cumulative); err != nil {
		return bs, err
	}
	for _, a := range sortByCode(cumulative) {
		bal := a.Balance()
		switch a.Account.Classification {
		case domain.Asset:
			bs.Assets = appendLine(bs.Assets, a.Account, bal)
			bs.TotalAssets += bal
		case domain.Liability:
			bs.Liabilities = appendLine(bs.Liabilities, a.Account, bal)
			bs.TotalLiabilities += bal
		case domain.Equity:
			bs.Equity = appendLine(bs.Equity, a.Account, bal)
			bs.TotalEquity += bal
		case domain.Revenue:
			bs.CurrentEarnings += bal
		case domain.Expense:
			bs.CurrentEarnings -= bal
		}
	}
	if bs.CurrentEarnings != 0 {
		bs.Equity = append(bs.Equity, domain.StatementLine{Name: "Current earnings", Amount: bs.CurrentEarnings})
		bs.TotalEquity += bs.CurrentEarnings
	}
	if bs.TotalAssets != bs.TotalLiabilities+bs.TotalEquity {
		return bs, apperrors.NewIntegrityError("balance sheet for organization %s does not balance: assets %s, liabilities %s, equity %s",
			organizationID, bs.TotalAssets.Dollars(), bs.TotalLiabilities.Dollars(), bs.TotalEquity.Dollars())
	}
	return bs, nil
}

// checkRange fails when the gross debits and credits of the activity do not fit
// in an Amount. Every total a statement computes is bounded by that gross figure.
func checkRange(organizationID string, activity ...[]domain.AccountActivity) error {
	var (
		gross domain.Amount
		err   error
	)
	for _, set := range activity {
		for _, a := range set {
			if a.Debit < 0 || a.Credit < 0 {
				return apperrors.NewIntegrityError("account %s has negative posted activity", a.Account.AccountID)
			}
			if gross, err = gross.Add(a.Debit); err == nil {
				gross, err = gross.Add(a.Credit)
			}
			if err != nil {
				return apperrors.NewIntegrityError("posted activity for organization %s exceeds the representable range", organizationID)
			}
		}
	}
	return nil
}

func appendLine(lines []domain.StatementLine, account domain.Account, amount domain.Amount) []domain.StatementLine {
	if amount == 0 {
		return lines
	}
	return append(lines, domain.StatementLine{
		AccountID: account.AccountID,
		Code:      account.Code,
		Name:      account.Name,
		Amount:    amount,
	})
}

func sortByCode(activity []domain.AccountActivity) []domain.AccountActivity {
	out := make([]domain.AccountActivity, len(activity))
	copy(out, activity)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Account.Code < out[j].Account.Code
	})
	return out
}
