package statements

import (
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// UnallocatedChargesLine names the adjustment for non-cash charges whose credit
// landed on no non-cash balance sheet account (cash, revenue or another expense).
const UnallocatedChargesLine = "Unallocated non-cash charges"

// Order in which balance sheet accounts absorb non-cash charges.
const (
	tierContra = iota
	tierFixedAsset
	tierAsset
	tierLiability
	tierEquity
	chargeTiers
)

// CashFlow builds an indirect-method cash flow statement. period is the posted
// activity inside [start, end]; opening is the cumulative activity before start,
// used only for the opening cash position.
//
// Sectioning follows account tags:
//   - non-cash expenses are added back to net income;
//   - assets that are neither cash nor fixed, and short-term liabilities, are working capital;
//   - fixed assets (and their contra accounts) are investing;
//   - long-term liabilities and equity are financing.
//
// The add-back is taken out of the balance sheet accounts that received the
// charge, so every non-cash account contributes exactly its net movement and
// NetChange equals the change in cash.
func CashFlow(organizationID string, start, end time.Time, period, opening []domain.AccountActivity) (domain.CashFlowStatement, error) {
	cf := domain.CashFlowStatement{
		OrganizationID:     organizationID,
		StartDate:          start,
		EndDate:            end,
		NonCashAdjustments: []domain.StatementLine{},
		WorkingCapital:     []domain.StatementLine{},
		Investing:          []domain.StatementLine{},
		Financing:          []domain.StatementLine{},
	}
	if err := checkRange(organizationID, period, opening); err != nil {
		return cf, err
	}

	for _, a := range opening {
		if isCashAccount(a.Account) {
			cf.CashBeginning += a.NetDebit()
		}
	}

	var (
		charges      domain.Amount
		balanceSheet []domain.AccountActivity
	)
	for _, a := range sortByCode(period) {
		acct := a.Account
		switch {
		case acct.Classification == domain.Revenue:
			cf.NetIncome += a.Balance()
		case acct.Classification == domain.Expense:
			cf.NetIncome -= a.Balance()
			if acct.Tags.IsNonCashExpense {
				cf.NonCashAdjustments = appendLine(cf.NonCashAdjustments, acct, a.NetDebit())
				charges += a.NetDebit()
			}
		case isCashAccount(acct):
			cf.CashChange += a.NetDebit()
		default:
			balanceSheet = append(balanceSheet, a)
		}
	}

	absorbed, unallocated := allocateCharges(charges, balanceSheet)
	if unallocated != 0 {
		cf.NonCashAdjustments = append(cf.NonCashAdjustments, domain.StatementLine{Name: UnallocatedChargesLine, Amount: -unallocated})
	}

	var workingCapital domain.Amount
	for i, a := range balanceSheet {
		acct := a.Account
		movement := -a.NetDebit() - absorbed[i]
		switch {
		case acct.Classification == domain.Asset && acct.Tags.IsFixedAsset:
			cf.Investing = appendLine(cf.Investing, acct, movement)
			cf.TotalInvesting += movement
		case acct.Classification == domain.Liability && acct.Tags.IsLongTermLiability,
			acct.Classification == domain.Equity:
			cf.Financing = appendLine(cf.Financing, acct, movement)
			cf.TotalFinancing += movement
		default:
			cf.WorkingCapital = appendLine(cf.WorkingCapital, acct, movement)
			workingCapital += movement
		}
	}

	cf.TotalOperating = cf.NetIncome + charges - unallocated + workingCapital
	cf.NetChange = cf.TotalOperating + cf.TotalInvesting + cf.TotalFinancing
	cf.CashEnding = cf.CashBeginning + cf.CashChange
	cf.Reconciled = cf.NetChange == cf.CashChange
	return cf, nil
}

// allocateCharges attributes the non-cash charge total to the balance sheet
// credits that carried it, tier by tier (contra accounts first). A negative total,
// such as a reversed write-off, is matched against debits instead. It returns the
// part absorbed by each account, signed like charges, and the part nothing absorbed.
func allocateCharges(charges domain.Amount, accounts []domain.AccountActivity) ([]domain.Amount, domain.Amount) {
	absorbed := make([]domain.Amount, len(accounts))
	remaining := charges.Abs()
	for tier := 0; tier < chargeTiers && remaining > 0; tier++ {
		for i, a := range accounts {
			if remaining == 0 {
				break
			}
			if chargeTier(a.Account) != tier {
				continue
			}
			capacity := a.Credit
			if charges < 0 {
				capacity = a.Debit
			}
			take := min(capacity, remaining)
			remaining -= take
			if charges < 0 {
				absorbed[i] = -take
			} else {
				absorbed[i] = take
			}
		}
	}
	if charges < 0 {
		return absorbed, -remaining
	}
	return absorbed, remaining
}

func chargeTier(a domain.Account) int {
	switch {
	case a.Tags.IsNonCashContra:
		return tierContra
	case a.Classification == domain.Asset && a.Tags.IsFixedAsset:
		return tierFixedAsset
	case a.Classification == domain.Asset:
		return tierAsset
	case a.Classification == domain.Liability:
		return tierLiability
	default:
		return tierEquity
	}
}

func isCashAccount(a domain.Account) bool {
	return a.Classification == domain.Asset && a.Tags.IsCash
}
