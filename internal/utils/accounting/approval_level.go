package accounting

import "github.com/SscSPs/erp_finance_core/internal/core/domain"

// Approval escalation thresholds, inclusive upper bounds.
var (
	AutoApprovalLimit   = domain.NewAmount(50)
	DepartmentHeadLimit = domain.NewAmount(5000)
	FinanceManagerLimit = domain.NewAmount(25000)
)

// DetermineApprovalLevel classifies an amount into the approval tier that must sign off on it.
func DetermineApprovalLevel(amount domain.Amount) domain.ApprovalLevel {
	switch {
	case amount <= AutoApprovalLimit:
		return domain.ApprovalAuto
	case amount <= DepartmentHeadLimit:
		return domain.ApprovalDepartmentHead
	case amount <= FinanceManagerLimit:
		return domain.ApprovalFinanceManager
	default:
		return domain.ApprovalCFO
	}
}
