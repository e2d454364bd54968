package services

import (
	"github.com/SscSPs/erp_finance_core/internal/platform/config"
	"github.com/SscSPs/erp_finance_core/internal/utils/accounting"
)

// LedgerPolicy holds the configurable rules of the accounting core.
type LedgerPolicy struct {
	// AllowParentPosting lets journal lines reference accounts that have children.
	AllowParentPosting bool
	// DirectApproveRoles may approve entries outside a workflow. Empty means any role.
	DirectApproveRoles []string
	// PeriodAdminRoles may close and reopen fiscal periods.
	PeriodAdminRoles []string
	// DeriveTagsFromCode fills in cash flow tags for accounts created without them.
	DeriveTagsFromCode bool
	CodeConvention     accounting.CodeConvention
}

// PolicyFromConfig builds the ledger policy from application configuration.
func PolicyFromConfig(cfg *config.Config) LedgerPolicy {
	return LedgerPolicy{
		AllowParentPosting: cfg.AllowParentPosting,
		DirectApproveRoles: cfg.DirectApproveRoles,
		PeriodAdminRoles:   cfg.PeriodAdminRoles,
		DeriveTagsFromCode: cfg.DeriveTagsFromCode,
		CodeConvention: accounting.CodeConvention{
			CashPrefixes:              cfg.CashPrefixes,
			FixedAssetPrefixes:        cfg.FixedAssetPrefixes,
			LongTermLiabilityPrefixes: cfg.LongTermLiabilityPrefixes,
			NonCashExpenseCodes:       cfg.NonCashExpenseCodes,
			NonCashContraCodes:        cfg.NonCashContraCodes,
		},
	}
}
