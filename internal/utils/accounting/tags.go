package accounting

import (
	"strings"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
)

// CodeConvention maps account code prefixes to cash flow tags for charts that
// follow a numbering convention instead of carrying explicit tags.
type CodeConvention struct {
	CashPrefixes              []string
	FixedAssetPrefixes        []string
	LongTermLiabilityPrefixes []string
	NonCashExpenseCodes       []string
	NonCashContraCodes        []string
}

// DefaultCodeConvention is the common four-digit chart layout.
func DefaultCodeConvention() CodeConvention {
	return CodeConvention{
		CashPrefixes:              []string{"10"},
		FixedAssetPrefixes:        []string{"15", "16", "17"},
		LongTermLiabilityPrefixes: []string{"25", "26"},
		NonCashExpenseCodes:       []string{"6080", "6170"},
	}
}

// DeriveTags infers tags for an account from its code and classification.
func (c CodeConvention) DeriveTags(code string, classification domain.Classification) domain.AccountTags {
	var tags domain.AccountTags
	switch classification {
	case domain.Asset:
		tags.IsCash = hasAnyPrefix(code, c.CashPrefixes)
		tags.IsFixedAsset = hasAnyPrefix(code, c.FixedAssetPrefixes)
		tags.IsNonCashContra = matchesAny(code, c.NonCashContraCodes)
	case domain.Liability:
		tags.IsLongTermLiability = hasAnyPrefix(code, c.LongTermLiabilityPrefixes)
	case domain.Expense:
		tags.IsNonCashExpense = matchesAny(code, c.NonCashExpenseCodes)
	}
	return tags
}

func hasAnyPrefix(code string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

func matchesAny(code string, codes []string) bool {
	for _, c := range codes {
		if c != "" && (code == c || strings.HasPrefix(code, c)) {
			return true
		}
	}
	return false
}
