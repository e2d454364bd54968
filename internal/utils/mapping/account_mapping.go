package mapping

import (
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	var parentID *string
	if !d.IsRoot() {
		parentID = d.ParentAccountID
	}
	return models.Account{
		AccountID:           d.AccountID,
		OrganizationID:      d.OrganizationID,
		Code:                d.Code,
		Name:                d.Name,
		Classification:      string(d.Classification),
		NormalBalance:       string(d.NormalBalance),
		ParentAccountID:     parentID,
		Description:         d.Description,
		IsActive:            d.IsActive,
		IsCash:              d.Tags.IsCash,
		IsFixedAsset:        d.Tags.IsFixedAsset,
		IsLongTermLiability: d.Tags.IsLongTermLiability,
		IsNonCashExpense:    d.Tags.IsNonCashExpense,
		IsNonCashContra:     d.Tags.IsNonCashContra,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		OrganizationID:  m.OrganizationID,
		Code:            m.Code,
		Name:            m.Name,
		Classification:  domain.Classification(m.Classification),
		NormalBalance:   domain.NormalBalance(m.NormalBalance),
		ParentAccountID: m.ParentAccountID,
		Description:     m.Description,
		IsActive:        m.IsActive,
		Tags: domain.AccountTags{
			IsCash:              m.IsCash,
			IsFixedAsset:        m.IsFixedAsset,
			IsLongTermLiability: m.IsLongTermLiability,
			IsNonCashExpense:    m.IsNonCashExpense,
			IsNonCashContra:     m.IsNonCashContra,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
