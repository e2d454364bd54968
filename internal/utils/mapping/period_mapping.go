package mapping

import (
	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/SscSPs/erp_finance_core/internal/models"
)

// ToModelFiscalPeriod converts a domain FiscalPeriod to a model FiscalPeriod
func ToModelFiscalPeriod(d domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		PeriodID:       d.PeriodID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		StartDate:      domain.DateOnly(d.StartDate),
		EndDate:        domain.DateOnly(d.EndDate),
		IsClosed:       d.IsClosed,
		ClosedBy:       d.ClosedBy,
		ClosedAt:       d.ClosedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalPeriod converts a model FiscalPeriod to a domain FiscalPeriod
func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:       m.PeriodID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		StartDate:      domain.DateOnly(m.StartDate),
		EndDate:        domain.DateOnly(m.EndDate),
		IsClosed:       m.IsClosed,
		ClosedBy:       m.ClosedBy,
		ClosedAt:       m.ClosedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
