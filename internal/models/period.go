package models

import "time"

// FiscalPeriod is a row of fiscal_periods.
type FiscalPeriod struct {
	PeriodID       string     `db:"period_id"`
	OrganizationID string     `db:"organization_id"`
	Name           string     `db:"name"`
	StartDate      time.Time  `db:"start_date"`
	EndDate        time.Time  `db:"end_date"`
	IsClosed       bool       `db:"is_closed"`
	ClosedBy       *string    `db:"closed_by"`
	ClosedAt       *time.Time `db:"closed_at"`
	AuditFields
}
