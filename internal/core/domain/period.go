package domain

import "time"

// FiscalPeriod is a closed date range [StartDate, EndDate] of an organization's books.
type FiscalPeriod struct {
	PeriodID       string     `json:"periodID"`
	OrganizationID string     `json:"organizationID"`
	Name           string     `json:"name"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        time.Time  `json:"endDate"`
	IsClosed       bool       `json:"isClosed"`
	ClosedBy       *string    `json:"closedBy,omitempty"`
	ClosedAt       *time.Time `json:"closedAt,omitempty"`
	AuditFields
}

// Contains reports whether date falls inside the period, comparing calendar days.
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// Overlaps reports whether the two periods share at least one day.
func (p FiscalPeriod) Overlaps(other FiscalPeriod) bool {
	return !DateOnly(p.EndDate).Before(DateOnly(other.StartDate)) &&
		!DateOnly(other.EndDate).Before(DateOnly(p.StartDate))
}
