package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// Actor is the authenticated caller of a core operation, as resolved by the
// HTTP layer from the bearer token.
type Actor struct {
	UserID         string `json:"userID"`
	Role           string `json:"role"`
	OrganizationID string `json:"organizationID"`
}

// SystemActorID is recorded as the actor on actions the core performs on its own,
// such as skipping a workflow step whose condition does not apply.
const SystemActorID = "system"

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"
