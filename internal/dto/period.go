package dto

// CreatePeriodRequest defines a new fiscal period.
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// ReopenPeriodRequest carries the mandatory justification for reopening a period.
type ReopenPeriodRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}
