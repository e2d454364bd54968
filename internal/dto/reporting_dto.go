package dto

// ReportFormatXLSX selects a spreadsheet download instead of JSON.
const ReportFormatXLSX = "xlsx"

// AsOfParams are the query parameters of point-in-time reports.
type AsOfParams struct {
	AsOf   string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
	Format string `form:"format" binding:"omitempty,oneof=json xlsx"`
}

// DateRangeParams are the query parameters of period reports.
type DateRangeParams struct {
	StartDate string `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"required,datetime=2006-01-02"`
	Format    string `form:"format" binding:"omitempty,oneof=json xlsx"`
}
