package report

import "errors"

var (
	ErrInvalidDateRange       = errors.New("end date must be after start date")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
