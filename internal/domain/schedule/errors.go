package schedule

import "errors"

var (
	// Work Schedule Errors
	ErrWorkScheduleNotFound = errors.New("work schedule not found")

	// Work Schedule Time Errors
	ErrWorkScheduleTimeNotFound = errors.New("work schedule time not found")
)
