package attendance

import "errors"

// Attendance domain errors
var (
	ErrIntervalNotFound        = errors.New("attendance interval not found")
	ErrAttendanceAlreadyLogged = errors.New("employee already logged attendance on this day, extra hours cannot be added or deducted")
	ErrUnauthorized            = errors.New("unauthorized to access this attendance record")
)
