package overtime

import "errors"

var (
	ErrOvertimeNotFound         = errors.New("overtime record not found")
	ErrDurationNotEditable      = errors.New("duration of a day overtime record is computed and cannot be edited")
	ErrAdjustmentRequiresLeave  = errors.New("adjustment overtime records must reference a leave request")
	ErrLeaveAlreadyHasOvertime  = errors.New("leave request is already linked to an overtime record")
	ErrOvertimeEmployeeMismatch = errors.New("leave request belongs to a different employee")
	ErrDayRecordExists          = errors.New("a day overtime record already exists for this employee and date")
	ErrUnauthorized             = errors.New("unauthorized to access this overtime record")
)
