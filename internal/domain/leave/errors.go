package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("Leave request not found")
	ErrLeaveTypeNotFound            = errors.New("Leave type not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("Leave request already processed")
	ErrUnauthorized                 = errors.New("unauthorized to access this leave request")
)
