package attendance

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

// ToResponse converts an interval to its API shape, rounding hours to two decimals.
func (i Interval) ToResponse() IntervalResponse {
	resp := IntervalResponse{
		ID:               i.ID,
		EmployeeID:       i.EmployeeID,
		EmployeeName:     i.EmployeeName,
		CheckIn:          i.CheckIn.UTC().Format(time.RFC3339),
		NetWorkingTime:   timemath.RoundHours(i.NetWorkingTime),
		BreakDeduction:   timemath.RoundHours(i.BreakDeduction),
		ManualExtraHours: timemath.RoundHours(i.ManualExtraHours),
		WorkedHours:      timemath.RoundHours(i.WorkedHours),
	}
	if i.CheckOut != nil {
		out := i.CheckOut.UTC().Format(time.RFC3339)
		resp.CheckOut = &out
	}
	return resp
}
