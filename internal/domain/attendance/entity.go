package attendance

import (
	"time"
)

// Interval is one check-in/check-out pair of an employee. CheckOut is nil
// while the interval is open.
type Interval struct {
	ID               string
	CompanyID        string
	EmployeeID       string
	CheckIn          time.Time
	CheckOut         *time.Time
	NetWorkingTime   float64
	BreakDeduction   float64
	ManualExtraHours float64
	WorkedHours      float64
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	EmployeeName *string
}

// IsClosed reports whether the interval has a check-out strictly after its check-in.
func (i Interval) IsClosed() bool {
	return i.CheckOut != nil && i.CheckOut.After(i.CheckIn)
}

// ResolveWorkedHours sets WorkedHours from the manual adjustment, net time and
// break deduction. The result is not clamped.
func (i *Interval) ResolveWorkedHours() {
	i.WorkedHours = WorkedHours(i.ManualExtraHours, i.NetWorkingTime, i.BreakDeduction)
}

func WorkedHours(manualExtraHours, netWorkingTime, breakDeduction float64) float64 {
	return manualExtraHours + (netWorkingTime - breakDeduction)
}
