package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// INTERVAL DTOs
// ========================================

type CreateIntervalRequest struct {
	CompanyID        string   `json:"-"`
	ActorName        string   `json:"-"`
	EmployeeID       string   `json:"employee_id"`
	CheckIn          string   `json:"check_in"`            // RFC3339
	CheckOut         *string  `json:"check_out,omitempty"` // RFC3339, empty while open
	ManualExtraHours *float64 `json:"manual_extra_hours,omitempty"`
}

func (r *CreateIntervalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, valid := validator.IsValidDateTime(r.CheckIn); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in",
			Message: "check_in must be an ISO8601 timestamp",
		})
	}

	// check_out before check_in is accepted and computed as a zero-length interval
	if r.CheckOut != nil && *r.CheckOut != "" {
		if _, valid := validator.IsValidDateTime(*r.CheckOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be an ISO8601 timestamp",
			})
		}
	}

	if r.ManualExtraHours != nil && !validator.IsFiniteHours(*r.ManualExtraHours) {
		errs = append(errs, validator.ValidationError{
			Field:   "manual_extra_hours",
			Message: "manual_extra_hours must be a finite number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToInterval converts a validated request into an interval.
func (r *CreateIntervalRequest) ToInterval() Interval {
	checkIn, _ := validator.IsValidDateTime(r.CheckIn)
	interval := Interval{
		CompanyID:  r.CompanyID,
		EmployeeID: r.EmployeeID,
		CheckIn:    checkIn.UTC(),
	}
	if r.CheckOut != nil && *r.CheckOut != "" {
		checkOut, _ := validator.IsValidDateTime(*r.CheckOut)
		checkOut = checkOut.UTC()
		interval.CheckOut = &checkOut
	}
	if r.ManualExtraHours != nil {
		interval.ManualExtraHours = *r.ManualExtraHours
	}
	return interval
}

type BatchCreateIntervalRequest struct {
	CompanyID string                  `json:"-"`
	ActorName string                  `json:"-"`
	Intervals []CreateIntervalRequest `json:"intervals"`
}

func (r *BatchCreateIntervalRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Intervals) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "intervals",
			Message: "at least one interval is required",
		})
	}

	for i := range r.Intervals {
		if err := r.Intervals[i].Validate(); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok {
				for _, e := range verrs {
					errs = append(errs, validator.ValidationError{
						Field:   "intervals[" + itoa(i) + "]." + e.Field,
						Message: e.Message,
					})
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateIntervalRequest corrects an existing interval. Nil fields are left unchanged.
type UpdateIntervalRequest struct {
	ID               string   `json:"-"`
	CompanyID        string   `json:"-"`
	ActorName        string   `json:"-"`
	EmployeeID       *string  `json:"employee_id,omitempty"`
	CheckIn          *string  `json:"check_in,omitempty"`
	CheckOut         *string  `json:"check_out,omitempty"`
	ManualExtraHours *float64 `json:"manual_extra_hours,omitempty"`
}

func (r *UpdateIntervalRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must not be empty",
		})
	}

	if r.CheckIn != nil {
		if _, valid := validator.IsValidDateTime(*r.CheckIn); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be an ISO8601 timestamp",
			})
		}
	}

	if r.CheckOut != nil && *r.CheckOut != "" {
		if _, valid := validator.IsValidDateTime(*r.CheckOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be an ISO8601 timestamp",
			})
		}
	}

	if r.ManualExtraHours != nil && !validator.IsFiniteHours(*r.ManualExtraHours) {
		errs = append(errs, validator.ValidationError{
			Field:   "manual_extra_hours",
			Message: "manual_extra_hours must be a finite number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ManualHoursRequest adds or deducts hours on a day the employee did not log.
type ManualHoursRequest struct {
	CompanyID  string  `json:"-"`
	ActorName  string  `json:"-"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Hours      float64 `json:"hours"`
}

func (r *ManualHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsFiniteHours(r.Hours) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be a finite number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type IntervalFilter struct {
	CompanyID  string  `json:"-"`
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD, inclusive
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD, inclusive
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *IntervalFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	var start, end time.Time
	if f.StartDate != nil && *f.StartDate != "" {
		var valid bool
		if start, valid = validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		var valid bool
		if end, valid = validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type IntervalResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     *string `json:"employee_name,omitempty"`
	CheckIn          string  `json:"check_in"`
	CheckOut         *string `json:"check_out,omitempty"`
	NetWorkingTime   float64 `json:"net_working_time"`
	BreakDeduction   float64 `json:"break_deduction"`
	ManualExtraHours float64 `json:"manual_extra_hours"`
	WorkedHours      float64 `json:"worked_hours"`
}

type ListIntervalResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Intervals  []IntervalResponse `json:"intervals"`
}

// ========================================
// MISSING ATTENDANCE DTOs
// ========================================

type BackfillRequest struct {
	From string `json:"from"` // YYYY-MM-DD
	To   string `json:"to"`   // YYYY-MM-DD, defaults to yesterday
}

func (r *BackfillRequest) Validate() error {
	return r.validateAt(time.Now())
}

// validateAt checks the request against the UTC date of now. Today and later
// are rejected because the current day is still being logged.
func (r *BackfillRequest) validateAt(now time.Time) error {
	var errs validator.ValidationErrors
	today := timemath.DateOf(now, time.UTC)

	from, validFrom := validator.IsValidDate(r.From)
	if !validFrom {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}

	to := today.AddDate(0, 0, -1)
	validTo := true
	if r.To != "" {
		to, validTo = validator.IsValidDate(r.To)
		if !validTo {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		} else if !to.Before(today) {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be before today",
			})
		}
	}

	if validFrom && validTo && to.Before(from) {
		field := "to"
		if r.To == "" {
			field = "from"
		}
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: "from must not be after to",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Range returns the inclusive dates to scan. An empty To means yesterday.
// Call it after Validate.
func (r *BackfillRequest) Range() (from, to time.Time) {
	return r.rangeAt(time.Now())
}

func (r *BackfillRequest) rangeAt(now time.Time) (from, to time.Time) {
	from, _ = time.Parse(time.DateOnly, r.From)
	to = timemath.DateOf(now, time.UTC).AddDate(0, 0, -1)
	if r.To != "" {
		to, _ = time.Parse(time.DateOnly, r.To)
	}
	return from, to
}

type BackfillResponse struct {
	Days    int `json:"days"`
	Created int `json:"created"`
}

type NotifyResponse struct {
	Checked      int `json:"checked"`
	Missing      int `json:"missing"`
	Notified     int `json:"notified"`
	Placeholders int `json:"placeholders"`
}
