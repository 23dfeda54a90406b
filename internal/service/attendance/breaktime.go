package attendance

import (
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
)

// Break thresholds in hours.
const (
	breakFreeLimit  = 6.0
	shortShiftLimit = 6.5
	longShiftLimit  = 9.0
	shortShiftBreak = 0.5
	longShiftBreak  = 0.75
)

// ComputeDay evaluates the break rules over one employee-day. day holds the
// intervals whose check-in falls in the local day ending at dayEnd. The
// returned copy is sorted by check-in (ties by ID), deduplicated by ID, and
// has net working time, break deduction and worked hours set on every interval.
// The result depends only on check-in, check-out and manual extra hours.
func ComputeDay(day []attendance.Interval, dayEnd time.Time) []attendance.Interval {
	intervals := prepareDay(day)

	for i := range intervals {
		evaluateInterval(intervals, i, dayEnd)
	}

	for i := range intervals {
		intervals[i].ResolveWorkedHours()
	}

	return intervals
}

// ComputeInterval evaluates target against the rest of its day. target
// replaces any interval of day with the same ID.
func ComputeInterval(target attendance.Interval, day []attendance.Interval, dayEnd time.Time) attendance.Interval {
	merged := make([]attendance.Interval, 0, len(day)+1)
	for _, iv := range day {
		if target.ID != "" && iv.ID == target.ID {
			continue
		}
		merged = append(merged, iv)
	}
	merged = append(merged, target)

	for _, iv := range ComputeDay(merged, dayEnd) {
		if iv.ID == target.ID && iv.CheckIn.Equal(target.CheckIn) {
			return iv
		}
	}
	return target
}

func prepareDay(day []attendance.Interval) []attendance.Interval {
	seen := make(map[string]struct{}, len(day))
	intervals := make([]attendance.Interval, 0, len(day))
	for _, iv := range day {
		if iv.ID != "" {
			if _, dup := seen[iv.ID]; dup {
				continue
			}
			seen[iv.ID] = struct{}{}
		}
		iv.NetWorkingTime = 0
		iv.BreakDeduction = 0
		intervals = append(intervals, iv)
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		if !intervals[i].CheckIn.Equal(intervals[j].CheckIn) {
			return intervals[i].CheckIn.Before(intervals[j].CheckIn)
		}
		return intervals[i].ID < intervals[j].ID
	})
	return intervals
}

// evaluateInterval sets net and break of day[idx]. Intervals finishing before it
// are already evaluated because the slice is ordered by check-in.
func evaluateInterval(day []attendance.Interval, idx int, dayEnd time.Time) {
	current := &day[idx]
	current.NetWorkingTime = 0
	current.BreakDeduction = 0

	if !current.IsClosed() {
		if current.CheckOut != nil && current.CheckOut.Before(current.CheckIn) {
			slog.Warn("attendance check_out before check_in, treating as zero duration",
				"interval_id", current.ID,
				"employee_id", current.EmployeeID,
				"check_in", current.CheckIn,
				"check_out", *current.CheckOut,
			)
		}
		return
	}

	net := timemath.HoursBetween(current.CheckIn, *current.CheckOut)
	earlier := earlierIntervals(day, idx, dayEnd)

	if len(earlier) == 0 {
		current.NetWorkingTime = net
		current.BreakDeduction = FirstIntervalBreak(net)
		return
	}

	sumWorking := net
	for _, j := range earlier {
		sumWorking += day[j].NetWorkingTime
	}

	// Walk backward from the current interval summing the gaps between neighbours.
	totalBreakBefore := 0.0
	next := *current
	for _, j := range earlier {
		totalBreakBefore += timemath.HoursBetween(*day[j].CheckOut, next.CheckIn)
		next = day[j]
	}

	// The day's break is carried by the latest interval only.
	for _, j := range earlier {
		day[j].BreakDeduction = 0
	}

	current.NetWorkingTime = net
	current.BreakDeduction = ContinuationBreak(sumWorking, totalBreakBefore)
}

// earlierIntervals returns the indexes of intervals that finished by the
// current check-in and by the end of the day, latest check-out first.
func earlierIntervals(day []attendance.Interval, idx int, dayEnd time.Time) []int {
	current := day[idx]
	var earlier []int
	for j, iv := range day {
		if j == idx || iv.CheckOut == nil {
			continue
		}
		if iv.ID != "" && iv.ID == current.ID {
			continue
		}
		if iv.CheckOut.After(dayEnd) || iv.CheckOut.After(current.CheckIn) {
			continue
		}
		earlier = append(earlier, j)
	}

	sort.SliceStable(earlier, func(a, b int) bool {
		return day[earlier[a]].CheckOut.After(*day[earlier[b]].CheckOut)
	})
	return earlier
}

// FirstIntervalBreak is the mandated break for the day's only (or first) interval.
func FirstIntervalBreak(net float64) float64 {
	switch {
	case net > longShiftLimit:
		return longShiftBreak
	case net > shortShiftLimit:
		return shortShiftBreak
	case net > breakFreeLimit:
		return net - breakFreeLimit
	default:
		return 0
	}
}

// ContinuationBreak is the break still owed after totalBreakBefore hours of gaps
// between the day's intervals. Gaps beyond the long-shift break are not capped.
func ContinuationBreak(sumWorking, totalBreakBefore float64) float64 {
	switch {
	case sumWorking > longShiftLimit && totalBreakBefore < longShiftBreak:
		return longShiftBreak - totalBreakBefore
	case sumWorking > shortShiftLimit && sumWorking <= longShiftLimit && totalBreakBefore <= shortShiftBreak:
		return shortShiftBreak - totalBreakBefore
	case sumWorking > breakFreeLimit && sumWorking <= shortShiftLimit && totalBreakBefore < sumWorking-breakFreeLimit:
		return sumWorking - breakFreeLimit - totalBreakBefore
	default:
		return 0
	}
}
