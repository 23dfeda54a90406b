package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var breakDay = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return breakDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func closed(id string, inH, inM, outH, outM int) attendance.Interval {
	out := at(outH, outM)
	return attendance.Interval{ID: id, EmployeeID: "emp-1", CheckIn: at(inH, inM), CheckOut: &out}
}

func dayEnd() time.Time {
	return breakDay.AddDate(0, 0, 1)
}

func TestComputeDay_SingleInterval(t *testing.T) {
	tests := []struct {
		name       string
		interval   attendance.Interval
		wantNet    float64
		wantBreak  float64
		wantWorked float64
	}{
		{"four hours owe nothing", closed("a", 8, 0, 12, 0), 4, 0, 4},
		{"exactly six hours owe nothing", closed("a", 8, 0, 14, 0), 6, 0, 6},
		{"between six and six and a half owe the excess", closed("a", 8, 0, 14, 15), 6.25, 0.25, 6},
		{"up to nine hours owe half an hour", closed("a", 8, 0, 16, 15), 8.25, 0.5, 7.75},
		{"exactly nine hours owe half an hour", closed("a", 8, 0, 17, 0), 9, 0.5, 8.5},
		{"over nine hours owe three quarters", closed("a", 8, 0, 18, 0), 10, 0.75, 9.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDay([]attendance.Interval{tt.interval}, dayEnd())
			require.Len(t, got, 1)
			assert.InDelta(t, tt.wantNet, got[0].NetWorkingTime, 1e-9)
			assert.InDelta(t, tt.wantBreak, got[0].BreakDeduction, 1e-9)
			assert.InDelta(t, tt.wantWorked, got[0].WorkedHours, 1e-9)
		})
	}
}

func TestComputeDay_AdjacentIntervalsCarryBreakOnLatest(t *testing.T) {
	got := ComputeDay([]attendance.Interval{
		closed("b", 9, 0, 17, 0),
		closed("a", 8, 0, 9, 0),
	}, dayEnd())
	require.Len(t, got, 2)

	assert.Equal(t, "a", got[0].ID)
	assert.InDelta(t, 1, got[0].NetWorkingTime, 1e-9)
	assert.Zero(t, got[0].BreakDeduction)
	assert.InDelta(t, 1, got[0].WorkedHours, 1e-9)

	assert.Equal(t, "b", got[1].ID)
	assert.InDelta(t, 8, got[1].NetWorkingTime, 1e-9)
	assert.InDelta(t, 0.5, got[1].BreakDeduction, 1e-9)
	assert.InDelta(t, 7.5, got[1].WorkedHours, 1e-9)
}

func TestComputeDay_GapCountsAsBreak(t *testing.T) {
	t.Run("gap covers the whole break", func(t *testing.T) {
		got := ComputeDay([]attendance.Interval{
			closed("a", 8, 0, 12, 0),
			closed("b", 13, 0, 17, 0),
		}, dayEnd())
		require.Len(t, got, 2)
		assert.Zero(t, got[0].BreakDeduction)
		assert.Zero(t, got[1].BreakDeduction)
		assert.InDelta(t, 8, got[0].WorkedHours+got[1].WorkedHours, 1e-9)
	})

	t.Run("short gap leaves the remainder", func(t *testing.T) {
		got := ComputeDay([]attendance.Interval{
			closed("a", 8, 0, 12, 0),
			closed("b", 12, 15, 17, 0),
		}, dayEnd())
		require.Len(t, got, 2)
		assert.InDelta(t, 0.25, got[1].BreakDeduction, 1e-9)
	})

	t.Run("long day with short gap owes up to three quarters", func(t *testing.T) {
		got := ComputeDay([]attendance.Interval{
			closed("a", 7, 0, 12, 0),
			closed("b", 12, 30, 18, 0),
		}, dayEnd())
		require.Len(t, got, 2)
		assert.InDelta(t, 0.25, got[1].BreakDeduction, 1e-9)
	})

	t.Run("short total with gap owes the excess over six", func(t *testing.T) {
		got := ComputeDay([]attendance.Interval{
			closed("a", 8, 0, 11, 0),
			closed("b", 11, 6, 14, 18),
		}, dayEnd())
		require.Len(t, got, 2)
		// 6.2 hours worked, 0.1 hours of gap already taken
		assert.InDelta(t, 0.1, got[1].BreakDeduction, 1e-9)
	})
}

func TestComputeDay_OpenAndInvertedIntervalsAreZero(t *testing.T) {
	open := attendance.Interval{ID: "open", CheckIn: at(8, 0)}
	before := at(7, 0)
	inverted := attendance.Interval{ID: "inverted", CheckIn: at(9, 0), CheckOut: &before}

	got := ComputeDay([]attendance.Interval{open, inverted}, dayEnd())
	require.Len(t, got, 2)
	for _, iv := range got {
		assert.Zero(t, iv.NetWorkingTime, iv.ID)
		assert.Zero(t, iv.BreakDeduction, iv.ID)
		assert.Zero(t, iv.WorkedHours, iv.ID)
	}
}

func TestComputeDay_ManualHoursOnPlaceholder(t *testing.T) {
	placeholder := attendance.Interval{ID: "p", CheckIn: at(6, 0), ManualExtraHours: -3}
	placeholder.CheckOut = &placeholder.CheckIn

	got := ComputeDay([]attendance.Interval{placeholder}, dayEnd())
	require.Len(t, got, 1)
	assert.InDelta(t, -3, got[0].WorkedHours, 1e-9)
}

func TestComputeDay_IsIdempotentAndOrderIndependent(t *testing.T) {
	day := []attendance.Interval{
		closed("c", 13, 0, 18, 30),
		closed("a", 7, 0, 9, 0),
		closed("b", 9, 10, 12, 40),
		closed("a", 7, 0, 9, 0), // duplicate ID is dropped
	}

	first := ComputeDay(day, dayEnd())
	second := ComputeDay(first, dayEnd())
	reversed := ComputeDay([]attendance.Interval{day[2], day[1], day[0]}, dayEnd())

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, first, reversed)
}

func TestComputeDay_IgnoresIntervalsEndingAfterDayEnd(t *testing.T) {
	overnight := closed("a", 20, 0, 30, 0) // ends 06:00 next day
	got := ComputeDay([]attendance.Interval{overnight, closed("b", 31, 0, 33, 0)}, dayEnd())
	require.Len(t, got, 2)
	assert.InDelta(t, 10, got[0].NetWorkingTime, 1e-9)
	assert.InDelta(t, 0.75, got[0].BreakDeduction, 1e-9)
	// b has no earlier interval within the day, so it is evaluated alone
	assert.Zero(t, got[1].BreakDeduction)
}

func TestComputeInterval_ReplacesStoredVersion(t *testing.T) {
	day := []attendance.Interval{closed("a", 8, 0, 12, 0)}
	updated := closed("a", 8, 0, 18, 0)

	got := ComputeInterval(updated, day, dayEnd())
	assert.InDelta(t, 10, got.NetWorkingTime, 1e-9)
	assert.InDelta(t, 0.75, got.BreakDeduction, 1e-9)
}

func TestFirstIntervalBreakAndContinuationBreak(t *testing.T) {
	assert.Zero(t, FirstIntervalBreak(6))
	assert.InDelta(t, 0.5, FirstIntervalBreak(6.5+1e-9), 1e-6)
	assert.InDelta(t, 0.5, FirstIntervalBreak(9), 1e-9)

	assert.InDelta(t, 0.75, ContinuationBreak(10, 0), 1e-9)
	assert.Zero(t, ContinuationBreak(10, 0.75))
	// gaps beyond the long break are not capped and owe nothing
	assert.Zero(t, ContinuationBreak(10, 3))
	assert.InDelta(t, 0.5, ContinuationBreak(8, 0), 1e-9)
	assert.Zero(t, ContinuationBreak(5, 0))
}
