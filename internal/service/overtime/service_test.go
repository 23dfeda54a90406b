package overtime

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	scheduleService "github.com/cmlabs-hris/hris-attendance-go/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID    = "company-1"
	officeScheduleID = "ws-office"
)

// 2024-03-04 is a Monday
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

type overtimeTestEnv struct {
	store        *memory.Store
	intervals    attendance.IntervalRepository
	overtimeRepo overtime.OvertimeRepository
	leaveRepo    leave.LeaveRequestRepository
	service      overtime.OvertimeService
}

func newOvertimeTestEnv(t *testing.T) *overtimeTestEnv {
	t.Helper()

	store := memory.NewStore()
	store.PutWorkSchedule(officeScheduleID, fixtures.GetDefaultWorkScheduleTimes(officeScheduleID)...)

	env := &overtimeTestEnv{
		store:        store,
		intervals:    memory.NewIntervalRepository(store),
		overtimeRepo: memory.NewOvertimeRepository(store),
		leaveRepo:    memory.NewLeaveRequestRepository(store),
	}
	resolver := leaveService.NewOverlapResolver(env.leaveRepo)
	provider := scheduleService.NewProvider(
		memory.NewWorkScheduleTimeRepository(store),
		memory.NewEmployeeScheduleAssignmentRepository(store),
		resolver,
	)
	env.service = NewOvertimeService(
		env.overtimeRepo,
		env.intervals,
		memory.NewEmployeeRepository(store),
		env.leaveRepo,
		provider,
		resolver,
		memory.NewTransactor(store),
	)
	return env
}

func createOvertimeTestEmployee(t *testing.T, env *overtimeTestEnv, name string) employee.Employee {
	t.Helper()
	scheduleID := officeScheduleID
	contract := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return env.store.PutEmployee(employee.Employee{
		CompanyID:            testCompanyID,
		FullName:             name,
		Email:                name + "@cmlabs.co",
		Timezone:             "UTC",
		WorkScheduleID:       &scheduleID,
		CheckDailyAttendance: true,
		FirstContractDate:    &contract,
	})
}

// logHours stores an interval whose derived hours are already computed.
func logHours(t *testing.T, env *overtimeTestEnv, emp employee.Employee, date time.Time, worked float64) {
	t.Helper()
	checkIn := date.Add(8 * time.Hour)
	checkOut := checkIn.Add(time.Duration(worked * float64(time.Hour)))
	_, err := env.intervals.Create(context.Background(), attendance.Interval{
		CompanyID:      emp.CompanyID,
		EmployeeID:     emp.ID,
		CheckIn:        checkIn,
		CheckOut:       &checkOut,
		NetWorkingTime: worked,
		WorkedHours:    worked,
	})
	require.NoError(t, err)
}

func putLeave(t *testing.T, env *overtimeTestEnv, emp employee.Employee, deductible bool, start, end time.Time) leave.LeaveRequest {
	t.Helper()
	var chosen leave.LeaveType
	for _, lt := range fixtures.GetDefaultLeaveTypes(testCompanyID) {
		if lt.OvertimeDeductible == deductible {
			chosen = lt
			break
		}
	}
	chosen = env.store.PutLeaveType(chosen)
	return env.store.PutLeaveRequest(leave.LeaveRequest{
		CompanyID:   testCompanyID,
		EmployeeID:  emp.ID,
		LeaveTypeID: chosen.ID,
		StartDate:   start,
		EndDate:     end,
		Status:      leave.LeaveRequestStatusApproved,
	})
}

func createDayRecord(t *testing.T, env *overtimeTestEnv, emp employee.Employee, date time.Time) overtime.OvertimeResponse {
	t.Helper()
	resp, err := env.service.Create(context.Background(), overtime.CreateOvertimeRequest{
		CompanyID:  testCompanyID,
		EmployeeID: emp.ID,
		Date:       date.Format(time.DateOnly),
	})
	require.NoError(t, err)
	return resp
}

func createAdjustment(t *testing.T, env *overtimeTestEnv, emp employee.Employee, leaveReq leave.LeaveRequest, duration float64) overtime.OvertimeResponse {
	t.Helper()
	resp, err := env.service.Create(context.Background(), overtime.CreateOvertimeRequest{
		CompanyID:    testCompanyID,
		EmployeeID:   emp.ID,
		Date:         leaveReq.StartDate.Format(time.DateOnly),
		IsAdjustment: true,
		Duration:     &duration,
		LeaveID:      &leaveReq.ID,
	})
	require.NoError(t, err)
	return resp
}

func TestOvertimeService_Create_DayRecord(t *testing.T) {
	tests := []struct {
		name     string
		logged   []float64
		expected float64
	}{
		{name: "exact schedule", logged: []float64{8}, expected: 0},
		{name: "short day", logged: []float64{3.5, 2}, expected: -2.5},
		{name: "long day", logged: []float64{9.75}, expected: 1.75},
		{name: "nothing logged", expected: -8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newOvertimeTestEnv(t)
			emp := createOvertimeTestEmployee(t, env, "budi")
			for _, h := range tt.logged {
				logHours(t, env, emp, monday, h)
			}

			resp := createDayRecord(t, env, emp, monday)
			assert.Equal(t, tt.expected, resp.Duration)
			assert.Equal(t, "2024-03-04", resp.Date)
			assert.Equal(t, "2024-03-04", resp.RequestDate)
			assert.False(t, resp.IsAdjustment)
		})
	}
}

func TestOvertimeService_Create_RepeatedCreatesKeepOneDayRecord(t *testing.T) {
	env := newOvertimeTestEnv(t)
	emp := createOvertimeTestEmployee(t, env, "budi")
	logHours(t, env, emp, monday, 8)

	first := createDayRecord(t, env, emp, monday)
	second := createDayRecord(t, env, emp, monday)
	assert.Equal(t, first.ID, second.ID)

	_, total, err := env.overtimeRepo.List(context.Background(), overtime.OvertimeFilter{CompanyID: testCompanyID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestOvertimeService_Create_DurationRejectedForDayRecord(t *testing.T) {
	env := newOvertimeTestEnv(t)
	emp := createOvertimeTestEmployee(t, env, "budi")
	duration := 3.0

	_, err := env.service.Create(context.Background(), overtime.CreateOvertimeRequest{
		CompanyID:  testCompanyID,
		EmployeeID: emp.ID,
		Date:       "2024-03-04",
		Duration:   &duration,
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, overtime.ErrDurationNotEditable.Error(), verrs.ToMap()["duration"])
}

func TestOvertimeService_NonDeductibleLeaveExcusesDay(t *testing.T) {
	env := newOvertimeTestEnv(t)
	emp := createOvertimeTestEmployee(t, env, "budi")
	putLeave(t, env, emp, false, monday, monday)

	resp := createDayRecord(t, env, emp, monday)
	assert.Zero(t, resp.Duration)

	logHours(t, env, emp, monday, 2)
	record, err := env.service.ReconcileDay(context.Background(), emp.ID, monday)
	require.NoError(t, err)
	assert.InDelta(t, 2, record.Duration, 1e-9, "hours worked on a leave day are all overtime")
}

func TestOvertimeService_DeductibleLeave(t *testing.T) {
	t.Run("without adjustment the requirement is excused", func(t *testing.T) {
		env := newOvertimeTestEnv(t)
		emp := createOvertimeTestEmployee(t, env, "budi")
		putLeave(t, env, emp, true, monday, monday)

		resp := createDayRecord(t, env, emp, monday)
		assert.Zero(t, resp.Duration)
	})

	t.Run("full adjustment balances the day", func(t *testing.T) {
		env := newOvertimeTestEnv(t)
		emp := createOvertimeTestEmployee(t, env, "budi")
		leaveReq := putLeave(t, env, emp, true, monday, monday)

		createDayRecord(t, env, emp, monday)
		adj := createAdjustment(t, env, emp, leaveReq, -8)
		assert.True(t, adj.IsAdjustment)
		assert.Equal(t, -8.0, adj.Duration)
		assert.Equal(t, "2024-03-04", adj.RequestDate)

		day, err := env.overtimeRepo.GetDayRecord(context.Background(), emp.ID, monday)
		require.NoError(t, err)
		require.NotNil(t, day)
		assert.InDelta(t, 0, day.Duration, 1e-9)

		linked, err := env.leaveRepo.GetByID(context.Background(), leaveReq.ID)
		require.NoError(t, err)
		require.NotNil(t, linked.OvertimeID)
		assert.Equal(t, adj.ID, *linked.OvertimeID)

		balance, err := env.service.Balance(context.Background(), emp.ID, testCompanyID)
		require.NoError(t, err)
		assert.Equal(t, -8.0, balance.Balance)
	})

	t.Run("partial adjustment leaves the rest owed", func(t *testing.T) {
		env := newOvertimeTestEnv(t)
		emp := createOvertimeTestEmployee(t, env, "budi")
		leaveReq := putLeave(t, env, emp, true, monday, monday)

		createDayRecord(t, env, emp, monday)
		createAdjustment(t, env, emp, leaveReq, -4)

		day, err := env.overtimeRepo.GetDayRecord(context.Background(), emp.ID, monday)
		require.NoError(t, err)
		require.NotNil(t, day)
		assert.InDelta(t, -4, day.Duration, 1e-9)
	})
}

func TestOvertimeService_Create_AdjustmentErrors(t *testing.T) {
	env := newOvertimeTestEnv(t)
	budi := createOvertimeTestEmployee(t, env, "budi")
	siti := createOvertimeTestEmployee(t, env, "siti")
	leaveReq := putLeave(t, env, siti, true, monday, monday)
	duration := -8.0

	_, err := env.service.Create(context.Background(), overtime.CreateOvertimeRequest{
		CompanyID:    testCompanyID,
		EmployeeID:   budi.ID,
		Date:         "2024-03-04",
		IsAdjustment: true,
		Duration:     &duration,
		LeaveID:      &leaveReq.ID,
	})
	assert.ErrorIs(t, err, overtime.ErrOvertimeEmployeeMismatch)

	createAdjustment(t, env, siti, leaveReq, -8)
	_, err = env.service.Create(context.Background(), overtime.CreateOvertimeRequest{
		CompanyID:    testCompanyID,
		EmployeeID:   siti.ID,
		Date:         "2024-03-04",
		IsAdjustment: true,
		Duration:     &duration,
		LeaveID:      &leaveReq.ID,
	})
	assert.ErrorIs(t, err, overtime.ErrLeaveAlreadyHasOvertime)

	_, err = env.service.Create(context.Background(), overtime.CreateOvertimeRequest{
		CompanyID:    testCompanyID,
		EmployeeID:   siti.ID,
		Date:         "2024-03-04",
		IsAdjustment: true,
		Duration:     &duration,
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "leave_id")
}

func TestOvertimeService_Update(t *testing.T) {
	env := newOvertimeTestEnv(t)
	emp := createOvertimeTestEmployee(t, env, "budi")
	ctx := context.Background()

	day := createDayRecord(t, env, emp, monday)
	duration := 5.0

	_, err := env.service.Update(ctx, overtime.UpdateOvertimeRequest{ID: day.ID, CompanyID: testCompanyID, Duration: &duration})
	assert.ErrorIs(t, err, overtime.ErrDurationNotEditable)

	tuesday := monday.AddDate(0, 0, 1)
	createDayRecord(t, env, emp, tuesday)
	date := "2024-03-05"
	_, err = env.service.Update(ctx, overtime.UpdateOvertimeRequest{ID: day.ID, CompanyID: testCompanyID, Date: &date})
	assert.ErrorIs(t, err, overtime.ErrDayRecordExists)

	leaveReq := putLeave(t, env, emp, true, monday, monday)
	adj := createAdjustment(t, env, emp, leaveReq, -8)
	duration = -6
	updated, err := env.service.Update(ctx, overtime.UpdateOvertimeRequest{ID: adj.ID, CompanyID: testCompanyID, Duration: &duration})
	require.NoError(t, err)
	assert.Equal(t, -6.0, updated.Duration)

	refreshed, err := env.overtimeRepo.GetDayRecord(ctx, emp.ID, monday)
	require.NoError(t, err)
	require.NotNil(t, refreshed)
	assert.InDelta(t, -2, refreshed.Duration, 1e-9)
}

func TestOvertimeService_Delete_AdjustmentUnlinksLeave(t *testing.T) {
	env := newOvertimeTestEnv(t)
	emp := createOvertimeTestEmployee(t, env, "budi")
	ctx := context.Background()

	leaveReq := putLeave(t, env, emp, true, monday, monday)
	createDayRecord(t, env, emp, monday)
	adj := createAdjustment(t, env, emp, leaveReq, -4)

	require.NoError(t, env.service.Delete(ctx, adj.ID, testCompanyID))

	unlinked, err := env.leaveRepo.GetByID(ctx, leaveReq.ID)
	require.NoError(t, err)
	assert.Nil(t, unlinked.OvertimeID)

	day, err := env.overtimeRepo.GetDayRecord(ctx, emp.ID, monday)
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.InDelta(t, 0, day.Duration, 1e-9)

	_, err = env.service.Get(ctx, adj.ID, testCompanyID)
	assert.ErrorIs(t, err, overtime.ErrOvertimeNotFound)
}

func TestOvertimeService_Get_OtherCompany(t *testing.T) {
	env := newOvertimeTestEnv(t)
	emp := createOvertimeTestEmployee(t, env, "budi")
	day := createDayRecord(t, env, emp, monday)

	_, err := env.service.Get(context.Background(), day.ID, "company-2")
	assert.ErrorIs(t, err, overtime.ErrOvertimeNotFound)
}

func TestOvertimeService_List_FiltersAdjustments(t *testing.T) {
	env := newOvertimeTestEnv(t)
	emp := createOvertimeTestEmployee(t, env, "budi")
	leaveReq := putLeave(t, env, emp, true, monday, monday)
	createDayRecord(t, env, emp, monday)
	createDayRecord(t, env, emp, monday.AddDate(0, 0, 1))
	createAdjustment(t, env, emp, leaveReq, -8)

	onlyAdjustments := true
	resp, err := env.service.List(context.Background(), overtime.OvertimeFilter{
		CompanyID:    testCompanyID,
		IsAdjustment: &onlyAdjustments,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.TotalCount)
	require.Len(t, resp.Overtimes, 1)
	assert.True(t, resp.Overtimes[0].IsAdjustment)

	all, err := env.service.List(context.Background(), overtime.OvertimeFilter{CompanyID: testCompanyID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.TotalCount)
}

func TestOvertimeService_RecomputeAll(t *testing.T) {
	env := newOvertimeTestEnv(t)
	emp := createOvertimeTestEmployee(t, env, "budi")
	ctx := context.Background()

	createDayRecord(t, env, emp, monday)
	leaveReq := putLeave(t, env, emp, true, monday.AddDate(0, 0, 1), monday.AddDate(0, 0, 1))
	createAdjustment(t, env, emp, leaveReq, -8)

	// hours logged behind the service's back are picked up by the recompute
	logHours(t, env, emp, monday, 9)

	processed, err := env.service.RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	day, err := env.overtimeRepo.GetDayRecord(ctx, emp.ID, monday)
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.InDelta(t, 1, day.Duration, 1e-9)
	assert.InDelta(t, 9, day.WorkedHours, 1e-9)
}
