package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	overtimeService "github.com/cmlabs-hris/hris-attendance-go/internal/service/overtime"
	scheduleService "github.com/cmlabs-hris/hris-attendance-go/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID    = "company-1"
	officeScheduleID = "ws-office"
	testActor        = "Rina Manager"
)

// 2024-03-04 is a Monday
var (
	monday  = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	tuesday = monday.AddDate(0, 0, 1)
)

type attendanceTestEnv struct {
	store        *memory.Store
	intervals    attendance.IntervalRepository
	overtimeRepo overtime.OvertimeRepository
	messages     activity.MessageRepository
	provider     schedule.Provider
	overtime     overtime.OvertimeService
	service      attendance.AttendanceService
}

func newAttendanceTestEnv(t *testing.T) *attendanceTestEnv {
	t.Helper()

	store := memory.NewStore()
	store.PutWorkSchedule(officeScheduleID, fixtures.GetDefaultWorkScheduleTimes(officeScheduleID)...)

	env := &attendanceTestEnv{
		store:        store,
		intervals:    memory.NewIntervalRepository(store),
		overtimeRepo: memory.NewOvertimeRepository(store),
		messages:     memory.NewMessageRepository(store),
	}
	tx := memory.NewTransactor(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	leaveRequestRepo := memory.NewLeaveRequestRepository(store)

	resolver := leaveService.NewOverlapResolver(leaveRequestRepo)
	env.provider = scheduleService.NewProvider(
		memory.NewWorkScheduleTimeRepository(store),
		memory.NewEmployeeScheduleAssignmentRepository(store),
		resolver,
	)
	env.overtime = overtimeService.NewOvertimeService(env.overtimeRepo, env.intervals, employeeRepo, leaveRequestRepo, env.provider, resolver, tx)
	env.service = NewAttendanceService(env.intervals, employeeRepo, env.messages, env.overtime, tx)
	return env
}

func createAttendanceTestEmployee(t *testing.T, env *attendanceTestEnv, name, timezone string) employee.Employee {
	t.Helper()
	scheduleID := officeScheduleID
	contract := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return env.store.PutEmployee(employee.Employee{
		CompanyID:            testCompanyID,
		FullName:             name,
		Email:                name + "@cmlabs.co",
		Timezone:             timezone,
		WorkScheduleID:       &scheduleID,
		CheckDailyAttendance: true,
		FirstContractDate:    &contract,
	})
}

func clockOn(date time.Time, hour, minute int, loc *time.Location) string {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc).Format(time.RFC3339)
}

func createInterval(t *testing.T, env *attendanceTestEnv, emp employee.Employee, checkIn string, checkOut *string) attendance.IntervalResponse {
	t.Helper()
	resp, err := env.service.Create(context.Background(), attendance.CreateIntervalRequest{
		CompanyID:  testCompanyID,
		ActorName:  testActor,
		EmployeeID: emp.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	require.NoError(t, err)
	return resp
}

func strPtr(s string) *string { return &s }

func dayOvertime(t *testing.T, env *attendanceTestEnv, employeeID string, date time.Time) overtime.Record {
	t.Helper()
	rec, err := env.overtimeRepo.GetDayRecord(context.Background(), employeeID, date)
	require.NoError(t, err)
	require.NotNil(t, rec, "expected a day overtime record for %s", date.Format(time.DateOnly))
	return *rec
}

func TestAttendanceService_Create_ComputesBreakAndOvertime(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")

	resp := createInterval(t, env, emp, clockOn(monday, 8, 0, time.UTC), strPtr(clockOn(monday, 16, 15, time.UTC)))

	assert.Equal(t, 8.25, resp.NetWorkingTime)
	assert.Equal(t, 0.5, resp.BreakDeduction)
	assert.Equal(t, 7.75, resp.WorkedHours)

	rec := dayOvertime(t, env, emp.ID, monday)
	assert.InDelta(t, -0.25, rec.Duration, 1e-9)
	assert.InDelta(t, 7.75, rec.WorkedHours, 1e-9)
	assert.False(t, rec.IsAdjustment)
}

func TestAttendanceService_Create_SecondIntervalRecomputesDay(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "siti", "UTC")
	ctx := context.Background()

	first := createInterval(t, env, emp, clockOn(monday, 8, 0, time.UTC), strPtr(clockOn(monday, 9, 0, time.UTC)))
	second := createInterval(t, env, emp, clockOn(monday, 9, 0, time.UTC), strPtr(clockOn(monday, 17, 0, time.UTC)))

	assert.Equal(t, 8.0, second.NetWorkingTime)
	assert.Equal(t, 0.5, second.BreakDeduction)
	assert.Equal(t, 7.5, second.WorkedHours)

	reloaded, err := env.service.Get(ctx, first.ID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, reloaded.WorkedHours)
	assert.Zero(t, reloaded.BreakDeduction)

	records, total, err := env.overtimeRepo.List(ctx, overtime.OvertimeFilter{CompanyID: testCompanyID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "one day record per employee-day")
	assert.InDelta(t, 0.5, records[0].Duration, 1e-9)
}

func TestAttendanceService_Create_UsesEmployeeLocalDate(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "ayu", "Asia/Jakarta")
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 08:00-16:00 in Jakarta is 01:00-09:00 UTC
	resp := createInterval(t, env, emp, clockOn(monday, 8, 0, jakarta), strPtr(clockOn(monday, 16, 0, jakarta)))
	assert.Equal(t, 7.5, resp.WorkedHours)

	rec := dayOvertime(t, env, emp.ID, monday)
	assert.InDelta(t, -0.5, rec.Duration, 1e-9)
}

func TestAttendanceService_Create_Validation(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")

	_, err := env.service.Create(context.Background(), attendance.CreateIntervalRequest{
		CompanyID:  testCompanyID,
		EmployeeID: emp.ID,
		CheckIn:    "yesterday",
	})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = env.service.Create(context.Background(), attendance.CreateIntervalRequest{
		CompanyID:  "another-company",
		EmployeeID: emp.ID,
		CheckIn:    clockOn(monday, 8, 0, time.UTC),
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_Create_CheckOutBeforeCheckInIsZero(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")

	resp := createInterval(t, env, emp, clockOn(monday, 17, 0, time.UTC), strPtr(clockOn(monday, 8, 0, time.UTC)))
	assert.Zero(t, resp.NetWorkingTime)
	assert.Zero(t, resp.WorkedHours)
}

func TestAttendanceService_BatchCreate_RecomputesEachDayOnce(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")

	resps, err := env.service.BatchCreate(context.Background(), attendance.BatchCreateIntervalRequest{
		CompanyID: testCompanyID,
		ActorName: testActor,
		Intervals: []attendance.CreateIntervalRequest{
			{EmployeeID: emp.ID, CheckIn: clockOn(monday, 9, 0, time.UTC), CheckOut: strPtr(clockOn(monday, 17, 0, time.UTC))},
			{EmployeeID: emp.ID, CheckIn: clockOn(monday, 8, 0, time.UTC), CheckOut: strPtr(clockOn(monday, 9, 0, time.UTC))},
			{EmployeeID: emp.ID, CheckIn: clockOn(tuesday, 8, 0, time.UTC), CheckOut: strPtr(clockOn(tuesday, 16, 0, time.UTC))},
		},
	})
	require.NoError(t, err)
	require.Len(t, resps, 3)

	assert.Equal(t, 7.5, resps[0].WorkedHours)
	assert.Equal(t, 1.0, resps[1].WorkedHours)
	assert.Equal(t, 7.5, resps[2].WorkedHours)

	assert.InDelta(t, 0.5, dayOvertime(t, env, emp.ID, monday).Duration, 1e-9)
	assert.InDelta(t, -0.5, dayOvertime(t, env, emp.ID, tuesday).Duration, 1e-9)
}

func TestAttendanceService_Update_PostsAuditMessage(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")
	ctx := context.Background()

	created := createInterval(t, env, emp, clockOn(monday, 8, 0, time.UTC), strPtr(clockOn(monday, 12, 0, time.UTC)))

	updated, err := env.service.Update(ctx, attendance.UpdateIntervalRequest{
		ID:        created.ID,
		CompanyID: testCompanyID,
		ActorName: testActor,
		CheckOut:  strPtr(clockOn(monday, 17, 0, time.UTC)),
	})
	require.NoError(t, err)
	assert.Equal(t, 8.5, updated.WorkedHours)
	assert.InDelta(t, 0.5, dayOvertime(t, env, emp.ID, monday).Duration, 1e-9)

	messages, err := env.messages.ListByEmployee(ctx, emp.ID, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, testActor, messages[0].AuthorName)
	assert.Contains(t, messages[0].Body, "Check out: 2024-03-04 12:00:00 → 2024-03-04 17:00:00")
	assert.NotContains(t, messages[0].Body, "Check in:")
}

func TestAttendanceService_Update_ClosingOpenIntervalPostsNothing(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")
	ctx := context.Background()

	created := createInterval(t, env, emp, clockOn(monday, 8, 0, time.UTC), nil)
	assert.Zero(t, created.WorkedHours)

	_, err := env.service.Update(ctx, attendance.UpdateIntervalRequest{
		ID:        created.ID,
		CompanyID: testCompanyID,
		ActorName: testActor,
		CheckOut:  strPtr(clockOn(monday, 16, 0, time.UTC)),
	})
	require.NoError(t, err)

	messages, err := env.messages.ListByEmployee(ctx, emp.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestAttendanceService_Update_MoveToAnotherDayRecomputesBoth(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")

	created := createInterval(t, env, emp, clockOn(monday, 8, 0, time.UTC), strPtr(clockOn(monday, 17, 0, time.UTC)))
	assert.InDelta(t, 0.5, dayOvertime(t, env, emp.ID, monday).Duration, 1e-9)

	_, err := env.service.Update(context.Background(), attendance.UpdateIntervalRequest{
		ID:        created.ID,
		CompanyID: testCompanyID,
		ActorName: testActor,
		CheckIn:   strPtr(clockOn(tuesday, 8, 0, time.UTC)),
		CheckOut:  strPtr(clockOn(tuesday, 17, 0, time.UTC)),
	})
	require.NoError(t, err)

	assert.InDelta(t, -8, dayOvertime(t, env, emp.ID, monday).Duration, 1e-9)
	assert.InDelta(t, 0.5, dayOvertime(t, env, emp.ID, tuesday).Duration, 1e-9)
}

func TestAttendanceService_Delete_RecomputesRemainingDay(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")
	ctx := context.Background()

	first := createInterval(t, env, emp, clockOn(monday, 8, 0, time.UTC), strPtr(clockOn(monday, 9, 0, time.UTC)))
	second := createInterval(t, env, emp, clockOn(monday, 9, 0, time.UTC), strPtr(clockOn(monday, 17, 0, time.UTC)))

	require.NoError(t, env.service.Delete(ctx, second.ID, testCompanyID))

	_, err := env.service.Get(ctx, second.ID, testCompanyID)
	assert.ErrorIs(t, err, attendance.ErrIntervalNotFound)

	remaining, err := env.service.Get(ctx, first.ID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, remaining.WorkedHours)
	assert.InDelta(t, -7, dayOvertime(t, env, emp.ID, monday).Duration, 1e-9)

	assert.ErrorIs(t, env.service.Delete(ctx, second.ID, testCompanyID), attendance.ErrIntervalNotFound)
}

func TestAttendanceService_AddManualHours(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")
	ctx := context.Background()

	createInterval(t, env, emp, clockOn(monday, 8, 0, time.UTC), strPtr(clockOn(monday, 12, 0, time.UTC)))

	_, err := env.service.AddManualHours(ctx, attendance.ManualHoursRequest{
		CompanyID:  testCompanyID,
		ActorName:  testActor,
		EmployeeID: emp.ID,
		Date:       "2024-03-04",
		Hours:      2,
	})
	assert.ErrorIs(t, err, attendance.ErrAttendanceAlreadyLogged)

	resp, err := env.service.AddManualHours(ctx, attendance.ManualHoursRequest{
		CompanyID:  testCompanyID,
		ActorName:  testActor,
		EmployeeID: emp.ID,
		Date:       "2024-03-05",
		Hours:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T06:00:00Z", resp.CheckIn)
	assert.Equal(t, 2.0, resp.ManualExtraHours)
	assert.Equal(t, 2.0, resp.WorkedHours)
	assert.InDelta(t, -6, dayOvertime(t, env, emp.ID, tuesday).Duration, 1e-9)

	messages, err := env.messages.ListByEmployee(ctx, emp.ID, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Rina Manager logged 2 extra hours on 2024-03-05.", messages[0].Body)
}

func TestAttendanceService_List_FiltersByEmployeeAndRange(t *testing.T) {
	env := newAttendanceTestEnv(t)
	budi := createAttendanceTestEmployee(t, env, "budi", "UTC")
	siti := createAttendanceTestEmployee(t, env, "siti", "UTC")

	createInterval(t, env, budi, clockOn(monday, 8, 0, time.UTC), strPtr(clockOn(monday, 16, 0, time.UTC)))
	createInterval(t, env, budi, clockOn(tuesday, 8, 0, time.UTC), strPtr(clockOn(tuesday, 16, 0, time.UTC)))
	createInterval(t, env, siti, clockOn(monday, 8, 0, time.UTC), strPtr(clockOn(monday, 16, 0, time.UTC)))

	resp, err := env.service.List(context.Background(), attendance.IntervalFilter{
		CompanyID:  testCompanyID,
		EmployeeID: strPtr(budi.ID),
		StartDate:  strPtr("2024-03-05"),
		EndDate:    strPtr("2024-03-05"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Intervals, 1)
	assert.Equal(t, budi.ID, resp.Intervals[0].EmployeeID)
}
