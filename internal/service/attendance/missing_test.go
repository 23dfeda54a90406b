package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to   string
	name string
	date time.Time
}

type fakeEmailService struct {
	mu       sync.Mutex
	fail     error
	employee []sentMail
	manager  []sentMail
}

func (f *fakeEmailService) SendMissingAttendanceEmployee(to, employeeName string, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.employee = append(f.employee, sentMail{to: to, name: employeeName, date: date})
	return nil
}

func (f *fakeEmailService) SendMissingAttendanceManager(to, managerName, employeeName string, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.manager = append(f.manager, sentMail{to: to, name: employeeName, date: date})
	return nil
}

func newMissingTestScanner(env *attendanceTestEnv, mail *fakeEmailService, opts MissingScannerOptions) attendance.MissingAttendanceScanner {
	leaveRequestRepo := memory.NewLeaveRequestRepository(env.store)
	return NewMissingAttendanceScanner(
		env.intervals,
		memory.NewEmployeeRepository(env.store),
		env.service,
		env.provider,
		leaveService.NewOverlapResolver(leaveRequestRepo),
		mail,
		memory.NewTransactor(env.store),
		opts,
	)
}

func createApprovedLeave(t *testing.T, env *attendanceTestEnv, emp employee.Employee, start, end time.Time) leave.LeaveRequest {
	t.Helper()
	annual := env.store.PutLeaveType(fixtures.GetDefaultLeaveTypes(testCompanyID)[0])
	require.False(t, annual.OvertimeDeductible)
	return env.store.PutLeaveRequest(leave.LeaveRequest{
		CompanyID:   testCompanyID,
		EmployeeID:  emp.ID,
		LeaveTypeID: annual.ID,
		StartDate:   start,
		EndDate:     end,
		Status:      leave.LeaveRequestStatusApproved,
	})
}

func TestMissingScanner_Backfill_CreatesPlaceholdersForUnexplainedDays(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")
	ctx := context.Background()

	wednesday := monday.AddDate(0, 0, 2)
	sunday := monday.AddDate(0, 0, 6)

	createApprovedLeave(t, env, emp, tuesday, tuesday)
	createInterval(t, env, emp, clockOn(wednesday, 8, 0, time.UTC), strPtr(clockOn(wednesday, 16, 0, time.UTC)))

	scanner := newMissingTestScanner(env, &fakeEmailService{}, MissingScannerOptions{Workers: 3})

	resp, err := scanner.Backfill(ctx, monday, sunday)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Days)
	assert.Equal(t, 3, resp.Created, "monday, thursday and friday")

	placeholders, err := env.intervals.ListByEmployeeBetween(ctx, emp.ID, monday, sunday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, placeholders, 4)
	for _, iv := range placeholders {
		if iv.CheckIn.Weekday() == time.Wednesday {
			continue
		}
		assert.Equal(t, 4, iv.CheckIn.Hour())
		require.NotNil(t, iv.CheckOut)
		assert.True(t, iv.CheckOut.Equal(iv.CheckIn))
		assert.Zero(t, iv.WorkedHours)
	}

	// the placeholders went through the attendance pipeline
	assert.InDelta(t, -8, dayOvertime(t, env, emp.ID, monday).Duration, 1e-9)

	again, err := scanner.Backfill(ctx, monday, sunday)
	require.NoError(t, err)
	assert.Zero(t, again.Created)
}

func TestMissingScanner_Backfill_SkipsBeforeContractAndOptedOut(t *testing.T) {
	env := newAttendanceTestEnv(t)
	ctx := context.Background()

	contract := monday.AddDate(0, 0, 3)
	late := createAttendanceTestEmployee(t, env, "late-starter", "UTC")
	late.FirstContractDate = &contract
	env.store.PutEmployee(late)

	optedOut := createAttendanceTestEmployee(t, env, "opted-out", "UTC")
	optedOut.CheckDailyAttendance = false
	env.store.PutEmployee(optedOut)

	scanner := newMissingTestScanner(env, &fakeEmailService{}, MissingScannerOptions{})

	resp, err := scanner.Backfill(ctx, monday, monday.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created, "thursday and friday for the late starter only")
}

func TestMissingScanner_Backfill_EmptyRange(t *testing.T) {
	env := newAttendanceTestEnv(t)
	scanner := newMissingTestScanner(env, &fakeEmailService{}, MissingScannerOptions{})

	resp, err := scanner.Backfill(context.Background(), tuesday, monday)
	require.NoError(t, err)
	assert.Zero(t, resp.Days)
	assert.Zero(t, resp.Created)
}

func TestMissingScanner_Backfill_LeavesCurrentLocalDayAlone(t *testing.T) {
	env := newAttendanceTestEnv(t)
	ctx := context.Background()

	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	budi := createAttendanceTestEmployee(t, env, "budi", "UTC")
	siti := createAttendanceTestEmployee(t, env, "siti", "Asia/Jakarta")

	// monday 20:00 UTC is already tuesday 03:00 in Jakarta
	scanner := newMissingTestScanner(env, &fakeEmailService{}, MissingScannerOptions{
		Now: func() time.Time { return monday.Add(20 * time.Hour) },
	})

	resp, err := scanner.Backfill(ctx, monday, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Days)
	assert.Equal(t, 1, resp.Created, "only siti's monday has ended")

	mondayStart, mondayEnd := timemath.LocalDayBounds(monday, time.UTC)
	logged, err := env.intervals.ExistsBetween(ctx, budi.ID, mondayStart, mondayEnd.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, logged)

	jakartaStart, jakartaEnd := timemath.LocalDayBounds(monday, jakarta)
	placeholders, err := env.intervals.ListByEmployeeBetween(ctx, siti.ID, jakartaStart, jakartaEnd)
	require.NoError(t, err)
	require.Len(t, placeholders, 1)
	assert.Equal(t, 4, placeholders[0].CheckIn.In(jakarta).Hour())

	// budi clocks in later that day and keeps the regular break deduction
	fullDay := createInterval(t, env, budi, clockOn(monday, 8, 0, time.UTC), strPtr(clockOn(monday, 17, 0, time.UTC)))
	assert.Equal(t, 9.0, fullDay.NetWorkingTime)
	assert.Equal(t, 0.5, fullDay.BreakDeduction)
	assert.Equal(t, 8.5, fullDay.WorkedHours)
}

func TestMissingScanner_Eligible(t *testing.T) {
	env := newAttendanceTestEnv(t)
	emp := createAttendanceTestEmployee(t, env, "budi", "UTC")
	ctx := context.Background()
	scanner := newMissingTestScanner(env, &fakeEmailService{}, MissingScannerOptions{})

	saturday := monday.AddDate(0, 0, 5)
	createApprovedLeave(t, env, emp, tuesday, tuesday)

	missing, err := scanner.Eligible(ctx, emp, monday)
	require.NoError(t, err)
	assert.True(t, missing)

	missing, err = scanner.Eligible(ctx, emp, tuesday)
	require.NoError(t, err)
	assert.False(t, missing, "approved leave")

	missing, err = scanner.Eligible(ctx, emp, saturday)
	require.NoError(t, err)
	assert.False(t, missing, "no required hours")

	createInterval(t, env, emp, clockOn(monday, 23, 30, time.UTC), nil)
	missing, err = scanner.Eligible(ctx, emp, monday)
	require.NoError(t, err)
	assert.False(t, missing, "an open interval counts as logged")
}

func TestMissingScanner_NotifyToday(t *testing.T) {
	env := newAttendanceTestEnv(t)
	ctx := context.Background()

	manager := createAttendanceTestEmployee(t, env, "rina", "UTC")

	absent := createAttendanceTestEmployee(t, env, "budi", "UTC")
	absent.ManagerID = &manager.ID
	absent.SendMissingAttendanceMail = true
	env.store.PutEmployee(absent)

	quiet := createAttendanceTestEmployee(t, env, "siti", "UTC")
	quiet.ManagerID = &manager.ID
	env.store.PutEmployee(quiet)

	present := createAttendanceTestEmployee(t, env, "ayu", "UTC")
	present.ManagerID = &manager.ID
	present.SendMissingAttendanceMail = true
	env.store.PutEmployee(present)
	createInterval(t, env, present, clockOn(monday, 8, 0, time.UTC), nil)

	mail := &fakeEmailService{}
	scanner := newMissingTestScanner(env, mail, MissingScannerOptions{
		NotifyPlaceholder: true,
		Now:               func() time.Time { return monday.Add(10 * time.Hour) },
	})

	resp, err := scanner.NotifyToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.NotifyResponse{Checked: 3, Missing: 2, Notified: 1, Placeholders: 2}, resp)

	require.Len(t, mail.manager, 1)
	assert.Equal(t, manager.Email, mail.manager[0].to)
	assert.Equal(t, "budi", mail.manager[0].name)
	assert.True(t, mail.manager[0].date.Equal(monday))

	require.Len(t, mail.employee, 1)
	assert.Equal(t, absent.Email, mail.employee[0].to)

	placeholders, err := env.intervals.ListByEmployeeBetween(ctx, absent.ID, monday, tuesday)
	require.NoError(t, err)
	require.Len(t, placeholders, 1)
	assert.Equal(t, 6, placeholders[0].CheckIn.Hour())
}

func TestMissingScanner_NotifyToday_MailFailureIsNotFatal(t *testing.T) {
	env := newAttendanceTestEnv(t)
	manager := createAttendanceTestEmployee(t, env, "rina", "UTC")
	absent := createAttendanceTestEmployee(t, env, "budi", "UTC")
	absent.ManagerID = &manager.ID
	absent.SendMissingAttendanceMail = true
	env.store.PutEmployee(absent)

	scanner := newMissingTestScanner(env, &fakeEmailService{fail: errors.New("smtp down")}, MissingScannerOptions{
		Now: func() time.Time { return monday.Add(10 * time.Hour) },
	})

	resp, err := scanner.NotifyToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Missing)
	assert.Zero(t, resp.Notified)
	assert.Zero(t, resp.Placeholders)
}
