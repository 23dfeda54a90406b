// Package app wires repositories and services for the API server and the
// backfill command.
package app

import (
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	overtimeService "github.com/cmlabs-hris/hris-attendance-go/internal/service/overtime"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
	scheduleService "github.com/cmlabs-hris/hris-attendance-go/internal/service/schedule"
)

type Repositories struct {
	Interval         attendance.IntervalRepository
	Overtime         overtime.OvertimeRepository
	Employee         employee.EmployeeRepository
	LeaveType        leave.LeaveTypeRepository
	LeaveRequest     leave.LeaveRequestRepository
	WorkScheduleTime schedule.WorkScheduleTimeRepository
	ScheduleAssign   schedule.EmployeeScheduleAssignmentRepository
	Message          activity.MessageRepository
	Report           report.ReportRepository
	Tx               database.Transactor
}

func NewPostgresRepositories(db *database.DB) Repositories {
	return Repositories{
		Interval:         postgresql.NewIntervalRepository(db),
		Overtime:         postgresql.NewOvertimeRepository(db),
		Employee:         postgresql.NewEmployeeRepository(db),
		LeaveType:        postgresql.NewLeaveTypeRepository(db),
		LeaveRequest:     postgresql.NewLeaveRequestRepository(db),
		WorkScheduleTime: postgresql.NewWorkScheduleTimeRepository(db),
		ScheduleAssign:   postgresql.NewEmployeeScheduleAssignmentRepository(db),
		Message:          postgresql.NewMessageRepository(db),
		Report:           postgresql.NewReportRepository(db),
		Tx:               postgresql.NewTransactor(db),
	}
}

func NewMemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Interval:         memory.NewIntervalRepository(store),
		Overtime:         memory.NewOvertimeRepository(store),
		Employee:         memory.NewEmployeeRepository(store),
		LeaveType:        memory.NewLeaveTypeRepository(store),
		LeaveRequest:     memory.NewLeaveRequestRepository(store),
		WorkScheduleTime: memory.NewWorkScheduleTimeRepository(store),
		ScheduleAssign:   memory.NewEmployeeScheduleAssignmentRepository(store),
		Message:          memory.NewMessageRepository(store),
		Report:           memory.NewReportRepository(store),
		Tx:               memory.NewTransactor(store),
	}
}

// OpenRepositories connects the configured database driver. The returned
// close func releases the connection pool.
func OpenRepositories(cfg *config.Config) (Repositories, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		slog.Warn("using in-memory storage, data is lost on exit")
		store := memory.NewStore()
		if cfg.Database.MemoryCompanyID != "" {
			SeedCompanyDefaults(store, cfg.Database.MemoryCompanyID)
		}
		return NewMemoryRepositories(store), func() {}, nil
	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return Repositories{}, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := database.RunMigrations(db); err != nil {
				db.Close()
				return Repositories{}, nil, err
			}
		}
		return NewPostgresRepositories(db), db.Close, nil
	}
}

type Services struct {
	Schedule   schedule.Provider
	Overlap    leave.OverlapResolver
	Overtime   overtime.OvertimeService
	Attendance attendance.AttendanceService
	Missing    attendance.MissingAttendanceScanner
	Leave      leave.LeaveService
	Report     report.ReportService
}

func NewServices(cfg *config.Config, repos Repositories) (Services, error) {
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return Services{}, fmt.Errorf("failed to initialize email service: %w", err)
	}

	overlapResolver := leaveService.NewOverlapResolver(repos.LeaveRequest)
	scheduleProvider := scheduleService.NewProvider(repos.WorkScheduleTime, repos.ScheduleAssign, overlapResolver)
	otSvc := overtimeService.NewOvertimeService(
		repos.Overtime,
		repos.Interval,
		repos.Employee,
		repos.LeaveRequest,
		scheduleProvider,
		overlapResolver,
		repos.Tx,
	)
	attSvc := attendanceService.NewAttendanceService(
		repos.Interval,
		repos.Employee,
		repos.Message,
		otSvc,
		repos.Tx,
	)
	scanner := attendanceService.NewMissingAttendanceScanner(
		repos.Interval,
		repos.Employee,
		attSvc,
		scheduleProvider,
		overlapResolver,
		emailService,
		repos.Tx,
		attendanceService.MissingScannerOptions{
			Workers:           cfg.Backfill.Workers,
			NotifyPlaceholder: cfg.Cron.MissingAttendancePlaceholder,
		},
	)
	leaveSvc := leaveService.NewLeaveService(
		repos.LeaveRequest,
		repos.LeaveType,
		repos.Employee,
		otSvc,
		scheduleProvider,
		repos.Tx,
	)

	return Services{
		Schedule:   scheduleProvider,
		Overlap:    overlapResolver,
		Overtime:   otSvc,
		Attendance: attSvc,
		Missing:    scanner,
		Leave:      leaveSvc,
		Report:     reportService.NewReportService(repos.Report),
	}, nil
}
