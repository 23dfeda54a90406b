package app

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/google/uuid"
)

// SeedCompanyDefaults loads the default leave types and work schedules of a
// company into a memory store. Postgres deployments get them from the admin app.
func SeedCompanyDefaults(store *memory.Store, companyID string) {
	for _, lt := range fixtures.GetDefaultLeaveTypes(companyID) {
		store.PutLeaveType(lt)
	}

	for _, def := range fixtures.GetAllDefaultWorkSchedules(companyID) {
		workScheduleID := uuid.Must(uuid.NewV7()).String()
		store.PutWorkSchedule(workScheduleID, def.TimesGetter(workScheduleID)...)
		slog.Info("seeded work schedule", "company_id", companyID, "name", def.Schedule.Name, "work_schedule_id", workScheduleID)
	}
}
