package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// Tests are skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, database.RunMigrations(db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all data from the schema
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"employee_activity_messages",
		"leave_requests",
		"attendance_overtimes",
		"attendance_intervals",
		"leave_types",
		"employee_schedule_assignments",
		"employees",
		"work_schedule_times",
		"work_schedules",
		"departments",
		"companies",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedEmployee inserts a company and one employee, returning their IDs
func (t *TestDatabaseSetup) SeedEmployee(ctx context.Context, tb testing.TB, fullName string) (companyID, employeeID string) {
	tb.Helper()

	err := t.DB.QueryRow(ctx, `INSERT INTO companies (name) VALUES ('CMLABS') RETURNING id`).Scan(&companyID)
	require.NoError(tb, err)

	err = t.DB.QueryRow(ctx,
		`INSERT INTO employees (company_id, full_name, timezone, check_daily_attendance) VALUES ($1, $2, 'Asia/Jakarta', TRUE) RETURNING id`,
		companyID, fullName,
	).Scan(&employeeID)
	require.NoError(tb, err)

	return companyID, employeeID
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
