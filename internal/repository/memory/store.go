// Package memory keeps every repository in process memory. It backs the
// memory database driver and the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

// Store holds the tables shared by all memory repositories.
type Store struct {
	mu sync.RWMutex
	// txMu serialises transactions; a single writer at a time stands in for row locks
	txMu sync.Mutex

	employees     map[string]employee.Employee
	intervals     map[string]attendance.Interval
	overtimes     map[string]overtime.Record
	leaveTypes    map[string]leave.LeaveType
	leaveRequests map[string]leave.LeaveRequest
	scheduleTimes map[string][]schedule.WorkScheduleTime
	assignments   map[string][]schedule.EmployeeScheduleAssignment
	messages      []activity.Message
	departments   map[string]string
}

func NewStore() *Store {
	return &Store{
		employees:     make(map[string]employee.Employee),
		intervals:     make(map[string]attendance.Interval),
		overtimes:     make(map[string]overtime.Record),
		leaveTypes:    make(map[string]leave.LeaveType),
		leaveRequests: make(map[string]leave.LeaveRequest),
		scheduleTimes: make(map[string][]schedule.WorkScheduleTime),
		assignments:   make(map[string][]schedule.EmployeeScheduleAssignment),
		departments:   make(map[string]string),
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type snapshot struct {
	employees     map[string]employee.Employee
	intervals     map[string]attendance.Interval
	overtimes     map[string]overtime.Record
	leaveTypes    map[string]leave.LeaveType
	leaveRequests map[string]leave.LeaveRequest
	messages      []activity.Message
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		employees:     cloneMap(s.employees),
		intervals:     cloneMap(s.intervals),
		overtimes:     cloneMap(s.overtimes),
		leaveTypes:    cloneMap(s.leaveTypes),
		leaveRequests: cloneMap(s.leaveRequests),
		messages:      append([]activity.Message(nil), s.messages...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = snap.employees
	s.intervals = snap.intervals
	s.overtimes = snap.overtimes
	s.leaveTypes = snap.leaveTypes
	s.leaveRequests = snap.leaveRequests
	s.messages = snap.messages
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type txKey struct{}

type transactor struct {
	store *Store
}

// NewTransactor returns a Transactor that rolls the store back when fn fails.
func NewTransactor(store *Store) database.Transactor {
	return &transactor{store: store}
}

// WithinTx runs fn with exclusive access to the store, restoring the previous
// state on error. Nested calls join the outer transaction.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
