package memory

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
)

// Seeding helpers for data the service does not write itself.

func (s *Store) PutEmployee(emp employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if emp.ID == "" {
		emp.ID = newID()
	}
	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = employee.EmploymentStatusActive
	}
	s.employees[emp.ID] = emp
	return emp
}

func (s *Store) PutDepartment(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments[id] = name
}

func (s *Store) PutLeaveType(lt leave.LeaveType) leave.LeaveType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lt.ID == "" {
		lt.ID = newID()
	}
	s.leaveTypes[lt.ID] = lt
	return lt
}

func (s *Store) PutLeaveRequest(lr leave.LeaveRequest) leave.LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lr.ID == "" {
		lr.ID = newID()
	}
	if lr.Status == "" {
		lr.Status = leave.LeaveRequestStatusWaitingApproval
	}
	s.leaveRequests[lr.ID] = lr
	return lr
}

// PutWorkSchedule replaces the weekday times of a schedule.
func (s *Store) PutWorkSchedule(workScheduleID string, times ...schedule.WorkScheduleTime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range times {
		times[i].WorkScheduleID = workScheduleID
		if times[i].ID == "" {
			times[i].ID = newID()
		}
	}
	s.scheduleTimes[workScheduleID] = times
}

func (s *Store) PutScheduleAssignment(a schedule.EmployeeScheduleAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	s.assignments[a.EmployeeID] = append(s.assignments[a.EmployeeID], a)
}
