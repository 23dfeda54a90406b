package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timemath"
)

type overlapResolverImpl struct {
	leaveRequestRepo leave.LeaveRequestRepository
}

func NewOverlapResolver(leaveRequestRepo leave.LeaveRequestRepository) leave.OverlapResolver {
	return &overlapResolverImpl{leaveRequestRepo: leaveRequestRepo}
}

// Overlapping implements leave.OverlapResolver.
func (r *overlapResolverImpl) Overlapping(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	from = timemath.TruncateDate(from)
	to = timemath.TruncateDate(to)

	candidates, err := r.leaveRequestRepo.ListApprovedBetween(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}

	seen := make(map[string]struct{}, len(candidates))
	result := make([]leave.LeaveRequest, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		if leave.OverlapDays(from, to, c.StartDate, c.EndDate) <= 0 {
			continue
		}
		seen[c.ID] = struct{}{}
		result = append(result, c)
	}
	return result, nil
}
