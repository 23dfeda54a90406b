package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/activity"
)

type messageRepository struct {
	store *Store
}

func NewMessageRepository(store *Store) activity.MessageRepository {
	return &messageRepository{store: store}
}

func (r *messageRepository) Post(ctx context.Context, msg activity.Message) (activity.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	msg.ID = newID()
	msg.CreatedAt = time.Now().UTC()
	r.store.messages = append(r.store.messages, msg)
	return msg, nil
}

func (r *messageRepository) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]activity.Message, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	var out []activity.Message
	for _, m := range r.store.messages {
		if m.EmployeeID == employeeID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
