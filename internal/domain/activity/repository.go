package activity

import "context"

type MessageRepository interface {
	Post(ctx context.Context, msg Message) (Message, error)
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Message, error)
}
