package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type messageRepositoryImpl struct {
	db *database.DB
}

func NewMessageRepository(db *database.DB) activity.MessageRepository {
	return &messageRepositoryImpl{db: db}
}

// Post implements activity.MessageRepository.
func (r *messageRepositoryImpl) Post(ctx context.Context, msg activity.Message) (activity.Message, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_activity_messages (id, employee_id, author_name, body)
		VALUES (uuidv7(), $1, $2, $3)
		RETURNING id, created_at
	`

	if err := q.QueryRow(ctx, query, msg.EmployeeID, msg.AuthorName, msg.Body).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return activity.Message{}, fmt.Errorf("failed to post activity message: %w", err)
	}
	return msg, nil
}

// ListByEmployee implements activity.MessageRepository.
func (r *messageRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]activity.Message, error) {
	q := GetQuerier(ctx, r.db)

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, employee_id, author_name, body, created_at
		FROM employee_activity_messages
		WHERE employee_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity messages: %w", err)
	}
	defer rows.Close()

	var messages []activity.Message
	for rows.Next() {
		var m activity.Message
		if err := rows.Scan(&m.ID, &m.EmployeeID, &m.AuthorName, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity messages: %w", err)
	}

	return messages, nil
}
