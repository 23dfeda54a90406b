package activity

import "time"

// Message is an entry of an employee's activity feed.
type Message struct {
	ID         string
	EmployeeID string
	AuthorName string
	Body       string
	CreatedAt  time.Time
}
