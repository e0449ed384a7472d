package model

import "time"

// AuditEvent is an audit-trail row written by the worker that consumes
// user events from RabbitMQ. It is never read on the request path.
type AuditEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Action     string    `gorm:"size:64;not null;index" json:"action"`
	UserID     uint      `gorm:"index" json:"user_id"`
	Email      string    `gorm:"size:255" json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
