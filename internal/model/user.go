package model

import "time"

// User is the persisted user record. Email is stored lowercase and the unique
// index is the final authority on duplicates (the service-level existence
// check is only a fast path).
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
