package models

import "time"

// User is the database representation of an account owner.
type User struct {
	UserID    string    `db:"user_id"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}
