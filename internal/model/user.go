package model

import "time"

// UserID identifies a user row. It is assigned by the store on creation.
type UserID int64

// User is an account holder in the finance tracker.
type User struct {
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password"`
	ID           UserID    `db:"user_id"`
}
