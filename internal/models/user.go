package models

import "time"

// User represents a player account
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Session represents an issued login token
type Session struct {
	Token     string
	UserID    int64
	Username  string
	IsAdmin   bool
	ExpiresAt time.Time
}
