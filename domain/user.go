package domain

import "time"

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at,omitempty" db:"created_at"`
}
