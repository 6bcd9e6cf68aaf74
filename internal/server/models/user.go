package models

import "time"

// User is an account able to log in. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// UserUpdate carries the optional fields of an admin edit. PasswordHash is
// only set when a new password was supplied.
type UserUpdate struct {
	Name         *string
	Email        *string
	Role         *Role
	IsActive     *bool
	PasswordHash *string
}

type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// NewUser holds the fields of an account being created. Password is
// plaintext and is hashed before it is stored.
type NewUser struct {
	Email    string
	Name     string
	Password string
	Role     Role
}
