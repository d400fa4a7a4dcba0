package entity

import (
	"time"
)

// User is the identity that scopes resume documents. Passwords are stored as
// bcrypt hashes in the Password field.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
