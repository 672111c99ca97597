package entity

import (
	"time"
)

// Account is the credential record behind an identity. The identity id doubles
// as the aggregate key in the data store.
//
// Passwords are stored as bcrypt hashes in Password field.
type Account struct {
	ID        string
	Email     string
	Password  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
