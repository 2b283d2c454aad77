package model

import "time"

// User is an account holder. Role is "CUSTOMER" or "ADMIN"; the role claim
// carried in access tokens mirrors this column.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – display name.
//	Email        – unique login email.
//	Phone        – optional phone number.
//	PasswordHash – bcrypt hash of the password.
//	Role         – "CUSTOMER" or "ADMIN".
//	CreatedAt    – creation timestamp.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	Phone        *string   // users.phone (nullable)
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}
