package models

import "time"

// Roles stored on the users table.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is the profile row in the 'users' table. The ID is the identity
// provider's subject, so the row may lag behind a fresh sign-up.
type User struct {
	ID        string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsAdmin reports whether the profile carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
