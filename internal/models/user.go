package models

// UserRole represents the role a registered user acts under.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
	RoleDonor   UserRole = "donor"
)

// Valid reports whether the role is one of the three known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleDonor:
		return true
	}
	return false
}

// User represents a registered participant. ID and Role are immutable after
// registration.
type User struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}
