package domain

import "time"

// Role is the access level assigned to an identity.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// Valid reports whether the role is one the API recognises.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// UserStatus marks whether an identity may sign in.
type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
)

// Valid reports whether the status is one the API recognises.
func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive
}

// Identity is the authenticated principal's profile as returned by the API.
// The session store replaces it wholesale on login and refresh.
type Identity struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	InvitedAt *time.Time `json:"invitedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
