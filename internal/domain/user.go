package domain

import "time"

// Role enumerates the three actor roles.
type Role string

const (
	RoleUser       Role = "user"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// IsResponder reports whether the role may manage ticket status and assignment.
func (r Role) IsResponder() bool {
	return r == RoleTechnician || r == RoleAdmin
}

// User is an authenticated identity. Requesters, technicians and admins share
// one identity space and differ only by role.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the identity slice the permission engine needs.
type Actor struct {
	ID   int64
	Role Role
}

// ActorOf extracts the permission-relevant fields of a user.
func ActorOf(u *User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{ID: u.ID, Role: u.Role}
}
