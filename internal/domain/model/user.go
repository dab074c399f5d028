package model

import "time"

type Role string

const (
	RoleGuest  Role = "guest"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User is the slice of the account record this service reads and writes.
// Role is an eagerly maintained projection of the user's membership state
// (admins are never re-projected).
type User struct {
	ID          string
	DisplayName string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
