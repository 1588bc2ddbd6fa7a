package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleMinorStaff Role = "staff_hs"
)

// ParseRole validates a raw role value.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	switch role {
	case RoleAdmin, RoleStaff, RoleMinorStaff:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// IsAdmin reports whether the role may manage shifts and requests of others.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleStaff, RoleMinorStaff:
		return false
	default:
		return false
	}
}

// HasDailyCap reports whether requests of this role are limited to MinorDailyCapHours.
func (r Role) HasDailyCap() bool {
	switch r {
	case RoleMinorStaff:
		return true
	case RoleAdmin, RoleStaff:
		return false
	default:
		return false
	}
}

// User is an account that can request and work shifts.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Actor is the authenticated caller of a single request.
type Actor struct {
	UserID int64
	Role   Role
}
