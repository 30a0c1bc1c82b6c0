// Package models contains the server-side data model shared by
// repositories, services and the REST layer.
package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/notevault/internal/common"
)

// Role is the closed set of authorization tiers. Anything outside the two
// constants below is rejected at the edges, so authorization checks never
// see a free-form string.
type Role string

const (
	RoleStandard   Role = "standard"
	RolePrivileged Role = "privileged"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RolePrivileged
}

// ParseRole maps an external string to a Role. An empty string selects the
// default RoleStandard.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStandard, RolePrivileged:
		return Role(s), nil
	case "":
		return RoleStandard, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", common.ErrValidation, s)
}

// Challenge is the current OTP challenge for an in-progress login.
// At most one exists per account; issuing a new one overwrites it.
type Challenge struct {
	Code      string
	ExpiresAt time.Time
}

// User is an account row. PasswordHash and Challenge never leave the
// service layer; responses are built from the remaining fields.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Challenge    *Challenge
	CreatedAt    time.Time
}
