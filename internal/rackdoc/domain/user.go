package domain

import (
	"time"

	"github.com/rackworks/rackdoc/pkg/idx"
)

// GlobalRole is the organization-wide authority level. It is independent of
// site roles: holding GLOBAL_ADMIN does not create site memberships, it grants
// blanket authority through the permission resolver instead.
type GlobalRole string

const (
	GlobalAdmin GlobalRole = "global_admin"
	GlobalUser  GlobalRole = "user"
)

// Valid reports whether r is one of the closed set of global roles.
func (r GlobalRole) Valid() bool {
	return r == GlobalAdmin || r == GlobalUser
}

type User struct {
	ID           idx.ID
	Email        string // unique, matched case-insensitively
	DisplayName  string
	PasswordHash string
	GlobalRole   GlobalRole
	TOTPSecret   string     // empty until enrollment
	TOTPEnabled  *time.Time // nil until the first code is verified
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasTOTP reports whether the user completed TOTP enrollment.
func (u User) HasTOTP() bool { return u.TOTPEnabled != nil }
