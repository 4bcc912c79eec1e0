package domain

import (
	"time"

	"github.com/rackworks/rackdoc/pkg/idx"
)

// SiteRole is the per-tenant authority level held through a membership.
type SiteRole string

const (
	SiteAdmin SiteRole = "site_admin"
	SiteUser  SiteRole = "site_user"
)

// Valid reports whether r is one of the closed set of site roles.
func (r SiteRole) Valid() bool {
	return r == SiteAdmin || r == SiteUser
}

// SiteMembership is the durable (user, site, role) association. A user holds
// at most one role per site.
type SiteMembership struct {
	UserID    idx.ID
	SiteID    idx.ID
	SiteRole  SiteRole
	CreatedAt time.Time

	// Denormalized for display projections; empty outside read paths.
	SiteName string
	SiteCode string
}

// SiteAssignment is the (site, role) pair used when granting memberships,
// either directly or through an invitation.
type SiteAssignment struct {
	SiteID   idx.ID   `json:"site_id"`
	SiteRole SiteRole `json:"site_role"`
}
