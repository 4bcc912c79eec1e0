// Package perm computes what an actor may do. It is pure: no I/O, no caching,
// no ambient state. Callers build an Actor from freshly loaded user and
// membership rows on every request and branch on the returned capabilities.
package perm

import (
	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/pkg/idx"
)

// Resource is the closed set of protected resource kinds.
type Resource int

const (
	ResourceSites Resource = iota
	ResourceCables
	ResourceDevices
	ResourceLabels
	ResourceReports
	ResourceUsers
	ResourceAdmin
)

// Capability is the fixed-shape permission record for one resource.
type Capability struct {
	Create bool
	Read   bool
	Update bool
	Delete bool
}

// None reports whether the capability grants nothing.
func (c Capability) None() bool {
	return !c.Create && !c.Read && !c.Update && !c.Delete
}

var full = Capability{Create: true, Read: true, Update: true, Delete: true}

// Actor is the authorization-relevant view of a caller. Memberships must be
// the actor's complete current membership set, loaded for this request.
type Actor struct {
	Authenticated bool
	UserID        idx.ID
	GlobalRole    domain.GlobalRole
	Memberships   []domain.SiteMembership
}

// Anonymous is the unauthenticated actor.
var Anonymous = Actor{}

// Resolve maps (actor, resource) to a capability record.
//
// Unauthenticated actors get nothing. Global admins get everything. Regular
// users get read access to shared resources and create/update on content
// resources (ownership of specific records is enforced by the callers that
// know who owns what). Holding SITE_ADMIN somewhere additionally unlocks
// read/update on the users and admin surfaces; that elevation is page-level
// only and every site-targeted action must still pass CanAdministerSite.
func Resolve(a Actor, res Resource) Capability {
	if !a.Authenticated {
		return Capability{}
	}
	if a.GlobalRole == domain.GlobalAdmin {
		return full
	}

	switch res {
	case ResourceSites:
		return Capability{Read: true}
	case ResourceCables, ResourceDevices, ResourceLabels, ResourceReports:
		return Capability{Create: true, Read: true, Update: true}
	case ResourceUsers, ResourceAdmin:
		if holdsSiteAdmin(a) {
			return Capability{Read: true, Update: true}
		}
		return Capability{}
	default:
		return Capability{}
	}
}

// CanAccess reports whether the actor has any capability on the resource.
func CanAccess(a Actor, res Resource) bool {
	return !Resolve(a, res).None()
}

// IsAdmin reports whether the actor should see the admin surface at all:
// global admins and holders of at least one SITE_ADMIN membership.
func IsAdmin(a Actor) bool {
	if !a.Authenticated {
		return false
	}
	return a.GlobalRole == domain.GlobalAdmin || holdsSiteAdmin(a)
}

// CanAdministerSite reports whether the actor may administer the specific
// site: global admins may administer any site, site admins exactly theirs.
// This is the per-site narrowing that the coarse capability record cannot
// express; multi-tenant isolation depends on callers checking it.
func CanAdministerSite(a Actor, siteID idx.ID) bool {
	if !a.Authenticated {
		return false
	}
	if a.GlobalRole == domain.GlobalAdmin {
		return true
	}
	for _, m := range a.Memberships {
		if m.SiteID == siteID && m.SiteRole == domain.SiteAdmin {
			return true
		}
	}
	return false
}

// AdministeredSites returns the set of site ids the actor administers through
// memberships. Global admins administer all sites; callers must check
// GlobalRole before consulting this set.
func AdministeredSites(a Actor) map[idx.ID]struct{} {
	out := make(map[idx.ID]struct{})
	for _, m := range a.Memberships {
		if m.SiteRole == domain.SiteAdmin {
			out[m.SiteID] = struct{}{}
		}
	}
	return out
}

func holdsSiteAdmin(a Actor) bool {
	for _, m := range a.Memberships {
		if m.SiteRole == domain.SiteAdmin {
			return true
		}
	}
	return false
}
