package http

import (
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
)

// Wire representations. Handlers never serialize domain structs directly so
// password hashes and token fingerprints cannot leak by accident.

type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	GlobalRole  string `json:"global_role"`
	TOTPEnabled bool   `json:"totp_enabled"`
	CreatedAt   string `json:"created_at"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		GlobalRole:  string(u.GlobalRole),
		TOTPEnabled: u.HasTOTP(),
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type SiteResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func toSiteResponse(s domain.Site) SiteResponse {
	return SiteResponse{
		ID:        s.ID.String(),
		Code:      s.Code,
		Name:      s.Name,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type MembershipResponse struct {
	SiteID   string `json:"site_id"`
	SiteCode string `json:"site_code"`
	SiteName string `json:"site_name"`
	SiteRole string `json:"site_role"`
}

func toMembershipResponses(ms []domain.SiteMembership) []MembershipResponse {
	out := make([]MembershipResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, MembershipResponse{
			SiteID:   m.SiteID.String(),
			SiteCode: m.SiteCode,
			SiteName: m.SiteName,
			SiteRole: string(m.SiteRole),
		})
	}
	return out
}

type AssignmentRequest struct {
	SiteID   string `json:"site_id"`
	SiteRole string `json:"site_role"`
}

type InvitationResponse struct {
	ID          string              `json:"id"`
	Email       string              `json:"email"`
	DisplayName string              `json:"display_name,omitempty"`
	State       string              `json:"state"`
	Assignments []AssignmentRequest `json:"assignments"`
	ExpiresAt   string              `json:"expires_at"`
	CreatedAt   string              `json:"created_at"`
}

func toInvitationResponse(inv domain.Invitation, now time.Time) InvitationResponse {
	assignments := make([]AssignmentRequest, 0, len(inv.Assignments))
	for _, a := range inv.Assignments {
		assignments = append(assignments, AssignmentRequest{
			SiteID:   a.SiteID.String(),
			SiteRole: string(a.SiteRole),
		})
	}
	return InvitationResponse{
		ID:          inv.ID.String(),
		Email:       inv.Email,
		DisplayName: inv.DisplayName,
		State:       string(inv.State(now)),
		Assignments: assignments,
		ExpiresAt:   inv.ExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt:   inv.CreatedAt.UTC().Format(time.RFC3339),
	}
}
