package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/badoux/checkmail"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/mail"
	"github.com/rackworks/rackdoc/internal/rackdoc/perm"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/cryptox"
	"github.com/rackworks/rackdoc/pkg/idx"
	"github.com/rackworks/rackdoc/pkg/slogx"
)

// InviteTTL is the fixed invitation lifetime.
const InviteTTL = 7 * 24 * time.Hour

// MinPasswordLength applies to passwords chosen at invitation accept.
const MinPasswordLength = 10

// InviteService issues, validates, accepts, lists and cancels invitations.
type InviteService struct {
	store       store.Store
	mailer      mail.Mailer
	externalURL string
	now         func() time.Time
}

func NewInviteService(st store.Store, mailer mail.Mailer, externalURL string) *InviteService {
	return &InviteService{
		store:       st,
		mailer:      mailer,
		externalURL: strings.TrimRight(externalURL, "/"),
		now:         time.Now,
	}
}

type IssueInviteParams struct {
	Email       string
	DisplayName string
	Assignments []domain.SiteAssignment
}

type IssueInviteResult struct {
	Invitation domain.Invitation
	// Token is the plaintext bearer token. It exists only in this response;
	// storage holds the fingerprint.
	Token      string
	AcceptURL  string
	EmailSent  bool
	EmailError string
}

// Issue creates a new invitation. Global admins may grant any assignment set
// (including none); site admins only assignments entirely within their
// administered sites, and at least one.
func (s *InviteService) Issue(ctx context.Context, actor perm.Actor, p IssueInviteParams) (IssueInviteResult, error) {
	if !actor.Authenticated {
		return IssueInviteResult{}, ErrUnauthenticated
	}
	if err := s.authorizeIssue(actor, p.Assignments); err != nil {
		return IssueInviteResult{}, err
	}

	email := strings.TrimSpace(strings.ToLower(p.Email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return IssueInviteResult{}, validationf("invalid email address")
	}
	if err := s.validateAssignments(ctx, s.store, p.Assignments); err != nil {
		return IssueInviteResult{}, err
	}

	if _, err := s.store.Users().GetUserByEmail(ctx, email); err == nil {
		return IssueInviteResult{}, fmt.Errorf("%w: a user with this email already exists", ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return IssueInviteResult{}, err
	}

	token, err := cryptox.NewToken(cryptox.InviteTokenBytes)
	if err != nil {
		return IssueInviteResult{}, err
	}

	now := s.now().UTC()
	inv := domain.Invitation{
		ID:          idx.New(),
		Email:       email,
		DisplayName: strings.TrimSpace(p.DisplayName),
		TokenHash:   cryptox.Fingerprint(token),
		CreatedBy:   actor.UserID,
		Assignments: p.Assignments,
		ExpiresAt:   now.Add(InviteTTL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Invitations().CreateInvitation(ctx, inv); err != nil {
		return IssueInviteResult{}, err
	}

	res := IssueInviteResult{
		Invitation: inv,
		Token:      token,
		AcceptURL:  s.acceptURL(token),
	}

	// Delivery is best-effort: the invitation stands even when the mail does
	// not go out, the caller relays the link instead.
	err = s.mailer.SendInvite(ctx, mail.Invite{
		To:          inv.Email,
		DisplayName: inv.DisplayName,
		AcceptURL:   res.AcceptURL,
		ExpiresAt:   inv.ExpiresAt,
	})
	if err != nil {
		slogx.FromContext(ctx).Warn("invitation email not sent",
			slog.String("invitation_id", inv.ID.String()),
			slog.String("error", err.Error()))
		res.EmailError = err.Error()
	} else {
		res.EmailSent = true
	}

	return res, nil
}

func (s *InviteService) authorizeIssue(actor perm.Actor, assignments []domain.SiteAssignment) error {
	if actor.GlobalRole == domain.GlobalAdmin {
		return nil
	}
	if !perm.IsAdmin(actor) {
		return ErrForbidden
	}
	if len(assignments) == 0 {
		return fmt.Errorf("%w: site admins must grant at least one site", ErrForbidden)
	}
	administered := perm.AdministeredSites(actor)
	for _, a := range assignments {
		if _, ok := administered[a.SiteID]; !ok {
			return fmt.Errorf("%w: cannot grant access to a site you do not administer", ErrForbidden)
		}
	}
	return nil
}

func (s *InviteService) validateAssignments(ctx context.Context, st store.Store, assignments []domain.SiteAssignment) error {
	seen := make(map[idx.ID]struct{}, len(assignments))
	for _, a := range assignments {
		if !a.SiteRole.Valid() {
			return validationf("unknown site role %q", a.SiteRole)
		}
		if _, dup := seen[a.SiteID]; dup {
			return validationf("duplicate site in assignments")
		}
		seen[a.SiteID] = struct{}{}
		if _, err := st.Sites().GetSiteByID(ctx, a.SiteID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return validationf("unknown site %s", a.SiteID)
			}
			return err
		}
	}
	return nil
}

func (s *InviteService) acceptURL(token string) string {
	return s.externalURL + "/invites/accept?token=" + url.QueryEscape(token)
}

// InviteSummary is what an invitee sees before accepting: enough to decide,
// nothing sensitive.
type InviteSummary struct {
	Email       string
	DisplayName string
	Sites       []InviteSiteGrant
	ExpiresAt   time.Time
}

type InviteSiteGrant struct {
	SiteID   idx.ID
	SiteCode string
	SiteName string
	SiteRole domain.SiteRole
}

// Validate resolves a plaintext token to a pending-invitation summary.
// Expired and already-accepted invitations fail with their distinct sentinel
// so the UI can explain which it is.
func (s *InviteService) Validate(ctx context.Context, token string) (InviteSummary, error) {
	inv, err := s.store.Invitations().GetInvitationByTokenHash(ctx, cryptox.Fingerprint(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return InviteSummary{}, ErrNotFound
		}
		return InviteSummary{}, err
	}

	switch inv.State(s.now()) {
	case domain.InvitationAccepted:
		return InviteSummary{}, ErrAlreadyUsed
	case domain.InvitationExpired:
		return InviteSummary{}, ErrExpired
	}

	sum := InviteSummary{
		Email:       inv.Email,
		DisplayName: inv.DisplayName,
		ExpiresAt:   inv.ExpiresAt,
	}
	for _, a := range inv.Assignments {
		site, err := s.store.Sites().GetSiteByID(ctx, a.SiteID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Site deleted since issue; the assignment row cascades away,
				// a stale read in between just skips it.
				continue
			}
			return InviteSummary{}, err
		}
		sum.Sites = append(sum.Sites, InviteSiteGrant{
			SiteID:   site.ID,
			SiteCode: site.Code,
			SiteName: site.Name,
			SiteRole: a.SiteRole,
		})
	}
	return sum, nil
}

type AcceptInviteParams struct {
	Token       string
	Password    string
	DisplayName string
}

// Accept consumes the invitation and provisions the user plus memberships in
// one transaction. The consume is a compare-and-set, so two racing accepts
// resolve to exactly one created account.
func (s *InviteService) Accept(ctx context.Context, p AcceptInviteParams) (domain.User, error) {
	if len(p.Password) < MinPasswordLength {
		return domain.User{}, validationf("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	var user domain.User
	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := tx.Invitations().GetInvitationByTokenHash(ctx, cryptox.Fingerprint(p.Token))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		now := s.now().UTC()
		switch inv.State(now) {
		case domain.InvitationAccepted:
			return ErrAlreadyUsed
		case domain.InvitationExpired:
			return ErrExpired
		}

		displayName := strings.TrimSpace(p.DisplayName)
		if displayName == "" {
			displayName = inv.DisplayName
		}

		user = domain.User{
			ID:           idx.New(),
			Email:        inv.Email,
			DisplayName:  displayName,
			PasswordHash: hash,
			GlobalRole:   domain.GlobalUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fmt.Errorf("%w: a user with this email already exists", ErrConflict)
			}
			return err
		}

		if err := tx.Invitations().ConsumeInvitation(ctx, inv.ID, user.ID, now); err != nil {
			if errors.Is(err, store.ErrAlreadyConsumed) {
				return ErrAlreadyUsed
			}
			return err
		}

		return tx.Memberships().ReplaceForUser(ctx, user.ID, inv.Assignments)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// List returns invitations the actor may see. Global admins see everything;
// site admins only invitations whose grants lie entirely within their
// administered sites.
func (s *InviteService) List(ctx context.Context, actor perm.Actor) ([]domain.Invitation, error) {
	if !actor.Authenticated {
		return nil, ErrUnauthenticated
	}
	if !perm.IsAdmin(actor) {
		return nil, ErrForbidden
	}

	invs, err := s.store.Invitations().ListInvitations(ctx)
	if err != nil {
		return nil, err
	}
	if actor.GlobalRole == domain.GlobalAdmin {
		return invs, nil
	}

	administered := perm.AdministeredSites(actor)
	scoped := invs[:0]
	for _, inv := range invs {
		if inviteWithinSites(inv, administered) {
			scoped = append(scoped, inv)
		}
	}
	return scoped, nil
}

// Cancel deletes an unaccepted invitation. Accepted invitations are part of
// the audit trail and refuse deletion.
func (s *InviteService) Cancel(ctx context.Context, actor perm.Actor, id idx.ID) error {
	if !actor.Authenticated {
		return ErrUnauthenticated
	}
	if !perm.IsAdmin(actor) {
		return ErrForbidden
	}

	inv, err := s.store.Invitations().GetInvitationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if actor.GlobalRole != domain.GlobalAdmin &&
		!inviteWithinSites(inv, perm.AdministeredSites(actor)) {
		return ErrForbidden
	}
	if inv.AcceptedAt != nil {
		return fmt.Errorf("%w: invitation already accepted", ErrConflict)
	}

	return s.store.Invitations().DeleteInvitation(ctx, id)
}

// inviteWithinSites reports whether every grant of the invitation targets one
// of the given sites. Membership-less invitations are global-admin territory.
func inviteWithinSites(inv domain.Invitation, sites map[idx.ID]struct{}) bool {
	if len(inv.Assignments) == 0 {
		return false
	}
	for _, a := range inv.Assignments {
		if _, ok := sites[a.SiteID]; !ok {
			return false
		}
	}
	return true
}
