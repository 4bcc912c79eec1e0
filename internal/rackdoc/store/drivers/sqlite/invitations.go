package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/idx"
)

type invitationsRepo struct {
	db dbtx
}

var _ store.Invitations = (*invitationsRepo)(nil)

const invitationCols = `id, email, display_name, token_hash, created_by, expires_at, accepted_at, accepted_by, created_at, updated_at`

func scanInvitation(row scanner) (domain.Invitation, error) {
	var (
		inv                   domain.Invitation
		id                    string
		createdBy, acceptedBy sql.NullString
		acceptedAt            sql.NullTime
	)
	err := row.Scan(&id, &inv.Email, &inv.DisplayName, &inv.TokenHash, &createdBy,
		&inv.ExpiresAt, &acceptedAt, &acceptedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv.ID = idx.ID(id)
	inv.CreatedBy = idx.ID(createdBy.String)
	inv.AcceptedBy = idx.ID(acceptedBy.String)
	if acceptedAt.Valid {
		t := acceptedAt.Time
		inv.AcceptedAt = &t
	}
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (id, email, display_name, token_hash, created_by,
		                         expires_at, accepted_at, accepted_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID.String(), inv.Email, inv.DisplayName, inv.TokenHash,
		nullString(inv.CreatedBy.String()), inv.ExpiresAt.UTC(),
		nullTime(inv.AcceptedAt), nullString(inv.AcceptedBy.String()),
		inv.CreatedAt.UTC(), inv.UpdatedAt.UTC())
	if err != nil {
		return mapConstraint(err)
	}

	for i, a := range inv.Assignments {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO invitation_assignments (invitation_id, site_id, site_role, position)
			VALUES (?, ?, ?, ?)`,
			inv.ID.String(), a.SiteID.String(), string(a.SiteRole), i)
		if err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id idx.ID) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationCols+` FROM invitations WHERE id = ?`, id.String())
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.Assignments, err = r.assignmentsFor(ctx, inv.ID)
	return inv, err
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationCols+` FROM invitations WHERE token_hash = ?`, hash)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.Assignments, err = r.assignmentsFor(ctx, inv.ID)
	return inv, err
}

func (r *invitationsRepo) assignmentsFor(ctx context.Context, id idx.ID) ([]domain.SiteAssignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT site_id, site_role FROM invitation_assignments
		WHERE invitation_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SiteAssignment
	for rows.Next() {
		var (
			sid  string
			role string
		)
		if err := rows.Scan(&sid, &role); err != nil {
			return nil, err
		}
		out = append(out, domain.SiteAssignment{SiteID: idx.ID(sid), SiteRole: domain.SiteRole(role)})
	}
	return out, rows.Err()
}

func (r *invitationsRepo) ConsumeInvitation(ctx context.Context, id idx.ID, acceptedBy idx.ID, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET accepted_at = ?, accepted_by = ?, updated_at = ?
		WHERE id = ? AND accepted_at IS NULL`,
		now.UTC(), acceptedBy.String(), now.UTC(), id.String())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// The compare-and-set missed: either the row is gone or someone beat us
	// to the accept.
	var exists int
	err = r.db.QueryRowContext(ctx,
		`SELECT 1 FROM invitations WHERE id = ?`, id.String()).Scan(&exists)
	if err != nil {
		return mapNotFound(err)
	}
	return store.ErrAlreadyConsumed
}

func (r *invitationsRepo) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invitationCols+` FROM invitations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []domain.Invitation
	index := map[idx.ID]int{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		index[inv.ID] = len(invs)
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	arows, err := r.db.QueryContext(ctx, `
		SELECT invitation_id, site_id, site_role FROM invitation_assignments
		ORDER BY invitation_id, position`)
	if err != nil {
		return nil, err
	}
	defer arows.Close()

	for arows.Next() {
		var invID, sid, role string
		if err := arows.Scan(&invID, &sid, &role); err != nil {
			return nil, err
		}
		if i, ok := index[idx.ID(invID)]; ok {
			invs[i].Assignments = append(invs[i].Assignments,
				domain.SiteAssignment{SiteID: idx.ID(sid), SiteRole: domain.SiteRole(role)})
		}
	}
	return invs, arows.Err()
}

func (r *invitationsRepo) DeleteInvitation(ctx context.Context, id idx.ID) error {
	return execOne(ctx, r.db, `DELETE FROM invitations WHERE id = ?`, id.String())
}

func (r *invitationsRepo) CountPending(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM invitations
		WHERE accepted_at IS NULL AND expires_at > ?`, now.UTC()).Scan(&n)
	return n, err
}

func (r *invitationsRepo) CountExpired(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM invitations
		WHERE accepted_at IS NULL AND expires_at <= ?`, now.UTC()).Scan(&n)
	return n, err
}

func (r *invitationsRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM invitations
		WHERE accepted_at IS NULL AND expires_at < ?`, cutoff.UTC())
	return err
}
