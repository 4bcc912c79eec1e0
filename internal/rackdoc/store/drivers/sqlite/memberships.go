package sqlite

import (
	"context"
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/idx"
)

type membershipsRepo struct {
	db dbtx
}

var _ store.Memberships = (*membershipsRepo)(nil)

func (r *membershipsRepo) ListByUser(ctx context.Context, userID idx.ID) ([]domain.SiteMembership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.user_id, m.site_id, m.site_role, m.created_at, s.name, s.code
		FROM site_memberships m
		JOIN sites s ON s.id = m.site_id
		WHERE m.user_id = ?
		ORDER BY s.code`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SiteMembership
	for rows.Next() {
		var (
			m        domain.SiteMembership
			uid, sid string
			role     string
		)
		if err := rows.Scan(&uid, &sid, &role, &m.CreatedAt, &m.SiteName, &m.SiteCode); err != nil {
			return nil, err
		}
		m.UserID = idx.ID(uid)
		m.SiteID = idx.ID(sid)
		m.SiteRole = domain.SiteRole(role)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membershipsRepo) ReplaceForUser(ctx context.Context, userID idx.ID, assignments []domain.SiteAssignment) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM site_memberships WHERE user_id = ?`, userID.String()); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, a := range assignments {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO site_memberships (user_id, site_id, site_role, created_at)
			VALUES (?, ?, ?, ?)`,
			userID.String(), a.SiteID.String(), string(a.SiteRole), now)
		if err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}
