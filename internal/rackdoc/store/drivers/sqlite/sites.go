package sqlite

import (
	"context"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/idx"
)

type sitesRepo struct {
	db dbtx
}

var _ store.Sites = (*sitesRepo)(nil)

const siteCols = `id, code, name, created_at, updated_at`

func scanSite(row scanner) (domain.Site, error) {
	var (
		s  domain.Site
		id string
	)
	if err := row.Scan(&id, &s.Code, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return domain.Site{}, err
	}
	s.ID = idx.ID(id)
	return s, nil
}

func (r *sitesRepo) GetSiteByID(ctx context.Context, id idx.ID) (domain.Site, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+siteCols+` FROM sites WHERE id = ?`, id.String())
	s, err := scanSite(row)
	return s, mapNotFound(err)
}

func (r *sitesRepo) CreateSite(ctx context.Context, s domain.Site) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sites (id, code, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID.String(), s.Code, s.Name, s.CreatedAt.UTC(), s.UpdatedAt.UTC())
	return mapConstraint(err)
}

func (r *sitesRepo) ListSites(ctx context.Context) ([]domain.Site, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+siteCols+` FROM sites ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

func (r *sitesRepo) DeleteSite(ctx context.Context, id idx.ID) error {
	return execOne(ctx, r.db, `DELETE FROM sites WHERE id = ?`, id.String())
}
