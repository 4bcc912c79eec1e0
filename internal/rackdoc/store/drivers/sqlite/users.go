package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/rackworks/rackdoc/internal/rackdoc/domain"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/pkg/idx"
)

type usersRepo struct {
	db dbtx
}

var _ store.Users = (*usersRepo)(nil)

const userCols = `id, email, display_name, password_hash, global_role, totp_secret, totp_enabled_at, created_at, updated_at`

func scanUser(row scanner) (domain.User, error) {
	var (
		u       domain.User
		id      string
		role    string
		secret  sql.NullString
		enabled sql.NullTime
	)
	err := row.Scan(&id, &u.Email, &u.DisplayName, &u.PasswordHash, &role,
		&secret, &enabled, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = idx.ID(id)
	u.GlobalRole = domain.GlobalRole(role)
	u.TOTPSecret = secret.String
	if enabled.Valid {
		t := enabled.Time
		u.TOTPEnabled = &t
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id idx.ID) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ?`, id.String())
	u, err := scanUser(row)
	return u, mapNotFound(err)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	return u, mapNotFound(err)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, global_role,
		                   totp_secret, totp_enabled_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Email, u.DisplayName, u.PasswordHash, string(u.GlobalRole),
		nullString(u.TOTPSecret), nullTime(u.TOTPEnabled),
		u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	return mapConstraint(err)
}

func (r *usersRepo) ListUsers(ctx context.Context, filter store.ListUsersFilter) ([]domain.User, error) {
	query := `SELECT ` + userCols + ` FROM users ORDER BY email`
	args := []any{}
	if !filter.SiteID.IsZero() {
		query = `
			SELECT u.id, u.email, u.display_name, u.password_hash, u.global_role,
			       u.totp_secret, u.totp_enabled_at, u.created_at, u.updated_at
			FROM users u
			JOIN site_memberships m ON m.user_id = u.id
			WHERE m.site_id = ?
			ORDER BY u.email`
		args = append(args, filter.SiteID.String())
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) UpdateGlobalRole(ctx context.Context, userID idx.ID, role domain.GlobalRole) error {
	return execOne(ctx, r.db,
		`UPDATE users SET global_role = ?, updated_at = ? WHERE id = ?`,
		string(role), time.Now().UTC(), userID.String())
}

func (r *usersRepo) UpdateDisplayName(ctx context.Context, userID idx.ID, displayName string) error {
	return execOne(ctx, r.db,
		`UPDATE users SET display_name = ?, updated_at = ? WHERE id = ?`,
		displayName, time.Now().UTC(), userID.String())
}

func (r *usersRepo) UpdateTOTPSecret(ctx context.Context, userID idx.ID, secret string) error {
	return execOne(ctx, r.db,
		`UPDATE users SET totp_secret = ?, totp_enabled_at = NULL, updated_at = ? WHERE id = ?`,
		nullString(secret), time.Now().UTC(), userID.String())
}

func (r *usersRepo) EnableTOTP(ctx context.Context, userID idx.ID) error {
	return execOne(ctx, r.db,
		`UPDATE users SET totp_enabled_at = ?, updated_at = ? WHERE id = ? AND totp_secret IS NOT NULL`,
		time.Now().UTC(), time.Now().UTC(), userID.String())
}

func (r *usersRepo) DisableTOTP(ctx context.Context, userID idx.ID) error {
	return execOne(ctx, r.db,
		`UPDATE users SET totp_secret = NULL, totp_enabled_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID.String())
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID idx.ID) error {
	return execOne(ctx, r.db, `DELETE FROM users WHERE id = ?`, userID.String())
}

func (r *usersRepo) CountGlobalAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE global_role = ?`,
		string(domain.GlobalAdmin)).Scan(&n)
	return n, err
}

func (r *usersRepo) CountWithoutMemberships(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users u
		WHERE NOT EXISTS (SELECT 1 FROM site_memberships m WHERE m.user_id = u.id)`).Scan(&n)
	return n, err
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
