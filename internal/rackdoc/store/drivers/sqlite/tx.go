package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rackworks/rackdoc/internal/rackdoc/store"
)

var errNestedTx = errors.New("sqlite: transaction already in progress")

// txStore scopes every repository to a single *sql.Tx.
type txStore struct {
	db *sql.DB
	tx *sql.Tx
}

var _ store.Tx = (*txStore)(nil)

func (t *txStore) Users() store.Users             { return &usersRepo{db: t.tx} }
func (t *txStore) Sites() store.Sites             { return &sitesRepo{db: t.tx} }
func (t *txStore) Memberships() store.Memberships { return &membershipsRepo{db: t.tx} }
func (t *txStore) Invitations() store.Invitations { return &invitationsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return errNestedTx }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, errNestedTx }

// WithTx joins the transaction already in progress rather than nesting.
func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return fn(t)
}

func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return t.db.PingContext(ctx) }

func (t *txStore) Commit() error { return t.tx.Commit() }

func (t *txStore) Rollback() error { return t.tx.Rollback() }
