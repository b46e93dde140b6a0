package postgres

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"

	"xprem/internal/application/port"
	"xprem/internal/domain"
	"xprem/internal/infrastructure/storage"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS preferences (
  pair_key TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`)
	return err
}

func (r *Repo) Load(ctx context.Context, key string) (domain.Preferences, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM preferences WHERE pair_key=$1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Preferences{}, nil
	}
	if err != nil {
		return domain.Preferences{}, err
	}
	return storage.Decode([]byte(raw)), nil
}

func (r *Repo) Save(ctx context.Context, key string, p domain.Preferences) error {
	b, err := storage.Encode(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO preferences(pair_key, payload, updated_at) VALUES($1, $2, now())
		ON CONFLICT(pair_key) DO UPDATE SET payload=excluded.payload, updated_at=now()
	`, key, string(b))
	return err
}

var _ port.PrefsStore = (*Repo)(nil)
