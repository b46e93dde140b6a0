package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"xprem/internal/application/port"
	"xprem/internal/domain"
	"xprem/internal/infrastructure/storage"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

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
  updated_at INTEGER NOT NULL
);
`)
	return err
}

func (r *Repo) Load(ctx context.Context, key string) (domain.Preferences, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM preferences WHERE pair_key=?`, key).Scan(&raw)
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
		INSERT INTO preferences(pair_key, payload, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(pair_key) DO UPDATE SET
		payload=excluded.payload, updated_at=excluded.updated_at
	`, key, string(b), time.Now().UnixMilli())
	return err
}

var _ port.PrefsStore = (*Repo)(nil)
