package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"xprem/internal/application/port"
	"xprem/internal/domain"
	"xprem/internal/infrastructure/storage"

	"github.com/redis/go-redis/v9"
)

// Repo stores every pair's preferences as one field of a hash:
// HSET <prefix>:prefs <pair key> <json>.
type Repo struct {
	rdb     *redis.Client
	prefix  string
	ttl     time.Duration
	keyHash string
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Repo {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "xprem"
	}
	return &Repo{
		rdb:     rdb,
		prefix:  prefix,
		ttl:     ttl,
		keyHash: prefix + ":prefs",
	}
}

func (r *Repo) Load(ctx context.Context, key string) (domain.Preferences, error) {
	raw, err := r.rdb.HGet(ctx, r.keyHash, key).Result()
	if errors.Is(err, redis.Nil) {
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
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyHash, key, string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyHash, r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.PrefsStore = (*Repo)(nil)
