// Package redis provides a repohistory.Storage backed by Redis.
//
// Each collection is stored as one JSON-encoded string under
// "<prefix>:<key>". The client may be any go-redis UniversalClient, so
// single-node, cluster and ring deployments all work.
package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/repohistory"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces keys when Config.Prefix is empty.
const DefaultPrefix = "repohistory"

var _ repohistory.Storage = (*Storage)(nil)

// Config configures the Redis store.
type Config struct {
	// Prefix namespaces every key. Default: "repohistory".
	Prefix string

	// TTL expires stored collections. Zero keeps them forever.
	TTL time.Duration
}

// Storage persists collections to Redis.
type Storage struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// New creates a Storage using client.
func New(client goredis.UniversalClient, config ...Config) *Storage {
	cfg := Config{Prefix: DefaultPrefix}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}

	return &Storage{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

func (s *Storage) redisKey(key string) string {
	return s.prefix + ":" + key
}

// Load returns the collection stored under key, or nil if the key is unset.
func (s *Storage) Load(ctx context.Context, key string) ([]repohistory.Entry, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if stderrors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, s.wrap(err, errors.CodeDatabase, "failed to load history", key)
	}

	var entries []repohistory.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, s.wrap(err, errors.CodeSchemaFailed, "failed to parse history", key)
	}
	return entries, nil
}

// Save overwrites the collection stored under key.
func (s *Storage) Save(ctx context.Context, key string, entries []repohistory.Entry) error {
	if entries == nil {
		entries = []repohistory.Entry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return s.wrap(err, errors.CodeInternal, "failed to marshal history", key)
	}

	if err := s.client.Set(ctx, s.redisKey(key), data, s.ttl).Err(); err != nil {
		return s.wrap(err, errors.CodeDatabase, "failed to save history", key)
	}
	return nil
}

func (s *Storage) wrap(err error, code errors.ErrorCode, message, key string) error {
	return errors.WithContext(errors.Wrap(err, code, message), "key", s.redisKey(key))
}
