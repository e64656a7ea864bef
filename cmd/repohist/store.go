package main

import (
	"path/filepath"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/billy"
	"github.com/jmgilman/go/repohistory"
	"github.com/jmgilman/go/repohistory/settings"
	"github.com/jmgilman/go/repohistory/storage/file"
	"github.com/jmgilman/go/repohistory/storage/memory"
	"github.com/jmgilman/go/repohistory/storage/redis"
	"github.com/jmgilman/go/repohistory/storage/s3"
	goredis "github.com/redis/go-redis/v9"
)

// openStorage builds the backend selected by cfg. The returned close func
// releases any client connections.
func openStorage(cfg settings.StoreSettings) (repohistory.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Kind {
	case settings.StoreMemory:
		return memory.New(), noop, nil

	case settings.StoreFile:
		// billy.NewLocal is rooted at "/", so the path must be absolute.
		path, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to resolve history path")
		}
		return file.New(billy.NewLocal(), path), noop, nil

	case settings.StoreRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := redis.New(client, redis.Config{
			Prefix: cfg.Redis.Prefix,
			TTL:    cfg.Redis.TTL,
		})
		return store, client.Close, nil

	case settings.StoreS3:
		store, err := s3.New(s3.Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	}

	return nil, nil, errors.Newf(errors.CodeInvalidConfig, "unknown store kind: %q", cfg.Kind)
}
