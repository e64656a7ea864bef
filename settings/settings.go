// Package settings loads repohistory configuration from YAML and exposes the
// maximum history size as a live value that can change at runtime.
//
// A settings file looks like:
//
//	max_history_size: 15
//	store:
//	  kind: redis
//	  key: RecentRepositories
//	  redis:
//	    addr: localhost:6379
//	    prefix: repohistory
//	    ttl: 720h
package settings

import (
	"os"
	"path/filepath"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/core"
	"gopkg.in/yaml.v3"
)

// DefaultMaxHistorySize is used when no size is configured.
const DefaultMaxHistorySize = 10

// StoreKind selects a storage backend.
type StoreKind string

const (
	// StoreMemory keeps the history in process memory only.
	StoreMemory StoreKind = "memory"
	// StoreFile keeps the history in a JSON file.
	StoreFile StoreKind = "file"
	// StoreRedis keeps the history in Redis.
	StoreRedis StoreKind = "redis"
	// StoreS3 keeps the history in an S3-compatible bucket.
	StoreS3 StoreKind = "s3"
)

// Settings is the full configuration.
type Settings struct {
	MaxHistorySize int           `yaml:"max_history_size"`
	Store          StoreSettings `yaml:"store"`
}

// StoreSettings configures the storage backend.
type StoreSettings struct {
	Kind StoreKind `yaml:"kind"`

	// Key overrides the history key. Empty uses repohistory.HistoryKey.
	Key string `yaml:"key"`

	// Path is the JSON file used by StoreFile.
	Path string `yaml:"path"`

	Redis RedisSettings `yaml:"redis"`
	S3    S3Settings    `yaml:"s3"`
}

// RedisSettings configures StoreRedis.
type RedisSettings struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// S3Settings configures StoreS3.
type S3Settings struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Prefix    string `yaml:"prefix"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		MaxHistorySize: DefaultMaxHistorySize,
		Store: StoreSettings{
			Kind: StoreFile,
			Path: DefaultHistoryPath(),
		},
	}
}

// DefaultHistoryPath returns the history file under the user config directory.
func DefaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "repohistory", "history.json")
}

// DefaultSettingsPath returns the settings file under the user config directory.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "repohistory", "settings.yaml")
}

// Load reads settings from path on fs, layered over Default.
// A missing file yields Default.
func Load(fs core.ReadFS, path string) (Settings, error) {
	s := Default()

	exists, err := fs.Exists(path)
	if err != nil {
		return Settings{}, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to stat settings file"), "path", path)
	}
	if !exists {
		return s, nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return Settings{}, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to read settings file"), "path", path)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse settings file"), "path", path)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, errors.WithContext(err, "path", path)
	}

	return s, nil
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	if s.MaxHistorySize < 0 {
		return errors.Newf(errors.CodeInvalidConfig, "max_history_size must not be negative: %d", s.MaxHistorySize)
	}

	switch s.Store.Kind {
	case StoreMemory:
	case StoreFile:
		if s.Store.Path == "" {
			return errors.New(errors.CodeInvalidConfig, "store.path is required for file store")
		}
	case StoreRedis:
		if s.Store.Redis.Addr == "" {
			return errors.New(errors.CodeInvalidConfig, "store.redis.addr is required for redis store")
		}
	case StoreS3:
		if s.Store.S3.Bucket == "" {
			return errors.New(errors.CodeInvalidConfig, "store.s3.bucket is required for s3 store")
		}
		if s.Store.S3.Endpoint == "" {
			return errors.New(errors.CodeInvalidConfig, "store.s3.endpoint is required for s3 store")
		}
	default:
		return errors.Newf(errors.CodeInvalidConfig, "unknown store kind: %q", s.Store.Kind)
	}

	return nil
}
