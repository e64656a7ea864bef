package settings

import (
	"testing"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsPath = "settings.yaml"

func writeSettings(t *testing.T, content string) *billy.MemoryFS {
	t.Helper()
	fs := billy.NewMemory()
	require.NoError(t, fs.WriteFile(settingsPath, []byte(content), 0o644))
	return fs
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		s, err := Load(billy.NewMemory(), settingsPath)
		require.NoError(t, err)
		assert.Equal(t, Default(), s)
		assert.Equal(t, DefaultMaxHistorySize, s.MaxHistorySize)
		assert.Equal(t, StoreFile, s.Store.Kind)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		fs := writeSettings(t, "max_history_size: 5\n")

		s, err := Load(fs, settingsPath)
		require.NoError(t, err)
		assert.Equal(t, 5, s.MaxHistorySize)
		assert.Equal(t, StoreFile, s.Store.Kind)
		assert.Equal(t, DefaultHistoryPath(), s.Store.Path)
	})

	t.Run("redis store", func(t *testing.T) {
		fs := writeSettings(t, `
max_history_size: 15
store:
  kind: redis
  key: work
  redis:
    addr: localhost:6379
    db: 2
    prefix: hist
    ttl: 720h
`)

		s, err := Load(fs, settingsPath)
		require.NoError(t, err)
		assert.Equal(t, 15, s.MaxHistorySize)
		assert.Equal(t, StoreRedis, s.Store.Kind)
		assert.Equal(t, "work", s.Store.Key)
		assert.Equal(t, RedisSettings{
			Addr:   "localhost:6379",
			DB:     2,
			Prefix: "hist",
			TTL:    720 * time.Hour,
		}, s.Store.Redis)
	})

	t.Run("s3 store", func(t *testing.T) {
		fs := writeSettings(t, `
store:
  kind: s3
  s3:
    endpoint: localhost:9000
    bucket: history
    access_key: minioadmin
    secret_key: minioadmin
    prefix: users/alice
`)

		s, err := Load(fs, settingsPath)
		require.NoError(t, err)
		assert.Equal(t, StoreS3, s.Store.Kind)
		assert.Equal(t, "history", s.Store.S3.Bucket)
		assert.Equal(t, "users/alice", s.Store.S3.Prefix)
		assert.False(t, s.Store.S3.UseSSL)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		fs := writeSettings(t, "max_history_size: [\n")

		_, err := Load(fs, settingsPath)
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
	})

	t.Run("invalid values", func(t *testing.T) {
		fs := writeSettings(t, "max_history_size: -1\n")

		_, err := Load(fs, settingsPath)
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

		var platformErr errors.PlatformError
		require.True(t, errors.As(err, &platformErr))
		assert.Equal(t, settingsPath, platformErr.Context()["path"])
	})
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Settings) {}},
		{name: "zero size is valid", mutate: func(s *Settings) { s.MaxHistorySize = 0 }},
		{name: "memory store", mutate: func(s *Settings) { s.Store.Kind = StoreMemory }},
		{
			name:    "negative size",
			mutate:  func(s *Settings) { s.MaxHistorySize = -3 },
			wantErr: "must not be negative",
		},
		{
			name:    "file store without path",
			mutate:  func(s *Settings) { s.Store.Path = "" },
			wantErr: "store.path is required",
		},
		{
			name:    "redis store without addr",
			mutate:  func(s *Settings) { s.Store.Kind = StoreRedis },
			wantErr: "store.redis.addr is required",
		},
		{
			name:    "s3 store without bucket",
			mutate:  func(s *Settings) { s.Store.Kind = StoreS3 },
			wantErr: "store.s3.bucket is required",
		},
		{
			name: "s3 store without endpoint",
			mutate: func(s *Settings) {
				s.Store.Kind = StoreS3
				s.Store.S3.Bucket = "history"
			},
			wantErr: "store.s3.endpoint is required",
		},
		{
			name:    "unknown kind",
			mutate:  func(s *Settings) { s.Store.Kind = "registry" },
			wantErr: "unknown store kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
		})
	}
}
