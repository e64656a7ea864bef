// Package s3 provides a repohistory.Storage backed by an S3-compatible
// object store such as MinIO or AWS S3.
//
// Each collection is one JSON object named "<prefix>/<key>.json".
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path"
	"strings"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/repohistory"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ repohistory.Storage = (*Storage)(nil)

// Storage persists collections as objects in a bucket.
type Storage struct {
	client *minio.Client
	bucket string
	prefix string
}

// New creates an S3-backed Storage.
// Returns an error if the configuration is invalid or the client can't be built.
func New(cfg Config) (*Storage, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create minio client")
		}
	}

	return &Storage{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// objectName maps a collection key to its object name.
func (s *Storage) objectName(key string) string {
	if s.prefix == "" {
		return key + ".json"
	}
	return path.Join(s.prefix, key+".json")
}

// Load returns the collection stored under key, or nil if no object exists.
func (s *Storage) Load(ctx context.Context, key string) ([]repohistory.Entry, error) {
	name := s.objectName(key)

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrap(err, "failed to get history object", name)
	}
	defer func() {
		_ = obj.Close()
	}()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, s.wrap(err, "failed to read history object", name)
	}

	var entries []repohistory.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.WithContextMap(
			errors.Wrap(err, errors.CodeSchemaFailed, "failed to parse history object"),
			map[string]interface{}{"bucket": s.bucket, "object": name},
		)
	}
	return entries, nil
}

// Save overwrites the object for key.
func (s *Storage) Save(ctx context.Context, key string, entries []repohistory.Entry) error {
	if entries == nil {
		entries = []repohistory.Entry{}
	}

	name := s.objectName(key)
	data, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to marshal history")
	}

	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return s.wrap(err, "failed to put history object", name)
	}
	return nil
}

func (s *Storage) wrap(err error, message, name string) error {
	return errors.WithContextMap(
		errors.Wrap(err, errors.CodeNetwork, message),
		map[string]interface{}{"bucket": s.bucket, "object": name},
	)
}

func isNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
