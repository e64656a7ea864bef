// Package file provides a repohistory.Storage that keeps every collection in
// a single JSON document on a core.FS.
//
// The document is rewritten in full on every Save by writing a temporary file
// next to it and renaming it into place:
//
//	{
//	  "version": "1",
//	  "collections": {
//	    "RecentRepositories": [
//	      {"path": "/src/api", "category": "work"}
//	    ]
//	  }
//	}
//
// Any core.FS works, including the go-billy local and in-memory filesystems:
//
//	store := file.New(billy.NewLocal(), "/home/me/.config/repohistory/history.json")
package file

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/repohistory"
)

const documentVersion = "1"

var _ repohistory.Storage = (*Storage)(nil)

// document is the on-disk layout.
type document struct {
	Version     string                         `json:"version"`
	Collections map[string][]repohistory.Entry `json:"collections"`
}

// Storage persists collections to a JSON file.
// It is safe for concurrent use within one process.
type Storage struct {
	fs   core.FS
	path string
	mu   sync.Mutex
}

// New creates a Storage backed by the file at path on fs.
// The file and its parent directories are created on first Save.
func New(fs core.FS, path string) *Storage {
	return &Storage{
		fs:   fs,
		path: path,
	}
}

// Load returns the collection stored under key.
// A missing file or key yields nil.
func (s *Storage) Load(_ context.Context, key string) ([]repohistory.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, errors.WithContext(err, "key", key)
	}
	return doc.Collections[key], nil
}

// Save replaces the collection under key, keeping all other collections.
func (s *Storage) Save(_ context.Context, key string, entries []repohistory.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return errors.WithContext(err, "key", key)
	}

	if entries == nil {
		entries = []repohistory.Entry{}
	}
	doc.Collections[key] = entries

	if err := s.write(doc); err != nil {
		return errors.WithContext(err, "key", key)
	}
	return nil
}

// read loads the document, returning an empty one if the file doesn't exist.
func (s *Storage) read() (*document, error) {
	exists, err := s.fs.Exists(s.path)
	if err != nil {
		return nil, s.wrap(err, errors.CodeDatabase, "failed to stat history file")
	}
	if !exists {
		return &document{
			Version:     documentVersion,
			Collections: make(map[string][]repohistory.Entry),
		}, nil
	}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, s.wrap(err, errors.CodeDatabase, "failed to read history file")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, s.wrap(err, errors.CodeSchemaFailed, "failed to parse history file")
	}

	if doc.Version != documentVersion {
		err := errors.Newf(errors.CodeSchemaFailed,
			"unsupported history file version: %s (expected %s)", doc.Version, documentVersion)
		return nil, errors.WithContext(err, "path", s.path)
	}

	if doc.Collections == nil {
		doc.Collections = make(map[string][]repohistory.Entry)
	}

	return &doc, nil
}

// write stores the document with write-to-temp + rename.
func (s *Storage) write(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return s.wrap(err, errors.CodeInternal, "failed to marshal history file")
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return s.wrap(err, errors.CodeDatabase, "failed to create history directory")
		}
	}

	tmpPath := s.path + ".tmp"
	if err := s.fs.WriteFile(tmpPath, data, 0o644); err != nil {
		_ = s.fs.Remove(tmpPath)
		return s.wrap(err, errors.CodeDatabase, "failed to write temporary history file")
	}

	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return s.wrap(err, errors.CodeDatabase, "failed to rename history file")
	}

	return nil
}

func (s *Storage) wrap(err error, code errors.ErrorCode, message string) error {
	return errors.WithContext(errors.Wrap(err, code, message), "path", s.path)
}
