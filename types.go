package repohistory

import "context"

// HistoryKey is the storage key the recent-repositories list is kept under.
const HistoryKey = "RecentRepositories"

// Entry is a single recently used repository.
type Entry struct {
	// Path identifies the repository. Paths are compared as exact strings.
	Path string `json:"path" yaml:"path"`

	// Category is an optional grouping label. Empty means no category.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Storage loads and saves named collections of entries.
//
// Load must return a nil or empty slice and a nil error when nothing has been
// saved under key. Save replaces the whole collection stored under key.
type Storage interface {
	Load(ctx context.Context, key string) ([]Entry, error)
	Save(ctx context.Context, key string, entries []Entry) error
}

// SizeFunc reports the current maximum number of entries a history may hold.
// It is called on every trimming operation and never cached.
type SizeFunc func() int

// FixedSize returns a SizeFunc that always reports n.
func FixedSize(n int) SizeFunc {
	return func() int {
		return n
	}
}
