package repohistory

import (
	"context"
	"log/slog"
)

// Manager applies recent-repository rules on top of a Storage backend.
// It holds no history between calls; every operation loads from storage.
type Manager struct {
	storage Storage
	maxSize SizeFunc
	key     string
	logger  *slog.Logger
}

// New creates a Manager that persists through storage and trims to the value
// reported by maxSize.
func New(storage Storage, maxSize SizeFunc, opts ...Option) *Manager {
	options := defaultManagerOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &Manager{
		storage: storage,
		maxSize: maxSize,
		key:     options.key,
		logger:  options.logger.With("key", options.key),
	}
}

// Load returns the stored history trimmed to the current maximum size.
// An absent history is returned as an empty, non-nil slice.
// Load never writes the trimmed list back.
func (m *Manager) Load(ctx context.Context) ([]Entry, error) {
	entries, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	trimmed := trim(entries, m.limit())
	m.logger.DebugContext(ctx, "loaded history", "entries", len(entries), "returned", len(trimmed))
	return trimmed, nil
}

// AddAsMostRecent moves path to the head of the history and saves it.
//
// The first existing entry for path, if any, is removed and a new entry
// without a category is inserted at index 0. Later duplicates are left where
// they are. If path is already at index 0 the history is returned as loaded
// and nothing is saved. The result is not trimmed.
func (m *Manager) AddAsMostRecent(ctx context.Context, path string) ([]Entry, error) {
	entries, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	if len(entries) > 0 && entries[0].Path == path {
		m.logger.DebugContext(ctx, "repository already most recent", "path", path, "skipped", true)
		return entries, nil
	}

	result := make([]Entry, 0, len(entries)+1)
	result = append(result, Entry{Path: path})
	if i := indexOf(entries, path); i >= 0 {
		result = append(result, entries[:i]...)
		result = append(result, entries[i+1:]...)
	} else {
		result = append(result, entries...)
	}

	if err := m.storage.Save(ctx, m.key, result); err != nil {
		return nil, err
	}

	m.logger.DebugContext(ctx, "promoted repository", "path", path, "entries", len(result))
	return result, nil
}

// RemoveRecent removes every entry for path and saves the result.
// If no entry matches, the loaded history is returned and nothing is saved.
func (m *Manager) RemoveRecent(ctx context.Context, path string) ([]Entry, error) {
	entries, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Path != path {
			result = append(result, entry)
		}
	}

	if len(result) == len(entries) {
		m.logger.DebugContext(ctx, "repository not in history", "path", path, "skipped", true)
		return entries, nil
	}

	if err := m.storage.Save(ctx, m.key, result); err != nil {
		return nil, err
	}

	m.logger.DebugContext(ctx, "removed repository", "path", path,
		"removed", len(entries)-len(result), "entries", len(result))
	return result, nil
}

// Save trims repositories to the current maximum size and stores them.
// It always writes, even when the stored list is already identical.
// A nil slice fails with ErrNilHistory before storage is touched.
func (m *Manager) Save(ctx context.Context, repositories []Entry) error {
	if repositories == nil {
		return ErrNilHistory
	}

	trimmed := trim(repositories, m.limit())
	if err := m.storage.Save(ctx, m.key, trimmed); err != nil {
		return err
	}

	m.logger.DebugContext(ctx, "saved history", "entries", len(trimmed), "dropped", len(repositories)-len(trimmed))
	return nil
}

// load reads the full stored history, mapping absence to an empty slice.
func (m *Manager) load(ctx context.Context) ([]Entry, error) {
	entries, err := m.storage.Load(ctx, m.key)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return []Entry{}, nil
	}
	return entries, nil
}

func (m *Manager) limit() int {
	return max(m.maxSize(), 0)
}

// trim returns a copy of the first limit entries.
func trim(entries []Entry, limit int) []Entry {
	n := min(len(entries), limit)
	out := make([]Entry, n)
	copy(out, entries[:n])
	return out
}

func indexOf(entries []Entry, path string) int {
	for i, entry := range entries {
		if entry.Path == path {
			return i
		}
	}
	return -1
}
