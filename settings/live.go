package settings

import (
	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/repohistory"
	"go.uber.org/atomic"
)

// Live holds the maximum history size so it can be changed while a
// repohistory.Manager is using it. Safe for concurrent use.
type Live struct {
	maxSize *atomic.Int64
}

// NewLive creates a Live value seeded from s.
func NewLive(s Settings) *Live {
	return &Live{
		maxSize: atomic.NewInt64(int64(s.MaxHistorySize)),
	}
}

// MaxHistorySize returns the current maximum size.
func (l *Live) MaxHistorySize() int {
	return int(l.maxSize.Load())
}

// SetMaxHistorySize replaces the maximum size.
func (l *Live) SetMaxHistorySize(n int) {
	l.maxSize.Store(int64(n))
}

// SizeFunc returns a repohistory.SizeFunc reading the current value.
func (l *Live) SizeFunc() repohistory.SizeFunc {
	return l.MaxHistorySize
}

// Reload re-reads the settings file and applies its maximum size.
// On error the current value is kept.
func (l *Live) Reload(fs core.ReadFS, path string) error {
	s, err := Load(fs, path)
	if err != nil {
		return err
	}
	l.SetMaxHistorySize(s.MaxHistorySize)
	return nil
}
