package repohistory

import "log/slog"

// Option configures a Manager.
type Option func(*managerOptions)

type managerOptions struct {
	key    string
	logger *slog.Logger
}

func defaultManagerOptions() managerOptions {
	return managerOptions{
		key:    HistoryKey,
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithKey stores the history under key instead of HistoryKey.
//
// Example:
//
//	work := repohistory.New(store, size, repohistory.WithKey("work"))
func WithKey(key string) Option {
	return func(opts *managerOptions) {
		opts.key = key
	}
}

// WithLogger sets the logger used for debug output.
// If not provided, log output is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *managerOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}
