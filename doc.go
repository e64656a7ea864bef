// Package repohistory manages a bounded, ordered list of recently used
// repositories.
//
// Each entry is identified by its path, compared by exact string equality,
// and may carry an optional category label. Index 0 of a history is always
// the most recently used repository.
//
// # Usage
//
// A Manager is built from a Storage backend and a SizeFunc that reports the
// current maximum history size:
//
//	store := memory.New()
//	mgr := repohistory.New(store, repohistory.FixedSize(10))
//
//	// Promote a repository to the head of the list
//	history, err := mgr.AddAsMostRecent(ctx, "/src/api")
//
//	// Read the list, trimmed to the current maximum
//	history, err = mgr.Load(ctx)
//
//	// Drop every entry for a path
//	history, err = mgr.RemoveRecent(ctx, "/src/old")
//
// # Trimming
//
// The maximum size is read on every call through the SizeFunc, so a host can
// change it at runtime (see the settings package). Load and Save trim the
// tail of the list down to the maximum. AddAsMostRecent and RemoveRecent work
// on the full stored list and never trim.
//
// # Storage
//
// The Manager keeps no state between calls. Every operation loads the list
// from storage and, when the list changed, saves it back under a single key.
// Backends live under the storage directory:
//
//   - storage/memory: in-process map
//   - storage/file: JSON document on a core.FS (local disk or memory)
//   - storage/redis: one Redis string per key
//   - storage/s3: one object per key in an S3-compatible bucket
//
// Errors returned by a backend are passed to the caller unchanged.
//
// # Concurrency
//
// The Manager does no locking. Two callers racing on the same store may
// overwrite each other's changes; the last Save wins.
package repohistory
