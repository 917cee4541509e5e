// Package lock provides the best-effort advisory lock the plan orchestrator
// takes around a per-user-per-day scheduling run. Failure to acquire never
// blocks the run; it only risks duplicate work that the storage layer's
// conflict-safe upsert reconciles.
package lock

import "context"

type Locker interface {
	// TryAcquire reports whether the (userID, date) key was claimed. False
	// means another run holds it; the caller proceeds anyway.
	TryAcquire(ctx context.Context, userID, date string) bool
	Release(ctx context.Context, userID, date string)
}

// NoopLocker claims every key. Used when no lock backend is configured and
// in tests.
type NoopLocker struct{}

func (NoopLocker) TryAcquire(ctx context.Context, userID, date string) bool { return true }
func (NoopLocker) Release(ctx context.Context, userID, date string)         {}

var _ Locker = NoopLocker{}
