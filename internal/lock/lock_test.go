package lock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopLockerAlwaysAcquires(t *testing.T) {
	var l Locker = NoopLocker{}
	assert.True(t, l.TryAcquire(context.Background(), "u1", "2025-06-02"))
	// Release never panics, even unpaired.
	l.Release(context.Background(), "u1", "2025-06-02")
}

func TestLockKeyShape(t *testing.T) {
	assert.Equal(t, "plan-lock:u1:2025-06-02", lockKey("u1", "2025-06-02"))
}
