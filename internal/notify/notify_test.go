package notify

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookverseapp/bookverse/internal/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestNotifier() (*Notifier, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)}
	n := New(nil, 0)
	n.now = clock.Now
	return n, clock
}

func TestNotifier_BookMessages(t *testing.T) {
	n, _ := newTestNotifier()

	tests := []struct {
		name     string
		toast    Toast
		wantKind Kind
		wantMsg  string
	}{
		{"added", n.BookAdded(), KindSuccess, "Book added successfully"},
		{"updated", n.BookUpdated(), KindSuccess, "Book updated successfully"},
		{"deleted", n.BookDeleted(), KindSuccess, "Book deleted successfully"},
		{"add failed, network", n.BookAddFailed(errors.Network("POST /books failed", fmt.Errorf("refused"))), KindError, "Failed to add book"},
		{"update failed, server message", n.BookUpdateFailed(errors.Server(500, "database unavailable")), KindError, "database unavailable"},
		{"delete failed, not found", n.BookDeleteFailed(errors.NotFound("book 9 not found")), KindError, "book 9 not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.toast.Kind)
			assert.Equal(t, tt.wantMsg, tt.toast.Message)
			assert.Regexp(t, `^toast-`, tt.toast.ID)
		})
	}

	assert.Len(t, n.Active(), len(tests))
}

func TestNotifier_ErrorFallbacks(t *testing.T) {
	n, _ := newTestNotifier()

	assert.Equal(t, FallbackMessage, n.Error(fmt.Errorf("plain"), "").Message)
	assert.Equal(t, "Failed to load", n.Error(nil, "Failed to load").Message)
	assert.Equal(t, FallbackMessage, n.Error(errors.Server(500, ""), "").Message)
}

func TestNotifier_Expiry(t *testing.T) {
	n, clock := newTestNotifier()

	first := n.Success("first")
	clock.Advance(2 * time.Second)
	n.Info("second")

	next, ok := n.NextExpiry()
	require.True(t, ok)
	assert.Equal(t, first.ExpiresAt, next)
	assert.Equal(t, DefaultDuration, first.ExpiresAt.Sub(first.CreatedAt))

	clock.Advance(2 * time.Second)
	active := n.Active()
	require.Len(t, active, 1, "a toast is gone exactly at its expiry")
	assert.Equal(t, "second", active[0].Message)

	clock.Advance(2 * time.Second)
	assert.Empty(t, n.Active())
	_, ok = n.NextExpiry()
	assert.False(t, ok)
}

func TestNotifier_Dismiss(t *testing.T) {
	n, _ := newTestNotifier()

	toast := n.Success("hello")
	assert.True(t, n.Dismiss(toast.ID))
	assert.False(t, n.Dismiss(toast.ID))
	assert.Empty(t, n.Active())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "success", KindSuccess.String())
	assert.Equal(t, "error", KindError.String())
	assert.Equal(t, "info", KindInfo.String())
}
