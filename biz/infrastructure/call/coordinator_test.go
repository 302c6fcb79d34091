package call

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapReturnsOldEntry(t *testing.T) {
	c := NewCoordinator()

	old := c.Swap("u1", &Entry{UserID: "u1", RoomID: "r1"})
	assert.Nil(t, old)

	old = c.Swap("u1", &Entry{UserID: "u1", RoomID: "r2"})
	require.NotNil(t, old)
	assert.Equal(t, "r1", old.RoomID)

	e, ok := c.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "r2", e.RoomID)
}

func TestRemoveMissing(t *testing.T) {
	c := NewCoordinator()
	assert.Nil(t, c.Remove("nobody"))
}

func TestAutoReturnTimerCancelledOnRemove(t *testing.T) {
	c := NewCoordinator()
	c.Swap("u1", &Entry{UserID: "u1", RoomID: "r1"})

	var fired atomic.Int32
	c.ScheduleAutoReturn("u1", 20*time.Millisecond, func() {
		fired.Add(1)
	})

	require.NotNil(t, c.Remove("u1"))
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestAutoReturnFires(t *testing.T) {
	c := NewCoordinator()
	c.Swap("u1", &Entry{UserID: "u1", RoomID: "r1"})

	done := make(chan struct{})
	c.ScheduleAutoReturn("u1", 10*time.Millisecond, func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("定时器未触发")
	}
}

func TestSnapshot(t *testing.T) {
	c := NewCoordinator()
	c.Swap("u1", &Entry{UserID: "u1"})
	c.Swap("u2", &Entry{UserID: "u2"})
	assert.Len(t, c.Snapshot(), 2)
}
