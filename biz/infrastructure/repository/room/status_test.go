package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoom(members []string, slots, duration int64) *Room {
	return &Room{
		RoomMembers:    members,
		AvailableSlots: slots,
		RoomDuration:   duration,
	}
}

func TestDeriveStatus(t *testing.T) {
	now := time.Now()

	t.Run("未开始且有空位", func(t *testing.T) {
		r := newRoom([]string{}, 5, 15)
		assert.Equal(t, StatusUpcoming, DeriveStatus(r, now))
	})

	t.Run("未开始但已满员", func(t *testing.T) {
		r := newRoom([]string{"u1", "u2"}, 2, 15)
		assert.Equal(t, StatusFull, DeriveStatus(r, now))
	})

	t.Run("进行中有空位", func(t *testing.T) {
		started := now.Add(-5 * time.Minute)
		end := now.Add(10 * time.Minute)
		r := newRoom([]string{"u1"}, 5, 15)
		r.StartedAt = &started
		r.ClassEndTime = &end
		assert.Equal(t, StatusCurrent, DeriveStatus(r, now))
	})

	t.Run("进行中已满员", func(t *testing.T) {
		started := now.Add(-5 * time.Minute)
		end := now.Add(10 * time.Minute)
		r := newRoom([]string{"u1", "u2"}, 2, 15)
		r.StartedAt = &started
		r.ClassEndTime = &end
		assert.Equal(t, StatusFull, DeriveStatus(r, now))
	})

	t.Run("已到结束时间", func(t *testing.T) {
		started := now.Add(-20 * time.Minute)
		end := now.Add(-5 * time.Minute)
		r := newRoom([]string{"u1"}, 5, 15)
		r.StartedAt = &started
		r.ClassEndTime = &end
		assert.Equal(t, StatusCompleted, DeriveStatus(r, now))
	})

	t.Run("结束时刻本身算已结束", func(t *testing.T) {
		started := now.Add(-15 * time.Minute)
		r := newRoom([]string{"u1"}, 5, 15)
		r.StartedAt = &started
		r.ClassEndTime = &now
		assert.Equal(t, StatusCompleted, DeriveStatus(r, now))
	})
}

func TestJoinable(t *testing.T) {
	now := time.Now()

	t.Run("未开始可加入", func(t *testing.T) {
		r := newRoom([]string{}, 2, 15)
		assert.True(t, Joinable(r, now))
	})

	t.Run("满员不可加入", func(t *testing.T) {
		r := newRoom([]string{"u1", "u2"}, 2, 15)
		assert.False(t, Joinable(r, now))
	})

	t.Run("进行中未过期可加入", func(t *testing.T) {
		started := now.Add(-5 * time.Minute)
		end := now.Add(10 * time.Minute)
		r := newRoom([]string{"u1"}, 2, 15)
		r.StartedAt = &started
		r.ClassEndTime = &end
		assert.True(t, Joinable(r, now))
	})

	t.Run("已过期不可加入", func(t *testing.T) {
		started := now.Add(-30 * time.Minute)
		end := now.Add(-15 * time.Minute)
		r := newRoom([]string{"u1"}, 5, 15)
		r.StartedAt = &started
		r.ClassEndTime = &end
		assert.False(t, Joinable(r, now))
	})
}

func TestEndTimeFor(t *testing.T) {
	r := newRoom([]string{}, 5, 15)
	startedAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	end := EndTimeFor(r, startedAt)
	require.Equal(t, startedAt.Add(15*time.Minute), end)

	// 结束时间锚定首位加入时刻, 与创建时间无关
	r.CreateTime = startedAt.Add(-time.Hour)
	assert.Equal(t, startedAt.Add(15*time.Minute), EndTimeFor(r, startedAt))
}
