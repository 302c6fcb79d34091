package call

import (
	"sync"
	"time"

	"bammbuu-live/biz/infrastructure/sdk/video"
)

// Entry 单个用户当前占用的通话房间
// 每个用户同一时刻至多一条, 切房间时旧会话必须先销毁
type Entry struct {
	UserID   string
	ClassID  string
	RoomID   string
	Breakout bool
	Session  video.Session
	JoinedAt time.Time

	timer *time.Timer
}

// Coordinator 进程内会话协调器
// 维护 userId -> 当前会话 的映射, 所有读写加锁
type Coordinator struct {
	mu       sync.RWMutex
	sessions map[string]*Entry
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		sessions: make(map[string]*Entry),
	}
}

// Get 获取用户当前会话
func (c *Coordinator) Get(userID string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.sessions[userID]
	return e, ok
}

// Swap 写入新会话并返回被替换的旧会话(若有), 旧会话上的定时器同时取消
func (c *Coordinator) Swap(userID string, e *Entry) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.sessions[userID]
	if old != nil && old.timer != nil {
		old.timer.Stop()
		old.timer = nil
	}
	c.sessions[userID] = e
	return old
}

// Remove 移除用户会话并返回, 定时器一并取消
func (c *Coordinator) Remove(userID string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.sessions[userID]
	if !ok {
		return nil
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	delete(c.sessions, userID)
	return e
}

// ScheduleAutoReturn 为用户当前会话挂一个到期回调
// 手动切换或离开时由Swap/Remove取消
func (c *Coordinator) ScheduleAutoReturn(userID string, d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.sessions[userID]
	if !ok {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(d, fn)
}

// Snapshot 当前全部会话的副本
func (c *Coordinator) Snapshot() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Entry, 0, len(c.sessions))
	for _, e := range c.sessions {
		out = append(out, e)
	}
	return out
}
