package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/redis"

	gozero_redis "github.com/zeromicro/go-zero/core/stores/redis"
)

const callSessionCachePrefix = "call_session"

// CallSession 当前通话会话的缓存快照
// 记录每个用户此刻占用的房间, 按心跳续期, 过期即视为掉线
type CallSession struct {
	UserId   string    `json:"userId"`
	ClassId  string    `json:"classId"`
	RoomId   string    `json:"roomId"`
	Breakout bool      `json:"breakout"`
	Provider string    `json:"provider"`
	JoinedAt time.Time `json:"joinedAt"`
}

type ISessionCacheMapper interface {
	Get(ctx context.Context, userId string) (*CallSession, error)
	Set(ctx context.Context, session *CallSession) error
	Heartbeat(ctx context.Context, userId string) error
	Delete(ctx context.Context, userId string) error
}

type SessionCacheMapper struct {
	rds *gozero_redis.Redis
}

func NewSessionCacheMapper(config *config.Config) *SessionCacheMapper {
	return &SessionCacheMapper{
		rds: redis.GetRedis(config),
	}
}

// Get 获取用户当前的通话会话
func (m *SessionCacheMapper) Get(ctx context.Context, userId string) (*CallSession, error) {
	cachedData, err := m.rds.GetCtx(ctx, m.buildCacheKey(userId))
	if err != nil {
		return nil, err
	}

	if cachedData == "" {
		return nil, fmt.Errorf("cache miss")
	}

	var session CallSession
	if err := json.Unmarshal([]byte(cachedData), &session); err != nil {
		return nil, fmt.Errorf("unmarshal cached session failed: %w", err)
	}

	return &session, nil
}

// Set 写入通话会话, 带TTL
func (m *SessionCacheMapper) Set(ctx context.Context, session *CallSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}

	return m.rds.SetexCtx(ctx, m.buildCacheKey(session.UserId), string(data), consts.SessionTTLSeconds)
}

// Heartbeat 会话续期, 客户端周期性调用
func (m *SessionCacheMapper) Heartbeat(ctx context.Context, userId string) error {
	return m.rds.ExpireCtx(ctx, m.buildCacheKey(userId), consts.SessionTTLSeconds)
}

// Delete 删除通话会话
func (m *SessionCacheMapper) Delete(ctx context.Context, userId string) error {
	_, err := m.rds.DelCtx(ctx, m.buildCacheKey(userId))
	return err
}

// buildCacheKey 构造缓存key
func (m *SessionCacheMapper) buildCacheKey(userId string) string {
	return fmt.Sprintf("%s:%s", callSessionCachePrefix, userId)
}
