package service

import (
	"context"
	"time"

	"bammbuu-live/biz/adaptor"
	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/cache"
	"bammbuu-live/biz/infrastructure/call"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/sdk/video"
	"bammbuu-live/biz/infrastructure/util"
	"bammbuu-live/biz/infrastructure/util/log"

	"github.com/google/wire"
	"github.com/samber/lo"
)

type ICallService interface {
	JoinCall(ctx context.Context, req *live.JoinCallReq) (*live.JoinCallResp, error)
	JoinMainClass(ctx context.Context, req *live.JoinMainClassReq) (*live.JoinCallResp, error)
	LeaveCall(ctx context.Context, req *live.LeaveCallReq) (*live.Response, error)
	Heartbeat(ctx context.Context) (*live.Response, error)
	WatchRoster(ctx context.Context, req *live.WatchRosterReq, resultChan chan<- string)
	StartReaper(ctx context.Context) error
}

// CallService 通话房间协调器
// 每个用户同一时刻只占用一个房间(主课堂或分组房间),
// 所有切换都先销毁旧SDK会话再建新会话
type CallService struct {
	Coordinator  *call.Coordinator
	SessionCache cache.ISessionCacheMapper
	Registry     RoomRegistry
	ClassMapper  ClassStore
	UserMapper   UserStore
	Providers    *video.Picker
}

var CallServiceSet = wire.NewSet(
	wire.Struct(new(CallService), "*"),
	wire.Bind(new(ICallService), new(*CallService)),
)

// JoinCall 加入主课堂或分组房间
// roomId为空表示加入主课堂(房间id即课程id)
func (s *CallService) JoinCall(ctx context.Context, req *live.JoinCallReq) (*live.JoinCallResp, error) {
	// 获取用户信息
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	userID := meta.GetUserId()

	u, err := s.UserMapper.FindOne(ctx, userID)
	if err != nil {
		log.CtxError(ctx, "获取用户信息失败: %v", err)
		return nil, consts.ErrNotFound
	}

	c, err := s.ClassMapper.FindOne(ctx, req.ClassId)
	if err != nil {
		log.CtxError(ctx, "课程不存在: %v", err)
		return nil, consts.ErrNotFound
	}
	if c.AdminID != userID && !lo.Contains(c.MemberIDs, userID) {
		return nil, consts.ErrNotClassMember
	}

	return s.join(ctx, u.Username, u.Role, req.ClassId, req.GetRoomId(), userID)
}

// JoinMainClass 返回主课堂
// 若当前在分组房间, 先退还该房间的成员占位再加入主课堂
func (s *CallService) JoinMainClass(ctx context.Context, req *live.JoinMainClassReq) (*live.JoinCallResp, error) {
	return s.JoinCall(ctx, &live.JoinCallReq{ClassId: req.ClassId})
}

// join 房间切换的统一路径: 占位 -> 销毁旧会话 -> 建新会话 -> 入会
func (s *CallService) join(ctx context.Context, userName, role, classID, breakoutRoomID, userID string) (*live.JoinCallResp, error) {
	now := time.Now()
	breakout := breakoutRoomID != ""
	roomID := classID
	if breakout {
		roomID = breakoutRoomID
	}

	// 分组房间先抢占位, 抢不到直接失败, 不动现有会话
	var endTime *time.Time
	if breakout {
		r, err := s.Registry.Enter(ctx, classID, roomID, userID, now)
		if err != nil {
			return nil, err
		}
		endTime = r.ClassEndTime
	}

	// 同一客户端不允许并存两个SDK会话, 建新会话前必须销毁旧会话
	if old := s.Coordinator.Remove(userID); old != nil {
		s.detach(ctx, old)
	}

	provider := s.Providers.ForRole(role)
	sess, err := provider.CreateSession(ctx, roomID, video.Credentials{
		UserID:   userID,
		UserName: userName,
		Role:     role,
	}, video.DeviceConfig{
		CameraOn: true,
		MicOn:    true,
		Layout:   consts.DefaultLayout,
	})
	if err != nil {
		log.CtxError(ctx, "创建SDK会话失败: %v", err)
		s.rollbackEnter(ctx, breakout, roomID, userID)
		return nil, consts.ErrMintToken
	}

	if err := sess.Join(ctx); err != nil {
		log.CtxError(ctx, "加入通话失败: %v", err)
		s.rollbackEnter(ctx, breakout, roomID, userID)
		return nil, consts.ErrJoinCall
	}

	entry := &call.Entry{
		UserID:   userID,
		ClassID:  classID,
		RoomID:   roomID,
		Breakout: breakout,
		Session:  sess,
		JoinedAt: now,
	}
	s.Coordinator.Swap(userID, entry)

	if err := s.SessionCache.Set(ctx, &cache.CallSession{
		UserId:   userID,
		ClassId:  classID,
		RoomId:   roomID,
		Breakout: breakout,
		Provider: provider.Name(),
		JoinedAt: now,
	}); err != nil {
		log.CtxError(ctx, "写入会话缓存失败: %v", err)
	}

	// 分组房间到期自动返回主课堂
	if breakout && endTime != nil {
		if d := endTime.Sub(now); d > 0 {
			s.scheduleAutoReturn(userID, classID, d)
		}
	}

	return &live.JoinCallResp{
		RoomId:    roomID,
		ClassId:   classID,
		Provider:  provider.Name(),
		Token:     sess.Token(),
		AppId:     provider.AppID(),
		ChannelId: DeriveChannelID(ChannelDay(now), classID, breakoutRoomID),
		ExpireAt:  sess.ExpireAt(),
	}, nil
}

// LeaveCall 离开当前通话并退还占位
func (s *CallService) LeaveCall(ctx context.Context, req *live.LeaveCallReq) (*live.Response, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	entry := s.Coordinator.Remove(meta.GetUserId())
	if entry == nil {
		return nil, consts.ErrNotInCall
	}
	s.detach(ctx, entry)

	return util.Succeed("已离开通话")
}

// Heartbeat 会话心跳续期
func (s *CallService) Heartbeat(ctx context.Context) (*live.Response, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	if err := s.SessionCache.Heartbeat(ctx, meta.GetUserId()); err != nil {
		return nil, consts.ErrNotInCall
	}
	return util.Succeed("ok")
}

// WatchRoster 向通话页推送房间成员变化
func (s *CallService) WatchRoster(ctx context.Context, req *live.WatchRosterReq, resultChan chan<- string) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rooms, err := s.Registry.List(ctx, req.ClassId)
			if err != nil {
				log.CtxError(ctx, "获取房间列表失败: %v", err)
				return
			}
			now := time.Now()
			infos := make([]*live.RoomInfo, 0, len(rooms))
			for _, r := range rooms {
				infos = append(infos, toRoomInfo(r, now))
			}
			event := &live.RosterEvent{
				ClassId: req.ClassId,
				Rooms:   infos,
				Ts:      now.Unix(),
			}
			select {
			case resultChan <- util.JSONF(event):
			default:
				log.Error("成员变化通道已满, 跳过本次推送, class: %s", req.ClassId)
			}
		}
	}
}

// StartReaper 启动会话回收定时器
// 客户端崩溃/关页不会触发离开回调, 心跳过期后由这里退还占位
func (s *CallService) StartReaper(ctx context.Context) error {
	log.Info("启动通话会话回收定时器")

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.reapStaleSessions(context.Background())
			}
		}
	}()

	return nil
}

// reapStaleSessions 回收心跳已过期的会话
func (s *CallService) reapStaleSessions(ctx context.Context) {
	for _, entry := range s.Coordinator.Snapshot() {
		if _, err := s.SessionCache.Get(ctx, entry.UserID); err == nil {
			continue
		}
		// 心跳丢失, 视为掉线
		if e := s.Coordinator.Remove(entry.UserID); e != nil {
			log.Info("回收掉线会话, user: %s, room: %s", e.UserID, e.RoomID)
			s.detach(ctx, e)
		}
	}
}

// detach 销毁SDK会话并退还分组房间占位
// 这是成员占位唯一的退还路径, 每个会话只会走一次
func (s *CallService) detach(ctx context.Context, entry *call.Entry) {
	if err := entry.Session.Destroy(ctx); err != nil {
		log.CtxError(ctx, "销毁SDK会话失败: %v", err)
	}
	if entry.Breakout {
		if err := s.Registry.Exit(ctx, entry.RoomID, entry.UserID); err != nil {
			log.CtxError(ctx, "退还房间占位失败, room: %s, user: %s, err: %v", entry.RoomID, entry.UserID, err)
		}
	}
	if err := s.SessionCache.Delete(ctx, entry.UserID); err != nil {
		log.CtxError(ctx, "清理会话缓存失败: %v", err)
	}
}

// rollbackEnter SDK入会失败时退还刚抢到的占位
func (s *CallService) rollbackEnter(ctx context.Context, breakout bool, roomID, userID string) {
	if !breakout {
		return
	}
	if err := s.Registry.Exit(ctx, roomID, userID); err != nil {
		log.CtxError(ctx, "回滚房间占位失败, room: %s, user: %s, err: %v", roomID, userID, err)
	}
}

// scheduleAutoReturn 分组房间到期后把用户拉回主课堂
func (s *CallService) scheduleAutoReturn(userID, classID string, d time.Duration) {
	s.Coordinator.ScheduleAutoReturn(userID, d, func() {
		ctx := context.Background()
		entry, ok := s.Coordinator.Get(userID)
		if !ok || !entry.Breakout || entry.ClassID != classID {
			return
		}
		u, err := s.UserMapper.FindOne(ctx, userID)
		if err != nil {
			log.Error("自动返回主课堂失败, 用户不存在: %v", err)
			return
		}
		if _, err := s.join(ctx, u.Username, u.Role, classID, "", userID); err != nil {
			log.Error("自动返回主课堂失败, user: %s, err: %v", userID, err)
		}
	})
}
