package service

import (
	"context"
	"time"

	"bammbuu-live/biz/adaptor"
	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/room"
	"bammbuu-live/biz/infrastructure/util/log"

	"github.com/google/uuid"
	"github.com/google/wire"
	"github.com/jinzhu/copier"
	"github.com/samber/lo"
)

type IBreakoutService interface {
	CreateRooms(ctx context.Context, req *live.CreateRoomsReq) (*live.CreateRoomsResp, error)
	ListRooms(ctx context.Context, req *live.ListRoomsReq) (*live.ListRoomsResp, error)
	StartSweeper(ctx context.Context) error
}

// BreakoutService 分组讨论房间注册表
// 同时实现RoomRegistry, 供通话协调器增删成员占位
type BreakoutService struct {
	RoomMapper  RoomStore
	ClassMapper ClassStore
}

var BreakoutServiceSet = wire.NewSet(
	wire.Struct(new(BreakoutService), "*"),
	wire.Bind(new(IBreakoutService), new(*BreakoutService)),
	wire.Bind(new(RoomRegistry), new(*BreakoutService)),
)

// CreateRooms 批量创建分组讨论房间, 仅主持人可操作
// 同一批次共享batchId, 重复调用会创建新的独立批次
func (s *BreakoutService) CreateRooms(ctx context.Context, req *live.CreateRoomsReq) (*live.CreateRoomsResp, error) {
	// 获取用户信息
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	c, err := s.ClassMapper.FindOne(ctx, req.ClassId)
	if err != nil {
		log.CtxError(ctx, "课程不存在: %v", err)
		return nil, consts.ErrNotFound
	}
	if c.AdminID != meta.GetUserId() {
		return nil, consts.ErrNotHost
	}

	count := req.Count
	if count <= 0 || count > consts.MaxRoomBatch {
		return nil, consts.ErrInvalidParams
	}
	duration := req.RoomDuration
	if duration <= 0 {
		duration = consts.DefaultRoomDuration
	}
	slots := req.AvailableSlots
	if slots <= 0 {
		slots = consts.DefaultRoomSlots
	}

	batchID := uuid.New().String()
	rooms := make([]*room.Room, 0, count)
	for i := int64(0); i < count; i++ {
		rooms = append(rooms, &room.Room{
			ClassID:        req.ClassId,
			BatchID:        batchID,
			RoomMembers:    []string{},
			AvailableSlots: slots,
			RoomDuration:   duration,
		})
	}

	err = s.RoomMapper.InsertBatch(ctx, rooms)
	if err != nil {
		log.CtxError(ctx, "创建分组讨论房间失败: %v", err)
		return nil, consts.ErrCreateRooms
	}

	roomIds := lo.Map(rooms, func(r *room.Room, _ int) string {
		return r.ID.Hex()
	})
	log.CtxInfo(ctx, "创建分组讨论房间成功, class: %s, batch: %s, count: %d", req.ClassId, batchID, count)

	return &live.CreateRoomsResp{
		RoomIds: roomIds,
	}, nil
}

// ListRooms 全量拉取课程下的房间, 状态在读取时按墙钟推导
func (s *BreakoutService) ListRooms(ctx context.Context, req *live.ListRoomsReq) (*live.ListRoomsResp, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	rooms, total, err := s.RoomMapper.FindByClassID(ctx, req.ClassId)
	if err != nil {
		log.CtxError(ctx, "获取房间列表失败: %v", err)
		return nil, consts.ErrGetRoomList
	}

	now := time.Now()
	infos := make([]*live.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, toRoomInfo(r, now))
	}

	return &live.ListRoomsResp{
		Rooms: infos,
		Total: total,
	}, nil
}

// Enter 加入房间
// 先做只读校验短路掉满员/过期的请求, 再由存储层的条件更新原子完成写入,
// 并发加入不会超出availableSlots
func (s *BreakoutService) Enter(ctx context.Context, classID, roomID, userID string, now time.Time) (*room.Room, error) {
	r, err := s.RoomMapper.FindOne(ctx, roomID)
	if err != nil {
		return nil, consts.ErrNotFound
	}

	// 房间必须属于该课程, 跨课程占位一律拒绝
	if r.ClassID != classID {
		return nil, consts.ErrNotFound
	}

	if lo.Contains(r.RoomMembers, userID) {
		return nil, consts.ErrAlreadyInRoom
	}
	if !room.Joinable(r, now) {
		if room.DeriveStatus(r, now) == room.StatusCompleted {
			return nil, consts.ErrRoomExpired
		}
		return nil, consts.ErrRoomFull
	}

	r, err = s.RoomMapper.AddMember(ctx, roomID, userID, now)
	if err != nil {
		// 条件更新未命中: 并发下名额被抢或房间刚好到期
		if err == consts.ErrNotFound {
			return nil, s.classifyJoinFailure(ctx, roomID, userID, now)
		}
		log.CtxError(ctx, "加入房间失败: %v", err)
		return nil, consts.ErrJoinRoom
	}

	// 首位成员加入, 一次性写入开始与结束时间
	if r.StartedAt == nil {
		r, err = s.RoomMapper.MarkStarted(ctx, roomID, now, room.EndTimeFor(r, now))
		if err != nil {
			log.CtxError(ctx, "写入房间开始时间失败: %v", err)
			return nil, consts.ErrJoinRoom
		}
	}

	return r, nil
}

// classifyJoinFailure 条件更新失败后回读房间, 区分失败原因
func (s *BreakoutService) classifyJoinFailure(ctx context.Context, roomID, userID string, now time.Time) error {
	r, err := s.RoomMapper.FindOne(ctx, roomID)
	if err != nil {
		return consts.ErrNotFound
	}
	switch {
	case lo.Contains(r.RoomMembers, userID):
		return consts.ErrAlreadyInRoom
	case room.DeriveStatus(r, now) == room.StatusCompleted:
		return consts.ErrRoomExpired
	default:
		return consts.ErrRoomFull
	}
}

// Exit 将用户移出房间, 开始/结束时间不回拨
func (s *BreakoutService) Exit(ctx context.Context, roomID, userID string) error {
	err := s.RoomMapper.RemoveMember(ctx, roomID, userID)
	if err != nil {
		log.CtxError(ctx, "退出房间失败: %v", err)
		return consts.ErrLeaveRoom
	}
	return nil
}

// List 供协调器与SSE推送使用
func (s *BreakoutService) List(ctx context.Context, classID string) ([]*room.Room, error) {
	rooms, _, err := s.RoomMapper.FindByClassID(ctx, classID)
	return rooms, err
}

// StartSweeper 启动房间回收定时器
// 房间到期后清空占位成员; 掉线客户端遗留的占位也由此兜底回收
func (s *BreakoutService) StartSweeper(ctx context.Context) error {
	log.Info("启动分组房间回收定时器")

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweepExpiredRooms(context.Background())
			}
		}
	}()

	return nil
}

// sweepExpiredRooms 清理已到期但仍有成员占位的房间
func (s *BreakoutService) sweepExpiredRooms(ctx context.Context) {
	rooms, err := s.RoomMapper.FindExpired(ctx, time.Now())
	if err != nil {
		log.Error("查询过期房间失败: %v", err)
		return
	}
	if len(rooms) == 0 {
		return
	}

	log.Info("找到 %d 个待回收的过期房间", len(rooms))
	for _, r := range rooms {
		if err := s.RoomMapper.ClearMembers(ctx, r.ID.Hex()); err != nil {
			log.Error("回收房间成员失败: %s, err: %v", r.ID.Hex(), err)
			continue
		}
		log.Info("回收过期房间: %s, 清理成员 %d 个", r.ID.Hex(), len(r.RoomMembers))
	}
}

// toRoomInfo 转换为响应格式
func toRoomInfo(r *room.Room, now time.Time) *live.RoomInfo {
	info := &live.RoomInfo{}
	_ = copier.Copy(info, r)
	info.Id = r.ID.Hex()
	info.ClassId = r.ClassID
	info.Status = string(room.DeriveStatus(r, now))
	info.CreateTime = r.CreateTime.Unix()
	if r.StartedAt != nil {
		startedAt := r.StartedAt.Unix()
		info.StartedAt = &startedAt
	}
	if r.ClassEndTime != nil {
		endTime := r.ClassEndTime.Unix()
		info.ClassEndTime = &endTime
	}
	return info
}
