package service

import (
	"context"
	"time"

	"bammbuu-live/biz/adaptor"
	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/sdk/chat"
	"bammbuu-live/biz/infrastructure/util/log"

	"github.com/google/wire"
	"github.com/samber/lo"
)

type IChatService interface {
	EnsureChannel(ctx context.Context, req *live.EnsureChannelReq) (*live.EnsureChannelResp, error)
}

type ChatService struct {
	ClassMapper ClassStore
	ChatClient  *chat.Client
}

var ChatServiceSet = wire.NewSet(
	wire.Struct(new(ChatService), "*"),
	wire.Bind(new(IChatService), new(*ChatService)),
)

// DeriveChannelID 从(星期缩写, 课程id, 可选房间id)派生聊天频道id
// 视频房间与配套文字频道靠该id共享身份, 不存外键
// 周期课因此每个星期几得到一个独立频道, 保留线上行为
func DeriveChannelID(day, classID, roomID string) string {
	return day + classID + roomID
}

// ChannelDay 频道id中的星期缩写
func ChannelDay(t time.Time) string {
	return t.Format(consts.WeekdayFormat)
}

// EnsureChannel 按派生id确保频道存在并包含当前用户
// 不存在则以加入者为首位成员创建, 已存在则幂等追加成员
func (s *ChatService) EnsureChannel(ctx context.Context, req *live.EnsureChannelReq) (*live.EnsureChannelResp, error) {
	// 获取用户信息
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	userID := meta.GetUserId()

	// 校验课程成员身份
	c, err := s.ClassMapper.FindOne(ctx, req.ClassId)
	if err != nil {
		log.CtxError(ctx, "课程不存在: %v", err)
		return nil, consts.ErrNotFound
	}
	if c.AdminID != userID && !lo.Contains(c.MemberIDs, userID) {
		return nil, consts.ErrNotClassMember
	}

	channelType := consts.ChannelTypeStandard
	if c.ClassType.Premium() {
		channelType = consts.ChannelTypePremium
	}
	if req.ChannelType != nil && *req.ChannelType != "" {
		channelType = *req.ChannelType
	}

	channelID := DeriveChannelID(ChannelDay(time.Now()), req.ClassId, req.GetRoomId())

	exists, err := s.ChatClient.QueryChannel(ctx, channelType, channelID)
	if err != nil {
		log.CtxError(ctx, "查询聊天频道失败: %v", err)
		return nil, consts.ErrEnsureChannel
	}

	if !exists {
		err = s.ChatClient.CreateChannel(ctx, channelType, channelID, c.Title, userID, []string{userID})
		if err != nil {
			log.CtxError(ctx, "创建聊天频道失败: %v", err)
			return nil, consts.ErrEnsureChannel
		}
		return &live.EnsureChannelResp{
			ChannelId: channelID,
			Created:   true,
		}, nil
	}

	err = s.ChatClient.AddMembers(ctx, channelType, channelID, []string{userID})
	if err != nil {
		log.CtxError(ctx, "加入聊天频道失败: %v", err)
		return nil, consts.ErrEnsureChannel
	}

	return &live.EnsureChannelResp{
		ChannelId: channelID,
		Created:   false,
	}, nil
}
