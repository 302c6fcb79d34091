package service

import (
	"context"
	"errors"
	"time"

	"bammbuu-live/biz/adaptor"
	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/group"
	"bammbuu-live/biz/infrastructure/repository/txn"
	"bammbuu-live/biz/infrastructure/util"
	"bammbuu-live/biz/infrastructure/util/log"
	"bammbuu-live/biz/infrastructure/util/page"

	"github.com/google/wire"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IGroupService interface {
	CreateGroup(ctx context.Context, req *live.CreateGroupReq) (*live.CreateGroupResp, error)
	GetGroup(ctx context.Context, req *live.GetGroupReq) (*live.GetGroupResp, error)
	ListGroups(ctx context.Context, req *live.ListGroupsReq) (*live.ListGroupsResp, error)
	JoinGroup(ctx context.Context, req *live.JoinGroupReq) (*live.Response, error)
	LeaveGroup(ctx context.Context, req *live.LeaveGroupReq) (*live.Response, error)
	DeleteGroup(ctx context.Context, req *live.DeleteGroupReq) (*live.Response, error)
}

type GroupService struct {
	GroupMapper GroupStore
	UserMapper  UserStore
	PlanMapper  PlanStore
	Txn         TxnStore
}

var GroupServiceSet = wire.NewSet(
	wire.Struct(new(GroupService), "*"),
	wire.Bind(new(IGroupService), new(*GroupService)),
)

// CreateGroup 创建小组, 创建者自动成为管理员兼首位成员
func (s *GroupService) CreateGroup(ctx context.Context, req *live.CreateGroupReq) (*live.CreateGroupResp, error) {
	// 获取用户信息
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	return s.createGroup(ctx, req, meta.GetUserId())
}

func (s *GroupService) createGroup(ctx context.Context, req *live.CreateGroupReq, userID string) (*live.CreateGroupResp, error) {
	u, err := s.UserMapper.FindOne(ctx, userID)
	if err != nil {
		log.CtxError(ctx, "获取用户信息失败: %v", err)
		return nil, consts.ErrNotFound
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}

	now := time.Now()
	g := &group.Group{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Description:  req.Description,
		GroupAdminID: userID,
		IsPremium:    req.IsPremium,
		MemberIDs:    []string{userID},
		ClassIDs:     []string{},
		CreateTime:   now,
		UpdateTime:   now,
	}

	err = s.Txn.WithTransaction(ctx, func(tx txn.Ops) error {
		if err := tx.InsertGroup(g); err != nil {
			return err
		}
		return tx.AddUserGroup(u.Role, uid, g.ID.Hex(), now)
	})
	if err != nil {
		log.CtxError(ctx, "创建小组失败: %v", err)
		return nil, consts.ErrCreateGroup
	}

	return &live.CreateGroupResp{
		GroupId: g.ID.Hex(),
	}, nil
}

// GetGroup 获取小组详情
func (s *GroupService) GetGroup(ctx context.Context, req *live.GetGroupReq) (*live.GetGroupResp, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	g, err := s.GroupMapper.FindOne(ctx, req.GroupId)
	if err != nil {
		log.CtxError(ctx, "小组不存在: %v", err)
		return nil, consts.ErrNotFound
	}

	return &live.GetGroupResp{
		Group: toGroupInfo(g),
	}, nil
}

// ListGroups 获取当前用户已加入的小组列表
func (s *GroupService) ListGroups(ctx context.Context, req *live.ListGroupsReq) (*live.ListGroupsResp, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	pageNum, pageSize := page.Parse(req.PaginationOptions)
	groups, total, err := s.GroupMapper.FindByMember(ctx, meta.GetUserId(), pageNum, pageSize)
	if err != nil {
		log.CtxError(ctx, "获取小组列表失败: %v", err)
		return nil, consts.ErrCall
	}

	return &live.ListGroupsResp{
		Groups: lo.Map(groups, func(g *group.Group, _ int) *live.GroupInfo {
			return toGroupInfo(g)
		}),
		Total: total,
	}, nil
}

// JoinGroup 加入小组
// 付费小组要求有效订阅或剩余课时, 扣减与成员写入同事务提交
func (s *GroupService) JoinGroup(ctx context.Context, req *live.JoinGroupReq) (*live.Response, error) {
	// 获取用户信息
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	return s.joinGroup(ctx, req, meta.GetUserId())
}

func (s *GroupService) joinGroup(ctx context.Context, req *live.JoinGroupReq, userID string) (*live.Response, error) {
	u, err := s.UserMapper.FindOne(ctx, userID)
	if err != nil {
		log.CtxError(ctx, "获取用户信息失败: %v", err)
		return nil, consts.ErrNotFound
	}

	g, err := s.GroupMapper.FindOne(ctx, req.GroupId)
	if err != nil {
		log.CtxError(ctx, "小组不存在: %v", err)
		return nil, consts.ErrNotFound
	}

	if lo.Contains(g.MemberIDs, userID) {
		return util.Succeed("已在小组中")
	}

	useCredit := false
	if g.IsPremium {
		useCredit, err = checkPremiumAccess(ctx, s.PlanMapper, u, consts.ClassTypeGroupPremium)
		if err != nil {
			return nil, err
		}
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	now := time.Now()

	err = s.Txn.WithTransaction(ctx, func(tx txn.Ops) error {
		if err := tx.AddGroupMember(g.ID, userID, now); err != nil {
			return err
		}
		if useCredit {
			if err := tx.SpendCredit(u.Role, uid); err != nil {
				return err
			}
		}
		return tx.AddUserGroup(u.Role, uid, g.ID.Hex(), now)
	})
	if err != nil {
		var en *consts.Errno
		if errors.As(err, &en) {
			return nil, en
		}
		log.CtxError(ctx, "加入小组失败: %v", err)
		return nil, consts.ErrJoinGroup
	}

	return util.Succeed("加入成功")
}

// LeaveGroup 退出小组
func (s *GroupService) LeaveGroup(ctx context.Context, req *live.LeaveGroupReq) (*live.Response, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	return s.leaveGroup(ctx, req, meta.GetUserId())
}

func (s *GroupService) leaveGroup(ctx context.Context, req *live.LeaveGroupReq, userID string) (*live.Response, error) {
	g, err := s.GroupMapper.FindOne(ctx, req.GroupId)
	if err != nil {
		log.CtxError(ctx, "小组不存在: %v", err)
		return nil, consts.ErrNotFound
	}
	if !lo.Contains(g.MemberIDs, userID) {
		return nil, consts.ErrNotGroupMember
	}

	u, err := s.UserMapper.FindOne(ctx, userID)
	if err != nil {
		return nil, consts.ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	now := time.Now()

	err = s.Txn.WithTransaction(ctx, func(tx txn.Ops) error {
		if err := tx.RemoveGroupMember(g.ID, userID, now); err != nil {
			return err
		}
		return tx.RemoveUserGroup(u.Role, uid, g.ID.Hex(), now)
	})
	if err != nil {
		log.CtxError(ctx, "退出小组失败: %v", err)
		return nil, consts.ErrLeaveGroup
	}

	return util.Succeed("已退出小组")
}

// DeleteGroup 删除小组, 仅管理员可操作
// 小组文档、成员引用、关联课程的group_id同事务清理
func (s *GroupService) DeleteGroup(ctx context.Context, req *live.DeleteGroupReq) (*live.Response, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	return s.deleteGroup(ctx, req, meta.GetUserId())
}

func (s *GroupService) deleteGroup(ctx context.Context, req *live.DeleteGroupReq, userID string) (*live.Response, error) {
	g, err := s.GroupMapper.FindOne(ctx, req.GroupId)
	if err != nil {
		log.CtxError(ctx, "小组不存在: %v", err)
		return nil, consts.ErrNotFound
	}
	if g.GroupAdminID != userID {
		return nil, consts.ErrNotHost
	}

	groupID := g.ID.Hex()
	now := time.Now()

	err = s.Txn.WithTransaction(ctx, func(tx txn.Ops) error {
		if err := tx.DeleteGroup(g.ID); err != nil {
			return err
		}
		if err := tx.PurgeGroupRefs(groupID, now); err != nil {
			return err
		}
		// 关联课程保留, 但不再归属该小组
		return tx.DetachGroupClasses(groupID, now)
	})
	if err != nil {
		log.CtxError(ctx, "删除小组失败: %v", err)
		return nil, consts.ErrDeleteGroup
	}

	return util.Succeed("删除成功")
}

func toGroupInfo(g *group.Group) *live.GroupInfo {
	return &live.GroupInfo{
		Id:           g.ID.Hex(),
		Name:         g.Name,
		Description:  g.Description,
		GroupAdminId: g.GroupAdminID,
		IsPremium:    g.IsPremium,
		MemberIds:    g.MemberIDs,
		ClassIds:     g.ClassIDs,
		CreateTime:   g.CreateTime.Unix(),
	}
}
