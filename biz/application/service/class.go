package service

import (
	"context"
	"errors"
	"time"

	"bammbuu-live/biz/adaptor"
	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/class"
	"bammbuu-live/biz/infrastructure/repository/txn"
	"bammbuu-live/biz/infrastructure/util"
	"bammbuu-live/biz/infrastructure/util/log"
	"bammbuu-live/biz/infrastructure/util/page"

	"github.com/google/wire"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IClassService interface {
	CreateClass(ctx context.Context, req *live.CreateClassReq) (*live.CreateClassResp, error)
	GetClass(ctx context.Context, req *live.GetClassReq) (*live.GetClassResp, error)
	ListClasses(ctx context.Context, req *live.ListClassesReq) (*live.ListClassesResp, error)
	JoinClass(ctx context.Context, req *live.JoinClassReq) (*live.JoinClassResp, error)
	LeaveClass(ctx context.Context, req *live.LeaveClassReq) (*live.Response, error)
	DeleteClass(ctx context.Context, req *live.DeleteClassReq) (*live.Response, error)
}

type ClassService struct {
	ClassMapper ClassStore
	GroupMapper GroupStore
	UserMapper  UserStore
	RoomMapper  RoomStore
	PlanMapper  PlanStore
	Txn         TxnStore
}

var ClassServiceSet = wire.NewSet(
	wire.Struct(new(ClassService), "*"),
	wire.Bind(new(IClassService), new(*ClassService)),
)

// CreateClass 创建课程, 仅导师或小组管理员可操作
// 课程文档与用户/小组上的冗余引用在同一事务内写入
func (s *ClassService) CreateClass(ctx context.Context, req *live.CreateClassReq) (*live.CreateClassResp, error) {
	// 获取用户信息
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	return s.createClass(ctx, req, meta.GetUserId())
}

func (s *ClassService) createClass(ctx context.Context, req *live.CreateClassReq, userID string) (*live.CreateClassResp, error) {
	u, err := s.UserMapper.FindOne(ctx, userID)
	if err != nil {
		log.CtxError(ctx, "获取用户信息失败: %v", err)
		return nil, consts.ErrNotFound
	}

	classType := consts.ClassType(req.ClassType)
	if !classType.Valid() {
		return nil, consts.ErrInvalidClassType
	}

	groupID := ""
	if req.GroupId != nil {
		groupID = *req.GroupId
	}

	// 小组下建课要求是小组管理员, 否则要求导师身份
	if groupID != "" {
		g, err := s.GroupMapper.FindOne(ctx, groupID)
		if err != nil {
			log.CtxError(ctx, "小组不存在: %v", err)
			return nil, consts.ErrNotFound
		}
		if g.GroupAdminID != userID {
			return nil, consts.ErrForbidden
		}
	} else if u.Role != consts.RoleTutor {
		return nil, consts.ErrForbidden
	}

	now := time.Now()
	slots := make([]*class.RecurringSlot, 0, len(req.RecurringSlots))
	for _, slot := range req.RecurringSlots {
		slots = append(slots, &class.RecurringSlot{
			CreatedAt:     time.Unix(slot.CreatedAt, 0),
			BookingMethod: slot.BookingMethod,
		})
	}

	c := &class.Class{
		ID:             primitive.NewObjectID(),
		AdminID:        userID,
		Title:          req.Title,
		Language:       req.Language,
		ClassType:      classType,
		ClassDateTime:  time.Unix(req.ClassDateTime, 0),
		ClassDuration:  req.ClassDuration,
		AvailableSpots: req.AvailableSpots,
		MemberIDs:      []string{},
		GroupID:        groupID,
		RecurringSlots: slots,
		CreateTime:     now,
		UpdateTime:     now,
	}

	adminOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}

	err = s.Txn.WithTransaction(ctx, func(tx txn.Ops) error {
		if err := tx.InsertClass(c); err != nil {
			return err
		}
		if err := tx.AddUserClassAdmin(u.Role, adminOID, c.ID.Hex(), now); err != nil {
			return err
		}
		if groupID != "" {
			gid, err := primitive.ObjectIDFromHex(groupID)
			if err != nil {
				return consts.ErrInvalidObjectId
			}
			if err := tx.AddGroupClass(gid, c.ID.Hex(), now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.CtxError(ctx, "创建课程失败: %v", err)
		return nil, consts.ErrCreateClass
	}

	return &live.CreateClassResp{
		ClassId: c.ID.Hex(),
	}, nil
}

// GetClass 获取课程详情
func (s *ClassService) GetClass(ctx context.Context, req *live.GetClassReq) (*live.GetClassResp, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	c, err := s.ClassMapper.FindOne(ctx, req.ClassId)
	if err != nil {
		log.CtxError(ctx, "课程不存在: %v", err)
		return nil, consts.ErrNotFound
	}

	return &live.GetClassResp{
		Class: s.toClassInfo(ctx, c),
	}, nil
}

// ListClasses 获取课程列表
// 导师返回其主持的课程, 学生返回其已加入的课程
func (s *ClassService) ListClasses(ctx context.Context, req *live.ListClassesReq) (*live.ListClassesResp, error) {
	// 获取用户信息
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	u, err := s.UserMapper.FindOne(ctx, meta.GetUserId())
	if err != nil {
		log.CtxError(ctx, "获取用户信息失败: %v", err)
		return nil, consts.ErrNotFound
	}

	pageNum, pageSize := page.Parse(req.PaginationOptions)

	var classes []*class.Class
	var total int64
	if u.Role == consts.RoleTutor {
		classes, total, err = s.ClassMapper.FindByAdmin(ctx, meta.GetUserId(), pageNum, pageSize)
	} else {
		classes, total, err = s.ClassMapper.FindByMember(ctx, meta.GetUserId(), pageNum, pageSize)
	}
	if err != nil {
		log.CtxError(ctx, "获取课程列表失败: %v", err)
		return nil, consts.ErrGetClassList
	}

	classInfos := make([]*live.ClassInfo, 0, len(classes))
	for _, c := range classes {
		classInfos = append(classInfos, s.toClassInfo(ctx, c))
	}

	return &live.ListClassesResp{
		Classes: classInfos,
		Total:   total,
	}, nil
}

// JoinClass 加入课程
// 名额占用、课时扣减、用户冗余引用在同一事务内提交,
// 并发加入不会超出availableSpots
func (s *ClassService) JoinClass(ctx context.Context, req *live.JoinClassReq) (*live.JoinClassResp, error) {
	// 获取用户信息
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	return s.joinClass(ctx, req, meta.GetUserId())
}

func (s *ClassService) joinClass(ctx context.Context, req *live.JoinClassReq, userID string) (*live.JoinClassResp, error) {
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

	// 已是成员则幂等返回
	if lo.Contains(c.MemberIDs, userID) {
		return &live.JoinClassResp{
			ClassId: c.ID.Hex(),
			Title:   c.Title,
		}, nil
	}

	// 已结束的课程不再接受报名
	if time.Now().After(c.EndTime()) {
		return nil, consts.ErrClassEnded
	}

	// 会员课程准入检查
	useCredit, err := checkPremiumAccess(ctx, s.PlanMapper, u, c.ClassType)
	if err != nil {
		return nil, err
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	now := time.Now()

	err = s.Txn.WithTransaction(ctx, func(tx txn.Ops) error {
		if err := tx.ClaimClassSpot(c.ID, userID, now); err != nil {
			return err
		}
		if useCredit {
			// 扣课时, 余额不足则整个事务回滚
			if err := tx.SpendCredit(u.Role, uid); err != nil {
				return err
			}
		}
		return tx.AddUserEnrollment(u.Role, uid, c.ID.Hex(), now)
	})
	if err != nil {
		var en *consts.Errno
		if errors.As(err, &en) {
			return nil, en
		}
		log.CtxError(ctx, "加入课程失败: %v", err)
		return nil, consts.ErrJoinClass
	}

	return &live.JoinClassResp{
		ClassId: c.ID.Hex(),
		Title:   c.Title,
	}, nil
}

// LeaveClass 退出课程, 课程与用户两侧的冗余引用同事务清理
func (s *ClassService) LeaveClass(ctx context.Context, req *live.LeaveClassReq) (*live.Response, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	return s.leaveClass(ctx, req, meta.GetUserId())
}

func (s *ClassService) leaveClass(ctx context.Context, req *live.LeaveClassReq, userID string) (*live.Response, error) {
	c, err := s.ClassMapper.FindOne(ctx, req.ClassId)
	if err != nil {
		log.CtxError(ctx, "课程不存在: %v", err)
		return nil, consts.ErrNotFound
	}
	if !lo.Contains(c.MemberIDs, userID) {
		return nil, consts.ErrNotClassMember
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
		if err := tx.ReleaseClassSpot(c.ID, userID, now); err != nil {
			return err
		}
		return tx.RemoveUserEnrollment(u.Role, uid, c.ID.Hex(), now)
	})
	if err != nil {
		log.CtxError(ctx, "退出课程失败: %v", err)
		return nil, consts.ErrLeaveClass
	}

	return util.Succeed("已退出课程")
}

// DeleteClass 删除课程
// 课程文档、小组引用、主持人与全部成员上的冗余引用在同一事务内删除,
// 要么全部提交要么全部回滚
func (s *ClassService) DeleteClass(ctx context.Context, req *live.DeleteClassReq) (*live.Response, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	return s.deleteClass(ctx, req, meta.GetUserId())
}

func (s *ClassService) deleteClass(ctx context.Context, req *live.DeleteClassReq, userID string) (*live.Response, error) {
	c, err := s.ClassMapper.FindOne(ctx, req.ClassId)
	if err != nil {
		log.CtxError(ctx, "课程不存在: %v", err)
		return nil, consts.ErrNotFound
	}
	if c.AdminID != userID {
		return nil, consts.ErrNotHost
	}

	classID := c.ID.Hex()
	now := time.Now()

	err = s.Txn.WithTransaction(ctx, func(tx txn.Ops) error {
		if err := tx.DeleteClass(c.ID); err != nil {
			return err
		}
		if c.GroupID != "" {
			gid, err := primitive.ObjectIDFromHex(c.GroupID)
			if err != nil {
				return consts.ErrInvalidObjectId
			}
			if err := tx.RemoveGroupClass(gid, classID, now); err != nil {
				return err
			}
		}
		return tx.PurgeClassRefs(classID, now)
	})
	if err != nil {
		log.CtxError(ctx, "删除课程失败: %v", err)
		return nil, consts.ErrDeleteClass
	}

	// 课程的分组房间随课程一并清理, 失败不影响主流程
	if err := s.RoomMapper.DeleteByClassID(ctx, classID); err != nil {
		log.CtxError(ctx, "清理课程分组房间失败: %v", err)
	}

	return util.Succeed("删除成功")
}

// toClassInfo 转换为响应格式
func (s *ClassService) toClassInfo(ctx context.Context, c *class.Class) *live.ClassInfo {
	adminName := ""
	if admin, err := s.UserMapper.FindOne(ctx, c.AdminID); err == nil {
		adminName = admin.Username
	}

	slots := make([]*live.RecurringSlot, 0, len(c.RecurringSlots))
	for _, slot := range c.RecurringSlots {
		slots = append(slots, &live.RecurringSlot{
			CreatedAt:     slot.CreatedAt.Unix(),
			BookingMethod: slot.BookingMethod,
		})
	}

	return &live.ClassInfo{
		Id:             c.ID.Hex(),
		AdminId:        c.AdminID,
		AdminName:      adminName,
		Title:          c.Title,
		Language:       c.Language,
		ClassType:      string(c.ClassType),
		ClassDateTime:  c.ClassDateTime.Unix(),
		ClassDuration:  c.ClassDuration,
		AvailableSpots: c.AvailableSpots,
		MemberIds:      c.MemberIDs,
		GroupId:        c.GroupID,
		RecurringSlots: slots,
		CreateTime:     c.CreateTime.Unix(),
	}
}
