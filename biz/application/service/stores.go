package service

import (
	"context"
	"time"

	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/repository/class"
	"bammbuu-live/biz/infrastructure/repository/group"
	"bammbuu-live/biz/infrastructure/repository/room"
	"bammbuu-live/biz/infrastructure/repository/txn"
	"bammbuu-live/biz/infrastructure/repository/user"
)

// 服务层依赖的存储接口, 由mongo/mysql映射器与事务执行器实现
// 行为测试依赖这些接口注入假的存储

type ClassStore interface {
	FindOne(ctx context.Context, id string) (*class.Class, error)
	FindByMember(ctx context.Context, userID string, page, pageSize int64) ([]*class.Class, int64, error)
	FindByAdmin(ctx context.Context, adminID string, page, pageSize int64) ([]*class.Class, int64, error)
}

type GroupStore interface {
	FindOne(ctx context.Context, id string) (*group.Group, error)
	FindByMember(ctx context.Context, userID string, page, pageSize int64) ([]*group.Group, int64, error)
}

type UserStore interface {
	FindOne(ctx context.Context, id string) (*user.User, error)
}

type PlanStore interface {
	FindOneByCode(ctx context.Context, code string) (*live.PlanInfo, error)
}

type RoomStore interface {
	InsertBatch(ctx context.Context, rooms []*room.Room) error
	FindOne(ctx context.Context, id string) (*room.Room, error)
	FindByClassID(ctx context.Context, classID string) ([]*room.Room, int64, error)
	AddMember(ctx context.Context, id, userID string, now time.Time) (*room.Room, error)
	MarkStarted(ctx context.Context, id string, startedAt, endTime time.Time) (*room.Room, error)
	RemoveMember(ctx context.Context, id, userID string) error
	FindExpired(ctx context.Context, now time.Time) ([]*room.Room, error)
	ClearMembers(ctx context.Context, id string) error
	DeleteByClassID(ctx context.Context, classID string) error
}

// TxnStore 跨集合事务入口, 由txn.Runner实现
type TxnStore interface {
	WithTransaction(ctx context.Context, fn func(tx txn.Ops) error) error
}

// RoomRegistry 分组讨论房间注册表, 通话协调器通过它增删成员占位
// Enter校验房间归属classID, 拦截跨课程的占位
type RoomRegistry interface {
	Enter(ctx context.Context, classID, roomID, userID string, now time.Time) (*room.Room, error)
	Exit(ctx context.Context, roomID, userID string) error
	List(ctx context.Context, classID string) ([]*room.Room, error)
}
