package room

import (
	"context"
	"errors"
	"time"

	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/util/log"

	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const prefixRoomCacheKey = "cache:breakout_room"

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewRoomMongoMapper collection: %s", consts.RoomCollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, consts.RoomCollectionName, config.Cache)
	return &MongoMapper{
		conn: conn,
	}
}

// InsertBatch 批量创建一组房间, 同一batch共享batchId
func (m *MongoMapper) InsertBatch(ctx context.Context, rooms []*Room) error {
	now := time.Now()
	for _, r := range rooms {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
			r.CreateTime = now
			r.UpdateTime = now
		}
		if _, err := m.conn.InsertOneNoCache(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *MongoMapper) FindOne(ctx context.Context, id string) (*Room, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	var r Room
	err = m.conn.FindOneNoCache(ctx, &r, bson.M{
		consts.ID: oid,
	})
	if err != nil {
		return nil, consts.ErrNotFound
	}
	return &r, nil
}

// FindByClassID 全量拉取课程下的房间, 房间数由创建批次限制, 无需分页
func (m *MongoMapper) FindByClassID(ctx context.Context, classID string) ([]*Room, int64, error) {
	var rooms []*Room
	filter := bson.M{consts.ClassID: classID}

	total, err := m.conn.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	err = m.conn.Find(ctx, &rooms, filter, &options.FindOptions{
		Sort: bson.M{consts.CreateTime: 1},
	})
	if err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// AddMember 原子加入房间
// 单条FindOneAndUpdate完成检查与写入: 未加入、有空位、且未开始或未过期,
// 并发加入不会把成员数推过availableSlots
func (m *MongoMapper) AddMember(ctx context.Context, id, userID string, now time.Time) (*Room, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}

	filter := bson.M{
		consts.ID:          oid,
		consts.RoomMembers: bson.M{consts.NotEqual: userID},
		"$expr": bson.M{
			"$lt": []any{bson.M{"$size": "$room_members"}, "$available_slots"},
		},
		"$or": []bson.M{
			{consts.StartedAt: nil},
			{consts.ClassEndTime: bson.M{"$gt": now}},
		},
	}
	update := bson.M{
		"$addToSet": bson.M{consts.RoomMembers: userID},
		"$set":      bson.M{consts.UpdateTime: now},
	}

	var r Room
	err = m.conn.FindOneAndUpdateNoCache(ctx, &r, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	switch {
	case err == nil:
		return &r, nil
	case errors.Is(err, monc.ErrNotFound):
		return nil, consts.ErrNotFound
	default:
		return nil, err
	}
}

// MarkStarted 首位成员加入时写入started_at与class_end_time
// 过滤条件保证该转换只发生一次, 并发首加入只有一个写成功
func (m *MongoMapper) MarkStarted(ctx context.Context, id string, startedAt, endTime time.Time) (*Room, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}

	filter := bson.M{
		consts.ID:        oid,
		consts.StartedAt: nil,
	}
	update := bson.M{
		"$set": bson.M{
			consts.StartedAt:    startedAt,
			consts.ClassEndTime: endTime,
			consts.UpdateTime:   startedAt,
		},
	}

	var r Room
	err = m.conn.FindOneAndUpdateNoCache(ctx, &r, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	switch {
	case err == nil:
		return &r, nil
	case errors.Is(err, monc.ErrNotFound):
		// 已由并发的首位加入者写入, 读回即可
		return m.FindOne(ctx, id)
	default:
		return nil, err
	}
}

// RemoveMember 将用户移出房间, 不回拨started_at/class_end_time
func (m *MongoMapper) RemoveMember(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return consts.ErrInvalidObjectId
	}
	_, err = m.conn.UpdateByIDNoCache(ctx, oid, bson.M{
		"$pull": bson.M{consts.RoomMembers: userID},
		"$set":  bson.M{consts.UpdateTime: time.Now()},
	})
	return err
}

// FindExpired 查找已到结束时间但仍有成员占位的房间, 供后台回收
func (m *MongoMapper) FindExpired(ctx context.Context, now time.Time) ([]*Room, error) {
	var rooms []*Room
	filter := bson.M{
		consts.ClassEndTime: bson.M{"$lte": now, consts.NotEqual: nil},
		"room_members.0":    bson.M{"$exists": true},
	}
	err := m.conn.Find(ctx, &rooms, filter, &options.FindOptions{})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// ClearMembers 清空房间成员
func (m *MongoMapper) ClearMembers(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return consts.ErrInvalidObjectId
	}
	_, err = m.conn.UpdateByIDNoCache(ctx, oid, bson.M{
		"$set": bson.M{
			consts.RoomMembers: []string{},
			consts.UpdateTime:  time.Now(),
		},
	})
	return err
}

// DeleteByClassID 课程删除时清理其全部房间
func (m *MongoMapper) DeleteByClassID(ctx context.Context, classID string) error {
	rooms, _, err := m.FindByClassID(ctx, classID)
	if err != nil {
		return err
	}
	for _, r := range rooms {
		if _, err := m.conn.DeleteOneNoCache(ctx, bson.M{consts.ID: r.ID}); err != nil {
			return err
		}
	}
	return nil
}
