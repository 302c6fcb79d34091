package class

import (
	"context"

	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/util/log"

	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const prefixClassCacheKey = "cache:class"

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewClassMongoMapper collection: %s", consts.ClassCollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, consts.ClassCollectionName, config.Cache)
	return &MongoMapper{
		conn: conn,
	}
}

func (m *MongoMapper) FindOne(ctx context.Context, id string) (*Class, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	var c Class
	err = m.conn.FindOneNoCache(ctx, &c, bson.M{
		consts.ID: oid,
	})
	if err != nil {
		return nil, consts.ErrNotFound
	}
	return &c, nil
}

// FindByMember 分页查找用户已加入的课程
func (m *MongoMapper) FindByMember(ctx context.Context, userID string, page, pageSize int64) ([]*Class, int64, error) {
	return m.findMany(ctx, bson.M{"class_member_ids": userID}, page, pageSize)
}

// FindByAdmin 分页查找用户作为主持人的课程
func (m *MongoMapper) FindByAdmin(ctx context.Context, adminID string, page, pageSize int64) ([]*Class, int64, error) {
	return m.findMany(ctx, bson.M{"admin_id": adminID}, page, pageSize)
}

func (m *MongoMapper) findMany(ctx context.Context, filter bson.M, page, pageSize int64) ([]*Class, int64, error) {
	var classes []*Class

	// 获取总数
	total, err := m.conn.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	// 分页查询
	skip := (page - 1) * pageSize
	err = m.conn.Find(ctx, &classes, filter, &options.FindOptions{
		Skip:  &skip,
		Limit: &pageSize,
		Sort:  bson.M{"class_date_time": -1},
	})
	if err != nil {
		return nil, 0, err
	}

	return classes, total, nil
}
