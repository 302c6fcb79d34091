package group

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

const prefixGroupCacheKey = "cache:group"

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewGroupMongoMapper collection: %s", consts.GroupCollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, consts.GroupCollectionName, config.Cache)
	return &MongoMapper{
		conn: conn,
	}
}

func (m *MongoMapper) FindOne(ctx context.Context, id string) (*Group, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	var g Group
	err = m.conn.FindOneNoCache(ctx, &g, bson.M{
		consts.ID: oid,
	})
	if err != nil {
		return nil, consts.ErrNotFound
	}
	return &g, nil
}

// FindByMember 分页查找用户已加入的小组
func (m *MongoMapper) FindByMember(ctx context.Context, userID string, page, pageSize int64) ([]*Group, int64, error) {
	var groups []*Group
	filter := bson.M{"member_ids": userID}

	// 获取总数
	total, err := m.conn.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	// 分页查询
	skip := (page - 1) * pageSize
	err = m.conn.Find(ctx, &groups, filter, &options.FindOptions{
		Skip:  &skip,
		Limit: &pageSize,
		Sort:  bson.M{"create_time": -1},
	})
	if err != nil {
		return nil, 0, err
	}

	return groups, total, nil
}
