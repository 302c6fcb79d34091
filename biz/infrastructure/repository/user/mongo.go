package user

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
)

const prefixUserCacheKey = "cache:user"

// MongoMapper 学生与导师分别存于两个集合, 由该映射器统一访问
type MongoMapper struct {
	students *monc.Model
	tutors   *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewUserMongoMapper collections: %s/%s", consts.StudentCollectionName, consts.TutorCollectionName)
	return &MongoMapper{
		students: monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, consts.StudentCollectionName, config.Cache),
		tutors:   monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, consts.TutorCollectionName, config.Cache),
	}
}

func (m *MongoMapper) model(role string) *monc.Model {
	if role == consts.RoleTutor {
		return m.tutors
	}
	return m.students
}

func (m *MongoMapper) Insert(ctx context.Context, u *User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
		u.CreateTime = time.Now()
		u.UpdateTime = u.CreateTime
	}
	_, err := m.model(u.Role).InsertOneNoCache(ctx, u)
	return err
}

func (m *MongoMapper) Update(ctx context.Context, u *User) error {
	u.UpdateTime = time.Now()
	_, err := m.model(u.Role).UpdateByIDNoCache(ctx, u.ID, bson.M{"$set": u})
	return err
}

// FindOne 按id查找用户, 先查学生集合再查导师集合
func (m *MongoMapper) FindOne(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}

	var u User
	err = m.students.FindOneNoCache(ctx, &u, bson.M{consts.ID: oid})
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, monc.ErrNotFound) {
		return nil, err
	}

	err = m.tutors.FindOneNoCache(ctx, &u, bson.M{consts.ID: oid})
	switch {
	case err == nil:
		return &u, nil
	case errors.Is(err, monc.ErrNotFound):
		return nil, consts.ErrNotFound
	default:
		return nil, err
	}
}
