package txn

import (
	"errors"
	"time"

	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/class"
	"bammbuu-live/biz/infrastructure/repository/group"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ops 事务内的跨集合写操作
// 服务层通过它组合级联写, bson细节全部收在本包
type Ops interface {
	InsertClass(c *class.Class) error
	ClaimClassSpot(id primitive.ObjectID, userID string, now time.Time) error
	ReleaseClassSpot(id primitive.ObjectID, userID string, now time.Time) error
	DeleteClass(id primitive.ObjectID) error
	PurgeClassRefs(classID string, now time.Time) error

	InsertGroup(g *group.Group) error
	AddGroupMember(id primitive.ObjectID, userID string, now time.Time) error
	RemoveGroupMember(id primitive.ObjectID, userID string, now time.Time) error
	AddGroupClass(id primitive.ObjectID, classID string, now time.Time) error
	RemoveGroupClass(id primitive.ObjectID, classID string, now time.Time) error
	DeleteGroup(id primitive.ObjectID) error
	PurgeGroupRefs(groupID string, now time.Time) error
	DetachGroupClasses(groupID string, now time.Time) error

	AddUserClassAdmin(role string, id primitive.ObjectID, classID string, now time.Time) error
	AddUserEnrollment(role string, id primitive.ObjectID, classID string, now time.Time) error
	RemoveUserEnrollment(role string, id primitive.ObjectID, classID string, now time.Time) error
	AddUserGroup(role string, id primitive.ObjectID, groupID string, now time.Time) error
	RemoveUserGroup(role string, id primitive.ObjectID, groupID string, now time.Time) error
	SpendCredit(role string, id primitive.ObjectID) error
}

// mongoOps 基于会话上下文的Ops实现, 所有写操作都挂在同一事务上
type mongoOps struct {
	sess mongo.SessionContext
	r    *Runner
}

// userCollection 按角色选择用户集合
func userCollection(role string) string {
	if role == consts.RoleTutor {
		return consts.TutorCollectionName
	}
	return consts.StudentCollectionName
}

func (o *mongoOps) InsertClass(c *class.Class) error {
	_, err := o.r.Collection(consts.ClassCollectionName).InsertOne(o.sess, c)
	return err
}

// ClaimClassSpot 原子占用课程名额
// 过滤条件同时要求未加入且成员数未达上限, 并发加入不会超卖名额
func (o *mongoOps) ClaimClassSpot(id primitive.ObjectID, userID string, now time.Time) error {
	filter := bson.M{
		consts.ID:          id,
		"class_member_ids": bson.M{consts.NotEqual: userID},
		"$expr": bson.M{
			"$lt": []any{bson.M{"$size": "$class_member_ids"}, "$available_spots"},
		},
	}
	update := bson.M{
		"$addToSet": bson.M{"class_member_ids": userID},
		"$set":      bson.M{consts.UpdateTime: now},
	}
	res := o.r.Collection(consts.ClassCollectionName).FindOneAndUpdate(o.sess, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return consts.ErrClassFull
		}
		return err
	}
	return nil
}

func (o *mongoOps) ReleaseClassSpot(id primitive.ObjectID, userID string, now time.Time) error {
	_, err := o.r.Collection(consts.ClassCollectionName).UpdateOne(o.sess,
		bson.M{consts.ID: id},
		bson.M{
			"$pull": bson.M{"class_member_ids": userID},
			"$set":  bson.M{consts.UpdateTime: now},
		})
	return err
}

func (o *mongoOps) DeleteClass(id primitive.ObjectID) error {
	_, err := o.r.Collection(consts.ClassCollectionName).DeleteOne(o.sess, bson.M{consts.ID: id})
	return err
}

// PurgeClassRefs 清理学生与导师集合里指向该课程的冗余引用
func (o *mongoOps) PurgeClassRefs(classID string, now time.Time) error {
	for _, coll := range []string{consts.StudentCollectionName, consts.TutorCollectionName} {
		if _, err := o.r.Collection(coll).UpdateMany(o.sess,
			bson.M{"enrolled_classes": classID},
			bson.M{
				"$pull": bson.M{"enrolled_classes": classID},
				"$set":  bson.M{consts.UpdateTime: now},
			}); err != nil {
			return err
		}
		if _, err := o.r.Collection(coll).UpdateMany(o.sess,
			bson.M{"admin_of_classes": classID},
			bson.M{
				"$pull": bson.M{"admin_of_classes": classID},
				"$set":  bson.M{consts.UpdateTime: now},
			}); err != nil {
			return err
		}
	}
	return nil
}

func (o *mongoOps) InsertGroup(g *group.Group) error {
	_, err := o.r.Collection(consts.GroupCollectionName).InsertOne(o.sess, g)
	return err
}

func (o *mongoOps) AddGroupMember(id primitive.ObjectID, userID string, now time.Time) error {
	return o.updateGroup(id, bson.M{
		"$addToSet": bson.M{"member_ids": userID},
		"$set":      bson.M{consts.UpdateTime: now},
	})
}

func (o *mongoOps) RemoveGroupMember(id primitive.ObjectID, userID string, now time.Time) error {
	return o.updateGroup(id, bson.M{
		"$pull": bson.M{"member_ids": userID},
		"$set":  bson.M{consts.UpdateTime: now},
	})
}

func (o *mongoOps) AddGroupClass(id primitive.ObjectID, classID string, now time.Time) error {
	return o.updateGroup(id, bson.M{
		"$addToSet": bson.M{"class_ids": classID},
		"$set":      bson.M{consts.UpdateTime: now},
	})
}

func (o *mongoOps) RemoveGroupClass(id primitive.ObjectID, classID string, now time.Time) error {
	return o.updateGroup(id, bson.M{
		"$pull": bson.M{"class_ids": classID},
		"$set":  bson.M{consts.UpdateTime: now},
	})
}

func (o *mongoOps) updateGroup(id primitive.ObjectID, update bson.M) error {
	_, err := o.r.Collection(consts.GroupCollectionName).UpdateOne(o.sess, bson.M{consts.ID: id}, update)
	return err
}

func (o *mongoOps) DeleteGroup(id primitive.ObjectID) error {
	_, err := o.r.Collection(consts.GroupCollectionName).DeleteOne(o.sess, bson.M{consts.ID: id})
	return err
}

// PurgeGroupRefs 清理学生与导师集合里指向该小组的冗余引用
func (o *mongoOps) PurgeGroupRefs(groupID string, now time.Time) error {
	for _, coll := range []string{consts.StudentCollectionName, consts.TutorCollectionName} {
		if _, err := o.r.Collection(coll).UpdateMany(o.sess,
			bson.M{"joined_groups": groupID},
			bson.M{
				"$pull": bson.M{"joined_groups": groupID},
				"$set":  bson.M{consts.UpdateTime: now},
			}); err != nil {
			return err
		}
	}
	return nil
}

// DetachGroupClasses 小组删除后其课程保留, 但不再归属该小组
func (o *mongoOps) DetachGroupClasses(groupID string, now time.Time) error {
	_, err := o.r.Collection(consts.ClassCollectionName).UpdateMany(o.sess,
		bson.M{consts.GroupID: groupID},
		bson.M{
			"$unset": bson.M{consts.GroupID: ""},
			"$set":   bson.M{consts.UpdateTime: now},
		})
	return err
}

func (o *mongoOps) AddUserClassAdmin(role string, id primitive.ObjectID, classID string, now time.Time) error {
	return o.updateUser(role, id, bson.M{
		"$addToSet": bson.M{"admin_of_classes": classID},
		"$set":      bson.M{consts.UpdateTime: now},
	})
}

func (o *mongoOps) AddUserEnrollment(role string, id primitive.ObjectID, classID string, now time.Time) error {
	return o.updateUser(role, id, bson.M{
		"$addToSet": bson.M{"enrolled_classes": classID},
		"$set":      bson.M{consts.UpdateTime: now},
	})
}

func (o *mongoOps) RemoveUserEnrollment(role string, id primitive.ObjectID, classID string, now time.Time) error {
	return o.updateUser(role, id, bson.M{
		"$pull": bson.M{"enrolled_classes": classID},
		"$set":  bson.M{consts.UpdateTime: now},
	})
}

func (o *mongoOps) AddUserGroup(role string, id primitive.ObjectID, groupID string, now time.Time) error {
	return o.updateUser(role, id, bson.M{
		"$addToSet": bson.M{"joined_groups": groupID},
		"$set":      bson.M{consts.UpdateTime: now},
	})
}

func (o *mongoOps) RemoveUserGroup(role string, id primitive.ObjectID, groupID string, now time.Time) error {
	return o.updateUser(role, id, bson.M{
		"$pull": bson.M{"joined_groups": groupID},
		"$set":  bson.M{consts.UpdateTime: now},
	})
}

func (o *mongoOps) updateUser(role string, id primitive.ObjectID, update bson.M) error {
	_, err := o.r.Collection(userCollection(role)).UpdateOne(o.sess, bson.M{consts.ID: id}, update)
	return err
}

// SpendCredit 扣减一个课时, 余额不足时条件更新不命中
func (o *mongoOps) SpendCredit(role string, id primitive.ObjectID) error {
	res, err := o.r.Collection(userCollection(role)).UpdateOne(o.sess,
		bson.M{consts.ID: id, "credits": bson.M{"$gte": int64(1)}},
		bson.M{"$inc": bson.M{"credits": int64(-1)}})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return consts.ErrInsufficientCredit
	}
	return nil
}
