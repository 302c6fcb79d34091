package group

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Group struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	GroupAdminID string             `bson:"group_admin_id" json:"groupAdminId"`
	IsPremium    bool               `bson:"is_premium" json:"isPremium"`
	MemberIDs    []string           `bson:"member_ids" json:"memberIds"`
	ClassIDs     []string           `bson:"class_ids" json:"classIds"`
	CreateTime   time.Time          `bson:"create_time" json:"createTime"`
	UpdateTime   time.Time          `bson:"update_time" json:"updateTime"`
}
