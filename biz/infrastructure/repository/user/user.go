package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription 订阅记录, 冗余在用户文档上
type Subscription struct {
	PlanCode string    `bson:"plan_code" json:"planCode"`
	StartAt  time.Time `bson:"start_at" json:"startAt"`
	EndAt    time.Time `bson:"end_at" json:"endAt"`
}

// Active 判断订阅在指定时刻是否生效
func (s *Subscription) Active(now time.Time) bool {
	return !now.Before(s.StartAt) && now.Before(s.EndAt)
}

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username         string             `bson:"username" json:"username"`
	Phone            string             `bson:"phone,omitempty" json:"phone"`
	Role             string             `bson:"role" json:"role"` // student/tutor
	NativeLanguage   string             `bson:"native_language,omitempty" json:"nativeLanguage"`
	LearningLanguage string             `bson:"learning_language,omitempty" json:"learningLanguage"`
	Country          string             `bson:"country,omitempty" json:"country"`
	Credits          int64              `bson:"credits" json:"credits"`
	EnrolledClasses  []string           `bson:"enrolled_classes" json:"enrolledClasses"`
	AdminOfClasses   []string           `bson:"admin_of_classes" json:"adminOfClasses"`
	JoinedGroups     []string           `bson:"joined_groups" json:"joinedGroups"`
	Subscriptions    []*Subscription    `bson:"subscriptions,omitempty" json:"subscriptions"`
	CreateTime       time.Time          `bson:"create_time" json:"createTime"`
	UpdateTime       time.Time          `bson:"update_time" json:"updateTime"`
}
