package class

import (
	"time"

	"bammbuu-live/biz/infrastructure/consts"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecurringSlot 周期课的单次预约槽位
type RecurringSlot struct {
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	BookingMethod string    `bson:"booking_method" json:"bookingMethod"` // credits/subscription
}

type Class struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID        string             `bson:"admin_id" json:"adminId"`
	Title          string             `bson:"title" json:"title"`
	Language       string             `bson:"language" json:"language"`
	ClassType      consts.ClassType   `bson:"class_type" json:"classType"`
	ClassDateTime  time.Time          `bson:"class_date_time" json:"classDateTime"`
	ClassDuration  int64              `bson:"class_duration" json:"classDuration"` // 分钟
	AvailableSpots int64              `bson:"available_spots" json:"availableSpots"`
	MemberIDs      []string           `bson:"class_member_ids" json:"classMemberIds"`
	GroupID        string             `bson:"group_id,omitempty" json:"groupId"`
	RecurringSlots []*RecurringSlot   `bson:"recurring_slots,omitempty" json:"recurringSlots"`
	CreateTime     time.Time          `bson:"create_time" json:"createTime"`
	UpdateTime     time.Time          `bson:"update_time" json:"updateTime"`
}

// EndTime 课程结束时间
func (c *Class) EndTime() time.Time {
	return c.ClassDateTime.Add(time.Duration(c.ClassDuration) * time.Minute)
}
