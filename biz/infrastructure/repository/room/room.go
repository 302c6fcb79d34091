package room

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room 分组讨论房间
// started_at/class_end_time 在首位成员加入时一次性写入, 此后不再变化
type Room struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClassID        string             `bson:"class_id" json:"classId"`
	BatchID        string             `bson:"batch_id" json:"batchId"`
	RoomMembers    []string           `bson:"room_members" json:"roomMembers"`
	AvailableSlots int64              `bson:"available_slots" json:"availableSlots"`
	RoomDuration   int64              `bson:"room_duration" json:"roomDuration"` // 分钟
	StartedAt      *time.Time         `bson:"started_at" json:"startedAt"`
	ClassEndTime   *time.Time         `bson:"class_end_time" json:"classEndTime"`
	CreateTime     time.Time          `bson:"create_time" json:"createTime"`
	UpdateTime     time.Time          `bson:"update_time" json:"updateTime"`
}

// Duration 房间时长
func (r *Room) Duration() time.Duration {
	return time.Duration(r.RoomDuration) * time.Minute
}
