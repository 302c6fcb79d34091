package room

import "time"

// Status 房间状态, 不落库, 每次读取时按墙钟重新推导
type Status string

const (
	StatusUpcoming  Status = "upcoming"  // 尚未有人加入
	StatusCurrent   Status = "current"   // 进行中且有空位
	StatusFull      Status = "full"      // 进行中且已满员
	StatusCompleted Status = "completed" // 已到结束时间
)

// DeriveStatus 按当前时刻推导房间状态
func DeriveStatus(r *Room, now time.Time) Status {
	if r.StartedAt == nil {
		if int64(len(r.RoomMembers)) >= r.AvailableSlots {
			return StatusFull
		}
		return StatusUpcoming
	}
	if r.ClassEndTime != nil && !now.Before(*r.ClassEndTime) {
		return StatusCompleted
	}
	if int64(len(r.RoomMembers)) >= r.AvailableSlots {
		return StatusFull
	}
	return StatusCurrent
}

// Joinable 判断此刻能否加入: 有空位, 且未开始或未到结束时间
func Joinable(r *Room, now time.Time) bool {
	if int64(len(r.RoomMembers)) >= r.AvailableSlots {
		return false
	}
	if r.StartedAt == nil {
		return true
	}
	return r.ClassEndTime != nil && now.Before(*r.ClassEndTime)
}

// EndTimeFor 首位成员加入时刻对应的结束时间
func EndTimeFor(r *Room, startedAt time.Time) time.Time {
	return startedAt.Add(r.Duration())
}
