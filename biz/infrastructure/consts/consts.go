package consts

var PageSize int64 = 10

// 数据库相关
const (
	ID           = "_id"
	UserID       = "user_id"
	ClassID      = "class_id"
	GroupID      = "group_id"
	RoomMembers  = "room_members"
	StartedAt    = "started_at"
	ClassEndTime = "class_end_time"
	CreateTime   = "create_time"
	UpdateTime   = "update_time"
	NotEqual     = "$ne"
)

// 集合名
const (
	ClassCollectionName   = "classes"
	GroupCollectionName   = "groups"
	StudentCollectionName = "students"
	TutorCollectionName   = "tutors"
	RoomCollectionName    = "breakout_rooms"
)

// http
const (
	Post            = "POST"
	Get             = "GET"
	ContentTypeJson = "application/json"
	CharSetUTF8     = "UTF-8"
)

// 用户角色
const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
)

// ClassType 课程类型, 封闭枚举, 不允许字符串模糊匹配
type ClassType string

const (
	ClassTypeStandard          ClassType = "standard"
	ClassTypeGroupPremium      ClassType = "group_premium"
	ClassTypeIndividualPremium ClassType = "individual_premium"
	ClassTypeExamPrep          ClassType = "exam_prep"
	ClassTypeIntroductoryCall  ClassType = "introductory_call"
)

// Valid 判断课程类型是否合法
func (t ClassType) Valid() bool {
	switch t {
	case ClassTypeStandard, ClassTypeGroupPremium, ClassTypeIndividualPremium,
		ClassTypeExamPrep, ClassTypeIntroductoryCall:
		return true
	}
	return false
}

// Premium 判断该课程类型是否需要会员或课时
func (t ClassType) Premium() bool {
	switch t {
	case ClassTypeGroupPremium, ClassTypeIndividualPremium, ClassTypeExamPrep:
		return true
	case ClassTypeStandard, ClassTypeIntroductoryCall:
		return false
	}
	return false
}

// 视频通话相关默认值
const (
	DefaultLayout       = "grid"
	DefaultRoomDuration = 15 // 分钟
	DefaultRoomSlots    = 5
	MaxRoomBatch        = 20

	// 会话心跳过期时间, 超时后由后台任务回收成员占位
	SessionTTLSeconds = 90

	// 聊天频道类型
	ChannelTypeStandard = "standard_group"
	ChannelTypePremium  = "premium_group"
)

// 默认值
const (
	AppId         = 21
	WeekdayFormat = "Mon"
)
