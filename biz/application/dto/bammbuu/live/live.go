package live

import "bammbuu-live/biz/application/dto/basic"

// Response 通用响应
type Response struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg"`
}

// ---------- 用户 ----------

type SignInReq struct {
	AuthType   string  `form:"authType" json:"authType" query:"authType"`
	AuthId     string  `form:"authId" json:"authId" query:"authId"`
	VerifyCode *string `form:"verifyCode" json:"verifyCode,omitempty" query:"verifyCode"`
	Password   *string `form:"password" json:"password,omitempty" query:"password"`
	Role       *string `form:"role" json:"role,omitempty" query:"role"`
}

type SignInResp struct {
	Id           string `json:"id"`
	AccessToken  string `json:"accessToken"`
	AccessExpire int64  `json:"accessExpire"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

type SendVerifyCodeReq struct {
	AuthType string `form:"authType" json:"authType" query:"authType"`
	AuthId   string `form:"authId" json:"authId" query:"authId"`
}

type SubscriptionInfo struct {
	PlanCode string `json:"planCode"`
	StartAt  int64  `json:"startAt"`
	EndAt    int64  `json:"endAt"`
}

type GetUserInfoReq struct {
}

type GetUserInfoResp struct {
	Code    int64            `json:"code"`
	Msg     string           `json:"msg"`
	Payload *UserInfoPayload `json:"payload,omitempty"`
}

type UserInfoPayload struct {
	Name            string              `json:"name"`
	Role            string              `json:"role"`
	Credits         int64               `json:"credits"`
	EnrolledClasses []string            `json:"enrolledClasses"`
	AdminOfClasses  []string            `json:"adminOfClasses"`
	JoinedGroups    []string            `json:"joinedGroups"`
	Subscriptions   []*SubscriptionInfo `json:"subscriptions"`
}

type UpdateUserInfoReq struct {
	Name             string  `form:"name" json:"name" query:"name"`
	NativeLanguage   *string `form:"nativeLanguage" json:"nativeLanguage,omitempty" query:"nativeLanguage"`
	LearningLanguage *string `form:"learningLanguage" json:"learningLanguage,omitempty" query:"learningLanguage"`
	Country          *string `form:"country" json:"country,omitempty" query:"country"`
}

// ---------- 课程 ----------

type RecurringSlot struct {
	CreatedAt     int64  `form:"createdAt" json:"createdAt" query:"createdAt"`
	BookingMethod string `form:"bookingMethod" json:"bookingMethod" query:"bookingMethod"`
}

type ClassInfo struct {
	Id             string           `json:"id"`
	AdminId        string           `json:"adminId"`
	AdminName      string           `json:"adminName"`
	Title          string           `json:"title"`
	Language       string           `json:"language"`
	ClassType      string           `json:"classType"`
	ClassDateTime  int64            `json:"classDateTime"`
	ClassDuration  int64            `json:"classDuration"`
	AvailableSpots int64            `json:"availableSpots"`
	MemberIds      []string         `json:"classMemberIds"`
	GroupId        string           `json:"groupId,omitempty"`
	RecurringSlots []*RecurringSlot `json:"recurringSlots,omitempty"`
	CreateTime     int64            `json:"createTime"`
}

type CreateClassReq struct {
	Title          string           `form:"title" json:"title" query:"title"`
	Language       string           `form:"language" json:"language" query:"language"`
	ClassType      string           `form:"classType" json:"classType" query:"classType"`
	ClassDateTime  int64            `form:"classDateTime" json:"classDateTime" query:"classDateTime"`
	ClassDuration  int64            `form:"classDuration" json:"classDuration" query:"classDuration"`
	AvailableSpots int64            `form:"availableSpots" json:"availableSpots" query:"availableSpots"`
	GroupId        *string          `form:"groupId" json:"groupId,omitempty" query:"groupId"`
	RecurringSlots []*RecurringSlot `form:"recurringSlots" json:"recurringSlots,omitempty" query:"recurringSlots"`
}

type CreateClassResp struct {
	ClassId string `json:"classId"`
}

type GetClassReq struct {
	ClassId string `form:"classId" json:"classId" query:"classId"`
}

type GetClassResp struct {
	Class *ClassInfo `json:"class"`
}

type ListClassesReq struct {
	PaginationOptions *basic.PaginationOptions `form:"paginationOptions" json:"paginationOptions,omitempty" query:"paginationOptions"`
}

type ListClassesResp struct {
	Classes []*ClassInfo `json:"classes"`
	Total   int64        `json:"total"`
}

type JoinClassReq struct {
	ClassId string `form:"classId" json:"classId" query:"classId"`
}

type JoinClassResp struct {
	ClassId string `json:"classId"`
	Title   string `json:"title"`
}

type LeaveClassReq struct {
	ClassId string `form:"classId" json:"classId" query:"classId"`
}

type DeleteClassReq struct {
	ClassId string `form:"classId" json:"classId" query:"classId"`
}

// ---------- 小组 ----------

type GroupInfo struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	GroupAdminId string   `json:"groupAdminId"`
	IsPremium    bool     `json:"isPremium"`
	MemberIds    []string `json:"memberIds"`
	ClassIds     []string `json:"classIds"`
	CreateTime   int64    `json:"createTime"`
}

type CreateGroupReq struct {
	Name        string `form:"name" json:"name" query:"name"`
	Description string `form:"description" json:"description" query:"description"`
	IsPremium   bool   `form:"isPremium" json:"isPremium" query:"isPremium"`
}

type CreateGroupResp struct {
	GroupId string `json:"groupId"`
}

type GetGroupReq struct {
	GroupId string `form:"groupId" json:"groupId" query:"groupId"`
}

type GetGroupResp struct {
	Group *GroupInfo `json:"group"`
}

type ListGroupsReq struct {
	PaginationOptions *basic.PaginationOptions `form:"paginationOptions" json:"paginationOptions,omitempty" query:"paginationOptions"`
}

type ListGroupsResp struct {
	Groups []*GroupInfo `json:"groups"`
	Total  int64        `json:"total"`
}

type JoinGroupReq struct {
	GroupId string `form:"groupId" json:"groupId" query:"groupId"`
}

type LeaveGroupReq struct {
	GroupId string `form:"groupId" json:"groupId" query:"groupId"`
}

type DeleteGroupReq struct {
	GroupId string `form:"groupId" json:"groupId" query:"groupId"`
}

// ---------- 分组讨论房间 ----------

type RoomInfo struct {
	Id             string   `json:"id"`
	ClassId        string   `json:"classId"`
	RoomMembers    []string `json:"roomMembers"`
	AvailableSlots int64    `json:"availableSlots"`
	RoomDuration   int64    `json:"roomDuration"`
	StartedAt      *int64   `json:"startedAt,omitempty"`
	ClassEndTime   *int64   `json:"classEndTime,omitempty"`
	Status         string   `json:"status"`
	CreateTime     int64    `json:"createTime"`
}

type CreateRoomsReq struct {
	ClassId        string `form:"classId" json:"classId" query:"classId"`
	Count          int64  `form:"count" json:"count" query:"count"`
	RoomDuration   int64  `form:"roomDuration" json:"roomDuration" query:"roomDuration"`
	AvailableSlots int64  `form:"availableSlots" json:"availableSlots" query:"availableSlots"`
}

type CreateRoomsResp struct {
	RoomIds []string `json:"roomIds"`
}

type ListRoomsReq struct {
	ClassId string `form:"classId" json:"classId" query:"classId"`
}

type ListRoomsResp struct {
	Rooms []*RoomInfo `json:"rooms"`
	Total int64       `json:"total"`
}

// ---------- 通话 ----------

type JoinCallReq struct {
	ClassId string  `form:"classId" json:"classId" query:"classId"`
	RoomId  *string `form:"roomId" json:"roomId,omitempty" query:"roomId"`
}

func (r *JoinCallReq) GetRoomId() string {
	if r == nil || r.RoomId == nil {
		return ""
	}
	return *r.RoomId
}

type JoinCallResp struct {
	RoomId    string `json:"roomId"`
	ClassId   string `json:"classId"`
	Provider  string `json:"provider"`
	Token     string `json:"token"`
	AppId     string `json:"appId"`
	ChannelId string `json:"channelId"`
	ExpireAt  int64  `json:"expireAt"`
}

type JoinMainClassReq struct {
	ClassId string `form:"classId" json:"classId" query:"classId"`
}

type LeaveCallReq struct {
}

type WatchRosterReq struct {
	ClassId string `form:"classId" json:"classId" query:"classId"`
}

// RosterEvent 房间成员变化事件, 通过SSE推送
type RosterEvent struct {
	ClassId string      `json:"classId"`
	Rooms   []*RoomInfo `json:"rooms"`
	Ts      int64       `json:"ts"`
}

// ---------- 聊天频道 ----------

type EnsureChannelReq struct {
	ClassId     string  `form:"classId" json:"classId" query:"classId"`
	RoomId      *string `form:"roomId" json:"roomId,omitempty" query:"roomId"`
	ChannelType *string `form:"channelType" json:"channelType,omitempty" query:"channelType"`
}

func (r *EnsureChannelReq) GetRoomId() string {
	if r == nil || r.RoomId == nil {
		return ""
	}
	return *r.RoomId
}

type EnsureChannelResp struct {
	ChannelId string `json:"channelId"`
	Created   bool   `json:"created"`
}

// ---------- 订阅套餐 ----------

type PlanInfo struct {
	Id         int64    `json:"id"`
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	PriceCents int64    `json:"priceCents"`
	PeriodDays int64    `json:"periodDays"`
	ClassTypes []string `json:"classTypes"`
}

type ListPlansReq struct {
}

type ListPlansResp struct {
	Plans []*PlanInfo `json:"plans"`
	Total int64       `json:"total"`
}

// ---------- 课程录制 ----------

type ApplyRecordingUrlReq struct {
	ClassId string  `form:"classId" json:"classId" query:"classId"`
	Suffix  *string `form:"suffix" json:"suffix,omitempty" query:"suffix"`
}

func (r *ApplyRecordingUrlReq) GetSuffix() string {
	if r == nil || r.Suffix == nil {
		return ""
	}
	return *r.Suffix
}

type ApplyRecordingUrlResp struct {
	Url          string `json:"url"`
	SessionToken string `json:"sessionToken"`
}
