package service

import (
	"context"
	"testing"
	"time"

	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/class"
	"bammbuu-live/biz/infrastructure/repository/group"
	"bammbuu-live/biz/infrastructure/repository/room"
	"bammbuu-live/biz/infrastructure/repository/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type classFixture struct {
	svc     *ClassService
	classes *fakeClassStore
	groups  *fakeGroupStore
	users   *fakeUserStore
	rooms   *fakeRoomStore
}

func newClassFixture() *classFixture {
	classes := newFakeClassStore()
	groups := newFakeGroupStore()
	users := &fakeUserStore{users: make(map[string]*user.User)}
	rooms := newFakeRoomStore()
	svc := &ClassService{
		ClassMapper: classes,
		GroupMapper: groups,
		UserMapper:  users,
		RoomMapper:  rooms,
		PlanMapper:  &fakePlanStore{},
		Txn:         &fakeTxn{classes: classes, groups: groups, users: users},
	}
	return &classFixture{svc: svc, classes: classes, groups: groups, users: users, rooms: rooms}
}

func seedFixtureUser(f *classFixture, role string, credits int64) string {
	oid := primitive.NewObjectID()
	f.users.users[oid.Hex()] = &user.User{
		ID:              oid,
		Username:        "测试用户",
		Role:            role,
		Credits:         credits,
		EnrolledClasses: []string{},
		AdminOfClasses:  []string{},
		JoinedGroups:    []string{},
	}
	return oid.Hex()
}

func seedFixtureClass(f *classFixture, adminID string, classType consts.ClassType, spots int64, members []string) string {
	return f.classes.put(&class.Class{
		AdminID:        adminID,
		Title:          "西班牙语会话",
		ClassType:      classType,
		ClassDateTime:  time.Now().Add(time.Hour),
		ClassDuration:  60,
		AvailableSpots: spots,
		MemberIDs:      members,
	})
}

func TestDeleteClassCascade(t *testing.T) {
	f := newClassFixture()
	admin := seedFixtureUser(f, consts.RoleTutor, 0)
	s1 := seedFixtureUser(f, consts.RoleStudent, 0)
	s2 := seedFixtureUser(f, consts.RoleStudent, 0)

	classID := seedFixtureClass(f, admin, consts.ClassTypeStandard, 5, []string{s1, s2})
	groupID := f.groups.put(&group.Group{
		Name:         "备考小组",
		GroupAdminID: admin,
		MemberIDs:    []string{admin, s1, s2},
		ClassIDs:     []string{classID},
	})
	f.classes.classes[classID].GroupID = groupID

	f.users.users[admin].AdminOfClasses = []string{classID}
	f.users.users[s1].EnrolledClasses = []string{classID}
	f.users.users[s2].EnrolledClasses = []string{classID}

	f.rooms.put(&room.Room{ClassID: classID, RoomMembers: []string{}, AvailableSlots: 5, RoomDuration: 15})
	f.rooms.put(&room.Room{ClassID: classID, RoomMembers: []string{}, AvailableSlots: 5, RoomDuration: 15})

	_, err := f.svc.deleteClass(context.Background(), &live.DeleteClassReq{ClassId: classID}, admin)
	require.NoError(t, err)

	// 课程文档与所有冗余引用一并消失
	_, err = f.classes.FindOne(context.Background(), classID)
	assert.ErrorIs(t, err, consts.ErrNotFound)
	assert.Empty(t, f.groups.groups[groupID].ClassIDs)
	assert.Empty(t, f.users.users[admin].AdminOfClasses)
	assert.Empty(t, f.users.users[s1].EnrolledClasses)
	assert.Empty(t, f.users.users[s2].EnrolledClasses)

	// 课程的分组房间随课程删除
	_, total, err := f.rooms.FindByClassID(context.Background(), classID)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDeleteClassNotHost(t *testing.T) {
	f := newClassFixture()
	admin := seedFixtureUser(f, consts.RoleTutor, 0)
	s1 := seedFixtureUser(f, consts.RoleStudent, 0)
	classID := seedFixtureClass(f, admin, consts.ClassTypeStandard, 5, []string{s1})
	f.users.users[s1].EnrolledClasses = []string{classID}

	_, err := f.svc.deleteClass(context.Background(), &live.DeleteClassReq{ClassId: classID}, s1)
	assert.ErrorIs(t, err, consts.ErrNotHost)

	// 拒绝后状态不变
	_, err = f.classes.FindOne(context.Background(), classID)
	assert.NoError(t, err)
	assert.Equal(t, []string{classID}, f.users.users[s1].EnrolledClasses)
}

func TestJoinClassFull(t *testing.T) {
	f := newClassFixture()
	admin := seedFixtureUser(f, consts.RoleTutor, 0)
	s1 := seedFixtureUser(f, consts.RoleStudent, 0)
	classID := seedFixtureClass(f, admin, consts.ClassTypeStandard, 1, []string{"taken"})

	_, err := f.svc.joinClass(context.Background(), &live.JoinClassReq{ClassId: classID}, s1)
	assert.ErrorIs(t, err, consts.ErrClassFull)

	// 事务回滚, 用户侧不留半截引用
	assert.Empty(t, f.users.users[s1].EnrolledClasses)
	assert.Equal(t, []string{"taken"}, f.classes.classes[classID].MemberIDs)
}

func TestJoinClassIdempotent(t *testing.T) {
	f := newClassFixture()
	admin := seedFixtureUser(f, consts.RoleTutor, 0)
	s1 := seedFixtureUser(f, consts.RoleStudent, 1)
	classID := seedFixtureClass(f, admin, consts.ClassTypeIndividualPremium, 5, []string{s1})

	resp, err := f.svc.joinClass(context.Background(), &live.JoinClassReq{ClassId: classID}, s1)
	require.NoError(t, err)
	assert.Equal(t, classID, resp.ClassId)

	// 已是成员, 不再扣课时
	assert.Equal(t, int64(1), f.users.users[s1].Credits)
	assert.Equal(t, []string{s1}, f.classes.classes[classID].MemberIDs)
}

func TestJoinClassSpendsCredit(t *testing.T) {
	f := newClassFixture()
	admin := seedFixtureUser(f, consts.RoleTutor, 0)
	s1 := seedFixtureUser(f, consts.RoleStudent, 1)
	classID := seedFixtureClass(f, admin, consts.ClassTypeIndividualPremium, 5, []string{})

	_, err := f.svc.joinClass(context.Background(), &live.JoinClassReq{ClassId: classID}, s1)
	require.NoError(t, err)

	assert.Equal(t, []string{s1}, f.classes.classes[classID].MemberIDs)
	assert.Equal(t, []string{classID}, f.users.users[s1].EnrolledClasses)
	assert.Zero(t, f.users.users[s1].Credits)
}

func TestJoinClassWithSubscription(t *testing.T) {
	f := newClassFixture()
	admin := seedFixtureUser(f, consts.RoleTutor, 0)
	s1 := seedFixtureUser(f, consts.RoleStudent, 1)
	f.users.users[s1].Subscriptions = []*user.Subscription{{
		PlanCode: "plus",
		StartAt:  time.Now().Add(-24 * time.Hour),
		EndAt:    time.Now().Add(24 * time.Hour),
	}}
	f.svc.PlanMapper = &fakePlanStore{plans: map[string]*live.PlanInfo{
		"plus": {Code: "plus", ClassTypes: []string{string(consts.ClassTypeIndividualPremium)}},
	}}
	classID := seedFixtureClass(f, admin, consts.ClassTypeIndividualPremium, 5, []string{})

	_, err := f.svc.joinClass(context.Background(), &live.JoinClassReq{ClassId: classID}, s1)
	require.NoError(t, err)

	// 订阅覆盖该课程类型, 课时不动
	assert.Equal(t, int64(1), f.users.users[s1].Credits)
	assert.Equal(t, []string{s1}, f.classes.classes[classID].MemberIDs)
}

func TestJoinClassInsufficientCredit(t *testing.T) {
	f := newClassFixture()
	admin := seedFixtureUser(f, consts.RoleTutor, 0)
	s1 := seedFixtureUser(f, consts.RoleStudent, 0)
	classID := seedFixtureClass(f, admin, consts.ClassTypeIndividualPremium, 5, []string{})

	_, err := f.svc.joinClass(context.Background(), &live.JoinClassReq{ClassId: classID}, s1)
	assert.ErrorIs(t, err, consts.ErrInsufficientCredit)
	assert.Empty(t, f.classes.classes[classID].MemberIDs)
}

func TestJoinClassAlreadyEnded(t *testing.T) {
	f := newClassFixture()
	admin := seedFixtureUser(f, consts.RoleTutor, 0)
	s1 := seedFixtureUser(f, consts.RoleStudent, 0)
	classID := seedFixtureClass(f, admin, consts.ClassTypeStandard, 5, []string{})
	f.classes.classes[classID].ClassDateTime = time.Now().Add(-2 * time.Hour)

	_, err := f.svc.joinClass(context.Background(), &live.JoinClassReq{ClassId: classID}, s1)
	assert.ErrorIs(t, err, consts.ErrClassEnded)
	assert.Empty(t, f.classes.classes[classID].MemberIDs)
}

func TestLeaveClassCascade(t *testing.T) {
	f := newClassFixture()
	admin := seedFixtureUser(f, consts.RoleTutor, 0)
	s1 := seedFixtureUser(f, consts.RoleStudent, 0)
	classID := seedFixtureClass(f, admin, consts.ClassTypeStandard, 5, []string{s1})
	f.users.users[s1].EnrolledClasses = []string{classID}

	_, err := f.svc.leaveClass(context.Background(), &live.LeaveClassReq{ClassId: classID}, s1)
	require.NoError(t, err)

	assert.Empty(t, f.classes.classes[classID].MemberIDs)
	assert.Empty(t, f.users.users[s1].EnrolledClasses)
}

func TestLeaveClassNotMember(t *testing.T) {
	f := newClassFixture()
	admin := seedFixtureUser(f, consts.RoleTutor, 0)
	s1 := seedFixtureUser(f, consts.RoleStudent, 0)
	classID := seedFixtureClass(f, admin, consts.ClassTypeStandard, 5, []string{})

	_, err := f.svc.leaveClass(context.Background(), &live.LeaveClassReq{ClassId: classID}, s1)
	assert.ErrorIs(t, err, consts.ErrNotClassMember)
}

func TestCreateClassRequiresTutorOrGroupAdmin(t *testing.T) {
	f := newClassFixture()
	s1 := seedFixtureUser(f, consts.RoleStudent, 0)

	req := &live.CreateClassReq{
		Title:          "发音入门",
		ClassType:      string(consts.ClassTypeStandard),
		ClassDateTime:  time.Now().Add(time.Hour).Unix(),
		ClassDuration:  60,
		AvailableSpots: 5,
	}
	_, err := f.svc.createClass(context.Background(), req, s1)
	assert.ErrorIs(t, err, consts.ErrForbidden)
}

func TestCreateClassInvalidType(t *testing.T) {
	f := newClassFixture()
	tutor := seedFixtureUser(f, consts.RoleTutor, 0)

	req := &live.CreateClassReq{
		Title:          "发音入门",
		ClassType:      "premium",
		ClassDateTime:  time.Now().Add(time.Hour).Unix(),
		ClassDuration:  60,
		AvailableSpots: 5,
	}
	_, err := f.svc.createClass(context.Background(), req, tutor)
	assert.ErrorIs(t, err, consts.ErrInvalidClassType)
}

func TestClassOpsRequireAuth(t *testing.T) {
	f := newClassFixture()

	_, err := f.svc.JoinClass(context.Background(), &live.JoinClassReq{ClassId: "c1"})
	assert.ErrorIs(t, err, consts.ErrNotAuthentication)

	_, err = f.svc.DeleteClass(context.Background(), &live.DeleteClassReq{ClassId: "c1"})
	assert.ErrorIs(t, err, consts.ErrNotAuthentication)
}
