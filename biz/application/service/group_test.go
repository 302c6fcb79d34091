package service

import (
	"context"
	"testing"
	"time"

	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/class"
	"bammbuu-live/biz/infrastructure/repository/group"
	"bammbuu-live/biz/infrastructure/repository/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type groupFixture struct {
	svc     *GroupService
	classes *fakeClassStore
	groups  *fakeGroupStore
	users   *fakeUserStore
}

func newGroupFixture() *groupFixture {
	classes := newFakeClassStore()
	groups := newFakeGroupStore()
	users := &fakeUserStore{users: make(map[string]*user.User)}
	svc := &GroupService{
		GroupMapper: groups,
		UserMapper:  users,
		PlanMapper:  &fakePlanStore{},
		Txn:         &fakeTxn{classes: classes, groups: groups, users: users},
	}
	return &groupFixture{svc: svc, classes: classes, groups: groups, users: users}
}

func seedGroupUser(f *groupFixture, role string, credits int64) string {
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

func TestCreateGroupSetsAdminMembership(t *testing.T) {
	f := newGroupFixture()
	admin := seedGroupUser(f, consts.RoleStudent, 0)

	resp, err := f.svc.createGroup(context.Background(), &live.CreateGroupReq{
		Name:        "口语角",
		Description: "每周三晚练口语",
	}, admin)
	require.NoError(t, err)
	require.NotEmpty(t, resp.GroupId)

	g := f.groups.groups[resp.GroupId]
	require.NotNil(t, g)
	assert.Equal(t, admin, g.GroupAdminID)
	assert.Equal(t, []string{admin}, g.MemberIDs)
	assert.Equal(t, []string{resp.GroupId}, f.users.users[admin].JoinedGroups)
}

func TestJoinGroupIdempotent(t *testing.T) {
	f := newGroupFixture()
	admin := seedGroupUser(f, consts.RoleStudent, 0)
	s1 := seedGroupUser(f, consts.RoleStudent, 1)
	groupID := f.groups.put(&group.Group{
		Name:         "口语角",
		GroupAdminID: admin,
		IsPremium:    true,
		MemberIDs:    []string{admin, s1},
	})

	resp, err := f.svc.joinGroup(context.Background(), &live.JoinGroupReq{GroupId: groupID}, s1)
	require.NoError(t, err)
	assert.Equal(t, "已在小组中", resp.Msg)

	// 已是成员, 不扣课时
	assert.Equal(t, int64(1), f.users.users[s1].Credits)
}

func TestJoinPremiumGroupSpendsCredit(t *testing.T) {
	f := newGroupFixture()
	admin := seedGroupUser(f, consts.RoleStudent, 0)
	s1 := seedGroupUser(f, consts.RoleStudent, 2)
	groupID := f.groups.put(&group.Group{
		Name:         "备考冲刺",
		GroupAdminID: admin,
		IsPremium:    true,
		MemberIDs:    []string{admin},
	})

	_, err := f.svc.joinGroup(context.Background(), &live.JoinGroupReq{GroupId: groupID}, s1)
	require.NoError(t, err)

	assert.Contains(t, f.groups.groups[groupID].MemberIDs, s1)
	assert.Equal(t, []string{groupID}, f.users.users[s1].JoinedGroups)
	assert.Equal(t, int64(1), f.users.users[s1].Credits)
}

func TestJoinPremiumGroupRequiresSubscription(t *testing.T) {
	f := newGroupFixture()
	admin := seedGroupUser(f, consts.RoleStudent, 0)
	s1 := seedGroupUser(f, consts.RoleStudent, 0)
	groupID := f.groups.put(&group.Group{
		Name:         "备考冲刺",
		GroupAdminID: admin,
		IsPremium:    true,
		MemberIDs:    []string{admin},
	})

	_, err := f.svc.joinGroup(context.Background(), &live.JoinGroupReq{GroupId: groupID}, s1)
	assert.ErrorIs(t, err, consts.ErrSubscriptionRequired)

	assert.NotContains(t, f.groups.groups[groupID].MemberIDs, s1)
	assert.Empty(t, f.users.users[s1].JoinedGroups)
}

func TestJoinPremiumGroupWithSubscription(t *testing.T) {
	f := newGroupFixture()
	admin := seedGroupUser(f, consts.RoleStudent, 0)
	s1 := seedGroupUser(f, consts.RoleStudent, 1)
	f.users.users[s1].Subscriptions = []*user.Subscription{{
		PlanCode: "group-pass",
		StartAt:  time.Now().Add(-24 * time.Hour),
		EndAt:    time.Now().Add(24 * time.Hour),
	}}
	f.svc.PlanMapper = &fakePlanStore{plans: map[string]*live.PlanInfo{
		"group-pass": {Code: "group-pass", ClassTypes: []string{string(consts.ClassTypeGroupPremium)}},
	}}
	groupID := f.groups.put(&group.Group{
		Name:         "备考冲刺",
		GroupAdminID: admin,
		IsPremium:    true,
		MemberIDs:    []string{admin},
	})

	_, err := f.svc.joinGroup(context.Background(), &live.JoinGroupReq{GroupId: groupID}, s1)
	require.NoError(t, err)

	// 订阅覆盖, 课时不动
	assert.Equal(t, int64(1), f.users.users[s1].Credits)
	assert.Contains(t, f.groups.groups[groupID].MemberIDs, s1)
}

func TestLeaveGroupCascade(t *testing.T) {
	f := newGroupFixture()
	admin := seedGroupUser(f, consts.RoleStudent, 0)
	s1 := seedGroupUser(f, consts.RoleStudent, 0)
	groupID := f.groups.put(&group.Group{
		Name:         "口语角",
		GroupAdminID: admin,
		MemberIDs:    []string{admin, s1},
	})
	f.users.users[s1].JoinedGroups = []string{groupID}

	_, err := f.svc.leaveGroup(context.Background(), &live.LeaveGroupReq{GroupId: groupID}, s1)
	require.NoError(t, err)

	assert.Equal(t, []string{admin}, f.groups.groups[groupID].MemberIDs)
	assert.Empty(t, f.users.users[s1].JoinedGroups)
}

func TestLeaveGroupNotMember(t *testing.T) {
	f := newGroupFixture()
	admin := seedGroupUser(f, consts.RoleStudent, 0)
	s1 := seedGroupUser(f, consts.RoleStudent, 0)
	groupID := f.groups.put(&group.Group{
		Name:         "口语角",
		GroupAdminID: admin,
		MemberIDs:    []string{admin},
	})

	_, err := f.svc.leaveGroup(context.Background(), &live.LeaveGroupReq{GroupId: groupID}, s1)
	assert.ErrorIs(t, err, consts.ErrNotGroupMember)
}

func TestDeleteGroupDetachesClasses(t *testing.T) {
	f := newGroupFixture()
	admin := seedGroupUser(f, consts.RoleStudent, 0)
	s1 := seedGroupUser(f, consts.RoleStudent, 0)
	groupID := f.groups.put(&group.Group{
		Name:         "口语角",
		GroupAdminID: admin,
		MemberIDs:    []string{admin, s1},
	})
	f.users.users[admin].JoinedGroups = []string{groupID}
	f.users.users[s1].JoinedGroups = []string{groupID}

	classID := f.classes.put(&class.Class{
		AdminID:        admin,
		Title:          "西班牙语会话",
		ClassType:      consts.ClassTypeStandard,
		ClassDateTime:  time.Now().Add(time.Hour),
		ClassDuration:  60,
		AvailableSpots: 5,
		MemberIDs:      []string{s1},
		GroupID:        groupID,
	})

	_, err := f.svc.deleteGroup(context.Background(), &live.DeleteGroupReq{GroupId: groupID}, admin)
	require.NoError(t, err)

	// 小组与成员引用消失
	_, err = f.groups.FindOne(context.Background(), groupID)
	assert.ErrorIs(t, err, consts.ErrNotFound)
	assert.Empty(t, f.users.users[admin].JoinedGroups)
	assert.Empty(t, f.users.users[s1].JoinedGroups)

	// 关联课程保留, 只解除归属
	c, err := f.classes.FindOne(context.Background(), classID)
	require.NoError(t, err)
	assert.Empty(t, c.GroupID)
	assert.Equal(t, []string{s1}, c.MemberIDs)
}

func TestDeleteGroupNotAdmin(t *testing.T) {
	f := newGroupFixture()
	admin := seedGroupUser(f, consts.RoleStudent, 0)
	s1 := seedGroupUser(f, consts.RoleStudent, 0)
	groupID := f.groups.put(&group.Group{
		Name:         "口语角",
		GroupAdminID: admin,
		MemberIDs:    []string{admin, s1},
	})

	_, err := f.svc.deleteGroup(context.Background(), &live.DeleteGroupReq{GroupId: groupID}, s1)
	assert.ErrorIs(t, err, consts.ErrNotHost)

	_, err = f.groups.FindOne(context.Background(), groupID)
	assert.NoError(t, err)
}

func TestGroupOpsRequireAuth(t *testing.T) {
	f := newGroupFixture()

	_, err := f.svc.JoinGroup(context.Background(), &live.JoinGroupReq{GroupId: "g1"})
	assert.ErrorIs(t, err, consts.ErrNotAuthentication)

	_, err = f.svc.DeleteGroup(context.Background(), &live.DeleteGroupReq{GroupId: "g1"})
	assert.ErrorIs(t, err, consts.ErrNotAuthentication)
}
