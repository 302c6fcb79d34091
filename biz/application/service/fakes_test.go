package service

import (
	"context"
	"sync"
	"time"

	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/cache"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/class"
	"bammbuu-live/biz/infrastructure/repository/group"
	"bammbuu-live/biz/infrastructure/repository/room"
	"bammbuu-live/biz/infrastructure/repository/txn"
	"bammbuu-live/biz/infrastructure/repository/user"
	"bammbuu-live/biz/infrastructure/sdk/video"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 内存实现的存储与SDK假件, 行为对齐mongo映射器的条件更新语义

type fakeRoomStore struct {
	mu    sync.Mutex
	rooms map[string]*room.Room

	addMemberWrites int // 实际发生写入的次数
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]*room.Room)}
}

func (f *fakeRoomStore) put(r *room.Room) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	f.rooms[r.ID.Hex()] = r
	return r.ID.Hex()
}

func (f *fakeRoomStore) InsertBatch(_ context.Context, rooms []*room.Room) error {
	for _, r := range rooms {
		f.put(r)
	}
	return nil
}

func (f *fakeRoomStore) FindOne(_ context.Context, id string) (*room.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, consts.ErrNotFound
	}
	cp := *r
	cp.RoomMembers = append([]string{}, r.RoomMembers...)
	return &cp, nil
}

func (f *fakeRoomStore) FindByClassID(_ context.Context, classID string) ([]*room.Room, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*room.Room
	for _, r := range f.rooms {
		if r.ClassID == classID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

// AddMember 模拟mongo条件更新: 过滤条件不命中时无写入
func (f *fakeRoomStore) AddMember(_ context.Context, id, userID string, now time.Time) (*room.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, consts.ErrNotFound
	}
	for _, m := range r.RoomMembers {
		if m == userID {
			return nil, consts.ErrNotFound
		}
	}
	if int64(len(r.RoomMembers)) >= r.AvailableSlots {
		return nil, consts.ErrNotFound
	}
	if r.StartedAt != nil && (r.ClassEndTime == nil || !now.Before(*r.ClassEndTime)) {
		return nil, consts.ErrNotFound
	}
	r.RoomMembers = append(r.RoomMembers, userID)
	f.addMemberWrites++
	cp := *r
	cp.RoomMembers = append([]string{}, r.RoomMembers...)
	return &cp, nil
}

func (f *fakeRoomStore) MarkStarted(_ context.Context, id string, startedAt, endTime time.Time) (*room.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, consts.ErrNotFound
	}
	if r.StartedAt == nil {
		s, e := startedAt, endTime
		r.StartedAt = &s
		r.ClassEndTime = &e
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoomStore) RemoveMember(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return consts.ErrNotFound
	}
	out := r.RoomMembers[:0]
	for _, m := range r.RoomMembers {
		if m != userID {
			out = append(out, m)
		}
	}
	r.RoomMembers = out
	return nil
}

func (f *fakeRoomStore) FindExpired(_ context.Context, now time.Time) ([]*room.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*room.Room
	for _, r := range f.rooms {
		if r.ClassEndTime != nil && !now.Before(*r.ClassEndTime) && len(r.RoomMembers) > 0 {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRoomStore) ClearMembers(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return consts.ErrNotFound
	}
	r.RoomMembers = []string{}
	return nil
}

func (f *fakeRoomStore) DeleteByClassID(_ context.Context, classID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.rooms {
		if r.ClassID == classID {
			delete(f.rooms, id)
		}
	}
	return nil
}

func (f *fakeRoomStore) members(id string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.rooms[id].RoomMembers...)
}

type fakeClassStore struct {
	classes map[string]*class.Class
}

func newFakeClassStore() *fakeClassStore {
	return &fakeClassStore{classes: make(map[string]*class.Class)}
}

func (f *fakeClassStore) put(c *class.Class) string {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.classes[c.ID.Hex()] = c
	return c.ID.Hex()
}

func (f *fakeClassStore) FindOne(_ context.Context, id string) (*class.Class, error) {
	c, ok := f.classes[id]
	if !ok {
		return nil, consts.ErrNotFound
	}
	return c, nil
}

func (f *fakeClassStore) FindByMember(_ context.Context, userID string, _, _ int64) ([]*class.Class, int64, error) {
	var out []*class.Class
	for _, c := range f.classes {
		for _, m := range c.MemberIDs {
			if m == userID {
				out = append(out, c)
				break
			}
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeClassStore) FindByAdmin(_ context.Context, adminID string, _, _ int64) ([]*class.Class, int64, error) {
	var out []*class.Class
	for _, c := range f.classes {
		if c.AdminID == adminID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

type fakeGroupStore struct {
	groups map[string]*group.Group
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{groups: make(map[string]*group.Group)}
}

func (f *fakeGroupStore) put(g *group.Group) string {
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	f.groups[g.ID.Hex()] = g
	return g.ID.Hex()
}

func (f *fakeGroupStore) FindOne(_ context.Context, id string) (*group.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, consts.ErrNotFound
	}
	return g, nil
}

func (f *fakeGroupStore) FindByMember(_ context.Context, userID string, _, _ int64) ([]*group.Group, int64, error) {
	var out []*group.Group
	for _, g := range f.groups {
		for _, m := range g.MemberIDs {
			if m == userID {
				out = append(out, g)
				break
			}
		}
	}
	return out, int64(len(out)), nil
}

type fakeUserStore struct {
	users map[string]*user.User
}

func (f *fakeUserStore) FindOne(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, consts.ErrNotFound
	}
	return u, nil
}

type fakePlanStore struct {
	plans map[string]*live.PlanInfo
}

func (f *fakePlanStore) FindOneByCode(_ context.Context, code string) (*live.PlanInfo, error) {
	p, ok := f.plans[code]
	if !ok {
		return nil, consts.ErrNotFound
	}
	return p, nil
}

// fakeTxn 内存实现的事务执行器
// fn返回错误时恢复快照, 对齐mongo事务的回滚语义
type fakeTxn struct {
	classes *fakeClassStore
	groups  *fakeGroupStore
	users   *fakeUserStore
}

func (f *fakeTxn) WithTransaction(_ context.Context, fn func(tx txn.Ops) error) error {
	classSnap := snapshotClasses(f.classes.classes)
	groupSnap := snapshotGroups(f.groups.groups)
	userSnap := snapshotUsers(f.users.users)

	if err := fn(&fakeTxnOps{t: f}); err != nil {
		f.classes.classes = classSnap
		f.groups.groups = groupSnap
		f.users.users = userSnap
		return err
	}
	return nil
}

func snapshotClasses(m map[string]*class.Class) map[string]*class.Class {
	out := make(map[string]*class.Class, len(m))
	for k, v := range m {
		cp := *v
		cp.MemberIDs = append([]string{}, v.MemberIDs...)
		out[k] = &cp
	}
	return out
}

func snapshotGroups(m map[string]*group.Group) map[string]*group.Group {
	out := make(map[string]*group.Group, len(m))
	for k, v := range m {
		cp := *v
		cp.MemberIDs = append([]string{}, v.MemberIDs...)
		cp.ClassIDs = append([]string{}, v.ClassIDs...)
		out[k] = &cp
	}
	return out
}

func snapshotUsers(m map[string]*user.User) map[string]*user.User {
	out := make(map[string]*user.User, len(m))
	for k, v := range m {
		cp := *v
		cp.EnrolledClasses = append([]string{}, v.EnrolledClasses...)
		cp.AdminOfClasses = append([]string{}, v.AdminOfClasses...)
		cp.JoinedGroups = append([]string{}, v.JoinedGroups...)
		out[k] = &cp
	}
	return out
}

// fakeTxnOps 行为对齐txn包里的mongo实现
type fakeTxnOps struct {
	t *fakeTxn
}

func addStr(s []string, v string) []string {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

func delStr(s []string, v string) []string {
	out := make([]string, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func (o *fakeTxnOps) InsertClass(c *class.Class) error {
	o.t.classes.classes[c.ID.Hex()] = c
	return nil
}

func (o *fakeTxnOps) ClaimClassSpot(id primitive.ObjectID, userID string, _ time.Time) error {
	c, ok := o.t.classes.classes[id.Hex()]
	if !ok {
		return consts.ErrClassFull
	}
	for _, m := range c.MemberIDs {
		if m == userID {
			return consts.ErrClassFull
		}
	}
	if int64(len(c.MemberIDs)) >= c.AvailableSpots {
		return consts.ErrClassFull
	}
	c.MemberIDs = append(c.MemberIDs, userID)
	return nil
}

func (o *fakeTxnOps) ReleaseClassSpot(id primitive.ObjectID, userID string, _ time.Time) error {
	if c, ok := o.t.classes.classes[id.Hex()]; ok {
		c.MemberIDs = delStr(c.MemberIDs, userID)
	}
	return nil
}

func (o *fakeTxnOps) DeleteClass(id primitive.ObjectID) error {
	delete(o.t.classes.classes, id.Hex())
	return nil
}

func (o *fakeTxnOps) PurgeClassRefs(classID string, _ time.Time) error {
	for _, u := range o.t.users.users {
		u.EnrolledClasses = delStr(u.EnrolledClasses, classID)
		u.AdminOfClasses = delStr(u.AdminOfClasses, classID)
	}
	return nil
}

func (o *fakeTxnOps) InsertGroup(g *group.Group) error {
	o.t.groups.groups[g.ID.Hex()] = g
	return nil
}

func (o *fakeTxnOps) AddGroupMember(id primitive.ObjectID, userID string, _ time.Time) error {
	if g, ok := o.t.groups.groups[id.Hex()]; ok {
		g.MemberIDs = addStr(g.MemberIDs, userID)
	}
	return nil
}

func (o *fakeTxnOps) RemoveGroupMember(id primitive.ObjectID, userID string, _ time.Time) error {
	if g, ok := o.t.groups.groups[id.Hex()]; ok {
		g.MemberIDs = delStr(g.MemberIDs, userID)
	}
	return nil
}

func (o *fakeTxnOps) AddGroupClass(id primitive.ObjectID, classID string, _ time.Time) error {
	if g, ok := o.t.groups.groups[id.Hex()]; ok {
		g.ClassIDs = addStr(g.ClassIDs, classID)
	}
	return nil
}

func (o *fakeTxnOps) RemoveGroupClass(id primitive.ObjectID, classID string, _ time.Time) error {
	if g, ok := o.t.groups.groups[id.Hex()]; ok {
		g.ClassIDs = delStr(g.ClassIDs, classID)
	}
	return nil
}

func (o *fakeTxnOps) DeleteGroup(id primitive.ObjectID) error {
	delete(o.t.groups.groups, id.Hex())
	return nil
}

func (o *fakeTxnOps) PurgeGroupRefs(groupID string, _ time.Time) error {
	for _, u := range o.t.users.users {
		u.JoinedGroups = delStr(u.JoinedGroups, groupID)
	}
	return nil
}

func (o *fakeTxnOps) DetachGroupClasses(groupID string, _ time.Time) error {
	for _, c := range o.t.classes.classes {
		if c.GroupID == groupID {
			c.GroupID = ""
		}
	}
	return nil
}

func (o *fakeTxnOps) AddUserClassAdmin(_ string, id primitive.ObjectID, classID string, _ time.Time) error {
	if u, ok := o.t.users.users[id.Hex()]; ok {
		u.AdminOfClasses = addStr(u.AdminOfClasses, classID)
	}
	return nil
}

func (o *fakeTxnOps) AddUserEnrollment(_ string, id primitive.ObjectID, classID string, _ time.Time) error {
	if u, ok := o.t.users.users[id.Hex()]; ok {
		u.EnrolledClasses = addStr(u.EnrolledClasses, classID)
	}
	return nil
}

func (o *fakeTxnOps) RemoveUserEnrollment(_ string, id primitive.ObjectID, classID string, _ time.Time) error {
	if u, ok := o.t.users.users[id.Hex()]; ok {
		u.EnrolledClasses = delStr(u.EnrolledClasses, classID)
	}
	return nil
}

func (o *fakeTxnOps) AddUserGroup(_ string, id primitive.ObjectID, groupID string, _ time.Time) error {
	if u, ok := o.t.users.users[id.Hex()]; ok {
		u.JoinedGroups = addStr(u.JoinedGroups, groupID)
	}
	return nil
}

func (o *fakeTxnOps) RemoveUserGroup(_ string, id primitive.ObjectID, groupID string, _ time.Time) error {
	if u, ok := o.t.users.users[id.Hex()]; ok {
		u.JoinedGroups = delStr(u.JoinedGroups, groupID)
	}
	return nil
}

func (o *fakeTxnOps) SpendCredit(_ string, id primitive.ObjectID) error {
	u, ok := o.t.users.users[id.Hex()]
	if !ok || u.Credits < 1 {
		return consts.ErrInsufficientCredit
	}
	u.Credits--
	return nil
}

type fakeSessionCache struct {
	mu       sync.Mutex
	sessions map[string]*cache.CallSession
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: make(map[string]*cache.CallSession)}
}

func (f *fakeSessionCache) Get(_ context.Context, userId string) (*cache.CallSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[userId]
	if !ok {
		return nil, consts.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionCache) Set(_ context.Context, session *cache.CallSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.UserId] = session
	return nil
}

func (f *fakeSessionCache) Heartbeat(_ context.Context, userId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[userId]; !ok {
		return consts.ErrNotFound
	}
	return nil
}

func (f *fakeSessionCache) Delete(_ context.Context, userId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, userId)
	return nil
}

// expire 模拟心跳超时: 缓存条目消失
func (f *fakeSessionCache) expire(userId string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, userId)
}

type fakeSession struct {
	roomID    string
	joined    bool
	destroyed int
}

func (s *fakeSession) RoomID() string  { return s.roomID }
func (s *fakeSession) Token() string   { return "token-" + s.roomID }
func (s *fakeSession) ExpireAt() int64 { return time.Now().Add(2 * time.Hour).Unix() }

func (s *fakeSession) Join(_ context.Context) error {
	s.joined = true
	return nil
}

func (s *fakeSession) Leave(_ context.Context) error {
	s.joined = false
	return nil
}

func (s *fakeSession) Destroy(_ context.Context) error {
	s.joined = false
	s.destroyed++
	return nil
}

type fakeProvider struct {
	sessions []*fakeSession
	fail     bool
}

func (p *fakeProvider) Name() string  { return "fake" }
func (p *fakeProvider) AppID() string { return "app-fake" }

func (p *fakeProvider) CreateSession(_ context.Context, roomID string, _ video.Credentials, _ video.DeviceConfig) (video.Session, error) {
	if p.fail {
		return nil, consts.ErrMintToken
	}
	s := &fakeSession{roomID: roomID}
	p.sessions = append(p.sessions, s)
	return s, nil
}
