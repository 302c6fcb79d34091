package provider

import (
	"bammbuu-live/biz/application/service"
	"bammbuu-live/biz/infrastructure/cache"
	"bammbuu-live/biz/infrastructure/call"
	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/repository/class"
	"bammbuu-live/biz/infrastructure/repository/group"
	"bammbuu-live/biz/infrastructure/repository/plan"
	"bammbuu-live/biz/infrastructure/repository/room"
	"bammbuu-live/biz/infrastructure/repository/txn"
	"bammbuu-live/biz/infrastructure/repository/user"
	"bammbuu-live/biz/infrastructure/sdk/chat"
	"bammbuu-live/biz/infrastructure/sdk/video"

	"github.com/google/wire"
)

var provider *Provider

func Init() {
	var err error
	provider, err = NewProvider()
	if err != nil {
		panic(err)
	}
}

// Provider 提供controller依赖的对象
type Provider struct {
	Config          *config.Config
	UserService     service.UserService
	ClassService    service.ClassService
	GroupService    service.GroupService
	BreakoutService service.BreakoutService
	CallService     service.CallService
	ChatService     service.ChatService
	PlanService     service.PlanService
	MediaService    service.MediaService
}

func Get() *Provider {
	return provider
}

var ApplicationSet = wire.NewSet(
	service.UserServiceSet,
	service.ClassServiceSet,
	service.GroupServiceSet,
	service.BreakoutServiceSet,
	service.CallServiceSet,
	service.ChatServiceSet,
	service.PlanServiceSet,
	service.MediaServiceSet,
)

var InfrastructureSet = wire.NewSet(
	config.NewConfig,
	user.NewMongoMapper,
	class.NewMongoMapper,
	group.NewMongoMapper,
	room.NewMongoMapper,
	plan.NewMySQLMapperFromConfig,
	txn.NewRunner,
	cache.NewSessionCacheMapper,
	wire.Bind(new(cache.ISessionCacheMapper), new(*cache.SessionCacheMapper)),
	call.NewCoordinator,
	video.NewPicker,
	chat.NewClient,
	wire.Bind(new(service.ClassStore), new(*class.MongoMapper)),
	wire.Bind(new(service.GroupStore), new(*group.MongoMapper)),
	wire.Bind(new(service.UserStore), new(*user.MongoMapper)),
	wire.Bind(new(service.RoomStore), new(*room.MongoMapper)),
	wire.Bind(new(service.PlanStore), new(*plan.MySQLMapper)),
	wire.Bind(new(service.TxnStore), new(*txn.Runner)),
)

var AllProvider = wire.NewSet(
	ApplicationSet,
	InfrastructureSet,
)
