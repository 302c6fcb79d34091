package main

import (
	"context"

	"bammbuu-live/biz/adaptor"
	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/util/log"
	"bammbuu-live/provider"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	hertzprom "github.com/hertz-contrib/monitor-prometheus"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
)

func Init() {
	provider.Init()
}

func main() {
	Init()

	c := config.GetConfig()
	tracer, cfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(c.ListenOn),
		server.WithTracer(hertzprom.NewServerTracer(":9091", "/metrics")),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(cfg))
	h.Use(func(ctx context.Context, c *app.RequestContext) {
		ctx = adaptor.InjectContext(ctx, c)
		c.Next(ctx)
	})

	customizedRegister(h)

	// 后台任务: 过期房间清扫与掉线会话回收
	p := provider.Get()
	if err := p.BreakoutService.StartSweeper(context.Background()); err != nil {
		log.Error("启动房间清扫定时器失败: %v", err)
	}
	if err := p.CallService.StartReaper(context.Background()); err != nil {
		log.Error("启动会话回收定时器失败: %v", err)
	}

	h.Spin()
}
