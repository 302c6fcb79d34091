package service

import (
	"context"

	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/plan"
	"bammbuu-live/biz/infrastructure/util/log"

	"github.com/google/wire"
)

type IPlanService interface {
	ListPlans(ctx context.Context, req *live.ListPlansReq) (*live.ListPlansResp, error)
}

type PlanService struct {
	PlanMapper *plan.MySQLMapper
}

var PlanServiceSet = wire.NewSet(
	wire.Struct(new(PlanService), "*"),
	wire.Bind(new(IPlanService), new(*PlanService)),
)

// ListPlans 获取上架的订阅套餐列表
func (s *PlanService) ListPlans(ctx context.Context, req *live.ListPlansReq) (*live.ListPlansResp, error) {
	plans, total, err := s.PlanMapper.ListPlans(ctx)
	if err != nil {
		log.CtxError(ctx, "获取订阅套餐失败: %v", err)
		return nil, consts.ErrGetPlanList
	}

	return &live.ListPlansResp{
		Plans: plans,
		Total: total,
	}, nil
}
