package service

import (
	"context"
	"time"

	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/plan"
	"bammbuu-live/biz/infrastructure/repository/user"
	"bammbuu-live/biz/infrastructure/util/log"
)

// checkPremiumAccess 会员课程的准入检查
// 有覆盖该课程类型的生效订阅则直接放行; 否则回退到课时,
// 返回useCredit=true表示本次预约需要扣一个课时
func checkPremiumAccess(ctx context.Context, planMapper PlanStore, u *user.User, t consts.ClassType) (useCredit bool, err error) {
	if !t.Premium() {
		return false, nil
	}

	now := time.Now()
	for _, sub := range u.Subscriptions {
		if !sub.Active(now) {
			continue
		}
		p, err := planMapper.FindOneByCode(ctx, sub.PlanCode)
		if err != nil {
			log.CtxError(ctx, "查询订阅套餐失败, code: %s, err: %v", sub.PlanCode, err)
			continue
		}
		if plan.CoversClassType(p, string(t)) {
			return false, nil
		}
	}

	if u.Credits >= 1 {
		return true, nil
	}
	if t == consts.ClassTypeIndividualPremium {
		return false, consts.ErrInsufficientCredit
	}
	return false, consts.ErrSubscriptionRequired
}
