package service

import (
	"context"
	"errors"
	"time"

	"bammbuu-live/biz/adaptor"
	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/application/dto/bammbuu/sts"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/user"
	"bammbuu-live/biz/infrastructure/util"

	"github.com/google/wire"
	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IUserService interface {
	SignIn(ctx context.Context, req *live.SignInReq) (*live.SignInResp, error)
	SendVerifyCode(ctx context.Context, req *live.SendVerifyCodeReq) (*live.Response, error)
	GetUserInfo(ctx context.Context, req *live.GetUserInfoReq) (*live.GetUserInfoResp, error)
	UpdateUserInfo(ctx context.Context, req *live.UpdateUserInfoReq) (*live.Response, error)
}

type UserService struct {
	UserMapper *user.MongoMapper
}

var UserServiceSet = wire.NewSet(
	wire.Struct(new(UserService), "*"),
	wire.Bind(new(IUserService), new(*UserService)),
)

// SignIn 登录用户, 首次登录自动注册
func (s *UserService) SignIn(ctx context.Context, req *live.SignInReq) (*live.SignInResp, error) {
	httpClient := util.GetHttpClient()
	signInResponse, err := httpClient.SignIn(ctx, req.AuthType, req.AuthId, req.VerifyCode, req.Password)
	if err != nil || signInResponse["code"].(float64) != 0 {
		return nil, consts.ErrSignIn
	}
	resp := new(sts.SignInResp)
	if dataMap, ok := signInResponse["data"].(map[string]any); ok {
		if err := mapstructure.Decode(dataMap, resp); err != nil {
			return nil, consts.ErrSignIn
		}
	} else {
		return nil, consts.ErrSignIn
	}

	userId := resp.UserId

	u, err := s.UserMapper.FindOne(ctx, userId)
	if errors.Is(err, consts.ErrNotFound) || u == nil {
		// 注册流程
		oid, err2 := primitive.ObjectIDFromHex(userId)
		if err2 != nil {
			return nil, err2
		}
		role := consts.RoleStudent
		if req.Role != nil && *req.Role == consts.RoleTutor {
			role = consts.RoleTutor
		}
		now := time.Now()
		u = &user.User{
			ID:              oid,
			Username:        "未设置用户名",
			Role:            role,
			Credits:         0,
			EnrolledClasses: []string{},
			AdminOfClasses:  []string{},
			JoinedGroups:    []string{},
			CreateTime:      now,
			UpdateTime:      now,
		}
		if req.AuthType == "phone" {
			u.Phone = req.AuthId
		} else if resp.Options != nil {
			u.Phone = *resp.Options
		}

		err = s.UserMapper.Insert(ctx, u)
		if err != nil {
			return nil, consts.ErrSignUp
		}
	} else if err != nil {
		return nil, consts.ErrSignIn
	}

	accessToken, accessExpire, err := adaptor.GenerateJwtToken(userId, u.Role)
	if err != nil {
		return nil, consts.ErrSignIn
	}

	return &live.SignInResp{
		Id:           userId,
		AccessToken:  accessToken,
		AccessExpire: accessExpire,
		Name:         u.Username,
		Role:         u.Role,
	}, nil
}

// SendVerifyCode 发送登录验证码
func (s *UserService) SendVerifyCode(ctx context.Context, req *live.SendVerifyCodeReq) (*live.Response, error) {
	httpClient := util.GetHttpClient()
	resp, err := httpClient.SendVerifyCode(ctx, req.AuthType, req.AuthId)
	if err != nil || resp["code"].(float64) != 0 {
		return nil, consts.ErrCall
	}
	return util.Succeed("验证码已发送")
}

// GetUserInfo 获取用户信息
func (s *UserService) GetUserInfo(ctx context.Context, req *live.GetUserInfoReq) (*live.GetUserInfoResp, error) {
	// 用户信息
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	// 查询用户
	u, err := s.UserMapper.FindOne(ctx, meta.GetUserId())
	if err != nil {
		return &live.GetUserInfoResp{
			Code:    -1,
			Msg:     "查询用户信息失败，请先登录或重试",
			Payload: nil,
		}, nil
	}

	subs := make([]*live.SubscriptionInfo, 0, len(u.Subscriptions))
	for _, sub := range u.Subscriptions {
		subs = append(subs, &live.SubscriptionInfo{
			PlanCode: sub.PlanCode,
			StartAt:  sub.StartAt.Unix(),
			EndAt:    sub.EndAt.Unix(),
		})
	}

	return &live.GetUserInfoResp{
		Code: 0,
		Msg:  "查询成功",
		Payload: &live.UserInfoPayload{
			Name:            u.Username,
			Role:            u.Role,
			Credits:         u.Credits,
			EnrolledClasses: u.EnrolledClasses,
			AdminOfClasses:  u.AdminOfClasses,
			JoinedGroups:    u.JoinedGroups,
			Subscriptions:   subs,
		},
	}, nil
}

// UpdateUserInfo 更新用户信息
func (s *UserService) UpdateUserInfo(ctx context.Context, req *live.UpdateUserInfoReq) (*live.Response, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	u, err := s.UserMapper.FindOne(ctx, userMeta.GetUserId())
	if err != nil {
		return nil, consts.ErrNotFound
	}

	if req.Name != "" {
		u.Username = req.Name
	}
	if req.NativeLanguage != nil {
		u.NativeLanguage = *req.NativeLanguage
	}
	if req.LearningLanguage != nil {
		u.LearningLanguage = *req.LearningLanguage
	}
	if req.Country != nil {
		u.Country = *req.Country
	}

	err = s.UserMapper.Update(ctx, u)
	if err != nil {
		return nil, consts.ErrUpdate
	}

	return util.Succeed("更新成功")
}
