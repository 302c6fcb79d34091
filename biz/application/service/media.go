package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"bammbuu-live/biz/adaptor"
	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/repository/class"
	"bammbuu-live/biz/infrastructure/util"

	"github.com/google/uuid"
	"github.com/google/wire"
)

type IMediaService interface {
	ApplyRecordingUrl(ctx context.Context, req *live.ApplyRecordingUrlReq) (*live.ApplyRecordingUrlResp, error)
}

type MediaService struct {
	ClassMapper *class.MongoMapper
}

var MediaServiceSet = wire.NewSet(
	wire.Struct(new(MediaService), "*"),
	wire.Bind(new(IMediaService), new(*MediaService)),
)

// ApplyRecordingUrl 为课程录制文件申请加签上传url, 仅主持人可操作
func (s *MediaService) ApplyRecordingUrl(ctx context.Context, req *live.ApplyRecordingUrlReq) (*live.ApplyRecordingUrlResp, error) {
	// 获取用户信息
	aUser := adaptor.ExtractUserMeta(ctx)
	if aUser.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	c, err := s.ClassMapper.FindOne(ctx, req.ClassId)
	if err != nil {
		return nil, consts.ErrNotFound
	}
	if c.AdminID != aUser.GetUserId() {
		return nil, consts.ErrNotHost
	}

	// 构造响应
	resp := new(live.ApplyRecordingUrlResp)
	// 获取存储临时凭证
	client := util.GetHttpClient()
	data, err := client.GenRecordingSts(ctx, fmt.Sprintf("recordings_%s/%s/*", config.GetConfig().State, req.ClassId))
	if err != nil {
		return nil, err
	}
	if data["code"].(float64) != 0 {
		return nil, errors.New(data["message"].(string))
	}
	data = data["data"].(map[string]any)

	// 生成加签url
	resp.SessionToken = data["sessionToken"].(string)

	data2, err := client.GenSignedUrl(ctx,
		data["secretId"].(string),
		data["secretKey"].(string),
		http.MethodPut,
		fmt.Sprintf("recordings_%s/%s/%s%s", config.GetConfig().State, req.ClassId, uuid.New().String(), req.GetSuffix()),
	)
	if err != nil || data2["code"].(float64) != 0 {
		return nil, err
	}
	data2 = data2["data"].(map[string]any)

	// 返回响应
	resp.Url = data2["signedUrl"].(string)
	return resp, nil
}
