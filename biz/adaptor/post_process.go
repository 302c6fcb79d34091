package adaptor

import (
	"context"

	"bammbuu-live/biz/infrastructure/util"
	"bammbuu-live/biz/infrastructure/util/log"

	"github.com/cloudwego/hertz/pkg/app"
	hertz "github.com/cloudwego/hertz/pkg/protocol/consts"
	"google.golang.org/grpc/status"
)

// PostProcess 统一处理响应与错误
// 业务错误通过Errno携带的grpc码转换为响应体中的code
func PostProcess(ctx context.Context, c *app.RequestContext, req, resp any, err error) {
	log.CtxInfo(ctx, "[%s] req=%s, resp=%s, err=%v", string(c.URI().Path()), util.JSONF(req), util.JSONF(resp), err)
	if err == nil {
		c.JSON(hertz.StatusOK, resp)
		return
	}

	s, ok := status.FromError(err)
	if !ok {
		c.JSON(hertz.StatusInternalServerError, map[string]any{
			"code": hertz.StatusInternalServerError,
			"msg":  err.Error(),
		})
		return
	}
	c.JSON(hertz.StatusOK, map[string]any{
		"code": int32(s.Code()),
		"msg":  s.Message(),
	})
}
