package apigateway

import (
	"context"
	"net/http"

	"bammbuu-live/biz/adaptor"
	"bammbuu-live/biz/application/dto/bammbuu/live"
	"bammbuu-live/biz/infrastructure/util/log"
	"bammbuu-live/provider"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/protocol/sse"
)

// ---------- 用户 ----------

// SignIn 登录, 首次登录自动注册
func SignIn(ctx context.Context, c *app.RequestContext) {
	var req live.SignInReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.UserService.SignIn(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// SendVerifyCode 发送验证码
func SendVerifyCode(ctx context.Context, c *app.RequestContext) {
	var req live.SendVerifyCodeReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.UserService.SendVerifyCode(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// GetUserInfo 获取用户信息
func GetUserInfo(ctx context.Context, c *app.RequestContext) {
	var req live.GetUserInfoReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.UserService.GetUserInfo(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// UpdateUserInfo 更新用户信息
func UpdateUserInfo(ctx context.Context, c *app.RequestContext) {
	var req live.UpdateUserInfoReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.UserService.UpdateUserInfo(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ---------- 课程 ----------

// CreateClass 创建课程
func CreateClass(ctx context.Context, c *app.RequestContext) {
	var req live.CreateClassReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.ClassService.CreateClass(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// GetClass 获取课程详情
func GetClass(ctx context.Context, c *app.RequestContext) {
	var req live.GetClassReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.ClassService.GetClass(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ListClasses 获取课程列表
func ListClasses(ctx context.Context, c *app.RequestContext) {
	var req live.ListClassesReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.ClassService.ListClasses(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// JoinClass 加入课程
func JoinClass(ctx context.Context, c *app.RequestContext) {
	var req live.JoinClassReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.ClassService.JoinClass(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// LeaveClass 退出课程
func LeaveClass(ctx context.Context, c *app.RequestContext) {
	var req live.LeaveClassReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.ClassService.LeaveClass(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// DeleteClass 删除课程
func DeleteClass(ctx context.Context, c *app.RequestContext) {
	var req live.DeleteClassReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.ClassService.DeleteClass(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ---------- 小组 ----------

// CreateGroup 创建小组
func CreateGroup(ctx context.Context, c *app.RequestContext) {
	var req live.CreateGroupReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.GroupService.CreateGroup(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// GetGroup 获取小组详情
func GetGroup(ctx context.Context, c *app.RequestContext) {
	var req live.GetGroupReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.GroupService.GetGroup(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ListGroups 获取小组列表
func ListGroups(ctx context.Context, c *app.RequestContext) {
	var req live.ListGroupsReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.GroupService.ListGroups(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// JoinGroup 加入小组
func JoinGroup(ctx context.Context, c *app.RequestContext) {
	var req live.JoinGroupReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.GroupService.JoinGroup(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// LeaveGroup 退出小组
func LeaveGroup(ctx context.Context, c *app.RequestContext) {
	var req live.LeaveGroupReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.GroupService.LeaveGroup(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// DeleteGroup 删除小组
func DeleteGroup(ctx context.Context, c *app.RequestContext) {
	var req live.DeleteGroupReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.GroupService.DeleteGroup(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ---------- 分组讨论房间 ----------

// CreateRooms 批量创建分组讨论房间, 仅主持人
func CreateRooms(ctx context.Context, c *app.RequestContext) {
	var req live.CreateRoomsReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.BreakoutService.CreateRooms(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ListRooms 获取课程下的房间列表
func ListRooms(ctx context.Context, c *app.RequestContext) {
	var req live.ListRoomsReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.BreakoutService.ListRooms(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ---------- 通话 ----------

// JoinCall 加入通话, 带roomId时为分组讨论房间
func JoinCall(ctx context.Context, c *app.RequestContext) {
	var req live.JoinCallReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.CallService.JoinCall(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// JoinMainClass 从分组讨论返回主课堂
func JoinMainClass(ctx context.Context, c *app.RequestContext) {
	var req live.JoinMainClassReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.CallService.JoinMainClass(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// LeaveCall 离开通话
func LeaveCall(ctx context.Context, c *app.RequestContext) {
	var req live.LeaveCallReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.CallService.LeaveCall(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// Heartbeat 通话会话心跳, 超时未上报的会话由后台回收
func Heartbeat(ctx context.Context, c *app.RequestContext) {
	p := provider.Get()
	resp, err := p.CallService.Heartbeat(ctx)
	adaptor.PostProcess(ctx, c, nil, resp, err)
}

// WatchRoster 通过SSE推送课程下房间成员的变化
func WatchRoster(ctx context.Context, c *app.RequestContext) {
	var req live.WatchRosterReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}

	c.SetStatusCode(http.StatusOK)
	w := sse.NewWriter(c)

	resultChan := make(chan string, 100)

	go func(ctx context.Context) {
		p := provider.Get()
		defer close(resultChan)
		p.CallService.WatchRoster(ctx, &req, resultChan)
	}(ctx)

	for jsonMessage := range resultChan {
		if err := w.WriteEvent("", "", []byte(jsonMessage)); err != nil {
			log.Error("发送SSE事件失败: %v", err)
			break
		}
	}
}

// ---------- 聊天频道 ----------

// EnsureChannel 获取或创建课程/房间对应的聊天频道
func EnsureChannel(ctx context.Context, c *app.RequestContext) {
	var req live.EnsureChannelReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.ChatService.EnsureChannel(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ---------- 订阅套餐 ----------

// ListPlans 获取订阅套餐列表
func ListPlans(ctx context.Context, c *app.RequestContext) {
	var req live.ListPlansReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.PlanService.ListPlans(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ---------- 课程录制 ----------

// ApplyRecordingUrl 申请课程录制文件的加签上传url
func ApplyRecordingUrl(ctx context.Context, c *app.RequestContext) {
	var req live.ApplyRecordingUrlReq
	if err := c.BindAndValidate(&req); err != nil {
		c.String(consts.StatusBadRequest, err.Error())
		return
	}
	p := provider.Get()
	resp, err := p.MediaService.ApplyRecordingUrl(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}
