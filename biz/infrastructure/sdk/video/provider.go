package video

import "context"

// Credentials 加入通话的用户身份
type Credentials struct {
	UserID   string
	UserName string
	Role     string
}

// DeviceConfig 入会时的设备与布局配置
type DeviceConfig struct {
	CameraOn bool
	MicOn    bool
	Layout   string
}

// Session 一次通话会话的不透明句柄
// 同一客户端同一时刻只允许持有一个会话, 切换房间前必须先Destroy旧会话
type Session interface {
	RoomID() string
	Token() string
	ExpireAt() int64
	Join(ctx context.Context) error
	Leave(ctx context.Context) error
	Destroy(ctx context.Context) error
}

// Provider 视频通话供应商适配器
// 学生端走Stream, 导师端走Zego, 上层只依赖该接口
type Provider interface {
	Name() string
	AppID() string
	CreateSession(ctx context.Context, roomID string, creds Credentials, device DeviceConfig) (Session, error)
}
