package video

import (
	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/consts"
)

// Picker 按用户角色选择视频供应商
// 学生端走Stream, 导师端走Zego预构建UI
type Picker struct {
	Stream Provider
	Zego   Provider
}

func NewPicker(config *config.Config) *Picker {
	return &Picker{
		Stream: NewStreamProvider(config),
		Zego:   NewZegoProvider(config),
	}
}

func (p *Picker) ForRole(role string) Provider {
	if role == consts.RoleTutor {
		return p.Zego
	}
	return p.Stream
}
