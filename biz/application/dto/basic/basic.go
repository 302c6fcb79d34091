package basic

type UserMeta struct {
	UserId          string `json:"userId" mapstructure:"userId"`
	AppId           int64  `json:"appId" mapstructure:"appId"`
	DeviceId        string `json:"deviceId" mapstructure:"deviceId"`
	Role            string `json:"role" mapstructure:"role"`
	SessionUserId   string `json:"sessionUserId" mapstructure:"sessionUserId"`
	SessionAppId    int64  `json:"sessionAppId" mapstructure:"sessionAppId"`
	SessionDeviceId string `json:"sessionDeviceId" mapstructure:"sessionDeviceId"`
}

func (m *UserMeta) GetUserId() string {
	if m == nil {
		return ""
	}
	return m.UserId
}

func (m *UserMeta) GetRole() string {
	if m == nil {
		return ""
	}
	return m.Role
}

type PaginationOptions struct {
	Page      *int64 `form:"page" json:"page,omitempty" query:"page"`
	Limit     *int64 `form:"limit" json:"limit,omitempty" query:"limit"`
	Backward  *bool  `form:"backward" json:"backward,omitempty" query:"backward"`
	LastToken *string `form:"lastToken" json:"lastToken,omitempty" query:"lastToken"`
}
