package sts

// SignInResp 中台登录接口返回的用户凭证
type SignInResp struct {
	UserId  string  `form:"userId" json:"userId" query:"userId"`
	OpenId  string  `form:"openId" json:"openId" query:"openId"`
	UnionId string  `form:"unionId" json:"unionId" query:"unionId"`
	AppId   string  `form:"appId" json:"appId" query:"appId"`
	Options *string `form:"options" json:"options" query:"options"` // 可选参数
}
