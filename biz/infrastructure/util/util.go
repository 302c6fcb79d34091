package util

import (
	"encoding/json"

	"bammbuu-live/biz/application/dto/bammbuu/live"
)

// JSONF 将对象序列化为字符串, 仅用于日志输出
func JSONF(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Succeed 构造成功响应
func Succeed(msg string) (*live.Response, error) {
	return &live.Response{
		Code: 0,
		Msg:  msg,
	}, nil
}
