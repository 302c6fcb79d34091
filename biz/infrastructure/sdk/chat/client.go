package chat

import (
	"context"
	"fmt"
	"time"

	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/consts"
	"bammbuu-live/biz/infrastructure/util"
	"bammbuu-live/biz/infrastructure/util/log"

	"github.com/golang-jwt/jwt/v4"
	"github.com/spf13/cast"
)

// Client Stream Chat 服务端客户端
// 频道按派生id访问, 与视频房间共享身份, 无独立外键
type Client struct {
	cfg  config.Stream
	http *util.HttpClient
}

func NewClient(config *config.Config) *Client {
	return &Client{
		cfg:  config.Stream,
		http: util.GetHttpClient(),
	}
}

// serverToken 服务端token, 带server声明
func (c *Client) serverToken() (string, error) {
	claims := jwt.MapClaims{
		"server": true,
		"iat":    time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.AppSecret))
}

func (c *Client) headers() (map[string]string, error) {
	token, err := c.serverToken()
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Content-Type":     consts.ContentTypeJson,
		"Authorization":    token,
		"stream-auth-type": "jwt",
	}, nil
}

// QueryChannel 按id查询频道是否存在
func (c *Client) QueryChannel(ctx context.Context, channelType, id string) (bool, error) {
	header, err := c.headers()
	if err != nil {
		return false, err
	}

	body := map[string]any{
		"filter_conditions": map[string]any{
			"cid": fmt.Sprintf("%s:%s", channelType, id),
		},
	}
	URL := fmt.Sprintf("%s/channels?api_key=%s", c.cfg.BaseURL, c.cfg.AppKey)
	resp, err := c.http.SendRequest(ctx, consts.Post, URL, header, body)
	if err != nil {
		return false, err
	}

	channels, ok := resp["channels"].([]any)
	if !ok {
		return false, nil
	}
	return len(channels) > 0, nil
}

// CreateChannel 创建频道, 加入者为首位成员
func (c *Client) CreateChannel(ctx context.Context, channelType, id, name, createdBy string, members []string) error {
	header, err := c.headers()
	if err != nil {
		return err
	}

	body := map[string]any{
		"data": map[string]any{
			"name":          name,
			"members":       members,
			"created_by_id": createdBy,
		},
	}
	URL := fmt.Sprintf("%s/channels/%s/%s/query?api_key=%s", c.cfg.BaseURL, channelType, id, c.cfg.AppKey)
	resp, err := c.http.SendRequest(ctx, consts.Post, URL, header, body)
	if err != nil {
		return err
	}
	if resp["channel"] == nil && cast.ToInt(resp["code"]) != 0 {
		return fmt.Errorf("create channel failed: %v", resp)
	}

	log.CtxInfo(ctx, "chat channel created, cid: %s:%s, creator: %s", channelType, id, createdBy)
	return nil
}

// AddMembers 将用户加入已有频道, 重复加入幂等
func (c *Client) AddMembers(ctx context.Context, channelType, id string, members []string) error {
	header, err := c.headers()
	if err != nil {
		return err
	}

	body := map[string]any{
		"add_members": members,
	}
	URL := fmt.Sprintf("%s/channels/%s/%s?api_key=%s", c.cfg.BaseURL, channelType, id, c.cfg.AppKey)
	resp, err := c.http.SendRequest(ctx, consts.Post, URL, header, body)
	if err != nil {
		return err
	}
	if resp["channel"] == nil && cast.ToInt(resp["code"]) != 0 {
		return fmt.Errorf("add members failed: %v", resp)
	}
	return nil
}
