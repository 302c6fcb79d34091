package video

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

const (
	streamCallType   = "default"
	streamTokenValid = 2 * time.Hour
)

// StreamProvider Stream Video 适配器
// 服务端负责建会与发token, 媒体传输在SDK内部完成
type StreamProvider struct {
	cfg  config.Stream
	http *util.HttpClient
}

func NewStreamProvider(config *config.Config) *StreamProvider {
	return &StreamProvider{
		cfg:  config.Stream,
		http: util.GetHttpClient(),
	}
}

func (p *StreamProvider) Name() string {
	return "stream"
}

func (p *StreamProvider) AppID() string {
	return p.cfg.AppKey
}

// CreateSession 为指定房间签发token并构造会话
func (p *StreamProvider) CreateSession(ctx context.Context, roomID string, creds Credentials, device DeviceConfig) (Session, error) {
	cid := fmt.Sprintf("%s:%s", streamCallType, roomID)
	expireAt := time.Now().Add(streamTokenValid)

	claims := jwt.MapClaims{
		"user_id":   creds.UserID,
		"iat":       time.Now().Unix(),
		"exp":       expireAt.Unix(),
		"call_cids": []string{cid},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(p.cfg.AppSecret))
	if err != nil {
		return nil, err
	}

	return &streamSession{
		provider: p,
		roomID:   roomID,
		cid:      cid,
		creds:    creds,
		device:   device,
		token:    tokenString,
		expireAt: expireAt.Unix(),
	}, nil
}

type streamSession struct {
	provider *StreamProvider
	roomID   string
	cid      string
	creds    Credentials
	device   DeviceConfig
	token    string
	expireAt int64
	joined   bool
}

func (s *streamSession) RoomID() string {
	return s.roomID
}

func (s *streamSession) Token() string {
	return s.token
}

func (s *streamSession) ExpireAt() int64 {
	return s.expireAt
}

// Join 在服务端get-or-create通话并登记成员
func (s *streamSession) Join(ctx context.Context) error {
	header := map[string]string{
		"Content-Type":     consts.ContentTypeJson,
		"Authorization":    s.token,
		"stream-auth-type": "jwt",
	}
	body := map[string]any{
		"create": true,
		"data": map[string]any{
			"members": []map[string]any{
				{"user_id": s.creds.UserID, "role": s.creds.Role},
			},
			"settings_override": map[string]any{
				"video": map[string]any{
					"camera_default_on": s.device.CameraOn,
					"enabled":           true,
				},
				"audio": map[string]any{
					"mic_default_on": s.device.MicOn,
				},
			},
		},
	}

	URL := fmt.Sprintf("%s/api/v2/video/call/%s/%s?api_key=%s",
		s.provider.cfg.BaseURL, streamCallType, s.roomID, s.provider.cfg.AppKey)
	resp, err := s.provider.http.SendRequest(ctx, consts.Post, URL, header, body)
	if err != nil {
		return err
	}
	if code := cast.ToInt(resp["code"]); code != 0 && resp["call"] == nil {
		return fmt.Errorf("stream join failed: %v", resp)
	}

	s.joined = true
	log.CtxInfo(ctx, "stream join ok, cid: %s, user: %s", s.cid, s.creds.UserID)
	return nil
}

// Leave 成员离开由SDK客户端上报, 服务端只做标记
func (s *streamSession) Leave(ctx context.Context) error {
	if !s.joined {
		return nil
	}
	s.joined = false
	log.CtxInfo(ctx, "stream leave, cid: %s, user: %s", s.cid, s.creds.UserID)
	return nil
}

// Destroy 释放会话句柄, 已加入则先离开
func (s *streamSession) Destroy(ctx context.Context) error {
	if s.joined {
		if err := s.Leave(ctx); err != nil {
			return err
		}
	}
	s.token = ""
	return nil
}
