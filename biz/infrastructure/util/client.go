package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"bammbuu-live/biz/infrastructure/config"
	"bammbuu-live/biz/infrastructure/consts"
)

var client *HttpClient

// HttpClient 是一个简单的 HTTP 客户端
type HttpClient struct {
	Client *http.Client
	Config *config.Config
}

// NewHttpClient 创建一个新的 HttpClient 实例
func NewHttpClient() *HttpClient {
	return &HttpClient{
		Client: &http.Client{},
	}
}

func GetHttpClient() *HttpClient {
	if client == nil {
		client = NewHttpClient()
	}
	return client
}

// SendRequest 发送 HTTP 请求
func (c *HttpClient) SendRequest(ctx context.Context, method, url string, headers map[string]string, body interface{}) (map[string]interface{}, error) {
	// 将 body 序列化为 JSON
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("请求体序列化失败: %w", err)
	}

	// 创建新的请求
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	// 设置请求头
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	// 发送请求
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求失败: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("关闭请求失败: %v", closeErr)
		}
	}()

	// 读取响应
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	// 检查响应状态码
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d, response body: %s", resp.StatusCode, responseBody)
	}

	// 反序列化响应体
	var responseMap map[string]interface{}
	if err := json.Unmarshal(responseBody, &responseMap); err != nil {
		return nil, fmt.Errorf("反序列化响应失败: %w", err)
	}

	return responseMap, nil
}

func (c *HttpClient) baseHeaders() map[string]string {
	header := make(map[string]string)
	header["Content-Type"] = consts.ContentTypeJson
	header["Charset"] = consts.CharSetUTF8

	// 如果是测试环境则向测试环境的中台发送请求
	if config.GetConfig().State == "test" {
		header["X-Bb-Env"] = "test"
	}
	return header
}

// SignIn 用于用户登录
func (c *HttpClient) SignIn(ctx context.Context, authType string, authId string, verifyCode *string, password *string) (map[string]interface{}, error) {
	body := make(map[string]interface{})
	body["authType"] = authType
	body["authId"] = authId
	if verifyCode != nil {
		body["verifyCode"] = *verifyCode
	}
	if password != nil {
		body["password"] = *password
	}
	body["appId"] = consts.AppId

	resp, err := c.SendRequest(ctx, consts.Post, config.GetConfig().Api.PlatfromURL+"/sts/sign_in", c.baseHeaders(), body)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SendVerifyCode 发送验证码
func (c *HttpClient) SendVerifyCode(ctx context.Context, authType string, authId string) (map[string]interface{}, error) {
	body := make(map[string]interface{})
	body["authType"] = authType
	body["authId"] = authId

	resp, err := c.SendRequest(ctx, consts.Post, config.GetConfig().Api.PlatfromURL+"/sts/send_verify_code", c.baseHeaders(), body)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GenRecordingSts 获取课程录制存储的临时凭证
func (c *HttpClient) GenRecordingSts(ctx context.Context, path string) (map[string]any, error) {
	body := make(map[string]any)
	body["path"] = path

	URL := config.GetConfig().Api.RecordingURL + "/sts/gen_cos_sts"
	resp, err := c.SendRequest(ctx, consts.Post, URL, c.baseHeaders(), body)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GenSignedUrl 获取加签的上传url
func (c *HttpClient) GenSignedUrl(ctx context.Context, secretId, secretKey string, method string, path string) (map[string]any, error) {
	body := make(map[string]any)
	body["secretId"] = secretId
	body["secretKey"] = secretKey
	body["method"] = method
	body["path"] = path

	URL := config.GetConfig().Api.RecordingURL + "/sts/gen_signed_url"
	resp, err := c.SendRequest(ctx, consts.Post, URL, c.baseHeaders(), body)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
