// Package wechat exchanges a mini-program login code for the user's openid.
package wechat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const code2SessionURL = "https://api.weixin.qq.com/sns/jscode2session"

type Client struct {
	appID     string
	appSecret string
	endpoint  string
	client    *http.Client
}

func NewClient(appID, appSecret string) *Client {
	return &Client{
		appID:     appID,
		appSecret: appSecret,
		endpoint:  code2SessionURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type sessionResponse struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// CodeToOpenID resolves a wx.login() code into a stable openid.
func (c *Client) CodeToOpenID(ctx context.Context, code string) (string, error) {
	if c.appID == "" || c.appSecret == "" {
		return "", errors.New("wechat app credentials are not configured")
	}
	if code == "" {
		return "", errors.New("login code is required")
	}

	q := url.Values{}
	q.Set("appid", c.appID)
	q.Set("secret", c.appSecret)
	q.Set("js_code", code)
	q.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call wechat api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out sessionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("unmarshal wechat response: %w", err)
	}
	if out.ErrCode != 0 {
		return "", fmt.Errorf("wechat api error %d: %s", out.ErrCode, out.ErrMsg)
	}
	if out.OpenID == "" {
		return "", errors.New("wechat api returned empty openid")
	}
	return out.OpenID, nil
}
