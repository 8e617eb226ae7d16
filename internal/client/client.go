// Package client 游戏服务器的 API 客户端
// 所有操作走 REST 接口，事件通过 WebSocket 推送流接收
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

// APIError 服务端返回的错误
type APIError struct {
	Status  int    // HTTP 状态码
	Code    int    // 协议错误码，可能为 0
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client 游戏客户端
type Client struct {
	BaseURL string // 如 http://localhost:1780
	Player  protocol.PlayerInfo

	httpClient *http.Client

	// 事件流连接，见 pump.go
	conn   *websocket.Conn
	done   chan struct{}
	closed bool
	mu     sync.RWMutex

	// 网络延迟（毫秒）
	Latency int64

	// 回调
	OnMessage       func(*protocol.Message) // 事件回调
	OnError         func(error)             // 错误回调
	OnClose         func()                  // 连接关闭回调
	OnLatencyUpdate func(int64)             // 延迟更新回调
}

// NewClient 创建客户端
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		done: make(chan struct{}),
	}
}

// do 发送 REST 请求并解析响应
// out 为 nil 时丢弃响应体
func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
			Code  int    `json:"code"`
		}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = fmt.Sprintf("请求失败: %s", resp.Status)
		}
		return &APIError{Status: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// feedURL 由 BaseURL 推导事件流地址
func (c *Client) feedURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("不支持的协议: %s", u.Scheme)
	}
	u.Path = "/ws"
	u.RawQuery = fmt.Sprintf("player=%d", c.Player.ID)
	return u.String(), nil
}
