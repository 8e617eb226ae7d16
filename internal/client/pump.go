package client

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/cards-against-humanity/internal/logger"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second

	// 心跳发送间隔
	heartbeatInterval = 5 * time.Second
)

// ConnectFeed 建立事件推送连接，必须先 Register
func (c *Client) ConnectFeed() error {
	feedURL, err := c.feedURL()
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(feedURL, nil)
	if err != nil {
		return err
	}
	c.conn = conn

	// 启动读写协程
	go c.readPump()
	go c.writePump()

	return nil
}

// readPump 从服务器读取事件
func (c *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] readPump panic recovered: %v", r)
		}
		c.CloseFeed()
		if c.OnClose != nil {
			c.OnClose()
		}
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				if c.OnError != nil {
					c.OnError(err)
				}
			}
			return
		}

		msg, err := protocol.Decode(message)
		if err != nil {
			log.Printf("消息解析错误: %v", err)
			continue
		}

		// 处理 pong 消息计算延迟
		if msg.Type == protocol.MsgPong {
			if payload, err := protocol.ParsePayload[protocol.PongPayload](msg); err == nil {
				c.Latency = time.Now().UnixMilli() - payload.ClientTimestamp
				if c.OnLatencyUpdate != nil {
					c.OnLatencyUpdate(c.Latency)
				}
			}
			continue
		}

		if c.OnMessage != nil {
			c.OnMessage(msg)
		}
	}
}

// writePump 向服务器写入消息并定期发送心跳
func (c *Client) writePump() {
	ticker := time.NewTicker(heartbeatInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ticker.C:
			ping := protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
				Timestamp: time.Now().UnixMilli(),
			})
			data, err := ping.Encode()
			if err != nil {
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// CloseFeed 关闭事件推送连接
func (c *Client) CloseFeed() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}
