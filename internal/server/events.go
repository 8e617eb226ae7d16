package server

import (
	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

// 游戏存储通过 game.Broadcaster 接口把事件推到这里，
// 同一玩家的多条连接都会收到

// BroadcastToPlayers 推送消息给指定玩家的所有连接
func (s *Server) BroadcastToPlayers(playerIDs []int, msg *protocol.Message) {
	targets := make(map[int]bool, len(playerIDs))
	for _, id := range playerIDs {
		targets[id] = true
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		if targets[client.Player.ID] {
			client.SendMessage(msg)
		}
	}
}

// BroadcastToAll 推送消息给所有连接
func (s *Server) BroadcastToAll(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		client.SendMessage(msg)
	}
}
