package game

import (
	"sync"

	"github.com/palemoky/cards-against-humanity/internal/catalog"
	"github.com/palemoky/cards-against-humanity/internal/player"
)

// HandSize 每位玩家补满后的手牌数
const HandSize = 10

// Session 一局游戏，持有成员、卡包选择和进行中的回合状态
type Session struct {
	ID      int
	Owner   *player.Player
	Players []*player.Player
	Packs   []*catalog.Pack
	Goal    int
	Running bool
	Winner  *player.Player

	state   *TurnState
	removed bool // 已从 Store 移除，拒绝后续加入
	mu      sync.RWMutex
}

// TurnState 回合状态，仅在 Running 期间存在
type TurnState struct {
	Czar         *player.Player
	Rotation     []*player.Player // 裁判轮换队列，队首出任下一轮裁判
	BlackPile    []catalog.Card
	WhitePile    []catalog.Card
	CurrentBlack catalog.Card
	Hands        [][]catalog.Card // 按 Players 下标对齐
	Offers       [][]catalog.Card
	Points       []int
	WaitingFor   int // 本轮尚未提交答案的玩家数
}

// memberIndexLocked 返回玩家在成员列表中的下标，不在则返回 -1
func (s *Session) memberIndexLocked(p *player.Player) int {
	for i, member := range s.Players {
		if member.ID == p.ID {
			return i
		}
	}
	return -1
}

// isPlayerInGameLocked 玩家是进行中游戏的成员
func (s *Session) isPlayerInGameLocked(p *player.Player) bool {
	return s.Running && s.memberIndexLocked(p) >= 0
}

// memberIDsLocked 广播用的成员 ID 列表
func (s *Session) memberIDsLocked() []int {
	ids := make([]int, len(s.Players))
	for i, p := range s.Players {
		ids[i] = p.ID
	}
	return ids
}

// whiteCardCountLocked 所选卡包的白卡总数
func (s *Session) whiteCardCountLocked() int {
	count := 0
	for _, pack := range s.Packs {
		count += pack.WhiteCardCount()
	}
	return count
}
