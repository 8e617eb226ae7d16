package game

import (
	"github.com/palemoky/cards-against-humanity/internal/catalog"
	"github.com/palemoky/cards-against-humanity/internal/player"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

// PlayerView 玩家视图
func PlayerView(p *player.Player) protocol.PlayerInfo {
	return protocol.PlayerInfo{ID: p.ID, Name: p.Name}
}

// CardView 卡牌视图
func CardView(c catalog.Card) protocol.CardInfo {
	return protocol.CardInfo{ID: c.ID, Text: c.Text, Pack: c.Pack, Pick: c.Pick}
}

// CardViews 卡牌列表视图
func CardViews(cards []catalog.Card) []protocol.CardInfo {
	views := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		views[i] = CardView(c)
	}
	return views
}

// OfferViews 答案列表视图
func OfferViews(offers [][]catalog.Card) [][]protocol.CardInfo {
	views := make([][]protocol.CardInfo, len(offers))
	for i, offer := range offers {
		views[i] = CardViews(offer)
	}
	return views
}

func (s *Session) gameInfoLocked() protocol.GameInfo {
	players := make([]protocol.PlayerInfo, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerView(p)
	}
	packs := make([]int, len(s.Packs))
	for i, pack := range s.Packs {
		packs[i] = pack.ID
	}
	info := protocol.GameInfo{
		ID:      s.ID,
		Owner:   PlayerView(s.Owner),
		Players: players,
		Running: s.Running,
		Goal:    s.Goal,
		Packs:   packs,
	}
	if s.Winner != nil {
		winner := PlayerView(s.Winner)
		info.Winner = &winner
	}
	return info
}

// Info 游戏信息快照
func (s *Session) Info() protocol.GameInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameInfoLocked()
}

// StateInfo 回合状态公开快照，未开局时返回 false
func (s *Session) StateInfo() (protocol.StateInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.Running || s.state == nil {
		return protocol.StateInfo{}, false
	}
	points := make([]int, len(s.state.Points))
	copy(points, s.state.Points)
	return protocol.StateInfo{
		Czar:             PlayerView(s.state.Czar),
		CurrentBlackCard: CardView(s.state.CurrentBlack),
		Points:           points,
		WaitingFor:       s.state.WaitingFor,
	}, true
}
