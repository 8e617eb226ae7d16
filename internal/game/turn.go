package game

import (
	"log"
	"math/rand/v2"
	"sort"

	"github.com/palemoky/cards-against-humanity/internal/catalog"
	"github.com/palemoky/cards-against-humanity/internal/player"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

// Start 开始对局：洗出裁判轮换队列、生成牌堆并进入第一轮
func (st *Store) Start(s *Session) error {
	s.mu.Lock()
	if s.Running {
		s.mu.Unlock()
		return ErrGameAlreadyRunning
	}

	n := len(s.Players)
	s.Running = true
	s.Winner = nil
	s.state = &TurnState{
		Rotation:  shuffledPlayers(s.Players),
		BlackPile: buildBlackPile(s.Packs),
		WhitePile: buildWhitePile(s.Packs, nil),
		Hands:     make([][]catalog.Card, n),
		Offers:    make([][]catalog.Card, n),
		Points:    make([]int, n),
	}

	memberIDs := s.memberIDsLocked()
	players := make([]protocol.PlayerInfo, n)
	for i, p := range s.Players {
		players[i] = PlayerView(p)
	}
	gameID, goal := s.ID, s.Goal

	log.Printf("🚀 游戏开始 [ID: %d] 玩家数: %d", gameID, n)
	st.notifyPlayers(memberIDs, protocol.MustNewMessage(protocol.MsgGameStarted, protocol.GameStartedPayload{
		GameID:  gameID,
		Players: players,
		Goal:    goal,
	}))

	st.nextRoundLocked(s)
	s.mu.Unlock()
	return nil
}

// nextRoundLocked 推进到下一轮，必须持有 s.mu 写锁
// 有人达到目标分时结束对局，否则轮换裁判、翻开新黑卡并补满手牌
func (st *Store) nextRoundLocked(s *Session) {
	state := s.state
	for i, points := range state.Points {
		if points == s.Goal {
			st.endGameLocked(s, s.Players[i])
			return
		}
	}

	state.Czar = state.Rotation[0]
	state.Rotation = append(state.Rotation[1:], state.Czar)
	state.WaitingFor = len(s.Players) - 1
	state.Offers = make([][]catalog.Card, len(s.Players))

	if len(state.BlackPile) == 0 {
		state.BlackPile = buildBlackPile(s.Packs)
	}
	state.CurrentBlack, _ = drawCard(&state.BlackPile)

	st.refillHandsLocked(s)

	st.notifyPlayers(s.memberIDsLocked(), protocol.MustNewMessage(protocol.MsgRoundStarted, protocol.RoundStartedPayload{
		GameID:     s.ID,
		Czar:       PlayerView(state.Czar),
		BlackCard:  CardView(state.CurrentBlack),
		WaitingFor: state.WaitingFor,
	}))
}

// refillHandsLocked 把每位玩家的手牌补到 HandSize
// 白牌堆不够补时用不在任何手牌中的白卡重建牌堆
func (st *Store) refillHandsLocked(s *Session) {
	state := s.state

	shortfall := 0
	for _, hand := range state.Hands {
		shortfall += HandSize - len(hand)
	}
	if len(state.WhitePile) < shortfall {
		state.WhitePile = buildWhitePile(s.Packs, state.Hands)
	}

	for i := range state.Hands {
		for len(state.Hands[i]) < HandSize {
			card, ok := drawCard(&state.WhitePile)
			if !ok {
				return
			}
			state.Hands[i] = append(state.Hands[i], card)
		}
	}
}

// GetWhiteCards 返回玩家当前手牌的副本
func (st *Store) GetWhiteCards(s *Session, p *player.Player) ([]catalog.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isPlayerInGameLocked(p) {
		return nil, ErrNotInGame
	}
	if !s.Running {
		return nil, ErrGameNotRunning
	}

	hand := s.state.Hands[s.memberIndexLocked(p)]
	cards := make([]catalog.Card, len(hand))
	copy(cards, hand)
	return cards, nil
}

// Offer 玩家提交答案
// 答案按卡牌 ID 升序存储，提交顺序不影响后续匹配
func (st *Store) Offer(s *Session, p *player.Player, cards []catalog.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isPlayerInGameLocked(p) {
		return ErrNotInGame
	}
	if !s.Running {
		return ErrGameNotRunning
	}

	state := s.state
	idx := s.memberIndexLocked(p)
	if len(state.Offers[idx]) > 0 {
		return ErrAlreadyOffered
	}
	if state.Czar.ID == p.ID {
		return ErrCzarCannotOffer
	}
	if len(cards) != state.CurrentBlack.Pick {
		return ErrWrongCardCount
	}

	// 逐张从手牌副本里匹配，防止重复提交同一张卡
	hand := make([]catalog.Card, len(state.Hands[idx]))
	copy(hand, state.Hands[idx])
	for _, card := range cards {
		found := -1
		for i, held := range hand {
			if held.ID == card.ID {
				found = i
				break
			}
		}
		if found < 0 {
			return ErrCardNotInHand
		}
		hand = append(hand[:found], hand[found+1:]...)
	}

	offer := make([]catalog.Card, len(cards))
	copy(offer, cards)
	sort.Slice(offer, func(i, j int) bool { return offer[i].ID < offer[j].ID })

	state.Hands[idx] = hand
	state.Offers[idx] = offer
	state.WaitingFor--

	st.notifyPlayers(s.memberIDsLocked(), protocol.MustNewMessage(protocol.MsgOfferSubmitted, protocol.OfferSubmittedPayload{
		GameID:     s.ID,
		PlayerID:   p.ID,
		WaitingFor: state.WaitingFor,
	}))
	return nil
}

// GetOffers 查看已提交的答案
// 非成员拿到空列表；还有人没提交时只返回自己的答案；
// 全部提交后返回除裁判外的所有答案，顺序每次随机
func (st *Store) GetOffers(s *Session, p *player.Player) ([][]catalog.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.memberIndexLocked(p)
	if idx < 0 {
		return [][]catalog.Card{}, nil
	}
	if !s.Running {
		return nil, ErrGameNotRunning
	}

	// 收集阶段只回显自己的提交，揭晓前看不到其他人的答案
	state := s.state
	if state.WaitingFor > 0 {
		own := make([]catalog.Card, len(state.Offers[idx]))
		copy(own, state.Offers[idx])
		return [][]catalog.Card{own}, nil
	}

	czarIdx := s.memberIndexLocked(state.Czar)
	offers := make([][]catalog.Card, 0, len(state.Offers))
	for i, offer := range state.Offers {
		if i == czarIdx || len(offer) == 0 {
			continue
		}
		clone := make([]catalog.Card, len(offer))
		copy(clone, offer)
		offers = append(offers, clone)
	}
	rand.Shuffle(len(offers), func(i, j int) {
		offers[i], offers[j] = offers[j], offers[i]
	})
	return offers, nil
}

// AcceptOffer 裁判选出本轮最佳答案
// 按卡牌 ID 集合匹配提交者，加分后立即进入下一轮
func (st *Store) AcceptOffer(s *Session, p *player.Player, cards []catalog.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isPlayerInGameLocked(p) {
		return ErrNotInGame
	}
	if s.state.Czar.ID != p.ID {
		return ErrNotCzar
	}
	if !s.Running {
		return ErrGameNotRunning
	}

	chosen := make([]catalog.Card, len(cards))
	copy(chosen, cards)
	sort.Slice(chosen, func(i, j int) bool { return chosen[i].ID < chosen[j].ID })

	state := s.state
	winnerIdx := -1
	for i, offer := range state.Offers {
		if len(offer) != len(chosen) || len(offer) == 0 {
			continue
		}
		match := true
		for j := range offer {
			if offer[j].ID != chosen[j].ID {
				match = false
				break
			}
		}
		if match {
			winnerIdx = i
			break
		}
	}
	if winnerIdx < 0 {
		return ErrOfferNotFound
	}

	state.Points[winnerIdx]++
	winner := s.Players[winnerIdx]

	points := make([]int, len(state.Points))
	copy(points, state.Points)
	log.Printf("✅ 玩家 %s 赢得本轮 [游戏 ID: %d] 当前 %d 分", winner.Name, s.ID, points[winnerIdx])
	st.notifyPlayers(s.memberIDsLocked(), protocol.MustNewMessage(protocol.MsgRoundResult, protocol.RoundResultPayload{
		GameID: s.ID,
		Winner: PlayerView(winner),
		Points: points,
	}))

	st.nextRoundLocked(s)
	return nil
}
