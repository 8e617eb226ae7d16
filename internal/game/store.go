package game

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/palemoky/cards-against-humanity/internal/catalog"
	"github.com/palemoky/cards-against-humanity/internal/player"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

// Broadcaster 向已连接的客户端推送事件
type Broadcaster interface {
	BroadcastToPlayers(playerIDs []int, msg *protocol.Message)
	BroadcastToAll(msg *protocol.Message)
}

// ScoreRecorder 游戏正常结束后记录战绩
type ScoreRecorder interface {
	RecordGameResult(ctx context.Context, p protocol.PlayerInfo, roundsWon int, winner bool) error
}

// Store 管理所有游戏并发安全
type Store struct {
	catalog     *catalog.Catalog
	defaultGoal int

	events Broadcaster
	scores ScoreRecorder

	games  map[int]*Session
	nextID int
	mu     sync.RWMutex
}

// NewStore 创建游戏存储
func NewStore(cat *catalog.Catalog, defaultGoal int) *Store {
	return &Store{
		catalog:     cat,
		defaultGoal: defaultGoal,
		games:       make(map[int]*Session),
	}
}

// SetBroadcaster 注入事件推送器
func (st *Store) SetBroadcaster(b Broadcaster) {
	st.events = b
}

// SetScoreRecorder 注入战绩记录器
func (st *Store) SetScoreRecorder(r ScoreRecorder) {
	st.scores = r
}

func (st *Store) notifyPlayers(playerIDs []int, msg *protocol.Message) {
	if st.events != nil {
		st.events.BroadcastToPlayers(playerIDs, msg)
	}
}

func (st *Store) notifyAll(msg *protocol.Message) {
	if st.events != nil {
		st.events.BroadcastToAll(msg)
	}
}

// Create 创建游戏并让房主自动加入
// packIDs 为空时使用全部卡包，goal 非正数时使用默认目标分
func (st *Store) Create(owner *player.Player, packIDs []int, goal int) (*Session, error) {
	var packs []*catalog.Pack
	if len(packIDs) == 0 {
		packs = st.catalog.GetAllPacks()
	} else {
		for _, id := range packIDs {
			if pack := st.catalog.GetPack(id); pack != nil {
				packs = append(packs, pack)
			}
		}
	}

	if goal <= 0 {
		goal = st.defaultGoal
	}

	s := &Session{
		Owner: owner,
		Packs: packs,
		Goal:  goal,
	}

	blackCount := 0
	for _, pack := range packs {
		blackCount += pack.BlackCardCount()
	}
	if blackCount == 0 {
		return nil, ErrNoBlackCards
	}
	if s.whiteCardCountLocked() < HandSize {
		return nil, ErrNotEnoughWhiteCards
	}

	s.Players = []*player.Player{owner}

	st.mu.Lock()
	s.ID = st.nextID
	st.nextID++
	st.games[s.ID] = s
	st.mu.Unlock()

	log.Printf("🏠 创建游戏 [ID: %d] 房主: %s 目标分: %d", s.ID, owner.Name, goal)
	st.notifyAll(protocol.MustNewMessage(protocol.MsgGameCreated, protocol.GameCreatedPayload{Game: s.Info()}))

	return s, nil
}

// Get 按 ID 获取游戏
func (st *Store) Get(id int) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.games[id]
	return s, ok
}

// GetAll 返回全部游戏，按 ID 升序
func (st *Store) GetAll() []*Session {
	st.mu.RLock()
	games := make([]*Session, 0, len(st.games))
	for _, s := range st.games {
		games = append(games, s)
	}
	st.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games
}

// Delete 删除未开局的游戏
func (st *Store) Delete(id int) error {
	s, ok := st.Get(id)
	if !ok {
		return ErrGameNotFound
	}

	s.mu.Lock()
	if s.Running {
		s.mu.Unlock()
		return ErrGameRunning
	}
	s.removed = true
	s.mu.Unlock()

	st.mu.Lock()
	delete(st.games, id)
	st.mu.Unlock()

	log.Printf("🗑️ 删除游戏 [ID: %d]", id)
	st.notifyAll(protocol.MustNewMessage(protocol.MsgGameDeleted, protocol.GameDeletedPayload{GameID: id}))
	return nil
}

// Join 玩家加入游戏
// 加入前校验白卡容量，保证开局后人人都能摸满手牌
func (st *Store) Join(s *Session, p *player.Player) error {
	s.mu.Lock()
	if s.removed {
		s.mu.Unlock()
		return ErrGameNotFound
	}
	if s.Running {
		s.mu.Unlock()
		return ErrGameRunning
	}
	if s.memberIndexLocked(p) >= 0 {
		s.mu.Unlock()
		return ErrAlreadyMember
	}
	if s.whiteCardCountLocked() < (len(s.Players)+1)*HandSize {
		s.mu.Unlock()
		return ErrNotEnoughWhiteCards
	}

	s.Players = append(s.Players, p)
	memberIDs := s.memberIDsLocked()
	gameID := s.ID
	s.mu.Unlock()

	log.Printf("👤 玩家 %s 加入游戏 [ID: %d]", p.Name, gameID)
	st.notifyPlayers(memberIDs, protocol.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		GameID: gameID,
		Player: PlayerView(p),
	}))
	return nil
}

// Leave 玩家离开游戏
// 进行中的对局会立即终止且不产生胜者，房主离开时移交给最早加入的成员，
// 最后一名成员离开时游戏随之删除
func (st *Store) Leave(s *Session, p *player.Player) error {
	s.mu.Lock()
	idx := s.memberIndexLocked(p)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotMember
	}

	wasRunning := s.Running
	if s.Running {
		st.endGameLocked(s, nil)
	}

	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)

	var newOwner *player.Player
	if len(s.Players) == 0 {
		s.removed = true
	} else if s.Owner.ID == p.ID {
		newOwner = s.Players[0]
		s.Owner = newOwner
	}

	memberIDs := s.memberIDsLocked()
	gameID := s.ID
	empty := s.removed
	s.mu.Unlock()

	log.Printf("👋 玩家 %s 离开游戏 [ID: %d]", p.Name, gameID)

	if wasRunning {
		st.notifyPlayers(append(memberIDs, p.ID), protocol.MustNewMessage(protocol.MsgGameEnded, protocol.GameEndedPayload{GameID: gameID}))
	}

	if empty {
		st.mu.Lock()
		delete(st.games, gameID)
		st.mu.Unlock()
		st.notifyAll(protocol.MustNewMessage(protocol.MsgGameDeleted, protocol.GameDeletedPayload{GameID: gameID}))
		return nil
	}

	payload := protocol.PlayerLeftPayload{GameID: gameID, Player: PlayerView(p)}
	if newOwner != nil {
		owner := PlayerView(newOwner)
		payload.NewOwner = &owner
	}
	st.notifyPlayers(memberIDs, protocol.MustNewMessage(protocol.MsgPlayerLeft, payload))
	return nil
}

// End 房主提前结束对局，不产生胜者
func (st *Store) End(s *Session) error {
	s.mu.Lock()
	if !s.Running {
		s.mu.Unlock()
		return nil
	}
	st.endGameLocked(s, nil)
	memberIDs := s.memberIDsLocked()
	gameID := s.ID
	s.mu.Unlock()

	log.Printf("🛑 游戏被提前结束 [ID: %d]", gameID)
	st.notifyPlayers(memberIDs, protocol.MustNewMessage(protocol.MsgGameEnded, protocol.GameEndedPayload{GameID: gameID}))
	return nil
}

// IsPlayerInGame 玩家是否在任意进行中的游戏里
func (st *Store) IsPlayerInGame(p *player.Player) bool {
	for _, s := range st.GetAll() {
		s.mu.RLock()
		in := s.isPlayerInGameLocked(p)
		s.mu.RUnlock()
		if in {
			return true
		}
	}
	return false
}

// RunningCount 进行中的游戏数，维护模式下用于等待对局收尾
func (st *Store) RunningCount() int {
	count := 0
	for _, s := range st.GetAll() {
		s.mu.RLock()
		if s.Running {
			count++
		}
		s.mu.RUnlock()
	}
	return count
}

// endGameLocked 终止对局并清空回合状态，必须持有 s.mu 写锁
// winner 非 nil 时记入战绩并广播结果
func (st *Store) endGameLocked(s *Session, winner *player.Player) {
	var points []int
	if s.state != nil {
		points = make([]int, len(s.state.Points))
		copy(points, s.state.Points)
	}
	players := make([]*player.Player, len(s.Players))
	copy(players, s.Players)

	s.Running = false
	s.state = nil

	if winner == nil {
		return
	}

	s.Winner = winner
	log.Printf("🏆 游戏结束 [ID: %d] 胜者: %s", s.ID, winner.Name)

	st.notifyPlayers(s.memberIDsLocked(), protocol.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		GameID: s.ID,
		Winner: PlayerView(winner),
	}))

	if st.scores == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for i, p := range players {
			roundsWon := 0
			if i < len(points) {
				roundsWon = points[i]
			}
			if err := st.scores.RecordGameResult(ctx, PlayerView(p), roundsWon, p.ID == winner.ID); err != nil {
				log.Printf("⚠️ 记录玩家 %s 战绩失败: %v", p.Name, err)
			}
		}
	}()
}
