package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/cards-against-humanity/internal/catalog"
	"github.com/palemoky/cards-against-humanity/internal/player"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
	"github.com/palemoky/cards-against-humanity/internal/testutil"
)

type jsonCard struct {
	Text string `json:"text"`
	Pick int    `json:"pick,omitempty"`
}

type jsonPack struct {
	Name     string     `json:"name"`
	Official bool       `json:"official"`
	Black    []jsonCard `json:"black"`
	White    []jsonCard `json:"white"`
}

// newTestCatalog 生成单卡包目录，blackPicks 里的每个值对应一张黑卡的 pick
func newTestCatalog(t *testing.T, blackPicks []int, whiteCount int) *catalog.Catalog {
	t.Helper()

	pack := jsonPack{Name: "测试包"}
	for i, pick := range blackPicks {
		pack.Black = append(pack.Black, jsonCard{Text: fmt.Sprintf("黑卡 %d?", i), Pick: pick})
	}
	for i := 0; i < whiteCount; i++ {
		pack.White = append(pack.White, jsonCard{Text: fmt.Sprintf("白卡 %d", i)})
	}

	data, err := json.Marshal([]jsonPack{pack})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cat, _, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

func newTestStore(t *testing.T, blackPicks []int, whiteCount int) (*Store, *player.Registry, *testutil.RecordingBroadcaster) {
	t.Helper()
	cat := newTestCatalog(t, blackPicks, whiteCount)
	store := NewStore(cat, 10)
	events := testutil.NewRecordingBroadcaster()
	store.SetBroadcaster(events)
	return store, player.NewRegistry(), events
}

// makeRunningGame 创建 n 人游戏并开局
func makeRunningGame(t *testing.T, store *Store, reg *player.Registry, n, goal int) (*Session, []*player.Player) {
	t.Helper()

	players := make([]*player.Player, n)
	for i := range players {
		players[i] = reg.Create(fmt.Sprintf("玩家%d", i))
	}

	s, err := store.Create(players[0], nil, goal)
	require.NoError(t, err)
	for _, p := range players[1:] {
		require.NoError(t, store.Join(s, p))
	}
	require.NoError(t, store.Start(s))
	return s, players
}

// czarAndOthers 返回当前裁判和其余玩家
func czarAndOthers(s *Session, players []*player.Player) (*player.Player, []*player.Player) {
	czarID := s.state.Czar.ID
	var czar *player.Player
	var others []*player.Player
	for _, p := range players {
		if p.ID == czarID {
			czar = p
		} else {
			others = append(others, p)
		}
	}
	return czar, others
}

func TestCreateGame(t *testing.T) {
	store, reg, events := newTestStore(t, []int{1, 1, 1}, 30)
	owner := reg.Create("Alice")

	s, err := store.Create(owner, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, owner.ID, s.Owner.ID)
	require.Len(t, s.Players, 1, "房主应自动加入")
	assert.Equal(t, 10, s.Goal, "未指定目标分时使用默认值")
	assert.False(t, s.Running)

	got, ok := store.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	assert.Len(t, events.MessagesOfType(protocol.MsgGameCreated), 1)
}

func TestCreateGameMonotonicIDs(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1}, 30)
	owner := reg.Create("Alice")

	s1, err := store.Create(owner, nil, 0)
	require.NoError(t, err)
	s2, err := store.Create(owner, nil, 0)
	require.NoError(t, err)
	require.NoError(t, store.Delete(s2.ID))
	s3, err := store.Create(owner, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, s1.ID+1, s2.ID)
	assert.Equal(t, s2.ID+1, s3.ID, "删除后的 ID 不应复用")
}

func TestCreateGameNoBlackCards(t *testing.T) {
	store, reg, _ := newTestStore(t, nil, 30)
	owner := reg.Create("Alice")

	_, err := store.Create(owner, nil, 0)
	assert.ErrorIs(t, err, ErrNoBlackCards)
}

func TestCreateGameNotEnoughWhiteCards(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1}, HandSize-1)
	owner := reg.Create("Alice")

	_, err := store.Create(owner, nil, 0)
	assert.ErrorIs(t, err, ErrNotEnoughWhiteCards)
}

func TestCreateGameUnknownPacksIgnored(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1}, 30)
	owner := reg.Create("Alice")

	s, err := store.Create(owner, []int{0, 99}, 0)
	require.NoError(t, err)
	assert.Len(t, s.Packs, 1)
}

func TestJoinGame(t *testing.T) {
	store, reg, events := newTestStore(t, []int{1}, 30)
	alice, bob := reg.Create("Alice"), reg.Create("Bob")

	s, err := store.Create(alice, nil, 0)
	require.NoError(t, err)

	require.NoError(t, store.Join(s, bob))
	assert.Len(t, s.Players, 2)

	assert.ErrorIs(t, store.Join(s, bob), ErrAlreadyMember)
	assert.Len(t, events.MessagesOfType(protocol.MsgPlayerJoined), 1)
}

func TestJoinGameCapacity(t *testing.T) {
	// 25 张白卡只够两人各摸 10 张，第三人必须被拒
	store, reg, _ := newTestStore(t, []int{1}, 25)
	players := []*player.Player{reg.Create("A"), reg.Create("B"), reg.Create("C")}

	s, err := store.Create(players[0], nil, 0)
	require.NoError(t, err)
	require.NoError(t, store.Join(s, players[1]))
	assert.ErrorIs(t, store.Join(s, players[2]), ErrNotEnoughWhiteCards)
}

func TestJoinRunningGame(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1}, 40)
	s, _ := makeRunningGame(t, store, reg, 2, 5)

	late := reg.Create("迟到者")
	assert.ErrorIs(t, store.Join(s, late), ErrGameRunning)
}

func TestStartDealsFullHands(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1, 1}, 50)
	s, players := makeRunningGame(t, store, reg, 3, 5)

	require.True(t, s.Running)
	require.NotNil(t, s.state)
	assert.Equal(t, 2, s.state.WaitingFor)
	assert.Equal(t, []int{0, 0, 0}, s.state.Points)

	// 手牌满编、两两不重、且与白牌堆无交集
	seen := make(map[int]bool)
	for _, p := range players {
		hand, err := store.GetWhiteCards(s, p)
		require.NoError(t, err)
		require.Len(t, hand, HandSize)
		for _, card := range hand {
			assert.False(t, seen[card.ID], "卡牌 %d 出现在多处", card.ID)
			seen[card.ID] = true
		}
	}
	for _, card := range s.state.WhitePile {
		assert.False(t, seen[card.ID], "牌堆中的卡 %d 仍在手牌里", card.ID)
	}
	assert.Len(t, s.state.WhitePile, 50-3*HandSize)
}

func TestStartTwice(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1}, 40)
	s, _ := makeRunningGame(t, store, reg, 2, 5)

	assert.ErrorIs(t, store.Start(s), ErrGameAlreadyRunning)
}

func TestGetWhiteCardsNotInGame(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1}, 40)
	s, _ := makeRunningGame(t, store, reg, 2, 5)

	outsider := reg.Create("路人")
	_, err := store.GetWhiteCards(s, outsider)
	assert.ErrorIs(t, err, ErrNotInGame)
}

func TestOfferMovesCardsOutOfHand(t *testing.T) {
	store, reg, events := newTestStore(t, []int{1, 1}, 40)
	s, players := makeRunningGame(t, store, reg, 2, 5)
	_, others := czarAndOthers(s, players)

	p := others[0]
	hand, err := store.GetWhiteCards(s, p)
	require.NoError(t, err)

	require.NoError(t, store.Offer(s, p, hand[:1]))

	after, err := store.GetWhiteCards(s, p)
	require.NoError(t, err)
	assert.Len(t, after, HandSize-1)
	for _, card := range after {
		assert.NotEqual(t, hand[0].ID, card.ID)
	}
	assert.Equal(t, 0, s.state.WaitingFor)
	assert.Len(t, events.MessagesOfType(protocol.MsgOfferSubmitted), 1)
}

func TestOfferTwiceLeavesStateUnchanged(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1}, 60)
	s, players := makeRunningGame(t, store, reg, 3, 5)
	_, others := czarAndOthers(s, players)

	p := others[0]
	hand, err := store.GetWhiteCards(s, p)
	require.NoError(t, err)
	require.NoError(t, store.Offer(s, p, hand[:1]))

	waitingBefore := s.state.WaitingFor
	handBefore, _ := store.GetWhiteCards(s, p)

	assert.ErrorIs(t, store.Offer(s, p, hand[1:2]), ErrAlreadyOffered)

	handAfter, _ := store.GetWhiteCards(s, p)
	assert.Equal(t, handBefore, handAfter, "重复提交不应改变手牌")
	assert.Equal(t, waitingBefore, s.state.WaitingFor)
}

func TestOfferValidation(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1}, 60)
	s, players := makeRunningGame(t, store, reg, 3, 5)
	czar, others := czarAndOthers(s, players)

	czarHand, err := store.GetWhiteCards(s, czar)
	require.NoError(t, err)
	assert.ErrorIs(t, store.Offer(s, czar, czarHand[:1]), ErrCzarCannotOffer)

	p := others[0]
	hand, err := store.GetWhiteCards(s, p)
	require.NoError(t, err)
	assert.ErrorIs(t, store.Offer(s, p, hand[:2]), ErrWrongCardCount)
	assert.ErrorIs(t, store.Offer(s, p, nil), ErrWrongCardCount)

	// 别人的手牌不能当自己的提交
	otherHand, err := store.GetWhiteCards(s, others[1])
	require.NoError(t, err)
	assert.ErrorIs(t, store.Offer(s, p, otherHand[:1]), ErrCardNotInHand)
}

func TestOfferDuplicateCardRejected(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{2, 2}, 60)
	s, players := makeRunningGame(t, store, reg, 2, 5)
	_, others := czarAndOthers(s, players)

	p := others[0]
	hand, err := store.GetWhiteCards(s, p)
	require.NoError(t, err)

	// pick 为 2 的黑卡不接受同一张白卡重复提交
	err = store.Offer(s, p, []catalog.Card{hand[0], hand[0]})
	assert.ErrorIs(t, err, ErrCardNotInHand)
}

func TestGetOffersVisibility(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1}, 60)
	s, players := makeRunningGame(t, store, reg, 3, 5)
	czar, others := czarAndOthers(s, players)

	// 非成员拿到空列表而不是错误
	outsider := reg.Create("路人")
	offers, err := store.GetOffers(s, outsider)
	require.NoError(t, err)
	assert.Empty(t, offers)

	hand0, _ := store.GetWhiteCards(s, others[0])
	require.NoError(t, store.Offer(s, others[0], hand0[:1]))

	// 还有人没提交：每个成员只看到自己的槽位
	offers, err = store.GetOffers(s, others[0])
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, hand0[0].ID, offers[0][0].ID)

	offers, err = store.GetOffers(s, others[1])
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Empty(t, offers[0])

	offers, err = store.GetOffers(s, czar)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Empty(t, offers[0])

	hand1, _ := store.GetWhiteCards(s, others[1])
	require.NoError(t, store.Offer(s, others[1], hand1[:1]))

	// 全部提交后裁判能看到除自己外的所有答案
	offers, err = store.GetOffers(s, czar)
	require.NoError(t, err)
	assert.Len(t, offers, 2)
}

func TestAcceptOfferOrderInsensitive(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{2, 2}, 60)
	s, players := makeRunningGame(t, store, reg, 2, 5)
	czar, others := czarAndOthers(s, players)

	p := others[0]
	hand, err := store.GetWhiteCards(s, p)
	require.NoError(t, err)
	require.NoError(t, store.Offer(s, p, []catalog.Card{hand[0], hand[1]}))

	idx := s.memberIndexLocked(p)
	// 逆序提交同一组卡，匹配应当成功
	err = store.AcceptOffer(s, czar, []catalog.Card{hand[1], hand[0]})
	require.NoError(t, err)
	assert.Equal(t, 1, s.state.Points[idx])
}

func TestAcceptOfferMismatch(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1}, 60)
	s, players := makeRunningGame(t, store, reg, 2, 5)
	czar, others := czarAndOthers(s, players)

	p := others[0]
	hand, err := store.GetWhiteCards(s, p)
	require.NoError(t, err)
	require.NoError(t, store.Offer(s, p, hand[:1]))

	czarBefore := s.state.Czar.ID
	pointsBefore := make([]int, len(s.state.Points))
	copy(pointsBefore, s.state.Points)

	// 提交一张没人给出的卡
	err = store.AcceptOffer(s, czar, hand[1:2])
	assert.ErrorIs(t, err, ErrOfferNotFound)
	assert.Equal(t, pointsBefore, s.state.Points, "匹配失败不应改变比分")
	assert.Equal(t, czarBefore, s.state.Czar.ID, "匹配失败不应推进回合")
}

func TestAcceptOfferNotCzar(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1}, 60)
	s, players := makeRunningGame(t, store, reg, 3, 5)
	_, others := czarAndOthers(s, players)

	hand, _ := store.GetWhiteCards(s, others[0])
	require.NoError(t, store.Offer(s, others[0], hand[:1]))
	assert.ErrorIs(t, store.AcceptOffer(s, others[1], hand[:1]), ErrNotCzar)
}

// playRound 让所有非裁判玩家各交一张卡，由裁判接受指定玩家的答案
func playRound(t *testing.T, store *Store, s *Session, players []*player.Player, winnerID int) {
	t.Helper()
	czar, others := czarAndOthers(s, players)

	var winning []catalog.Card
	for _, p := range others {
		hand, err := store.GetWhiteCards(s, p)
		require.NoError(t, err)
		require.NoError(t, store.Offer(s, p, hand[:1]))
		if p.ID == winnerID {
			winning = hand[:1]
		}
	}
	require.NotNil(t, winning, "胜者必须是非裁判玩家")
	require.NoError(t, store.AcceptOffer(s, czar, winning))
}

func TestRoundResolutionAndPoints(t *testing.T) {
	store, reg, events := newTestStore(t, []int{1, 1, 1}, 80)
	s, players := makeRunningGame(t, store, reg, 3, 5)
	_, others := czarAndOthers(s, players)

	playRound(t, store, s, players, others[0].ID)

	results := events.MessagesOfType(protocol.MsgRoundResult)
	require.Len(t, results, 1)
	payload, err := protocol.ParsePayload[protocol.RoundResultPayload](results[0])
	require.NoError(t, err)
	assert.Equal(t, others[0].ID, payload.Winner.ID)
	assert.Len(t, payload.Points, len(players), "比分向量长度必须等于玩家数")

	// 新一轮已经开始：答案清空、手牌补满
	require.True(t, s.Running)
	assert.Equal(t, len(players)-1, s.state.WaitingFor)
	for _, p := range players {
		hand, err := store.GetWhiteCards(s, p)
		require.NoError(t, err)
		assert.Len(t, hand, HandSize)
	}
}

func TestCzarRotationFair(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1, 1}, 200)
	s, players := makeRunningGame(t, store, reg, 3, 100)

	const rounds = 9
	czarCounts := make(map[int]int)
	for i := 0; i < rounds; i++ {
		czar, others := czarAndOthers(s, players)
		czarCounts[czar.ID]++

		// 每个完整轮换周期内人人当且仅当一次裁判
		if (i+1)%len(players) == 0 {
			for _, p := range players {
				assert.Equal(t, (i+1)/len(players), czarCounts[p.ID])
			}
		}
		playRound(t, store, s, players, others[0].ID)
	}
	for _, p := range players {
		assert.Equal(t, rounds/len(players), czarCounts[p.ID])
	}
}

func TestWhitePileRebuildExcludesHands(t *testing.T) {
	// 25 张白卡供两人游戏：几轮之后牌堆耗尽，必须用不在手牌里的卡重建
	store, reg, _ := newTestStore(t, []int{1, 1}, 25)
	s, players := makeRunningGame(t, store, reg, 2, 100)

	for i := 0; i < 8; i++ {
		_, others := czarAndOthers(s, players)
		playRound(t, store, s, players, others[0].ID)

		inHands := make(map[int]bool)
		for _, hand := range s.state.Hands {
			require.Len(t, hand, HandSize)
			for _, card := range hand {
				assert.False(t, inHands[card.ID], "卡牌 %d 同时出现在两手牌中", card.ID)
				inHands[card.ID] = true
			}
		}
		for _, card := range s.state.WhitePile {
			assert.False(t, inHands[card.ID], "牌堆中的卡 %d 仍在手牌里", card.ID)
		}
	}
}

func TestBlackPileRebuildWhenExhausted(t *testing.T) {
	// 只有两张黑卡，打三轮必然触发黑牌堆重建
	store, reg, _ := newTestStore(t, []int{1, 1}, 60)
	s, players := makeRunningGame(t, store, reg, 2, 100)

	for i := 0; i < 3; i++ {
		_, others := czarAndOthers(s, players)
		playRound(t, store, s, players, others[0].ID)
		require.True(t, s.Running)
		assert.NotEmpty(t, s.state.CurrentBlack.Text)
	}
}

func TestGoalReachedEndsGame(t *testing.T) {
	store, reg, events := newTestStore(t, []int{1, 1}, 60)
	scores := &testutil.MockScoreRecorder{}
	recorded := make(chan protocol.PlayerInfo, 4)
	scores.On("RecordGameResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			recorded <- args.Get(1).(protocol.PlayerInfo)
		})
	store.SetScoreRecorder(scores)

	s, players := makeRunningGame(t, store, reg, 2, 1)
	_, others := czarAndOthers(s, players)
	winner := others[0]

	playRound(t, store, s, players, winner.ID)

	assert.False(t, s.Running)
	assert.Nil(t, s.state)
	require.NotNil(t, s.Winner)
	assert.Equal(t, winner.ID, s.Winner.ID)

	overs := events.MessagesOfType(protocol.MsgGameOver)
	require.Len(t, overs, 1)
	payload, err := protocol.ParsePayload[protocol.GameOverPayload](overs[0])
	require.NoError(t, err)
	assert.Equal(t, winner.ID, payload.Winner.ID)

	// 每位玩家的战绩都被异步记录
	for i := 0; i < len(players); i++ {
		select {
		case <-recorded:
		case <-time.After(time.Second):
			t.Fatal("战绩记录超时")
		}
	}
	scores.AssertNumberOfCalls(t, "RecordGameResult", len(players))
}

func TestLeaveEndsRunningGame(t *testing.T) {
	store, reg, events := newTestStore(t, []int{1, 1}, 60)
	s, players := makeRunningGame(t, store, reg, 3, 5)

	require.NoError(t, store.Leave(s, players[1]))

	assert.False(t, s.Running, "有人离开时对局立即终止")
	assert.Nil(t, s.Winner, "中途终止不产生胜者")
	assert.Len(t, s.Players, 2)
	assert.Len(t, events.MessagesOfType(protocol.MsgGameEnded), 1)

	assert.ErrorIs(t, store.Leave(s, players[1]), ErrNotMember)
}

func TestLeaveTransfersOwnership(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1}, 60)
	alice, bob := reg.Create("Alice"), reg.Create("Bob")

	s, err := store.Create(alice, nil, 0)
	require.NoError(t, err)
	require.NoError(t, store.Join(s, bob))
	require.NoError(t, store.Leave(s, alice))

	assert.Equal(t, bob.ID, s.Owner.ID, "房主离开后移交给最早加入的成员")
}

func TestLastPlayerLeavingDeletesGame(t *testing.T) {
	store, reg, events := newTestStore(t, []int{1}, 30)
	alice := reg.Create("Alice")

	s, err := store.Create(alice, nil, 0)
	require.NoError(t, err)
	require.NoError(t, store.Leave(s, alice))

	_, ok := store.Get(s.ID)
	assert.False(t, ok, "空游戏应随最后一人离开而删除")
	assert.Len(t, events.MessagesOfType(protocol.MsgGameDeleted), 1)

	// 并发窗口里拿到旧指针的加入请求也要被拒绝
	bob := reg.Create("Bob")
	assert.ErrorIs(t, store.Join(s, bob), ErrGameNotFound)
}

func TestDeleteGame(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1}, 60)
	s, _ := makeRunningGame(t, store, reg, 2, 5)

	assert.ErrorIs(t, store.Delete(s.ID), ErrGameRunning)
	require.NoError(t, store.End(s))
	require.NoError(t, store.Delete(s.ID))
	assert.ErrorIs(t, store.Delete(s.ID), ErrGameNotFound)
}

func TestEndGameWithoutWinner(t *testing.T) {
	store, reg, events := newTestStore(t, []int{1, 1}, 60)
	s, _ := makeRunningGame(t, store, reg, 2, 5)

	require.NoError(t, store.End(s))
	assert.False(t, s.Running)
	assert.Nil(t, s.Winner)
	assert.Len(t, events.MessagesOfType(protocol.MsgGameEnded), 1)

	// 重复结束是幂等的
	require.NoError(t, store.End(s))
	assert.Len(t, events.MessagesOfType(protocol.MsgGameEnded), 1)
}

func TestIsPlayerInGame(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1}, 60)
	alice, bob := reg.Create("Alice"), reg.Create("Bob")

	s, err := store.Create(alice, nil, 0)
	require.NoError(t, err)
	require.NoError(t, store.Join(s, bob))

	assert.False(t, store.IsPlayerInGame(alice), "未开局不算在游戏中")
	require.NoError(t, store.Start(s))
	assert.True(t, store.IsPlayerInGame(alice))
	assert.Equal(t, 1, store.RunningCount())

	require.NoError(t, store.End(s))
	assert.False(t, store.IsPlayerInGame(alice))
	assert.Equal(t, 0, store.RunningCount())
}

func TestSessionInfoHidesInternalState(t *testing.T) {
	store, reg, _ := newTestStore(t, []int{1, 1}, 60)
	s, players := makeRunningGame(t, store, reg, 2, 5)

	info := s.Info()
	assert.Equal(t, s.ID, info.ID)
	assert.True(t, info.Running)
	assert.Len(t, info.Players, 2)

	state, ok := s.StateInfo()
	require.True(t, ok)
	assert.Len(t, state.Points, len(players))
	assert.Equal(t, 1, state.WaitingFor)
	assert.NotEmpty(t, state.CurrentBlackCard.Text)

	require.NoError(t, store.End(s))
	_, ok = s.StateInfo()
	assert.False(t, ok, "未开局时不暴露回合状态")
}
