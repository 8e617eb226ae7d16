// Package ui 终端客户端界面
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/cards-against-humanity/internal/client"
	"github.com/palemoky/cards-against-humanity/internal/logger"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
	"github.com/palemoky/cards-against-humanity/internal/sound"
)

// Phase 界面阶段
type Phase int

const (
	PhaseName  Phase = iota // 输入昵称
	PhaseLobby              // 大厅：游戏列表
	PhaseGame               // 对局内
)

// Model 客户端主模型
type Model struct {
	client *client.Client
	sounds *sound.SoundManager

	phase  Phase
	width  int
	height int

	input textinput.Model

	// 大厅
	games       []protocol.GameInfo
	selectedIdx int

	// 对局
	current  *client.GameDetail
	hand     []protocol.CardInfo
	offers   [][]protocol.CardInfo
	cursor   int   // 当前光标位置（手牌或答案列表）
	selected []int // 已选卡牌 ID，按选择顺序

	statusMsg string
	errMsg    string
	latency   int64
}

// --- 消息类型 ---

type feedMsg *protocol.Message

type apiErrMsg struct{ err error }

type registeredMsg struct{}

type gamesMsg []protocol.GameInfo

type gameMsg *client.GameDetail

type handMsg []protocol.CardInfo

type offersMsg [][]protocol.CardInfo

type gameGoneMsg struct{}

type latencyMsg int64

// NewModel 创建主模型
func NewModel(c *client.Client, sounds *sound.SoundManager) *Model {
	input := textinput.New()
	input.Placeholder = "输入昵称后回车..."
	input.CharLimit = 20
	input.Width = 30
	input.Focus()

	return &Model{
		client: c,
		sounds: sounds,
		phase:  PhaseName,
		input:  input,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// --- 命令 ---

func (m *Model) registerCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Register(name); err != nil {
			return apiErrMsg{err}
		}
		if err := m.client.ConnectFeed(); err != nil {
			return apiErrMsg{err}
		}
		return registeredMsg{}
	}
}

func (m *Model) loadGamesCmd() tea.Cmd {
	return func() tea.Msg {
		games, err := m.client.ListGames()
		if err != nil {
			return apiErrMsg{err}
		}
		return gamesMsg(games)
	}
}

func (m *Model) createGameCmd() tea.Cmd {
	return func() tea.Msg {
		detail, err := m.client.CreateGame(nil, 0)
		if err != nil {
			return apiErrMsg{err}
		}
		return gameMsg(detail)
	}
}

func (m *Model) joinGameCmd(gameID int) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.client.JoinGame(gameID)
		if err != nil {
			return apiErrMsg{err}
		}
		return gameMsg(detail)
	}
}

func (m *Model) startGameCmd(gameID int) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.client.StartGame(gameID)
		if err != nil {
			return apiErrMsg{err}
		}
		return gameMsg(detail)
	}
}

func (m *Model) leaveGameCmd(gameID int) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.LeaveGame(gameID); err != nil {
			return apiErrMsg{err}
		}
		return gameGoneMsg{}
	}
}

func (m *Model) refreshGameCmd(gameID int) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.client.GetGame(gameID)
		if err != nil {
			return gameGoneMsg{}
		}
		return gameMsg(detail)
	}
}

func (m *Model) loadHandCmd(gameID int) tea.Cmd {
	return func() tea.Msg {
		hand, err := m.client.GetHand(gameID)
		if err != nil {
			return apiErrMsg{err}
		}
		return handMsg(hand)
	}
}

func (m *Model) loadOffersCmd(gameID int) tea.Cmd {
	return func() tea.Msg {
		offers, err := m.client.GetOffers(gameID)
		if err != nil {
			return apiErrMsg{err}
		}
		return offersMsg(offers)
	}
}

func (m *Model) submitOfferCmd(gameID int, cards []int) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.SubmitOffer(gameID, cards); err != nil {
			return apiErrMsg{err}
		}
		hand, err := m.client.GetHand(gameID)
		if err != nil {
			return apiErrMsg{err}
		}
		return handMsg(hand)
	}
}

func (m *Model) acceptOfferCmd(gameID int, cards []int) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.client.AcceptOffer(gameID, cards)
		if err != nil {
			return apiErrMsg{err}
		}
		return gameMsg(detail)
	}
}

// --- 更新 ---

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case apiErrMsg:
		m.errMsg = msg.err.Error()
		return m, nil

	case registeredMsg:
		m.phase = PhaseLobby
		m.errMsg = ""
		m.statusMsg = "欢迎, " + m.client.Player.Name
		return m, m.loadGamesCmd()

	case gamesMsg:
		m.games = msg
		if m.selectedIdx >= len(m.games) {
			m.selectedIdx = 0
		}
		return m, nil

	case gameMsg:
		m.enterGame(msg)
		return m, m.afterGameUpdate()

	case handMsg:
		m.hand = msg
		m.selected = nil
		if m.cursor >= len(m.hand) {
			m.cursor = 0
		}
		return m, nil

	case offersMsg:
		// 收集阶段服务端会回显空槽位，界面上过滤掉
		m.offers = m.offers[:0]
		for _, offer := range msg {
			if len(offer) > 0 {
				m.offers = append(m.offers, offer)
			}
		}
		if m.cursor >= len(m.offers) {
			m.cursor = 0
		}
		return m, nil

	case gameGoneMsg:
		m.leaveGameState()
		return m, m.loadGamesCmd()

	case latencyMsg:
		m.latency = int64(msg)
		return m, nil

	case feedMsg:
		return m.handleEvent((*protocol.Message)(msg))
	}

	return m, nil
}

// enterGame 进入或刷新对局视图
func (m *Model) enterGame(detail *client.GameDetail) {
	m.phase = PhaseGame
	m.current = detail
	m.errMsg = ""
}

// afterGameUpdate 对局状态变化后按需拉取手牌或答案
func (m *Model) afterGameUpdate() tea.Cmd {
	if m.current == nil || m.current.State == nil {
		return nil
	}
	gameID := m.current.Game.ID
	if m.isCzar() {
		return m.loadOffersCmd(gameID)
	}
	return m.loadHandCmd(gameID)
}

// leaveGameState 清空对局状态回到大厅
func (m *Model) leaveGameState() {
	m.phase = PhaseLobby
	m.current = nil
	m.hand = nil
	m.offers = nil
	m.selected = nil
	m.cursor = 0
}

// isCzar 自己是否本轮裁判
func (m *Model) isCzar() bool {
	return m.current != nil && m.current.State != nil &&
		m.current.State.Czar.ID == m.client.Player.ID
}

// isOwner 自己是否房主
func (m *Model) isOwner() bool {
	return m.current != nil && m.current.Game.Owner.ID == m.client.Player.ID
}

// handleEvent 处理服务器推送的事件
func (m *Model) handleEvent(msg *protocol.Message) (tea.Model, tea.Cmd) {
	logger.LogInfo("收到事件: %s", msg.Type)

	switch msg.Type {
	case protocol.MsgGameCreated, protocol.MsgGameDeleted:
		if m.phase == PhaseLobby {
			return m, m.loadGamesCmd()
		}
		if msg.Type == protocol.MsgGameDeleted && m.current != nil {
			if payload, err := protocol.ParsePayload[protocol.GameDeletedPayload](msg); err == nil &&
				payload.GameID == m.current.Game.ID {
				m.statusMsg = "游戏已删除"
				return m, func() tea.Msg { return gameGoneMsg{} }
			}
		}

	case protocol.MsgPlayerJoined, protocol.MsgPlayerLeft, protocol.MsgGameStarted, protocol.MsgGameEnded:
		if msg.Type == protocol.MsgGameStarted {
			m.sounds.Play("deal")
		}
		if m.current != nil {
			return m, m.refreshGameCmd(m.current.Game.ID)
		}

	case protocol.MsgRoundStarted:
		m.sounds.Play("deal")
		if payload, err := protocol.ParsePayload[protocol.RoundStartedPayload](msg); err == nil {
			m.statusMsg = "新一轮开始，裁判: " + payload.Czar.Name
		}
		if m.current != nil {
			return m, m.refreshGameCmd(m.current.Game.ID)
		}

	case protocol.MsgOfferSubmitted:
		m.sounds.Play("offer")
		if payload, err := protocol.ParsePayload[protocol.OfferSubmittedPayload](msg); err == nil {
			if payload.WaitingFor == 0 && m.isCzar() {
				m.statusMsg = "所有人已提交，请选出最佳答案"
				return m, m.loadOffersCmd(payload.GameID)
			}
			m.statusMsg = "等待其他玩家提交..."
		}

	case protocol.MsgRoundResult:
		m.sounds.Play("round_win")
		if payload, err := protocol.ParsePayload[protocol.RoundResultPayload](msg); err == nil {
			m.statusMsg = "本轮胜者: " + payload.Winner.Name
		}

	case protocol.MsgGameOver:
		m.sounds.Play("game_over")
		if payload, err := protocol.ParsePayload[protocol.GameOverPayload](msg); err == nil {
			m.statusMsg = WinnerIcon + " 游戏结束，胜者: " + payload.Winner.Name
		}
		if m.current != nil {
			return m, m.refreshGameCmd(m.current.Game.ID)
		}

	case protocol.MsgError:
		if payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg); err == nil {
			m.errMsg = payload.Message
		}
	}

	return m, nil
}
