package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.phase {
	case PhaseName:
		return m.handleNameKey(msg)
	case PhaseLobby:
		return m.handleLobbyKey(msg)
	case PhaseGame:
		return m.handleGameKey(msg)
	}
	return m, nil
}

func (m *Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.errMsg = "昵称不能为空"
			return m, nil
		}
		m.errMsg = ""
		return m, m.registerCmd(name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleLobbyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.loadGamesCmd()
	case "n":
		return m, m.createGameCmd()
	case "up", "k":
		if len(m.games) > 0 {
			m.selectedIdx = (m.selectedIdx - 1 + len(m.games)) % len(m.games)
		}
	case "down", "j":
		if len(m.games) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.games)
		}
	case "enter":
		if m.selectedIdx < len(m.games) {
			return m, m.joinGameCmd(m.games[m.selectedIdx].ID)
		}
	}
	return m, nil
}

func (m *Model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.current == nil {
		return m, nil
	}
	gameID := m.current.Game.ID

	switch msg.String() {
	case "l":
		return m, m.leaveGameCmd(gameID)
	case "r":
		return m, m.refreshGameCmd(gameID)
	case "s":
		if m.isOwner() && !m.current.Game.Running {
			return m, m.startGameCmd(gameID)
		}
	case "o":
		if m.current.State != nil {
			if m.isCzar() {
				return m, m.loadOffersCmd(gameID)
			}
			return m, m.loadHandCmd(gameID)
		}
	case "up", "k":
		if n := m.cursorMax(); n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}
	case "down", "j":
		if n := m.cursorMax(); n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case " ":
		m.toggleSelection()
	case "enter":
		return m.confirmSelection(gameID)
	}
	return m, nil
}

// cursorMax 当前列表长度：裁判浏览答案，其他人浏览手牌
func (m *Model) cursorMax() int {
	if m.isCzar() {
		return len(m.offers)
	}
	return len(m.hand)
}

// toggleSelection 非裁判玩家选择/取消手牌
func (m *Model) toggleSelection() {
	if m.isCzar() || m.cursor >= len(m.hand) {
		return
	}
	cardID := m.hand[m.cursor].ID
	for i, id := range m.selected {
		if id == cardID {
			m.selected = append(m.selected[:i], m.selected[i+1:]...)
			return
		}
	}
	m.selected = append(m.selected, cardID)
}

// confirmSelection 裁判接受光标处的答案，其他人提交已选手牌
func (m *Model) confirmSelection(gameID int) (tea.Model, tea.Cmd) {
	if m.isCzar() {
		if m.cursor < len(m.offers) {
			ids := make([]int, len(m.offers[m.cursor]))
			for i, card := range m.offers[m.cursor] {
				ids[i] = card.ID
			}
			return m, m.acceptOfferCmd(gameID, ids)
		}
		return m, nil
	}

	if len(m.selected) == 0 {
		m.errMsg = "先用空格选择要提交的卡牌"
		return m, nil
	}
	return m, m.submitOfferCmd(gameID, m.selected)
}
