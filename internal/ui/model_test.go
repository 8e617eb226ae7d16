package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	apiclient "github.com/palemoky/cards-against-humanity/internal/client"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
	"github.com/palemoky/cards-against-humanity/internal/sound"
)

func newTestModel() *Model {
	c := apiclient.NewClient("http://localhost:1780")
	c.Player = protocol.PlayerInfo{ID: 1, Name: "Alice"}
	return NewModel(c, sound.NewSoundManager())
}

func TestToggleSelectionKeepsOrder(t *testing.T) {
	m := newTestModel()
	m.phase = PhaseGame
	m.current = &apiclient.GameDetail{
		Game:  protocol.GameInfo{ID: 0, Running: true},
		State: &protocol.StateInfo{Czar: protocol.PlayerInfo{ID: 2}},
	}
	m.hand = []protocol.CardInfo{{ID: 10}, {ID: 20}, {ID: 30}}

	m.cursor = 1
	m.toggleSelection()
	m.cursor = 0
	m.toggleSelection()
	assert.Equal(t, []int{20, 10}, m.selected, "选择顺序保留")

	// 再按一次取消
	m.cursor = 1
	m.toggleSelection()
	assert.Equal(t, []int{10}, m.selected)
}

func TestCzarCannotSelectHand(t *testing.T) {
	m := newTestModel()
	m.phase = PhaseGame
	m.current = &apiclient.GameDetail{
		Game:  protocol.GameInfo{ID: 0, Running: true},
		State: &protocol.StateInfo{Czar: protocol.PlayerInfo{ID: 1}},
	}
	m.hand = []protocol.CardInfo{{ID: 10}}

	m.toggleSelection()
	assert.Empty(t, m.selected, "裁判不能选手牌")
}

func TestLobbyNavigationWraps(t *testing.T) {
	m := newTestModel()
	m.phase = PhaseLobby
	m.games = []protocol.GameInfo{{ID: 0}, {ID: 1}, {ID: 2}}

	_, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, m.selectedIdx)
	_, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.selectedIdx)
}

func TestEmptyNameRejected(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("   ")

	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.errMsg)
}
