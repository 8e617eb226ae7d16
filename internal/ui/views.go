package ui

import (
	"fmt"
	"strings"
)

func (m *Model) View() string {
	var b strings.Builder

	switch m.phase {
	case PhaseName:
		b.WriteString(titleStyle("🃏 卡牌对战"))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
	case PhaseLobby:
		b.WriteString(m.lobbyView())
	case PhaseGame:
		b.WriteString(m.gameView())
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + statusStyle.Render(m.statusMsg))
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("✗ "+m.errMsg))
	}
	if m.latency > 0 {
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("延迟: %dms", m.latency)))
	}

	return docStyle.Render(b.String())
}

func (m *Model) lobbyView() string {
	var b strings.Builder
	b.WriteString(titleStyle("🏠 大厅"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  (%s)\n\n", m.client.Player.Name)))

	if len(m.games) == 0 {
		b.WriteString(dimStyle.Render("暂无游戏，按 n 创建一个\n"))
	}
	for i, g := range m.games {
		line := fmt.Sprintf("游戏 #%d  房主: %s  玩家: %d  目标分: %d", g.ID, g.Owner.Name, len(g.Players), g.Goal)
		if g.Running {
			line += "  [进行中]"
		}
		if i == m.selectedIdx {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(promptStyle.Render(dimStyle.Render("↑/↓ 选择 · enter 加入 · n 新建 · r 刷新 · q 退出")))
	return b.String()
}

func (m *Model) gameView() string {
	var b strings.Builder
	g := m.current.Game

	b.WriteString(titleStyle(fmt.Sprintf("🎮 游戏 #%d", g.ID)))
	b.WriteString("\n\n")

	// 玩家与比分
	for i, p := range g.Players {
		marker := "  "
		if p.ID == g.Owner.ID {
			marker = OwnerIcon + " "
		}
		score := ""
		if m.current.State != nil && i < len(m.current.State.Points) {
			score = fmt.Sprintf("  %d 分", m.current.State.Points[i])
		}
		czar := ""
		if m.current.State != nil && m.current.State.Czar.ID == p.ID {
			czar = "  " + CzarIcon + " 裁判"
		}
		winner := ""
		if g.Winner != nil && g.Winner.ID == p.ID {
			winner = "  " + WinnerIcon
		}
		b.WriteString(fmt.Sprintf("%s%s%s%s%s\n", marker, p.Name, score, czar, winner))
	}
	b.WriteString("\n")

	switch {
	case !g.Running && g.Winner != nil:
		b.WriteString(statusStyle.Render(WinnerIcon+" 胜者: "+g.Winner.Name) + "\n")
	case !g.Running:
		b.WriteString(dimStyle.Render("等待开始...") + "\n")
		if m.isOwner() {
			b.WriteString(dimStyle.Render("按 s 开始游戏") + "\n")
		}
	default:
		b.WriteString(m.roundView())
	}

	b.WriteString(promptStyle.Render(dimStyle.Render("↑/↓ 移动 · 空格 选卡 · enter 确认 · o 刷新 · l 离开")))
	return b.String()
}

func (m *Model) roundView() string {
	var b strings.Builder
	state := m.current.State

	b.WriteString(blackCardBox.Render(fmt.Sprintf("%s  [选 %d 张]", state.CurrentBlackCard.Text, state.CurrentBlackCard.Pick)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("等待 %d 人提交\n\n", state.WaitingFor)))

	if m.isCzar() {
		if len(m.offers) == 0 {
			b.WriteString(dimStyle.Render("还没有可揭晓的答案...\n"))
			return b.String()
		}
		b.WriteString("已提交的答案:\n")
		for i, offer := range m.offers {
			texts := make([]string, len(offer))
			for j, card := range offer {
				texts[j] = card.Text
			}
			line := whiteCardBox.Render(strings.Join(texts, " / "))
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString("你的手牌:\n")
	selected := make(map[int]int, len(m.selected))
	for order, id := range m.selected {
		selected[id] = order + 1
	}
	for i, card := range m.hand {
		prefix := "  "
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		mark := "   "
		if order, ok := selected[card.ID]; ok {
			mark = selectedStyle.Render(fmt.Sprintf("[%d]", order))
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, mark, card.Text))
	}
	return b.String()
}
