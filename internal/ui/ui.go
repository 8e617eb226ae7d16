package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/cards-against-humanity/internal/client"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
	"github.com/palemoky/cards-against-humanity/internal/sound"
)

// Run 启动终端客户端并阻塞到退出
func Run(serverURL string) error {
	c := client.NewClient(serverURL)

	sounds := sound.NewSoundManager()
	_ = sounds.Init() // 音频初始化失败时静默降级
	defer sounds.Close()

	model := NewModel(c, sounds)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// 事件流推进 UI
	c.OnMessage = func(msg *protocol.Message) {
		p.Send(feedMsg(msg))
	}
	c.OnLatencyUpdate = func(latency int64) {
		p.Send(latencyMsg(latency))
	}

	defer c.CloseFeed()

	_, err := p.Run()
	return err
}
