package catalog

// Card 一张卡牌，白卡黑卡共用同一套全局 ID 空间
type Card struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Pack int    `json:"pack"` // 所属卡包 ID
	Pick int    `json:"pick,omitempty"` // 黑卡需要搭配的白卡数量，白卡为 0
}

// Pack 一个卡包，加载后不可变
type Pack struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Official bool   `json:"official"`
	Black    []Card `json:"black"` // 黑卡（题目牌）
	White    []Card `json:"white"` // 白卡（答案牌）
}

// BlackCardCount 卡包中黑卡数量
func (p *Pack) BlackCardCount() int { return len(p.Black) }

// WhiteCardCount 卡包中白卡数量
func (p *Pack) WhiteCardCount() int { return len(p.White) }
