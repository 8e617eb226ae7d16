package protocol

// 对外数据视图，REST 和 WebSocket 共用
// 引擎内部结构不直接序列化，全部经过这里转换

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CardInfo 卡牌信息
type CardInfo struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Pack int    `json:"pack"`
	Pick int    `json:"pick,omitempty"` // 仅黑卡有意义
}

// PackSummary 卡包摘要（列表接口用）
type PackSummary struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Official       bool   `json:"official"`
	BlackCardCount int    `json:"black_card_count"`
	WhiteCardCount int    `json:"white_card_count"`
}

// PackInfo 卡包详情
type PackInfo struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Official bool       `json:"official"`
	Black    []CardInfo `json:"black"`
	White    []CardInfo `json:"white"`
}

// GameInfo 游戏信息
type GameInfo struct {
	ID      int          `json:"id"`
	Owner   PlayerInfo   `json:"owner"`
	Players []PlayerInfo `json:"players"`
	Running bool         `json:"running"`
	Goal    int          `json:"goal"`
	Packs   []int        `json:"packs"` // 卡包 ID 列表
	Winner  *PlayerInfo  `json:"winner,omitempty"`
}

// StateInfo 回合状态公开视图
// 牌堆、手牌和未揭晓的答案绝不出现在这里
type StateInfo struct {
	Czar             PlayerInfo `json:"czar"`
	CurrentBlackCard CardInfo   `json:"current_black_card"`
	Points           []int      `json:"points"`
	WaitingFor       int        `json:"waiting_for"`
}
