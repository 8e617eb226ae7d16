package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	MsgPing MessageType = "ping" // 心跳 ping
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 大厅相关
	MsgGameCreated MessageType = "game_created" // 新游戏创建
	MsgGameDeleted MessageType = "game_deleted" // 游戏删除

	// 游戏成员
	MsgPlayerJoined MessageType = "player_joined" // 玩家加入
	MsgPlayerLeft   MessageType = "player_left"   // 玩家离开

	// 游戏流程
	MsgGameStarted    MessageType = "game_started"    // 游戏开始
	MsgGameEnded      MessageType = "game_ended"      // 游戏被提前结束
	MsgRoundStarted   MessageType = "round_started"   // 新一轮开始
	MsgOfferSubmitted MessageType = "offer_submitted" // 有玩家提交答案
	MsgRoundResult    MessageType = "round_result"    // 本轮结果
	MsgGameOver       MessageType = "game_over"       // 游戏结束

	// 错误
	MsgError MessageType = "error" // 错误消息
)

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// --- 服务端推送 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ClientID string `json:"client_id"` // 本次连接 ID
	PlayerID int    `json:"player_id"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// GameCreatedPayload 新游戏创建通知
type GameCreatedPayload struct {
	Game GameInfo `json:"game"`
}

// GameDeletedPayload 游戏删除通知
type GameDeletedPayload struct {
	GameID int `json:"game_id"`
}

// PlayerJoinedPayload 玩家加入通知
type PlayerJoinedPayload struct {
	GameID int        `json:"game_id"`
	Player PlayerInfo `json:"player"`
}

// PlayerLeftPayload 玩家离开通知
type PlayerLeftPayload struct {
	GameID   int         `json:"game_id"`
	Player   PlayerInfo  `json:"player"`
	NewOwner *PlayerInfo `json:"new_owner,omitempty"` // 房主转移后的新房主
}

// GameStartedPayload 游戏开始通知
type GameStartedPayload struct {
	GameID  int          `json:"game_id"`
	Players []PlayerInfo `json:"players"`
	Goal    int          `json:"goal"`
}

// GameEndedPayload 游戏被提前结束通知
type GameEndedPayload struct {
	GameID int `json:"game_id"`
}

// RoundStartedPayload 新一轮开始通知
type RoundStartedPayload struct {
	GameID     int        `json:"game_id"`
	Czar       PlayerInfo `json:"czar"`
	BlackCard  CardInfo   `json:"black_card"`
	WaitingFor int        `json:"waiting_for"` // 尚未提交答案的玩家数
}

// OfferSubmittedPayload 答案提交通知
// 只携带计数，不暴露提交者的卡牌内容
type OfferSubmittedPayload struct {
	GameID     int `json:"game_id"`
	PlayerID   int `json:"player_id"`
	WaitingFor int `json:"waiting_for"`
}

// RoundResultPayload 本轮结果通知
type RoundResultPayload struct {
	GameID int        `json:"game_id"`
	Winner PlayerInfo `json:"winner"`
	Points []int      `json:"points"` // 按玩家加入顺序
}

// GameOverPayload 游戏结束通知
type GameOverPayload struct {
	GameID int        `json:"game_id"`
	Winner PlayerInfo `json:"winner"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- 错误码 ---
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001
	ErrCodeRateLimit  = 1002

	ErrCodeGameNotFound         = 2001
	ErrCodeGameRunning          = 2002
	ErrCodeAlreadyMember        = 2003
	ErrCodeNotMember            = 2004
	ErrCodeNotEnoughWhiteCards  = 2005
	ErrCodeNoBlackCards         = 2006
	ErrCodePlayerInRunningGame  = 2007
	ErrCodeGameAlreadyRunning   = 2008

	ErrCodeGameNotRunning  = 3001
	ErrCodeNotInGame       = 3002
	ErrCodeAlreadyOffered  = 3003
	ErrCodeCzarCannotOffer = 3004
	ErrCodeWrongCardCount  = 3005
	ErrCodeNotCzar         = 3006
	ErrCodeOfferNotFound   = 3007
	ErrCodeCardNotInHand   = 3008
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:    "未知错误",
	ErrCodeInvalidMsg: "无效的消息格式",
	ErrCodeRateLimit:  "请求过于频繁",

	ErrCodeGameNotFound:        "游戏不存在",
	ErrCodeGameRunning:         "游戏正在进行中",
	ErrCodeAlreadyMember:       "您已在该游戏中",
	ErrCodeNotMember:           "您不在该游戏中",
	ErrCodeNotEnoughWhiteCards: "所选卡包的白卡数量不足",
	ErrCodeNoBlackCards:        "所选卡包中没有黑卡",
	ErrCodePlayerInRunningGame: "玩家仍在进行中的游戏里",
	ErrCodeGameAlreadyRunning:  "游戏已经开始",

	ErrCodeGameNotRunning:  "游戏尚未开始",
	ErrCodeNotInGame:       "您不在进行中的游戏里",
	ErrCodeAlreadyOffered:  "本轮您已提交过答案",
	ErrCodeCzarCannotOffer: "裁判不能提交答案",
	ErrCodeWrongCardCount:  "提交的卡牌数量不正确",
	ErrCodeNotCzar:         "只有裁判可以选择答案",
	ErrCodeOfferNotFound:   "没有找到匹配的答案",
	ErrCodeCardNotInHand:   "提交的卡牌不在您的手牌中",
}
