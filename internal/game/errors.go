package game

import (
	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

// GameError 游戏错误，携带协议错误码方便传输层直接转发
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrGameNotFound        = &GameError{Code: protocol.ErrCodeGameNotFound, Message: "游戏不存在"}
	ErrGameRunning         = &GameError{Code: protocol.ErrCodeGameRunning, Message: "游戏正在进行中"}
	ErrGameAlreadyRunning  = &GameError{Code: protocol.ErrCodeGameAlreadyRunning, Message: "游戏已经开始"}
	ErrGameNotRunning      = &GameError{Code: protocol.ErrCodeGameNotRunning, Message: "游戏尚未开始"}
	ErrAlreadyMember       = &GameError{Code: protocol.ErrCodeAlreadyMember, Message: "您已在该游戏中"}
	ErrNotMember           = &GameError{Code: protocol.ErrCodeNotMember, Message: "您不在该游戏中"}
	ErrNoBlackCards        = &GameError{Code: protocol.ErrCodeNoBlackCards, Message: "所选卡包中没有黑卡"}
	ErrNotEnoughWhiteCards = &GameError{Code: protocol.ErrCodeNotEnoughWhiteCards, Message: "所选卡包的白卡数量不足"}
	ErrPlayerInRunningGame = &GameError{Code: protocol.ErrCodePlayerInRunningGame, Message: "玩家仍在进行中的游戏里"}
	ErrNotInGame           = &GameError{Code: protocol.ErrCodeNotInGame, Message: "您不在进行中的游戏里"}
	ErrAlreadyOffered      = &GameError{Code: protocol.ErrCodeAlreadyOffered, Message: "本轮您已提交过答案"}
	ErrCzarCannotOffer     = &GameError{Code: protocol.ErrCodeCzarCannotOffer, Message: "裁判不能提交答案"}
	ErrWrongCardCount      = &GameError{Code: protocol.ErrCodeWrongCardCount, Message: "提交的卡牌数量不正确"}
	ErrCardNotInHand       = &GameError{Code: protocol.ErrCodeCardNotInHand, Message: "提交的卡牌不在您的手牌中"}
	ErrNotCzar             = &GameError{Code: protocol.ErrCodeNotCzar, Message: "只有裁判可以选择答案"}
	ErrOfferNotFound       = &GameError{Code: protocol.ErrCodeOfferNotFound, Message: "没有找到匹配的答案"}
)
