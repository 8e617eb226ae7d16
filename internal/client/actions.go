package client

import (
	"fmt"
	"net/http"

	"github.com/palemoky/cards-against-humanity/internal/protocol"
	"github.com/palemoky/cards-against-humanity/internal/storage"
)

// GameDetail 游戏详情，State 仅在进行中出现
type GameDetail struct {
	Game  protocol.GameInfo   `json:"game"`
	State *protocol.StateInfo `json:"state,omitempty"`
}

// --- 玩家 ---

// Register 注册玩家并记住身份，后续请求都以该玩家发起
func (c *Client) Register(name string) error {
	var p protocol.PlayerInfo
	if err := c.do(http.MethodPost, "/players", map[string]string{"name": name}, &p); err != nil {
		return err
	}
	c.Player = p
	return nil
}

// ListPlayers 列出所有玩家
func (c *Client) ListPlayers() ([]protocol.PlayerInfo, error) {
	var players []protocol.PlayerInfo
	err := c.do(http.MethodGet, "/players", nil, &players)
	return players, err
}

// DeletePlayer 注销玩家
func (c *Client) DeletePlayer(playerID int) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/players/%d", playerID), nil, nil)
}

// GetStats 获取玩家战绩
func (c *Client) GetStats(playerID int) (*storage.PlayerStats, error) {
	var stats storage.PlayerStats
	if err := c.do(http.MethodGet, fmt.Sprintf("/players/%d/stats", playerID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetLeaderboard 获取排行榜
func (c *Client) GetLeaderboard(limit int) ([]*storage.LeaderboardEntry, error) {
	var entries []*storage.LeaderboardEntry
	err := c.do(http.MethodGet, fmt.Sprintf("/leaderboard?limit=%d", limit), nil, &entries)
	return entries, err
}

// --- 卡包 ---

// ListPacks 列出全部卡包
func (c *Client) ListPacks() ([]protocol.PackSummary, error) {
	var packs []protocol.PackSummary
	err := c.do(http.MethodGet, "/packs", nil, &packs)
	return packs, err
}

// GetPack 获取卡包详情
func (c *Client) GetPack(packID int) (*protocol.PackInfo, error) {
	var pack protocol.PackInfo
	if err := c.do(http.MethodGet, fmt.Sprintf("/packs/%d", packID), nil, &pack); err != nil {
		return nil, err
	}
	return &pack, nil
}

// --- 游戏 ---

// ListGames 列出全部游戏
func (c *Client) ListGames() ([]protocol.GameInfo, error) {
	var games []protocol.GameInfo
	err := c.do(http.MethodGet, "/games", nil, &games)
	return games, err
}

// CreateGame 创建游戏，packs 为空使用全部卡包，goal 为 0 使用服务端默认
func (c *Client) CreateGame(packs []int, goal int) (*GameDetail, error) {
	req := map[string]any{"owner": c.Player.ID}
	if len(packs) > 0 {
		req["packs"] = packs
	}
	if goal > 0 {
		req["goal"] = goal
	}

	var detail GameDetail
	if err := c.do(http.MethodPost, "/games", req, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetGame 获取游戏详情
func (c *Client) GetGame(gameID int) (*GameDetail, error) {
	var detail GameDetail
	if err := c.do(http.MethodGet, fmt.Sprintf("/games/%d", gameID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteGame 删除游戏
func (c *Client) DeleteGame(gameID int) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/games/%d", gameID), nil, nil)
}

// gameAction 执行加入/离开/开始/结束
func (c *Client) gameAction(gameID int, action string) (*GameDetail, error) {
	var detail GameDetail
	path := fmt.Sprintf("/games/%d/%d", gameID, c.Player.ID)
	if err := c.do(http.MethodPatch, path, map[string]string{"action": action}, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// JoinGame 加入游戏
func (c *Client) JoinGame(gameID int) (*GameDetail, error) {
	return c.gameAction(gameID, "join")
}

// LeaveGame 离开游戏
func (c *Client) LeaveGame(gameID int) (*GameDetail, error) {
	return c.gameAction(gameID, "leave")
}

// StartGame 开始游戏（仅房主）
func (c *Client) StartGame(gameID int) (*GameDetail, error) {
	return c.gameAction(gameID, "start")
}

// EndGame 提前结束游戏（仅房主）
func (c *Client) EndGame(gameID int) (*GameDetail, error) {
	return c.gameAction(gameID, "end")
}

// --- 回合 ---

// GetHand 获取自己的手牌
func (c *Client) GetHand(gameID int) ([]protocol.CardInfo, error) {
	var resp map[string][]protocol.CardInfo
	path := fmt.Sprintf("/games/%d/cards/%d", gameID, c.Player.ID)
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp["cards"], nil
}

// SubmitOffer 提交本轮答案
func (c *Client) SubmitOffer(gameID int, cardIDs []int) error {
	path := fmt.Sprintf("/games/%d/cards/%d", gameID, c.Player.ID)
	return c.do(http.MethodPut, path, map[string][]int{"cards": cardIDs}, nil)
}

// GetOffers 查看已提交的答案
func (c *Client) GetOffers(gameID int) ([][]protocol.CardInfo, error) {
	var resp map[string][][]protocol.CardInfo
	path := fmt.Sprintf("/games/%d/offers/%d", gameID, c.Player.ID)
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp["offers"], nil
}

// AcceptOffer 作为裁判接受答案
func (c *Client) AcceptOffer(gameID int, cardIDs []int) (*GameDetail, error) {
	var detail GameDetail
	path := fmt.Sprintf("/games/%d/offers/%d", gameID, c.Player.ID)
	if err := c.do(http.MethodPut, path, map[string][]int{"cards": cardIDs}, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
