package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/palemoky/cards-against-humanity/internal/catalog"
	"github.com/palemoky/cards-against-humanity/internal/game"
	"github.com/palemoky/cards-against-humanity/internal/player"
)

// errorResponse REST 错误响应体
type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("写入响应失败: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeGameError 把引擎错误映射成 HTTP 响应
// 不存在的游戏是 404，其余状态错误统一 400
func writeGameError(w http.ResponseWriter, err error) {
	var gameErr *game.GameError
	if errors.As(err, &gameErr) {
		status := http.StatusBadRequest
		if errors.Is(err, game.ErrGameNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: gameErr.Message, Code: gameErr.Code})
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func urlParamInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("无效的 %s", name)
	}
	return value, nil
}

// playerByParam 解析路径中的玩家 ID；出错时已写好响应
func (s *Server) playerByParam(w http.ResponseWriter, r *http.Request) (*player.Player, bool) {
	id, err := urlParamInt(r, "playerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	p := s.players.Get(id)
	if p == nil {
		writeError(w, http.StatusNotFound, "玩家不存在")
		return nil, false
	}
	return p, true
}

// gameByParam 解析路径中的游戏 ID；出错时已写好响应
func (s *Server) gameByParam(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	id, err := urlParamInt(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	sess, ok := s.games.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "游戏不存在")
		return nil, false
	}
	return sess, true
}

// playerFromQuery 按 ?player=ID 查询参数解析玩家
func (s *Server) playerFromQuery(r *http.Request) (*player.Player, error) {
	raw := r.URL.Query().Get("player")
	if raw == "" {
		return nil, fmt.Errorf("缺少 player 参数")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("无效的 player 参数")
	}
	p := s.players.Get(id)
	if p == nil {
		return nil, fmt.Errorf("玩家不存在")
	}
	return p, nil
}

// resolveCards 把卡牌 ID 列表解析成卡牌，未知 ID 视为请求非法
func (s *Server) resolveCards(ids []int) ([]catalog.Card, error) {
	cards := make([]catalog.Card, 0, len(ids))
	for _, id := range ids {
		card := s.catalog.GetCard(id)
		if card == nil {
			return nil, fmt.Errorf("未知的卡牌 ID: %d", id)
		}
		cards = append(cards, *card)
	}
	return cards, nil
}
