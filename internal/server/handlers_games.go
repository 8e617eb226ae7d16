package server

import (
	"encoding/json"
	"net/http"

	"github.com/palemoky/cards-against-humanity/internal/game"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

// gameResponse 游戏详情响应，state 仅在进行中出现
type gameResponse struct {
	Game  protocol.GameInfo   `json:"game"`
	State *protocol.StateInfo `json:"state,omitempty"`
}

func gameView(s *game.Session) gameResponse {
	resp := gameResponse{Game: s.Info()}
	if state, ok := s.StateInfo(); ok {
		resp.State = &state
	}
	return resp
}

func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	sessions := s.games.GetAll()
	views := make([]protocol.GameInfo, len(sessions))
	for i, sess := range sessions {
		views[i] = sess.Info()
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner int   `json:"owner"`
		Packs []int `json:"packs"`
		Goal  *int  `json:"goal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}

	owner := s.players.Get(req.Owner)
	if owner == nil {
		writeError(w, http.StatusNotFound, "玩家不存在")
		return
	}

	goal := 0
	if req.Goal != nil {
		if *req.Goal < 1 {
			writeError(w, http.StatusBadRequest, "目标分必须大于等于 1")
			return
		}
		goal = *req.Goal
	}

	sess, err := s.games.Create(owner, req.Packs, goal)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, gameView(sess))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.gameByParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, gameView(sess))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.games.Delete(id); err != nil {
		writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGameAction 处理加入/离开/开始/结束
func (s *Server) handleGameAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.gameByParam(w, r)
	if !ok {
		return
	}
	p, ok := s.playerByParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}

	var err error
	switch req.Action {
	case "join":
		err = s.games.Join(sess, p)
	case "leave":
		err = s.games.Leave(sess, p)
	case "start":
		if sess.Info().Owner.ID != p.ID {
			writeError(w, http.StatusBadRequest, "只有房主可以开始游戏")
			return
		}
		err = s.games.Start(sess)
	case "end":
		if sess.Info().Owner.ID != p.ID {
			writeError(w, http.StatusBadRequest, "只有房主可以结束游戏")
			return
		}
		err = s.games.End(sess)
	default:
		writeError(w, http.StatusBadRequest, "未知的操作: "+req.Action)
		return
	}
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, gameView(sess))
}

func (s *Server) handleGetCards(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.gameByParam(w, r)
	if !ok {
		return
	}
	p, ok := s.playerByParam(w, r)
	if !ok {
		return
	}

	cards, err := s.games.GetWhiteCards(sess, p)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]protocol.CardInfo{"cards": game.CardViews(cards)})
}

// handleSubmitOffer 玩家把手牌提交为本轮答案
func (s *Server) handleSubmitOffer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.gameByParam(w, r)
	if !ok {
		return
	}
	p, ok := s.playerByParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Cards []int `json:"cards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}

	cards, err := s.resolveCards(req.Cards)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.games.Offer(sess, p, cards); err != nil {
		writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetOffers(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.gameByParam(w, r)
	if !ok {
		return
	}
	p, ok := s.playerByParam(w, r)
	if !ok {
		return
	}

	offers, err := s.games.GetOffers(sess, p)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][][]protocol.CardInfo{"offers": game.OfferViews(offers)})
}

// handleAcceptOffer 裁判选出本轮最佳答案
func (s *Server) handleAcceptOffer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.gameByParam(w, r)
	if !ok {
		return
	}
	p, ok := s.playerByParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Cards []int `json:"cards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}

	cards, err := s.resolveCards(req.Cards)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.games.AcceptOffer(sess, p, cards); err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameView(sess))
}
