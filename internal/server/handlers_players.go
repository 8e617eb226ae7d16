package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/palemoky/cards-against-humanity/internal/game"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

func (s *Server) handleListPlayers(w http.ResponseWriter, _ *http.Request) {
	players := s.players.GetAll()
	views := make([]protocol.PlayerInfo, len(players))
	for i, p := range players {
		views[i] = game.PlayerView(p)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求体")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "玩家名称不能为空")
		return
	}

	p := s.players.Create(name)
	writeJSON(w, http.StatusCreated, game.PlayerView(p))
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	p, ok := s.playerByParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, game.PlayerView(p))
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	p, ok := s.playerByParam(w, r)
	if !ok {
		return
	}

	// 还在对局里的玩家不能删除
	if s.games.IsPlayerInGame(p) {
		writeGameError(w, game.ErrPlayerInRunningGame)
		return
	}

	s.players.Delete(p.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	p, ok := s.playerByParam(w, r)
	if !ok {
		return
	}

	stats, err := s.leaderboard.GetPlayerStats(r.Context(), p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats == nil {
		writeError(w, http.StatusNotFound, "该玩家暂无战绩")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "无效的 limit 参数")
			return
		}
		limit = parsed
	}

	entries, err := s.leaderboard.GetLeaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
