package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routes 组装 REST 路由
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/leaderboard", s.handleLeaderboard)

	r.Route("/players", func(r chi.Router) {
		r.Get("/", s.handleListPlayers)
		r.Post("/", s.handleCreatePlayer)
		r.Get("/{playerID}", s.handleGetPlayer)
		r.Delete("/{playerID}", s.handleDeletePlayer)
		r.Get("/{playerID}/stats", s.handlePlayerStats)
	})

	r.Route("/packs", func(r chi.Router) {
		r.Get("/", s.handleListPacks)
		r.Get("/{packID}", s.handleGetPack)
	})

	r.Route("/games", func(r chi.Router) {
		r.Get("/", s.handleListGames)
		r.Post("/", s.handleCreateGame)
		r.Get("/{gameID}", s.handleGetGame)
		r.Delete("/{gameID}", s.handleDeleteGame)
		r.Patch("/{gameID}/{playerID}", s.handleGameAction)
		r.Get("/{gameID}/cards/{playerID}", s.handleGetCards)
		r.Put("/{gameID}/cards/{playerID}", s.handleSubmitOffer)
		r.Get("/{gameID}/offers/{playerID}", s.handleGetOffers)
		r.Put("/{gameID}/offers/{playerID}", s.handleAcceptOffer)
	})

	return r
}
