package server

import (
	"net/http"

	"github.com/palemoky/cards-against-humanity/internal/catalog"
	"github.com/palemoky/cards-against-humanity/internal/game"
	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

func packSummary(p *catalog.Pack) protocol.PackSummary {
	return protocol.PackSummary{
		ID:             p.ID,
		Name:           p.Name,
		Official:       p.Official,
		BlackCardCount: p.BlackCardCount(),
		WhiteCardCount: p.WhiteCardCount(),
	}
}

func (s *Server) handleListPacks(w http.ResponseWriter, _ *http.Request) {
	packs := s.catalog.GetAllPacks()
	views := make([]protocol.PackSummary, len(packs))
	for i, p := range packs {
		views[i] = packSummary(p)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetPack(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "packID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pack := s.catalog.GetPack(id)
	if pack == nil {
		writeError(w, http.StatusNotFound, "卡包不存在")
		return
	}

	writeJSON(w, http.StatusOK, protocol.PackInfo{
		ID:       pack.ID,
		Name:     pack.Name,
		Official: pack.Official,
		Black:    game.CardViews(pack.Black),
		White:    game.CardViews(pack.White),
	})
}
