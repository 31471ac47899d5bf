package users

import (
	"net/http"

	statsdomain "census-app-go/internal/domain/stats"
	"census-app-go/internal/transport/httpserver/handler/common"
)

type countResponse struct {
	Label string `json:"label"`
	Total int64  `json:"total"`
}

// StatsHandler serves one dashboard breakdown as a label/total list.
func (h *Handlers) StatsHandler(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := common.Actor(w, r)
		if !ok {
			return
		}
		counts, err := h.Stats.Counts(r.Context(), actor, kind)
		if err != nil {
			common.WriteServiceError(w, h.log, "stats.counts", err, "user_id", actor.ID, "kind", kind)
			return
		}
		resp := make([]countResponse, 0, len(counts))
		for _, count := range counts {
			resp = append(resp, countResponse{Label: count.Label, Total: count.Total})
		}
		common.WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *Handlers) RecordsByType() http.HandlerFunc { return h.StatsHandler(statsdomain.KindRecordsByType) }

func (h *Handlers) RecordsByWasteType() http.HandlerFunc {
	return h.StatsHandler(statsdomain.KindRecordsByWasteType)
}

func (h *Handlers) SectorsByZone() http.HandlerFunc { return h.StatsHandler(statsdomain.KindSectorsByZone) }

func (h *Handlers) UsersByRole() http.HandlerFunc { return h.StatsHandler(statsdomain.KindUsersByRole) }
