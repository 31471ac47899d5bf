package census

import (
	"net/http"
	"strconv"

	censusdomain "census-app-go/internal/domain/census"
	"census-app-go/internal/transport/httpserver/handler/common"
)

type fieldConfigResponse struct {
	ShowSchedule          bool              `json:"show_schedule"`
	ShowInhabitants       bool              `json:"show_inhabitants"`
	ShowRouteCode         bool              `json:"show_route_code"`
	ShowPlate             bool              `json:"show_plate"`
	ShowEstablishmentName bool              `json:"show_establishment_name"`
	ShowEstablishmentType bool              `json:"show_establishment_type"`
	ShowInstitutionName   bool              `json:"show_institution_name"`
	ShowInstitutionType   bool              `json:"show_institution_type"`
	ShowStallCount        bool              `json:"show_stall_count"`
	ShowMarketRole        bool              `json:"show_market_role"`
	Labels                map[string]string `json:"labels"`
}

// SectorsByZone returns an id to name map for the sector select of the census form.
func (h *Handlers) SectorsByZone(w http.ResponseWriter, r *http.Request) {
	zoneID, err := common.URLID(r, "zonaId")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid zone id")
		return
	}
	sectors, err := h.References.SectorsByZone(r.Context(), zoneID)
	if err != nil {
		common.WriteServiceError(w, h.log, "reference.sectors_by_zone", err, "zone_id", zoneID)
		return
	}

	resp := make(map[string]string, len(sectors))
	for id, name := range sectors {
		resp[strconv.FormatInt(id, 10)] = name
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

// FieldConfigByType never fails for a well-formed id; unknown types get every flag off.
func (h *Handlers) FieldConfigByType(w http.ResponseWriter, r *http.Request) {
	typeID, err := common.URLID(r, "tipoId")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid census type id")
		return
	}

	cfg := censusdomain.DisplayConfigFor(typeID)
	common.WriteJSON(w, http.StatusOK, fieldConfigResponse{
		ShowSchedule:          cfg.ShowSchedule,
		ShowInhabitants:       cfg.ShowInhabitants,
		ShowRouteCode:         cfg.ShowRouteCode,
		ShowPlate:             cfg.ShowPlate,
		ShowEstablishmentName: cfg.ShowEstablishmentName,
		ShowEstablishmentType: cfg.ShowEstablishmentType,
		ShowInstitutionName:   cfg.ShowInstitutionName,
		ShowInstitutionType:   cfg.ShowInstitutionType,
		ShowStallCount:        cfg.ShowStallCount,
		ShowMarketRole:        cfg.ShowMarketRole,
		Labels:                cfg.Labels,
	})
}
