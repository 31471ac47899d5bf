package census

import (
	"net/http"

	referencedomain "census-app-go/internal/domain/reference"
	"census-app-go/internal/transport/httpserver/handler/common"
)

type nameRequest struct {
	Name string `json:"name"`
}

type sectorRequest struct {
	Name   string `json:"name"`
	ZoneID int64  `json:"zone_id"`
}

type sectorResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ZoneID   int64  `json:"zone_id"`
	ZoneName string `json:"zone_name,omitempty"`
}

type zoneResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	SectorCount int64            `json:"sector_count"`
	Sectors     []sectorResponse `json:"sectors"`
}

type censusTypeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	RecordCount int64  `json:"record_count"`
}

type referenceIndexResponse struct {
	Zones       []zoneResponse       `json:"zones"`
	Sectors     []sectorResponse     `json:"sectors"`
	CensusTypes []censusTypeResponse `json:"census_types"`
}

func newZoneResponse(zone referencedomain.Zone, count int64) zoneResponse {
	resp := zoneResponse{
		ID:          zone.ID,
		Name:        zone.Name,
		SectorCount: count,
		Sectors:     make([]sectorResponse, 0, len(zone.Sectors)),
	}
	for _, sector := range zone.Sectors {
		resp.Sectors = append(resp.Sectors, sectorResponse{ID: sector.ID, Name: sector.Name, ZoneID: sector.ZoneID})
	}
	return resp
}

// ReferenceIndex backs the combined zones, sectors and census types screen.
func (h *Handlers) ReferenceIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	zones, err := h.References.ListZones(ctx)
	if err != nil {
		common.WriteServiceError(w, h.log, "reference.index", err, "list", "zones")
		return
	}
	sectors, err := h.References.ListSectors(ctx)
	if err != nil {
		common.WriteServiceError(w, h.log, "reference.index", err, "list", "sectors")
		return
	}
	types, err := h.References.ListCensusTypes(ctx)
	if err != nil {
		common.WriteServiceError(w, h.log, "reference.index", err, "list", "census_types")
		return
	}

	resp := referenceIndexResponse{
		Zones:       make([]zoneResponse, 0, len(zones)),
		Sectors:     make([]sectorResponse, 0, len(sectors)),
		CensusTypes: make([]censusTypeResponse, 0, len(types)),
	}
	for _, zone := range zones {
		resp.Zones = append(resp.Zones, newZoneResponse(zone.Zone, zone.SectorCount))
	}
	for _, sector := range sectors {
		resp.Sectors = append(resp.Sectors, sectorResponse{
			ID:       sector.ID,
			Name:     sector.Name,
			ZoneID:   sector.ZoneID,
			ZoneName: sector.ZoneName,
		})
	}
	for _, censusType := range types {
		resp.CensusTypes = append(resp.CensusTypes, censusTypeResponse{
			ID:          censusType.ID,
			Name:        censusType.Name,
			RecordCount: censusType.RecordCount,
		})
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateZone(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}
	zone, err := h.References.CreateZone(r.Context(), actor, req.Name)
	if err != nil {
		common.WriteServiceError(w, h.log, "zones.create", err, "user_id", actor.ID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, newZoneResponse(*zone, 0))
}

func (h *Handlers) UpdateZone(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	var req nameRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}
	zone, err := h.References.UpdateZone(r.Context(), actor, id, req.Name)
	if err != nil {
		common.WriteServiceError(w, h.log, "zones.update", err, "user_id", actor.ID, "zone_id", id)
		return
	}
	common.WriteJSON(w, http.StatusOK, newZoneResponse(*zone, int64(len(zone.Sectors))))
}

func (h *Handlers) DeleteZone(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	if err := h.References.DeleteZone(r.Context(), actor, id); err != nil {
		common.WriteServiceError(w, h.log, "zones.delete", err, "user_id", actor.ID, "zone_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CreateSector(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	var req sectorRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}
	sector, err := h.References.CreateSector(r.Context(), actor, referencedomain.SectorInput{Name: req.Name, ZoneID: req.ZoneID})
	if err != nil {
		common.WriteServiceError(w, h.log, "sectors.create", err, "user_id", actor.ID, "zone_id", req.ZoneID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, sectorResponse{ID: sector.ID, Name: sector.Name, ZoneID: sector.ZoneID})
}

func (h *Handlers) UpdateSector(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	var req sectorRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}
	sector, err := h.References.UpdateSector(r.Context(), actor, id, referencedomain.SectorInput{Name: req.Name, ZoneID: req.ZoneID})
	if err != nil {
		common.WriteServiceError(w, h.log, "sectors.update", err, "user_id", actor.ID, "sector_id", id)
		return
	}
	common.WriteJSON(w, http.StatusOK, sectorResponse{ID: sector.ID, Name: sector.Name, ZoneID: sector.ZoneID})
}

func (h *Handlers) DeleteSector(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	if err := h.References.DeleteSector(r.Context(), actor, id); err != nil {
		common.WriteServiceError(w, h.log, "sectors.delete", err, "user_id", actor.ID, "sector_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CreateCensusType(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}
	censusType, err := h.References.CreateCensusType(r.Context(), actor, req.Name)
	if err != nil {
		common.WriteServiceError(w, h.log, "census_types.create", err, "user_id", actor.ID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, censusTypeResponse{ID: censusType.ID, Name: censusType.Name})
}

func (h *Handlers) UpdateCensusType(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	var req nameRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}
	censusType, err := h.References.UpdateCensusType(r.Context(), actor, id, req.Name)
	if err != nil {
		common.WriteServiceError(w, h.log, "census_types.update", err, "user_id", actor.ID, "census_type_id", id)
		return
	}
	common.WriteJSON(w, http.StatusOK, censusTypeResponse{ID: censusType.ID, Name: censusType.Name})
}

func (h *Handlers) DeleteCensusType(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	if err := h.References.DeleteCensusType(r.Context(), actor, id); err != nil {
		common.WriteServiceError(w, h.log, "census_types.delete", err, "user_id", actor.ID, "census_type_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
