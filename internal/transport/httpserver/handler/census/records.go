package census

import (
	"net/http"
	"strings"
	"time"

	censusdomain "census-app-go/internal/domain/census"
	"census-app-go/internal/transport/httpserver/handler/common"
)

type recordRequest struct {
	NationalID          string   `json:"national_id"`
	Name                string   `json:"name"`
	Address             string   `json:"address"`
	Phone               string   `json:"phone"`
	ZoneID              int64    `json:"zone_id"`
	SectorID            int64    `json:"sector_id"`
	CensusTypeID        int64    `json:"census_type_id"`
	WasteType           string   `json:"waste_type"`
	CollectionStartTime string   `json:"collection_start_time"`
	CollectionEndTime   string   `json:"collection_end_time"`
	CollectionDays      []string `json:"collection_days"`
	InhabitantCount     *int     `json:"inhabitant_count"`
	RouteCode           string   `json:"route_code"`
	Plate               string   `json:"plate"`
	EstablishmentName   string   `json:"establishment_name"`
	EstablishmentType   string   `json:"establishment_type"`
	MarketRole          string   `json:"market_role"`
	MarketStallCount    string   `json:"market_stall_count"`
	InstitutionName     string   `json:"institution_name"`
	InstitutionType     string   `json:"institution_type"`
}

func (req recordRequest) input() censusdomain.Input {
	return censusdomain.Input{
		NationalID:          req.NationalID,
		Name:                req.Name,
		Address:             req.Address,
		Phone:               req.Phone,
		ZoneID:              req.ZoneID,
		SectorID:            req.SectorID,
		CensusTypeID:        req.CensusTypeID,
		WasteType:           req.WasteType,
		CollectionStartTime: req.CollectionStartTime,
		CollectionEndTime:   req.CollectionEndTime,
		CollectionDays:      req.CollectionDays,
		InhabitantCount:     req.InhabitantCount,
		RouteCode:           req.RouteCode,
		Plate:               req.Plate,
		EstablishmentName:   req.EstablishmentName,
		EstablishmentType:   req.EstablishmentType,
		MarketRole:          req.MarketRole,
		MarketStallCount:    req.MarketStallCount,
		InstitutionName:     req.InstitutionName,
		InstitutionType:     req.InstitutionType,
	}
}

type recordResponse struct {
	ID                  int64     `json:"id"`
	Code                string    `json:"code"`
	NationalID          string    `json:"national_id"`
	Name                string    `json:"name"`
	Address             string    `json:"address"`
	Phone               *string   `json:"phone"`
	ZoneID              int64     `json:"zone_id"`
	ZoneName            string    `json:"zone_name,omitempty"`
	SectorID            int64     `json:"sector_id"`
	SectorName          string    `json:"sector_name,omitempty"`
	CensusTypeID        int64     `json:"census_type_id"`
	CensusTypeName      string    `json:"census_type_name,omitempty"`
	WasteType           string    `json:"waste_type"`
	CollectionStartTime *string   `json:"collection_start_time"`
	CollectionEndTime   *string   `json:"collection_end_time"`
	CollectionDays      []string  `json:"collection_days"`
	InhabitantCount     *int      `json:"inhabitant_count"`
	RouteCode           *string   `json:"route_code"`
	Plate               *string   `json:"plate"`
	EstablishmentName   *string   `json:"establishment_name"`
	EstablishmentType   *string   `json:"establishment_type"`
	MarketRole          *string   `json:"market_role"`
	MarketStallCount    *string   `json:"market_stall_count"`
	InstitutionName     *string   `json:"institution_name"`
	InstitutionType     *string   `json:"institution_type"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type pageResponse struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

type listRecordsResponse struct {
	Data []recordResponse `json:"data"`
	Meta pageResponse     `json:"meta"`
}

func newRecordResponse(record censusdomain.Record) recordResponse {
	days := []string(record.CollectionDays)
	if days == nil {
		days = []string{}
	}
	return recordResponse{
		ID:                  record.ID,
		Code:                record.Code,
		NationalID:          record.NationalID,
		Name:                record.Name,
		Address:             record.Address,
		Phone:               record.Phone,
		ZoneID:              record.ZoneID,
		SectorID:            record.SectorID,
		CensusTypeID:        record.CensusTypeID,
		WasteType:           record.WasteType,
		CollectionStartTime: record.CollectionStartTime,
		CollectionEndTime:   record.CollectionEndTime,
		CollectionDays:      days,
		InhabitantCount:     record.InhabitantCount,
		RouteCode:           record.RouteCode,
		Plate:               record.Plate,
		EstablishmentName:   record.EstablishmentName,
		EstablishmentType:   record.EstablishmentType,
		MarketRole:          record.MarketRole,
		MarketStallCount:    record.MarketStallCount,
		InstitutionName:     record.InstitutionName,
		InstitutionType:     record.InstitutionType,
		CreatedAt:           record.CreatedAt,
		UpdatedAt:           record.UpdatedAt,
	}
}

func newRecordViewResponse(view censusdomain.RecordView) recordResponse {
	resp := newRecordResponse(view.Record)
	resp.ZoneName = view.ZoneName
	resp.SectorName = view.SectorName
	resp.CensusTypeName = view.CensusTypeName
	return resp
}

func listFilter(r *http.Request) (censusdomain.ListFilter, string) {
	query := r.URL.Query()
	page, err := common.ParseIntParam(query.Get("page"), 1)
	if err != nil {
		return censusdomain.ListFilter{}, "invalid page"
	}
	perPage, err := common.ParseIntParam(query.Get("per_page"), censusdomain.DefaultPerPage)
	if err != nil {
		return censusdomain.ListFilter{}, "invalid per_page"
	}
	sectorID, err := common.QueryID(r, "sector_filter")
	if err != nil {
		return censusdomain.ListFilter{}, "invalid sector_filter"
	}
	typeID, err := common.QueryID(r, "tipo_filter")
	if err != nil {
		return censusdomain.ListFilter{}, "invalid tipo_filter"
	}
	return censusdomain.ListFilter{
		Page:     page,
		PerPage:  perPage,
		SectorID: sectorID,
		TypeID:   typeID,
		Search:   strings.TrimSpace(query.Get("search")),
	}, ""
}

func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter, problem := listFilter(r)
	if problem != "" {
		common.WriteInvalidRequest(w, problem)
		return
	}

	records, page, err := h.Census.List(r.Context(), filter)
	if err != nil {
		common.WriteServiceError(w, h.log, "census.list", err)
		return
	}

	resp := listRecordsResponse{
		Data: make([]recordResponse, 0, len(records)),
		Meta: pageResponse{
			CurrentPage: page.CurrentPage,
			LastPage:    page.LastPage,
			PerPage:     page.PerPage,
			Total:       page.Total,
			From:        page.From,
			To:          page.To,
		},
	}
	for _, record := range records {
		resp.Data = append(resp.Data, newRecordViewResponse(record))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	record, err := h.Census.Get(r.Context(), id)
	if err != nil {
		common.WriteServiceError(w, h.log, "census.get", err, "record_id", id)
		return
	}
	common.WriteJSON(w, http.StatusOK, newRecordViewResponse(*record))
}

func (h *Handlers) CreateRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	var req recordRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}

	record, err := h.Census.Create(r.Context(), actor, req.input())
	if err != nil {
		common.WriteServiceError(w, h.log, "census.create", err, "user_id", actor.ID, "census_type_id", req.CensusTypeID)
		return
	}
	h.log.Info("census.create: record registered", "user_id", actor.ID, "record_id", record.ID, "code", record.Code)
	common.WriteJSON(w, http.StatusCreated, newRecordResponse(*record))
}

func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	var req recordRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}

	record, err := h.Census.Update(r.Context(), actor, id, req.input())
	if err != nil {
		common.WriteServiceError(w, h.log, "census.update", err, "user_id", actor.ID, "record_id", id)
		return
	}
	common.WriteJSON(w, http.StatusOK, newRecordResponse(*record))
}

func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}

	if err := h.Census.Delete(r.Context(), actor, id); err != nil {
		common.WriteServiceError(w, h.log, "census.delete", err, "user_id", actor.ID, "record_id", id)
		return
	}
	h.log.Info("census.delete: record removed", "user_id", actor.ID, "record_id", id)
	w.WriteHeader(http.StatusNoContent)
}
