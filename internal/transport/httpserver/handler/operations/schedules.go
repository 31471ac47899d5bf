package operations

import (
	"net/http"
	"time"

	scheduledomain "census-app-go/internal/domain/schedule"
	"census-app-go/internal/transport/httpserver/handler/common"
)

type scheduleRequest struct {
	UserID      int64    `json:"user_id"`
	ZoneID      int64    `json:"zone_id"`
	SectorID    int64    `json:"sector_id"`
	Days        []string `json:"days"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Description string   `json:"description"`
	RecordIDs   []int64  `json:"record_ids"`
}

func (req scheduleRequest) input() scheduledomain.Input {
	return scheduledomain.Input{
		UserID:      req.UserID,
		ZoneID:      req.ZoneID,
		SectorID:    req.SectorID,
		Days:        req.Days,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
		RecordIDs:   req.RecordIDs,
	}
}

type scheduleResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ZoneID      int64     `json:"zone_id"`
	SectorID    int64     `json:"sector_id"`
	Days        []string  `json:"days"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type recordRefResponse struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type poolResponse struct {
	Kind      string  `json:"kind"`
	RecordIDs []int64 `json:"record_ids"`
}

type progressResponse struct {
	Total          int                 `json:"total"`
	Completed      int                 `json:"completed"`
	Pending        int                 `json:"pending"`
	Percent        int                 `json:"percent"`
	LastActivityAt *time.Time          `json:"last_activity_at"`
	CompletedList  []recordRefResponse `json:"completed_list"`
	PendingList    []recordRefResponse `json:"pending_list"`
}

type overviewResponse struct {
	scheduleResponse
	UserName   string           `json:"user_name"`
	UserRole   string           `json:"user_role"`
	ZoneName   string           `json:"zone_name"`
	SectorName string           `json:"sector_name"`
	Pool       poolResponse     `json:"pool"`
	Progress   progressResponse `json:"progress"`
}

type scheduleIndexResponse struct {
	Schedules []overviewResponse    `json:"schedules"`
	Users     []common.UserResponse `json:"users"`
}

func newScheduleResponse(s scheduledomain.Schedule) scheduleResponse {
	days := []string(s.Days)
	if days == nil {
		days = []string{}
	}
	return scheduleResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		ZoneID:      s.ZoneID,
		SectorID:    s.SectorID,
		Days:        days,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func newRecordRefs(records []scheduledomain.RecordRef) []recordRefResponse {
	result := make([]recordRefResponse, 0, len(records))
	for _, record := range records {
		result = append(result, recordRefResponse{ID: record.ID, Code: record.Code, Name: record.Name, Address: record.Address})
	}
	return result
}

func newOverviewResponse(o scheduledomain.Overview) overviewResponse {
	recordIDs := o.Pool.RecordIDs
	if recordIDs == nil {
		recordIDs = []int64{}
	}
	return overviewResponse{
		scheduleResponse: newScheduleResponse(o.Schedule),
		UserName:         o.UserName,
		UserRole:         o.UserRole,
		ZoneName:         o.ZoneName,
		SectorName:       o.SectorName,
		Pool:             poolResponse{Kind: o.Pool.Kind.String(), RecordIDs: recordIDs},
		Progress: progressResponse{
			Total:          o.Progress.Total,
			Completed:      o.Progress.Completed,
			Pending:        o.Progress.Pending,
			Percent:        o.Progress.Percent,
			LastActivityAt: o.Progress.LastActivityAt,
			CompletedList:  newRecordRefs(o.Progress.CompletedList),
			PendingList:    newRecordRefs(o.Progress.PendingList),
		},
	}
}

// ScheduleIndex lists schedules with live progress plus the users they can be assigned to.
func (h *Handlers) ScheduleIndex(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	index, err := h.Schedules.Index(r.Context(), actor)
	if err != nil {
		common.WriteServiceError(w, h.log, "schedules.index", err, "user_id", actor.ID)
		return
	}

	resp := scheduleIndexResponse{
		Schedules: make([]overviewResponse, 0, len(index.Schedules)),
		Users:     make([]common.UserResponse, 0, len(index.Users)),
	}
	for _, overview := range index.Schedules {
		resp.Schedules = append(resp.Schedules, newOverviewResponse(overview))
	}
	for _, u := range index.Users {
		resp.Users = append(resp.Users, common.NewUserResponse(u))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	var req scheduleRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}

	sched, err := h.Schedules.Create(r.Context(), actor, req.input())
	if err != nil {
		common.WriteServiceError(w, h.log, "schedules.create", err, "user_id", actor.ID, "owner_id", req.UserID)
		return
	}
	h.log.Info("schedules.create: schedule assigned", "user_id", actor.ID, "schedule_id", sched.ID, "owner_id", sched.UserID)
	common.WriteJSON(w, http.StatusCreated, newScheduleResponse(*sched))
}

func (h *Handlers) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	var req scheduleRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}

	sched, err := h.Schedules.Update(r.Context(), actor, id, req.input())
	if err != nil {
		common.WriteServiceError(w, h.log, "schedules.update", err, "user_id", actor.ID, "schedule_id", id)
		return
	}
	common.WriteJSON(w, http.StatusOK, newScheduleResponse(*sched))
}

func (h *Handlers) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}

	if err := h.Schedules.Delete(r.Context(), actor, id); err != nil {
		common.WriteServiceError(w, h.log, "schedules.delete", err, "user_id", actor.ID, "schedule_id", id)
		return
	}
	h.log.Info("schedules.delete: schedule removed", "user_id", actor.ID, "schedule_id", id)
	w.WriteHeader(http.StatusNoContent)
}
