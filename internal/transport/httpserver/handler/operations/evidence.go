package operations

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	evidencedomain "census-app-go/internal/domain/evidence"
	"census-app-go/internal/transport/httpserver/handler/common"
)

// multipart overhead allowed on top of the photo itself
const formOverheadBytes = 1 << 20

type entryResponse struct {
	ID             int64     `json:"id"`
	ScheduleID     int64     `json:"schedule_id"`
	CensusRecordID int64     `json:"census_record_id"`
	Status         string    `json:"status"`
	Completed      bool      `json:"completed"`
	Comment        *string   `json:"comment"`
	PhotoURL       string    `json:"photo_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type boardItemResponse struct {
	recordRefResponse
	Latest *entryResponse `json:"latest_evidence"`
}

type boardScheduleResponse struct {
	overviewResponse
	Records []boardItemResponse `json:"records"`
}

type boardResponse struct {
	TargetUser   common.UserResponse     `json:"target_user"`
	ViewingOther bool                    `json:"viewing_other"`
	Schedules    []boardScheduleResponse `json:"schedules"`
}

func (h *Handlers) newEntryResponse(entry evidencedomain.Entry, photoURL string) *entryResponse {
	if photoURL == "" && entry.PhotoRef != nil {
		photoURL = h.Evidence.PhotoURL(*entry.PhotoRef)
	}
	return &entryResponse{
		ID:             entry.ID,
		ScheduleID:     entry.ScheduleID,
		CensusRecordID: entry.CensusRecordID,
		Status:         entry.Status,
		Completed:      entry.Completed,
		Comment:        entry.Comment,
		PhotoURL:       photoURL,
		CreatedAt:      entry.CreatedAt,
	}
}

// Board shows the actor's assignments, or another user's when ?user= is given and allowed.
func (h *Handlers) Board(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	targetID, err := common.QueryID(r, "user")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid user")
		return
	}

	board, err := h.Evidence.Board(r.Context(), actor, targetID)
	if err != nil {
		common.WriteServiceError(w, h.log, "evidence.board", err, "user_id", actor.ID, "target_id", targetID)
		return
	}

	resp := boardResponse{
		TargetUser:   common.NewUserResponse(board.TargetUser),
		ViewingOther: board.ViewingOther,
		Schedules:    make([]boardScheduleResponse, 0, len(board.Schedules)),
	}
	for _, sched := range board.Schedules {
		items := make([]boardItemResponse, 0, len(sched.Items))
		for _, item := range sched.Items {
			out := boardItemResponse{recordRefResponse: recordRefResponse{
				ID:      item.Record.ID,
				Code:    item.Record.Code,
				Name:    item.Record.Name,
				Address: item.Record.Address,
			}}
			if item.Latest != nil {
				out.Latest = h.newEntryResponse(*item.Latest, item.PhotoURL)
			}
			items = append(items, out)
		}
		resp.Schedules = append(resp.Schedules, boardScheduleResponse{
			overviewResponse: newOverviewResponse(sched.Overview),
			Records:          items,
		})
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

// SubmitEvidence accepts a multipart form: schedule_id, census_record_id, status, comment and an
// optional photo file.
func (h *Handlers) SubmitEvidence(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes+formOverheadBytes)
	if err := r.ParseMultipartForm(formOverheadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "photo is too large")
			return
		}
		common.WriteInvalidRequest(w, "invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	input := evidencedomain.SubmitInput{
		ScheduleID:     formID(r, "schedule_id"),
		CensusRecordID: formID(r, "census_record_id"),
		Status:         r.FormValue("status"),
		Comment:        r.FormValue("comment"),
	}

	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		input.Photo = &evidencedomain.Photo{Filename: header.Filename, Size: header.Size, Content: file}
	case errors.Is(err, http.ErrMissingFile):
	default:
		common.WriteInvalidRequest(w, "invalid photo upload")
		return
	}

	entry, err := h.Evidence.Submit(r.Context(), actor, input)
	if err != nil {
		common.WriteServiceError(w, h.log, "evidence.submit", err,
			"user_id", actor.ID, "schedule_id", input.ScheduleID, "record_id", input.CensusRecordID)
		return
	}
	h.log.Info("evidence.submit: entry recorded", "user_id", actor.ID, "schedule_id", entry.ScheduleID,
		"record_id", entry.CensusRecordID, "status", entry.Status)
	common.WriteJSON(w, http.StatusCreated, h.newEntryResponse(*entry, ""))
}

// formID returns zero for missing or malformed ids so validation reports them as required.
func formID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(name)), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
