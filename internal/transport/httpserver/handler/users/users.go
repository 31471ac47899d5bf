package users

import (
	"net/http"

	userdomain "census-app-go/internal/domain/user"
	"census-app-go/internal/transport/httpserver/handler/common"
)

type userRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (req userRequest) input() userdomain.Input {
	return userdomain.Input{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Permissions: req.Permissions,
	}
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	list, err := h.Users.List(r.Context(), actor)
	if err != nil {
		common.WriteServiceError(w, h.log, "users.list", err, "user_id", actor.ID)
		return
	}
	resp := make([]common.UserResponse, 0, len(list))
	for _, u := range list {
		resp = append(resp, common.NewUserResponse(u))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	var req userRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}
	created, err := h.Users.Create(r.Context(), actor, req.input())
	if err != nil {
		common.WriteServiceError(w, h.log, "users.create", err, "user_id", actor.ID)
		return
	}
	h.log.Info("users.create: user registered", "user_id", actor.ID, "created_id", created.ID, "role", created.Role)
	common.WriteJSON(w, http.StatusCreated, common.NewUserResponse(*created))
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	var req userRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteInvalidRequest(w, "invalid json body")
		return
	}
	updated, err := h.Users.Update(r.Context(), actor, id, req.input())
	if err != nil {
		common.WriteServiceError(w, h.log, "users.update", err, "user_id", actor.ID, "target_id", id)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.NewUserResponse(*updated))
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.Actor(w, r)
	if !ok {
		return
	}
	id, err := common.URLID(r, "id")
	if err != nil {
		common.WriteInvalidRequest(w, "invalid id")
		return
	}
	if err := h.Users.Delete(r.Context(), actor, id); err != nil {
		common.WriteServiceError(w, h.log, "users.delete", err, "user_id", actor.ID, "target_id", id)
		return
	}
	h.log.Info("users.delete: user removed", "user_id", actor.ID, "target_id", id)
	w.WriteHeader(http.StatusNoContent)
}
