package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

// URLID reads a positive integer chi URL parameter.
func URLID(r *http.Request, name string) (int64, error) {
	return parsePositive(chi.URLParam(r, name), name)
}

// QueryID reads an optional positive integer query parameter; empty yields zero.
func QueryID(r *http.Request, name string) (int64, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return 0, nil
	}
	return parsePositive(value, name)
}

func ParseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func parsePositive(value, name string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return parsed, nil
}

// Actor returns the authenticated actor or writes a 401.
func Actor(w http.ResponseWriter, r *http.Request) (access.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
	}
	return actor, ok
}
