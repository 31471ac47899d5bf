package operations

import (
	"errors"
	"io"
	"net/http"
	"strings"

	evidencedomain "census-app-go/internal/domain/evidence"
	"census-app-go/internal/storage"
	"census-app-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

// Photo streams a stored evidence photo from /evidencias/<name>.
func (h *Handlers) Photo(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	photo := evidencedomain.Photo{Filename: name}
	if name == "" || photo.ContentType() == "" {
		common.WriteError(w, http.StatusNotFound, "photo_not_found", "photo not found")
		return
	}

	key := evidencedomain.PhotoDir + "/" + name
	content, err := h.photos.Open(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			common.WriteError(w, http.StatusNotFound, "photo_not_found", "photo not found")
		case errors.Is(err, storage.ErrInvalidKey):
			common.WriteInvalidRequest(w, "invalid photo path")
		default:
			h.log.InternalError("evidence.photo: open failed", err, "key", key)
			common.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", photo.ContentType())
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, content); err != nil {
		h.log.Warn("evidence.photo: stream interrupted", "key", key, "err", err)
	}
}
