package census

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"census-app-go/internal/export"
	"census-app-go/internal/transport/httpserver/handler/common"
)

// ExportRecords renders the filtered listing, ignoring pagination, as an XLSX workbook.
func (h *Handlers) ExportRecords(w http.ResponseWriter, r *http.Request) {
	filter, problem := listFilter(r)
	if problem != "" {
		common.WriteInvalidRequest(w, problem)
		return
	}

	records, err := h.Census.ListAll(r.Context(), filter)
	if err != nil {
		common.WriteServiceError(w, h.log, "census.export", err)
		return
	}

	// buffered so a failed render can still answer with a JSON error
	var buf bytes.Buffer
	if err := export.WriteCensus(&buf, records); err != nil {
		h.log.InternalError("census.export: render workbook failed", err, "records", len(records))
		common.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	filename := fmt.Sprintf("empadronados_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", export.CensusContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
