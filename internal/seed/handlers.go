package seed

import (
	"log/slog"
	"net/http"

	"starwars-api/internal/shared/response"
)

type Handler struct {
	importer *Importer
}

func NewHandler(importer *Importer) *Handler {
	return &Handler{importer: importer}
}

// Populate serves POST /population/{resource}. Its write deadline is set by
// the server chain, since an import outlasts the default WriteTimeout.
func (h *Handler) Populate(w http.ResponseWriter, r *http.Request) {
	resource := r.PathValue("resource")
	logger := slog.With("handler", "seed", "operation", "populate", "resource", resource)

	report, err := h.importer.Import(r.Context(), resource)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, report)
}
