package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/steelops/intake-api/internal/common"
)

// Handler exposes the HTTP surface for daily reports.
type Handler struct {
	Svc *Service
}

// Daily handles GET /api/reports/daily/{date}.
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	day, err := common.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "date must be formatted as YYYY-MM-DD")
		return
	}
	rep, err := h.Svc.BuildDaily(r.Context(), day)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, rep)
}
