package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/steelops/intake-api/internal/common"
	"github.com/steelops/intake-api/internal/obs"
)

// Handler exposes the HTTP surface for the base coefficient setting.
type Handler struct {
	Store Store
}

type updateCoefficientRequest struct {
	Coefficient float64 `json:"coefficient"`
}

// GetCoefficient handles GET /api/settings/coefficient.
func (h *Handler) GetCoefficient(w http.ResponseWriter, r *http.Request) {
	value, err := h.Store.BaseCoefficient(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeStore, "load coefficient")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"coefficient": value})
}

// PutCoefficient handles PUT /api/settings/coefficient.
func (h *Handler) PutCoefficient(w http.ResponseWriter, r *http.Request) {
	var req updateCoefficientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body")
		return
	}
	if err := h.Store.SetBaseCoefficient(r.Context(), req.Coefficient); err != nil {
		if errors.Is(err, ErrNonPositive) {
			common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "coefficient must be greater than 0")
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeStore, "persist coefficient")
		return
	}
	if obs.CoefficientUpdatesTotal != nil {
		obs.CoefficientUpdatesTotal.Inc()
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"coefficient": req.Coefficient,
	})
}
