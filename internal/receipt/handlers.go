package receipt

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/steelops/intake-api/internal/common"
)

// Handler exposes the HTTP surface for receipts.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// NewHandler constructs a Handler with its request validator.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, Validate: validator.New()}
}

type createItemRequest struct {
	Percentage  int     `json:"percentage" validate:"gte=14,lte=100"`
	Weight      float64 `json:"weight"`
	Coefficient float64 `json:"coefficient"`
}

type createReceiptRequest struct {
	ReceiptNumber string              `json:"receipt_number"`
	Items         []createItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Create handles POST /api/receipts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "items are required and every percentage must be between 14 and 100")
		return
	}
	items := make([]ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ItemInput{
			Percentage:  item.Percentage,
			Weight:      item.Weight,
			Coefficient: item.Coefficient,
		})
	}
	rec, err := h.Svc.Create(r.Context(), req.ReceiptNumber, items)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"receiptId": rec.ID,
		"message":   "receipt saved",
	})
}

// List handles GET /api/receipts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.Svc.ListAll(r.Context())
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, receipts)
}

// ListByDate handles GET /api/receipts/daily/{date}.
func (h *Handler) ListByDate(w http.ResponseWriter, r *http.Request) {
	day, err := common.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "date must be formatted as YYYY-MM-DD")
		return
	}
	receipts, err := h.Svc.ListByDate(r.Context(), day)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, receipts)
}

// Get handles GET /api/receipts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rec, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/receipts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "receipt deleted",
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid receipt id")
		return 0, false
	}
	return id, true
}
