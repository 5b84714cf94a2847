package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

// SettingsForm is the save payload.
type SettingsForm struct {
	StoreName             string `json:"store_name"`
	DefaultDeliveryDays   int    `json:"default_delivery_days" validate:"gte=1"`
	DefaultStockThreshold int    `json:"default_stock_threshold" validate:"gte=0"`
	DelayedAlertsEnabled  bool   `json:"delayed_alerts_enabled"`
	LowStockAlertsEnabled bool   `json:"low_stock_alerts_enabled"`
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Show)
	r.Put("/", h.Save)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("load settings failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var form SettingsForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	saved, err := h.service.Save(r.Context(), Settings{
		StoreName:             form.StoreName,
		DefaultDeliveryDays:   form.DefaultDeliveryDays,
		DefaultStockThreshold: form.DefaultStockThreshold,
		DelayedAlertsEnabled:  form.DelayedAlertsEnabled,
		LowStockAlertsEnabled: form.LowStockAlertsEnabled,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}
