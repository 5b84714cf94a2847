package orders

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

// OrderItemForm is one item line of the order payload.
type OrderItemForm struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

// OrderForm is the create/update payload.
type OrderForm struct {
	CustomerName string          `json:"customer_name" validate:"required"`
	Phone        string          `json:"phone" validate:"required"`
	AltPhone     string          `json:"alt_phone,omitempty"`
	Governorate  string          `json:"governorate" validate:"required"`
	Address      string          `json:"address"`
	Items        []OrderItemForm `json:"items" validate:"required,min=1,dive"`
	Discount     float64         `json:"discount" validate:"gte=0"`
	ShipperID    uuid.UUID       `json:"shipper_id" validate:"required"`
	Date         *time.Time      `json:"date,omitempty"`
	DeliveryDays *int            `json:"delivery_days,omitempty" validate:"omitempty,gt=0"`
	Notes        string          `json:"notes,omitempty"`
}

// StatusForm is the transition payload. ReturnCost and Returned travel
// together; they are required when the transition records returned goods.
type StatusForm struct {
	Status     Status             `json:"status" validate:"required"`
	ReturnCost *float64           `json:"return_cost,omitempty"`
	Returned   []ReturnedItemForm `json:"returned,omitempty" validate:"omitempty,dive"`
}

// ReturnedItemForm is one returned-quantity line of a transition payload.
type ReturnedItemForm struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
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
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/status", h.ChangeStatus)
	r.Post("/{id}/print", h.RegisterPrint)
}

func (form OrderForm) items() []OrderItem {
	items := make([]OrderItem, len(form.Items))
	for i, item := range form.Items {
		items[i] = OrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return items
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 50
	}

	filters := ListFilters{
		Status:      Status(q.Get("status")),
		Governorate: q.Get("governorate"),
		Search:      q.Get("search"),
		Page:        page,
		Limit:       limit,
	}
	if filters.Status != "" && !filters.Status.IsValid() {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Status", "unknown order status "+q.Get("status"))
		return
	}
	if raw := q.Get("shipper_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "shipper id must be a UUID")
			return
		}
		filters.ShipperID = id
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "from must be RFC3339")
			return
		}
		filters.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "to must be RFC3339")
			return
		}
		filters.To = t
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list orders failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"orders": items,
		"total":  total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "order id must be a UUID")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form OrderForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := CreateInput{
		CustomerName: form.CustomerName,
		Phone:        form.Phone,
		AltPhone:     form.AltPhone,
		Governorate:  form.Governorate,
		Address:      form.Address,
		Items:        form.items(),
		Discount:     form.Discount,
		ShipperID:    form.ShipperID,
		DeliveryDays: form.DeliveryDays,
		Notes:        form.Notes,
	}
	if form.Date != nil {
		input.Date = *form.Date
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create order failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "order id must be a UUID")
		return
	}

	var form OrderForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := UpdateInput{
		CustomerName: form.CustomerName,
		Phone:        form.Phone,
		AltPhone:     form.AltPhone,
		Governorate:  form.Governorate,
		Address:      form.Address,
		Items:        form.items(),
		Discount:     form.Discount,
		ShipperID:    form.ShipperID,
		DeliveryDays: form.DeliveryDays,
		Notes:        form.Notes,
	}
	if form.Date != nil {
		input.Date = *form.Date
	}

	order, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// ChangeStatus applies a status transition. When the transition needs return
// detail that the payload does not carry, the response is 422 and the client
// retries with return_cost and the returned breakdown filled in.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "order id must be a UUID")
		return
	}

	var form StatusForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var detail *ReturnDetail
	if form.ReturnCost != nil || len(form.Returned) > 0 {
		detail = &ReturnDetail{Returned: make(map[uuid.UUID]int, len(form.Returned))}
		if form.ReturnCost != nil {
			detail.ReturnCost = *form.ReturnCost
		}
		for _, item := range form.Returned {
			detail.Returned[item.ProductID] = item.Quantity
		}
	}

	order, err := h.service.ChangeStatus(r.Context(), id, form.Status, detail)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) RegisterPrint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "order id must be a UUID")
		return
	}
	order, err := h.service.RegisterPrint(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "order id must be a UUID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
