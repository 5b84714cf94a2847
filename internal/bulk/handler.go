package bulk

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tajirhq/tajir/internal/catalog/products"
	"github.com/tajirhq/tajir/internal/orders"
	"github.com/tajirhq/tajir/internal/platform/httpx"
)

// maxUploadBytes caps the accepted workbook size.
const maxUploadBytes = 10 << 20

type Handler struct {
	logger   *slog.Logger
	importer *Importer
	orders   *orders.Service
	products products.Repository
}

func NewHandler(logger *slog.Logger, importer *Importer, orderService *orders.Service, productRepo products.Repository) *Handler {
	return &Handler{
		logger:   logger,
		importer: importer,
		orders:   orderService,
		products: productRepo,
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/import", h.Import)
	r.Get("/export", h.Export)
}

// Import accepts a multipart upload with the workbook in the "file" field.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "expected a multipart upload")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing file field")
		return
	}
	defer file.Close()

	report, err := h.importer.Import(r.Context(), file)
	if err != nil {
		h.logger.Error("bulk import failed", "error", err)
		httpx.Problem(w, http.StatusBadRequest, "Import Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// Export streams the current orders as an xlsx download. The list filters of
// the orders endpoint apply here too.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filters := orders.ListFilters{
		Status:      orders.Status(r.URL.Query().Get("status")),
		Governorate: r.URL.Query().Get("governorate"),
		Search:      r.URL.Query().Get("search"),
	}
	if filters.Status != "" && !filters.Status.IsValid() {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Status", "unknown order status")
		return
	}

	orderRows, _, err := h.orders.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("export orders failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	productRows, err := h.products.ListAll(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.xlsx"`)
	if err := WriteOrders(w, orderRows, productRows); err != nil {
		h.logger.Error("write export workbook failed", "error", err)
	}
}
