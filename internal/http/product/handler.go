package product

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/http/render"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

const maxImportSize = 10 << 20

type Handler struct {
	svc *product.Service
}

func NewHandler(svc *product.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/low-stock", h.lowStock)
	r.Get("/search", h.search)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(user.RoleAdmin))

		r.Post("/", h.create)
		r.Post("/import", h.importCSV)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type createProductRequest struct {
	Name              string          `json:"name" validate:"required"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock" validate:"gte=0"`
	Category          string          `json:"category"`
	Barcode           *string         `json:"barcode"`
	LowStockThreshold *int            `json:"lowStockThreshold" validate:"omitempty,gte=0"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Create(r.Context(), auth.UserID(r.Context()), product.CreateParams{
		Name:              req.Name,
		Price:             req.Price,
		Stock:             req.Stock,
		Category:          req.Category,
		Barcode:           req.Barcode,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, ToResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(products))
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListLowStock(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(products))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		render.Error(w, http.StatusBadRequest, "q is required")
		return
	}

	var limit int

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			render.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}

		limit = n
	}

	products, err := h.svc.Search(r.Context(), auth.UserID(r.Context()), q, limit)
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(products))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, ToResponse(p))
}

type updateProductRequest struct {
	Name              *string          `json:"name,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	Stock             *int             `json:"stock,omitempty"`
	Category          *string          `json:"category,omitempty"`
	Barcode           *string          `json:"barcode,omitempty"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateProductRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), id, product.UpdateParams{
		Name:              req.Name,
		Price:             req.Price,
		Stock:             req.Stock,
		Category:          req.Category,
		Barcode:           req.Barcode,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, ToResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), id); err != nil {
		render.ServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		render.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		render.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	result, err := h.svc.Import(r.Context(), auth.UserID(r.Context()), file)
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	skipped := result.Skipped
	if skipped == nil {
		skipped = []product.RowError{}
	}

	render.JSON(w, http.StatusOK, importResponse{
		Imported: len(result.Created),
		Created:  toResponseList(result.Created),
		Skipped:  skipped,
	})
}
