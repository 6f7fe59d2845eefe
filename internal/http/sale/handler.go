package sale

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/http/render"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/receipt"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

type Handler struct {
	svc     *sale.Service
	users   *user.Service
	receipt receipt.Options
	taxRate decimal.Decimal
}

// NewHandler builds the sales handler. opts supplies the currency and
// location of rendered receipts; the shop and cashier names come from the
// caller's account. taxRate applies to checkouts that name none.
func NewHandler(svc *sale.Service, users *user.Service, opts receipt.Options, taxRate decimal.Decimal) *Handler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &Handler{svc: svc, users: users, receipt: opts, taxRate: taxRate}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.checkout)
	r.Get("/", h.list)
	r.Get("/today", h.today)
	r.Get("/{id}", h.get)
	r.Get("/{id}/receipt", h.receiptText)
}

type checkoutItem struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
}

type checkoutRequest struct {
	Items         []checkoutItem     `json:"items" validate:"dive"`
	PaymentMethod sale.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cash card mobile_money"`
	AmountPaid    *decimal.Decimal   `json:"amountPaid"`
	TaxRate       *decimal.Decimal   `json:"taxRate"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]sale.ItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = sale.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	taxRate := h.taxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	s, err := h.svc.Checkout(r.Context(), auth.UserID(r.Context()), sale.CheckoutParams{
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    req.AmountPaid,
		TaxRate:       taxRate,
	})
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(s))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var params sale.ListParams

	if s := q.Get("startDate"); s != "" {
		t, _, err := parseDate(s, h.receipt.Location)
		if err != nil {
			render.Error(w, http.StatusBadRequest, "invalid startDate")
			return
		}

		params.StartDate = new(t)
	}

	if s := q.Get("endDate"); s != "" {
		t, dateOnly, err := parseDate(s, h.receipt.Location)
		if err != nil {
			render.Error(w, http.StatusBadRequest, "invalid endDate")
			return
		}

		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
		}

		params.EndDate = new(t)
	}

	var err error

	if params.Page, err = intParam(q.Get("page")); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid page")
		return
	}

	if params.Limit, err = intParam(q.Get("limit")); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid limit")
		return
	}

	page, err := h.svc.List(r.Context(), auth.UserID(r.Context()), params)
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, listResponse{
		Sales: toResponseList(page.Sales),
		Pagination: paginationResponse{
			Total:       page.Total,
			TotalPages:  page.TotalPages,
			CurrentPage: page.CurrentPage,
		},
	})
}

func (h *Handler) today(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Today(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, todayResponse{
		Sales: toResponseList(summary.Sales),
		Total: summary.Total.InexactFloat64(),
		Count: summary.Count,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}

	render.JSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) receiptText(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}

	opts := h.receipt

	u, err := h.users.Get(r.Context(), s.CashierID)
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	opts.ShopName = u.ShopName
	opts.Cashier = u.Username

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if err := receipt.Render(w, s, opts); err != nil {
		render.ServiceError(w, r, err)
	}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*sale.Sale, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	s, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		render.ServiceError(w, r, err)
		return nil, false
	}

	return s, true
}

// parseDate accepts a calendar date, read in loc, or an RFC 3339 timestamp.
func parseDate(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, true, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return t, false, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	return strconv.Atoi(s)
}
