package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/http/render"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/stats", h.stats)
	r.Get("/chart-data", h.chartData)
}

type totalsResponse struct {
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

type statsResponse struct {
	Today    totalsResponse         `json:"today"`
	Weekly   totalsResponse         `json:"weekly"`
	Monthly  totalsResponse         `json:"monthly"`
	Products dashboard.StockSummary `json:"products"`
}

type bucketResponse struct {
	Key          string  `json:"key"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

func toTotals(t dashboard.Totals) totalsResponse {
	return totalsResponse{Revenue: t.Revenue.InexactFloat64(), Transactions: t.Transactions}
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, statsResponse{
		Today:    toTotals(stats.Today),
		Weekly:   toTotals(stats.Weekly),
		Monthly:  toTotals(stats.Monthly),
		Products: stats.Products,
	})
}

func (h *Handler) chartData(w http.ResponseWriter, r *http.Request) {
	period, err := dashboard.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	buckets, err := h.svc.ChartSeries(r.Context(), auth.UserID(r.Context()), period)
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	resp := make([]bucketResponse, len(buckets))
	for i, b := range buckets {
		resp[i] = bucketResponse{Key: b.Key, Revenue: b.Revenue.InexactFloat64(), Transactions: b.Transactions}
	}

	render.JSON(w, http.StatusOK, resp)
}
