package voice

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	productHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/product"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/http/render"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/voice"
)

type Handler struct {
	resolver *voice.Resolver
}

func NewHandler(resolver *voice.Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/commands", h.command)
}

type commandRequest struct {
	Utterance string `json:"utterance" validate:"required"`
}

type commandResponse struct {
	Quantity     int                     `json:"quantity"`
	ProductQuery string                  `json:"productQuery"`
	Product      productHandler.Response `json:"product"`
}

// command resolves a spoken phrase to a catalog product. The client adds the
// match to its cart.
func (h *Handler) command(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := h.resolver.Resolve(r.Context(), auth.UserID(r.Context()), req.Utterance)
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, commandResponse{
		Quantity:     match.Command.Quantity,
		ProductQuery: match.Command.ProductQuery,
		Product:      productHandler.ToResponse(match.Product),
	})
}
