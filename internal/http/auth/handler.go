package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/http/render"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

type Handler struct {
	users  *user.Service
	issuer *auth.Issuer
}

func NewHandler(users *user.Service, issuer *auth.Issuer) *Handler {
	return &Handler{users: users, issuer: issuer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	ShopName string `json:"shopName"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	ShopName string    `json:"shopName"`
	Role     user.Role `json:"role"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.Register(r.Context(), user.RegisterParams{
		Username: req.Username,
		Password: req.Password,
		ShopName: req.ShopName,
	})
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, u)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, u)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, u *user.User) {
	token, expires, err := h.issuer.Issue(u)
	if err != nil {
		render.ServiceError(w, r, err)
		return
	}

	render.JSON(w, status, tokenResponse{
		Token:     token,
		ExpiresAt: expires,
		User: userResponse{
			ID:       u.ID,
			Username: u.Username,
			ShopName: u.ShopName,
			Role:     u.Role,
		},
	})
}
