package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	authHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/auth"
	dashboardHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/dashboard"
	productHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/product"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/http/render"
	saleHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/sale"
	voiceHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/voice"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Issuer         *auth.Issuer
	DB             Pinger
	Timeout        time.Duration
	AllowedOrigins []string
}

type Handlers struct {
	Auth      *authHandler.Handler
	Products  *productHandler.Handler
	Sales     *saleHandler.Handler
	Dashboard *dashboardHandler.Handler
	Voice     *voiceHandler.Handler
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", health(opts.DB))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(opts.Issuer))

			r.Route("/products", h.Products.Routes)

			r.Route("/sales", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Sales.Routes(r)
			})

			r.Route("/dashboard", h.Dashboard.Routes)

			r.Route("/voice", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Voice.Routes(r)
			})
		})
	})

	return router
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				render.Error(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}

		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
