package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/imagify-backend/internal/api/handlers"
	"github.com/baharkarakas/imagify-backend/internal/api/httpx"
	"github.com/baharkarakas/imagify-backend/internal/auth"
	"github.com/baharkarakas/imagify-backend/internal/config"
	"github.com/baharkarakas/imagify-backend/internal/metrics"
	"github.com/baharkarakas/imagify-backend/internal/middleware"
	repo "github.com/baharkarakas/imagify-backend/internal/repository"
	"github.com/baharkarakas/imagify-backend/internal/services"
)

type RouterDeps struct {
	Cfg      config.Config
	Log      *slog.Logger
	Store    repo.Store
	TM       *auth.TokenManager
	Users    *services.UserService
	Images   *services.ImageService
	Payments *services.PaymentService
	Txns     *services.TransactionService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(d.Cfg.CORSOrigin, ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "token", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			httpx.WriteError(w, http.StatusServiceUnavailable, "unhealthy", "database unreachable", nil)
			return
		}
		httpx.OK(w, map[string]any{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	authMw := middleware.NewAuthMiddleware(d.TM, d.Log)
	ah := handlers.NewAuthHandler(d.Users)
	uh := handlers.NewUserHandler(d.Users)
	ih := handlers.NewImageHandler(d.Images)
	ph := handlers.NewPaymentHandler(d.Payments, d.Txns)

	r.Route("/api", func(r chi.Router) {
		// ---------- user ----------
		r.Post("/user/register", ah.Register)
		r.Post("/user/login", ah.Login)
		r.With(authMw.Auth).Get("/user/credits", uh.Credits)

		// ---------- image ----------
		r.With(authMw.Auth).Post("/image/generate-image", ih.Generate)

		// ---------- payment ----------
		r.Get("/payment/plans", ph.Plans)
		r.Group(func(r chi.Router) {
			r.Use(authMw.Auth)
			r.Post("/payment/razorpay", ph.Order)
			r.Post("/payment/verify", ph.Verify)
			r.Get("/payment/transactions", ph.Transactions)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "route not found", nil)
	})
	return r
}
