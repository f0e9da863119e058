package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/commission/response"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

func NewRouter(h *CommissionHandler, authorizer domain.Authorizer, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/admin", func(r chi.Router) {
		r.Post("/commissions/mark-paid", h.MarkPaid)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(authorizer, domain.RoleAdmin))
			r.Get("/commissions", h.ListSales)
			r.Get("/vendors/{vendorID}/summary", h.VendorSummary)
			r.Put("/coupons/{code}", h.AssignCoupon)
			r.Delete("/coupons/{code}", h.UnassignCoupon)
			r.Post("/tiers/{period}/recalculate", h.RecalculateTiers)
		})
	})

	// Вендор видит только свои записи
	r.Route("/vendor", func(r chi.Router) {
		r.Use(RequireRole(authorizer, domain.RoleVendor))
		r.Get("/commissions", h.VendorSales)
		r.Get("/summary", h.VendorOwnSummary)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
