// Package server exposes the backend HTTP API: auth, menu and orders.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tiffinbox/internal/auth"
	"tiffinbox/internal/common/logger"
	"tiffinbox/internal/domain"
	"tiffinbox/internal/menu"
)

// OrderService is what the handlers need from the order side.
type OrderService interface {
	Create(ctx context.Context, customerID string, req domain.CreateOrderRequest) (domain.Order, error)
	Get(ctx context.Context, customerID, orderID string) (domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, note string) (domain.Order, error)
}

type Server struct {
	orders OrderService
	menu   *menu.Repository
	auth   *auth.Service
	lg     *logger.Logger
}

func New(orders OrderService, menuRepo *menu.Repository, authSvc *auth.Service, lg *logger.Logger) *Server {
	if lg == nil {
		lg = logger.New("api-server")
	}
	return &Server{orders: orders, menu: menuRepo, auth: authSvc, lg: lg}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.requestLogger)

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/menu", s.handleListMenu)
		r.Get("/menu/{itemID}", s.handleGetMenuItem)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Post("/orders", s.handleCreateOrder)
			r.Get("/orders/my", s.handleMyOrders)
			r.Get("/orders/{orderID}", s.handleGetOrder)
			r.Put("/orders/{orderID}/status", s.handleUpdateStatus)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.lg.Debug("http_request", map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		})
	})
}
