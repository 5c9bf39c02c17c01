//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/pagination"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/service"
)

type Service interface {
	ListCustomers(ctx context.Context, params pagination.Params) (*service.CustomerPage, error)
	GetCustomer(ctx context.Context, id int64) (*repository.CustomerDetails, error)
	GetCustomerOrders(ctx context.Context, id int64) (*service.CustomerOrders, error)
	ListOrders(ctx context.Context, params pagination.Params) (*service.OrderPage, error)
	GetOrder(ctx context.Context, id int64) (*repository.OrderWithCustomer, error)
	GetStatistics(ctx context.Context) (*repository.Statistics, error)
}

type Server struct {
	service Service
	logger  *zap.Logger
	server  *http.Server
}

func New(service Service, logger *zap.Logger) *Server {
	return &Server{
		service: service,
		logger:  logger,
	}
}

func (s *Server) Run(port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info("Server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler builds the full middleware chain around the router. CORS sits
// outermost so preflights are answered before routing can 405 them.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.requestLogMiddleware(s.metricsMiddleware(s.setupRoutes())))
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(handleNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	// {id:[0-9]+} keeps non-integer ids from matching at all, so they
	// fall through to the 404 handler rather than a 400.
	api := router.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = router.NotFoundHandler
	api.MethodNotAllowedHandler = router.MethodNotAllowedHandler

	api.HandleFunc("/customers", s.handleListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", s.handleGetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}/orders", s.handleGetCustomerOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}", s.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/statistics", s.handleGetStatistics).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "Endpoint not found")
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
