package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/plutus/internal/salary"
	"github.com/fortuna/plutus/internal/service"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
	router  http.Handler
}

// NewServer creates a new REST API server
func NewServer(port string, salaries *service.SalaryService, defaultSeason salary.Season, checks map[string]HealthCheck) *Server {
	handler := NewHandler(salaries, defaultSeason, checks)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Salaries
	api.HandleFunc("/salaries", handler.GetSalaries).Methods("GET")
	api.HandleFunc("/league", handler.GetLeague).Methods("GET")
	api.HandleFunc("/distribution", handler.GetDistribution).Methods("GET")
	api.HandleFunc("/export", handler.Export).Methods("GET")
	api.HandleFunc("/refresh", handler.Refresh).Methods("POST")

	// Teams
	api.HandleFunc("/teams/summary", handler.GetTeamSummaries).Methods("GET")
	api.HandleFunc("/teams/{abbr}/payroll", handler.GetTeamPayroll).Methods("GET")

	// Players
	api.HandleFunc("/players", handler.GetPlayers).Methods("GET")
	api.HandleFunc("/players/search", handler.SearchPlayers).Methods("GET")
	api.HandleFunc("/players/top", handler.GetTopPlayers).Methods("GET")

	root := CORSMiddleware(router)

	return &Server{
		port:    port,
		handler: handler,
		router:  root,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           root,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
