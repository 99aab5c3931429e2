package main

import (
	"context"
	"net/http"

	"github.com/alim08/exchange/pkg/auth"
	"github.com/alim08/exchange/pkg/metrics"
	"github.com/alim08/exchange/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
)

// QuoteService prices a currency pair for the holder of token.
type QuoteService interface {
	Quote(ctx context.Context, token, from, to string) (models.Quote, error)
}

// Server serves the public API.
type Server struct {
	quotes      QuoteService
	corsOrigins []string
}

// NewServer creates a Server. An empty origin list allows any origin.
func NewServer(quotes QuoteService, corsOrigins []string) *Server {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	return &Server{quotes: quotes, corsOrigins: corsOrigins}
}

// Handler builds the API router. CORS wraps the router so preflight
// requests are answered before route matching.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	// Add middleware
	router.Use(requestIDMiddleware)
	router.Use(recoverMiddleware)
	router.Use(loggingMiddleware)
	router.Use(metricsMiddleware)

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)

	// Quote endpoint (bearer token required)
	protected := router.PathPrefix("/exchange").Subrouter()
	protected.Use(auth.RequireBearer)
	protected.HandleFunc("/{from}/{to}", s.quoteHandler).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
	})

	return cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	})(router)
}

// metricsRouter serves prometheus metrics on the metrics port.
func metricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", metrics.Handler())
	return r
}
