package main

import (
	"encoding/json"
	"net/http"

	"github.com/alim08/exchange/pkg/apierr"
	"github.com/alim08/exchange/pkg/auth"
	"github.com/alim08/exchange/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// writeJSON writes a JSON response with proper headers
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.Error("JSON encoding error", zap.Error(err))
	}
}

// writeError maps err to its status and writes {"detail": ...}.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apierr.StatusOf(err)
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		requestLogger(r).Error("request failed", fields...)
	} else {
		requestLogger(r).Warn("request rejected", fields...)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, status, errorResponse{Detail: apierr.DetailOf(err)})
}

// healthHandler reports liveness. It does not touch the upstreams.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Service: "exchange"})
}

// quoteHandler serves GET /exchange/{from}/{to}.
func (s *Server) quoteHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		writeError(w, r, apierr.Unauthorized(0, "authorization header required"))
		return
	}

	quote, err := s.quotes.Quote(r.Context(), token, vars["from"], vars["to"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
