package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alim08/exchange/pkg/logger"
	"github.com/alim08/exchange/pkg/metrics"
	"go.uber.org/zap"
)

type ctxKey struct{}

// Rejection reasons, used as metric labels.
const (
	reasonMissingHeader = "missing_header"
	reasonInvalidFormat = "invalid_format"
)

// TokenFromHeader extracts the token from a "Bearer <token>" header value.
// The scheme is matched case-insensitively.
func TokenFromHeader(h string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithToken returns a copy of ctx carrying token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

// TokenFromContext returns the bearer token placed by RequireBearer.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxKey{}).(string)
	return token, ok
}

// RequireBearer rejects requests without a well-formed bearer token and
// stores the token in the request context. It does not contact the delegate.
func RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			reject(w, r, reasonMissingHeader, "authorization header required")
			return
		}
		token, ok := TokenFromHeader(header)
		if !ok {
			reject(w, r, reasonInvalidFormat, "invalid authorization format")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), token)))
	})
}

func reject(w http.ResponseWriter, r *http.Request, reason, detail string) {
	metrics.AuthMiddlewareErrors.WithLabelValues(reason).Inc()
	logger.Log.Warn("request rejected by auth middleware",
		zap.String("reason", reason),
		zap.String("path", r.URL.Path),
		zap.String("ip", r.RemoteAddr))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
