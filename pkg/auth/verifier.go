// Package auth verifies bearer tokens against the external auth delegate.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alim08/exchange/pkg/apierr"
	"github.com/alim08/exchange/pkg/httpx"
	"github.com/alim08/exchange/pkg/logger"
	"github.com/alim08/exchange/pkg/metrics"
	"github.com/alim08/exchange/pkg/validation"
	"go.uber.org/zap"
)

// SolvePath is the delegate endpoint that resolves a token to an account.
const SolvePath = "/auth/solve"

// DefaultTimeout bounds a single call to the delegate.
const DefaultTimeout = 5 * time.Second

// Verifier resolves bearer tokens to account identifiers.
type Verifier struct {
	baseURL string
	timeout time.Duration
	client  httpx.Doer
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithHTTPClient overrides the outbound client.
func WithHTTPClient(c httpx.Doer) Option {
	return func(v *Verifier) { v.client = c }
}

// NewVerifier creates a Verifier for the delegate at baseURL.
func NewVerifier(baseURL string, timeout time.Duration, opts ...Option) *Verifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	v := &Verifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.client == nil {
		v.client = httpx.New(timeout)
	}
	return v
}

type solveRequest struct {
	JWT string `json:"jwt"`
}

type solveResponse struct {
	IDAccount accountID `json:"idAccount" validate:"required"`
}

// accountID accepts the identifier as either a JSON string or a number.
type accountID string

func (a *accountID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = accountID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("idAccount must be a string or number")
	}
	*a = accountID(n.String())
	return nil
}

// Verify posts token to the delegate and returns the account it belongs to.
// A non-200 answer is Unauthorized; transport failures, timeouts and
// malformed 200 bodies are ServiceUnavailable.
func (v *Verifier) Verify(ctx context.Context, token string) (id string, err error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(metrics.UpstreamAuth, metrics.Outcome(err)).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues(metrics.UpstreamAuth, apierr.KindOf(err).String()).Inc()
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	body, err := json.Marshal(solveRequest{JWT: token})
	if err != nil {
		return "", fmt.Errorf("encode solve request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+SolvePath, bytes.NewReader(body))
	if err != nil {
		return "", apierr.ServiceUnavailable(fmt.Sprintf("auth service unavailable: %v", err), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		logger.Log.Warn("auth delegate call failed", zap.String("url", req.URL.Redacted()), zap.Error(err))
		return "", apierr.ServiceUnavailable(fmt.Sprintf("auth service unavailable: %v", err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		logger.Log.Debug("token rejected", zap.Int("status", resp.StatusCode))
		return "", apierr.Unauthorized(resp.StatusCode, fmt.Sprintf("invalid token: %d", resp.StatusCode))
	}

	var out solveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		logger.Log.Error("auth delegate returned undecodable body", zap.Error(err))
		return "", apierr.ServiceUnavailable("auth service returned an invalid response", err)
	}
	if err := validation.ValidateStruct(out); err != nil {
		logger.Log.Error("auth delegate response missing account", zap.Error(err))
		return "", apierr.ServiceUnavailable("auth service returned an invalid response", err)
	}
	return string(out.IDAccount), nil
}
