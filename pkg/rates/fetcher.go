// Package rates fetches conversion tables from the exchange-rate provider.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alim08/exchange/pkg/apierr"
	"github.com/alim08/exchange/pkg/httpx"
	"github.com/alim08/exchange/pkg/logger"
	"github.com/alim08/exchange/pkg/metrics"
	"github.com/alim08/exchange/pkg/models"
	"github.com/alim08/exchange/pkg/validation"
	"go.uber.org/zap"
)

// DefaultURLTemplate is the exchangerate-api v6 endpoint.
const DefaultURLTemplate = "https://v6.exchangerate-api.com/v6/{apiKey}/latest/{base}"

// DefaultTimeout bounds a single call to the provider.
const DefaultTimeout = 6 * time.Second

const resultSuccess = "success"

// Fetcher retrieves the latest RateTable for a base currency.
type Fetcher struct {
	template string
	apiKey   string
	timeout  time.Duration
	client   httpx.Doer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the outbound client.
func WithHTTPClient(c httpx.Doer) Option {
	return func(f *Fetcher) { f.client = c }
}

// NewFetcher creates a Fetcher. template must contain {base}; {apiKey} is
// optional.
func NewFetcher(template, apiKey string, timeout time.Duration, opts ...Option) *Fetcher {
	if template == "" {
		template = DefaultURLTemplate
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f := &Fetcher{template: template, apiKey: apiKey, timeout: timeout}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = httpx.New(timeout)
	}
	return f
}

// URL renders the provider URL for base.
func (f *Fetcher) URL(base string) string {
	return strings.NewReplacer(
		"{apiKey}", url.PathEscape(f.apiKey),
		"{base}", url.PathEscape(validation.NormalizeCurrency(base)),
	).Replace(f.template)
}

type latestResponse struct {
	Result          string                 `json:"result"`
	ErrorType       string                 `json:"error-type"`
	BaseCode        string                 `json:"base_code"`
	ConversionRates map[string]json.Number `json:"conversion_rates"`
}

// Latest fetches the rate table for base. Transport failures, non-200
// answers and undecodable bodies are BadGateway; a provider-reported failure
// is InvalidRequest carrying the provider's error type.
func (f *Fetcher) Latest(ctx context.Context, base string) (table models.RateTable, err error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(metrics.UpstreamRates, metrics.Outcome(err)).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues(metrics.UpstreamRates, apierr.KindOf(err).String()).Inc()
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(base), nil)
	if err != nil {
		return models.RateTable{}, apierr.BadGateway(0, fmt.Sprintf("exchange api error: %v", err), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		// The URL carries the API key; log the base only.
		logger.Log.Warn("rate provider call failed", zap.String("base", base), zap.Error(err))
		return models.RateTable{}, apierr.BadGateway(0, "exchange api error: request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		logger.Log.Warn("rate provider returned non-200",
			zap.String("base", base),
			zap.Int("status", resp.StatusCode))
		return models.RateTable{}, apierr.BadGateway(resp.StatusCode, "failed to fetch exchange rate", nil)
	}

	var out latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		logger.Log.Error("rate provider returned undecodable body", zap.String("base", base), zap.Error(err))
		return models.RateTable{}, apierr.BadGateway(resp.StatusCode, "exchange api returned an invalid response", err)
	}

	if out.Result != resultSuccess {
		detail := out.ErrorType
		if detail == "" {
			detail = "unknown error"
		}
		logger.Log.Info("rate provider reported failure",
			zap.String("base", base),
			zap.String("error_type", detail))
		return models.RateTable{}, apierr.InvalidRequest(detail)
	}

	code := out.BaseCode
	if code == "" {
		code = validation.NormalizeCurrency(base)
	}
	table, err = models.RateTableFromJSON(code, out.ConversionRates)
	if err != nil {
		return models.RateTable{}, apierr.BadGateway(resp.StatusCode, "exchange api returned an invalid response", err)
	}
	return table, nil
}
