// Package exchange turns a bearer token and a currency pair into a Quote.
package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/alim08/exchange/pkg/apierr"
	"github.com/alim08/exchange/pkg/logger"
	"github.com/alim08/exchange/pkg/metrics"
	"github.com/alim08/exchange/pkg/models"
	"github.com/alim08/exchange/pkg/validation"
	"go.uber.org/zap"
)

//go:generate mockgen -source=service.go -destination=mock_exchange.go -package=exchange Verifier,RateFetcher

// Verifier resolves a bearer token to an account id.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// RateFetcher returns the current rate table for a base currency.
type RateFetcher interface {
	Latest(ctx context.Context, base string) (models.RateTable, error)
}

// Service runs the quote pipeline: verify, fetch, look up, price.
type Service struct {
	verifier Verifier
	fetcher  RateFetcher
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to stamp quotes.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a Service.
func NewService(v Verifier, f RateFetcher, opts ...Option) *Service {
	s := &Service{verifier: v, fetcher: f, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote verifies token, fetches rates for from and prices the to currency.
// It stops at the first failing step; verification errors are returned as-is.
func (s *Service) Quote(ctx context.Context, token, from, to string) (q models.Quote, err error) {
	defer func() {
		if err != nil {
			metrics.QuoteFailures.WithLabelValues(apierr.KindOf(err).String()).Inc()
			return
		}
		metrics.QuotesIssued.Inc()
	}()

	from = validation.NormalizeCurrency(from)
	to = validation.NormalizeCurrency(to)

	account, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return models.Quote{}, err
	}

	table, err := s.fetcher.Latest(ctx, from)
	if err != nil {
		return models.Quote{}, err
	}

	rate, ok := table.Rate(to)
	if !ok {
		return models.Quote{}, apierr.InvalidRequest(fmt.Sprintf("currency %s not found", to))
	}

	q, err = models.NewQuote(rate, account, s.now())
	if err != nil {
		return models.Quote{}, fmt.Errorf("price %s/%s: %w", from, to, err)
	}

	logger.Log.Debug("quote issued",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("account", account),
		zap.String("sell", q.Sell.String()),
		zap.String("buy", q.Buy.String()))
	return q, nil
}
