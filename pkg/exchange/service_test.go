package exchange_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alim08/exchange/pkg/apierr"
	"github.com/alim08/exchange/pkg/exchange"
	"github.com/alim08/exchange/pkg/models"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 7, 10, 14, 3, 7, 0, time.UTC)

func usdTable(t *testing.T) models.RateTable {
	t.Helper()
	table, err := models.RateTableFromJSON("USD", map[string]json.Number{
		"USD": "1",
		"EUR": "0.90",
		"BRL": "5.4321",
	})
	require.NoError(t, err)
	return table
}

func newService(t *testing.T) (*exchange.Service, *exchange.MockVerifier, *exchange.MockRateFetcher) {
	ctrl := gomock.NewController(t)
	v := exchange.NewMockVerifier(ctrl)
	f := exchange.NewMockRateFetcher(ctrl)
	s := exchange.NewService(v, f, exchange.WithClock(func() time.Time { return fixedNow }))
	return s, v, f
}

func TestQuote_Success(t *testing.T) {
	s, v, f := newService(t)
	gomock.InOrder(
		v.EXPECT().Verify(gomock.Any(), "tok").Return("acc-7", nil),
		f.EXPECT().Latest(gomock.Any(), "USD").Return(usdTable(t), nil),
	)

	q, err := s.Quote(context.Background(), "tok", "usd", "eur")
	require.NoError(t, err)

	assert.Zero(t, q.Sell.Cmp(decimal.MustParse("0.909")), "sell = %s", q.Sell)
	assert.Zero(t, q.Buy.Cmp(decimal.MustParse("0.891")), "buy = %s", q.Buy)
	assert.Equal(t, "acc-7", q.AccountID)
	assert.Equal(t, "2025-07-10 14:03:07", q.Date.Format(models.DateLayout))
}

func TestQuote_VerifierFailureShortCircuits(t *testing.T) {
	tests := map[string]error{
		"rejected":    apierr.Unauthorized(http.StatusUnauthorized, "invalid token: 401"),
		"unavailable": apierr.ServiceUnavailable("auth service unavailable", errors.New("dial")),
	}
	for name, verr := range tests {
		t.Run(name, func(t *testing.T) {
			s, v, f := newService(t)
			v.EXPECT().Verify(gomock.Any(), "tok").Return("", verr)
			f.EXPECT().Latest(gomock.Any(), gomock.Any()).Times(0)

			_, err := s.Quote(context.Background(), "tok", "USD", "EUR")
			assert.Same(t, verr, err)
		})
	}
}

func TestQuote_FetchFailurePropagates(t *testing.T) {
	s, v, f := newService(t)
	ferr := apierr.InvalidRequest("unsupported-code")
	v.EXPECT().Verify(gomock.Any(), "tok").Return("acc", nil)
	f.EXPECT().Latest(gomock.Any(), "XYZ").Return(models.RateTable{}, ferr)

	_, err := s.Quote(context.Background(), "tok", "xyz", "EUR")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
	assert.Equal(t, "unsupported-code", apierr.DetailOf(err))
}

func TestQuote_CurrencyNotFound(t *testing.T) {
	s, v, f := newService(t)
	v.EXPECT().Verify(gomock.Any(), "tok").Return("acc", nil)
	f.EXPECT().Latest(gomock.Any(), "USD").Return(usdTable(t), nil)

	_, err := s.Quote(context.Background(), "tok", "USD", "gbp")
	require.Error(t, err)
	assert.Equal(t, apierr.KindInvalidRequest, apierr.KindOf(err))
	assert.Equal(t, "currency GBP not found", apierr.DetailOf(err))
}

func TestQuote_DefaultClockIsUTC(t *testing.T) {
	ctrl := gomock.NewController(t)
	v := exchange.NewMockVerifier(ctrl)
	f := exchange.NewMockRateFetcher(ctrl)
	v.EXPECT().Verify(gomock.Any(), gomock.Any()).Return("acc", nil)
	f.EXPECT().Latest(gomock.Any(), gomock.Any()).Return(usdTable(t), nil)

	before := time.Now().UTC().Truncate(time.Second)
	q, err := exchange.NewService(v, f).Quote(context.Background(), "tok", "USD", "BRL")
	require.NoError(t, err)

	assert.Equal(t, time.UTC, q.Date.Location())
	assert.False(t, q.Date.Before(before))
}
