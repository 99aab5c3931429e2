package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alim08/exchange/pkg/httpx"
)

func TestClientDo_SetsDefaultHeaders(t *testing.T) {
	t.Parallel()

	var gotUA, gotTrace string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotTrace = r.Header.Get("X-Trace")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	// Arrange: a client with one default header.
	c := httpx.New(time.Second)
	c.Headers = map[string]string{"X-Trace": "default"}

	// Act
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	res, err := c.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	// Assert
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "exchange-quote-service/1.0", gotUA)
	assert.Equal(t, "default", gotTrace)
}

func TestClientDo_KeepsRequestHeaders(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := httpx.New(time.Second)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "caller/2.0")

	res, err := c.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, "caller/2.0", gotUA)
}
