// Package httpx holds the outbound HTTP client shared by the upstream callers.
package httpx

import (
	"net"
	"net/http"
	"time"
)

// Doer is the subset of *http.Client the upstream callers depend on.
//
//go:generate mockgen -source=httpx.go -destination=mock_httpx.go -package=httpx Doer
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps http.Client with a tuned transport and default headers.
// Per-call deadlines come from the request context, not from Client.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
}

// New returns a Client with pooled connections. timeout is an upper bound
// applied on top of any context deadline.
func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout, Transport: transport},
		UserAgent: "exchange-quote-service/1.0",
	}
}

// Do sets default headers that the request does not already carry and sends it.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return c.HTTP.Do(req)
}
