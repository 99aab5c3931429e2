// Package authtest provides an in-process auth delegate for tests. Tokens are
// HS256 JWTs whose subject is returned as the account id.
package authtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Delegate is a fake auth service answering POST /auth/solve.
type Delegate struct {
	*httptest.Server
	secret []byte
	calls  atomic.Int64
}

// NewDelegate starts a Delegate that accepts tokens signed with secret. The
// server is closed when the test ends.
func NewDelegate(t testing.TB, secret string) *Delegate {
	t.Helper()
	d := &Delegate{secret: []byte(secret)}
	d.Server = httptest.NewServer(http.HandlerFunc(d.solve))
	t.Cleanup(d.Close)
	return d
}

// Calls reports how many solve requests the delegate received.
func (d *Delegate) Calls() int64 { return d.calls.Load() }

// Mint signs a token for account that expires after ttl. A negative ttl
// yields an expired token.
func (d *Delegate) Mint(t testing.TB, account string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   account,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	s, err := tok.SignedString(d.secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func (d *Delegate) solve(w http.ResponseWriter, r *http.Request) {
	d.calls.Add(1)
	if r.Method != http.MethodPost || r.URL.Path != "/auth/solve" {
		http.NotFound(w, r)
		return
	}
	var body struct {
		JWT string `json:"jwt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(body.JWT, claims, func(*jwt.Token) (interface{}, error) {
		return d.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"idAccount": claims.Subject})
}
