package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wblproducoes/mvc08/internal/domain"
)

func TestClientIPPrecedence(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name       string
		clientIPH  string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{name: "x-client-ip wins", clientIPH: "198.51.100.1", forwarded: "203.0.113.5", remoteAddr: "192.0.2.9:4432", want: "198.51.100.1"},
		{name: "first forwarded entry", forwarded: "203.0.113.5, 10.0.0.1", remoteAddr: "192.0.2.9:4432", want: "203.0.113.5"},
		{name: "socket address fallback", remoteAddr: "192.0.2.9:4432", want: "192.0.2.9"},
		{name: "socket address without port", remoteAddr: "192.0.2.9", want: "192.0.2.9"},
		{name: "ipv6 socket address", remoteAddr: "[::1]:4432", want: "::1"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.clientIPH != "" {
				r.Header.Set("X-Client-IP", tc.clientIPH)
			}
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if got := clientIP(r); got != tc.want {
				t.Fatalf("clientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVerifyCSRF(t *testing.T) {
	t.Parallel()
	h := NewHandler(nil, Options{})
	session := domain.Session{CSRFToken: "expected-token"}
	var reached bool
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { reached = true })

	run := func(method, token string, withSession bool) *httptest.ResponseRecorder {
		reached = false
		r := httptest.NewRequest(method, "/api/v1/users", nil)
		if token != "" {
			r.Header.Set("X-CSRF-Token", token)
		}
		if withSession {
			r = r.WithContext(context.WithValue(r.Context(), ctxKeySession, session))
		}
		w := httptest.NewRecorder()
		h.verifyCSRF(next).ServeHTTP(w, r)
		return w
	}

	if w := run(http.MethodPost, "expected-token", true); w.Code != http.StatusOK || !reached {
		t.Fatalf("valid token rejected: code=%d reached=%v", w.Code, reached)
	}
	if w := run(http.MethodPost, "wrong-token", true); w.Code != http.StatusForbidden || reached {
		t.Fatalf("mismatched token accepted: code=%d reached=%v", w.Code, reached)
	}
	if w := run(http.MethodPost, "", true); w.Code != http.StatusForbidden || reached {
		t.Fatalf("missing token accepted: code=%d reached=%v", w.Code, reached)
	}
	if w := run(http.MethodGet, "", true); w.Code != http.StatusOK || !reached {
		t.Fatalf("read blocked by csrf check: code=%d reached=%v", w.Code, reached)
	}
	if w := run(http.MethodPost, "expected-token", false); w.Code != http.StatusUnauthorized || reached {
		t.Fatalf("no session accepted: code=%d reached=%v", w.Code, reached)
	}
}

func TestMapDomainError(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrAccountInactive, http.StatusUnauthorized, "ACCOUNT_INACTIVE"},
		{domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{domain.ErrTokenExpiredOrInvalid, http.StatusUnauthorized, "TOKEN_INVALID"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrProtectedUser, http.StatusForbidden, "PROTECTED_USER"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION_ERROR"},
		{context.DeadlineExceeded, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		status, code, _ := mapDomainError(tc.err)
		if status != tc.status || code != tc.code {
			t.Errorf("mapDomainError(%v) = (%d, %s), want (%d, %s)", tc.err, status, code, tc.status, tc.code)
		}
	}
}

func TestWriteMappedErrorSetsRetryAfter(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	err := &domain.RateLimitedError{RetryAfter: 90*time.Second + 200*time.Millisecond}
	writeMappedError(context.Background(), w, "login", err)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "91" {
		t.Fatalf("Retry-After = %q, want rounded-up seconds %q", got, "91")
	}
}
