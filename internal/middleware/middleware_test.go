// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parokicms/internal/session"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func withSession(r *http.Request, data *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), SessionKey, data))
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	w := httptest.NewRecorder()
	RequireAuth(okHandler()).ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("location = %q", loc)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("GET", "/admin", nil), &session.Data{Username: "ketua", Role: "admin"})
	RequireAuth(okHandler()).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRequire2FA(t *testing.T) {
	t.Run("incomplete totp redirects", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := withSession(httptest.NewRequest("GET", "/admin", nil), &session.Data{Username: "ketua", TwoFADone: false})
		Require2FA(okHandler()).ServeHTTP(w, req)

		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/2fa/verify" {
			t.Errorf("status=%d location=%q", w.Code, w.Header().Get("Location"))
		}
	})

	t.Run("complete totp passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := withSession(httptest.NewRequest("GET", "/admin", nil), &session.Data{Username: "ketua", TwoFADone: true})
		Require2FA(okHandler()).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	w := httptest.NewRecorder()
	req := withSession(httptest.NewRequest("GET", "/admin", nil), &session.Data{Username: "tamu", Role: "viewer"})
	RequireAdmin(okHandler()).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecureHeaders(okHandler()).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	h := w.Header()
	checks := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "SAMEORIGIN",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, want := range checks {
		if got := h.Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if csp := h.Get("Content-Security-Policy"); !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("CSP = %q", csp)
	}
}

func TestRecovererCatchesPanic(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	Recoverer(panicking).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestCSRF(t *testing.T) {
	handler := CSRF(false)(okHandler())

	t.Run("get issues token cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var found bool
		for _, c := range w.Result().Cookies() {
			if c.Name == CSRFCookieName && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("no CSRF cookie issued")
		}
	})

	t.Run("secure flag marks the cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		CSRF(true)(okHandler()).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		for _, c := range w.Result().Cookies() {
			if c.Name == CSRFCookieName && !c.Secure {
				t.Error("CSRF cookie not marked Secure")
			}
		}
	})

	t.Run("post without token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("post with header token accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
		req.Header.Set(CSRFHeaderName, "tok")
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("post with form token accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", strings.NewReader(CSRFFormField+"=tok"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d refused under limit", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Error("request over limit allowed")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("other client limited")
	}

	// After the window fully rolls over, the budget is back.
	now = now.Add(2 * time.Minute)
	if !rl.allow("1.2.3.4") {
		t.Error("request refused after window expiry")
	}
}

func TestRateLimiterMiddlewareResponds429(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", w.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		remote string
		want   string
	}{
		{"x-forwarded-for single", func(r *http.Request) { r.Header.Set("X-Forwarded-For", "10.0.0.1") }, "127.0.0.1:80", "10.0.0.1"},
		{"x-forwarded-for chain", func(r *http.Request) { r.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2") }, "127.0.0.1:80", "10.0.0.1"},
		{"x-real-ip", func(r *http.Request) { r.Header.Set("X-Real-IP", "10.0.0.3") }, "127.0.0.1:80", "10.0.0.3"},
		{"remote addr", func(r *http.Request) {}, "192.168.1.5:4321", "192.168.1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			tt.setup(req)
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
