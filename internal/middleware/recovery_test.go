// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func errorPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte("<h1>Something went wrong</h1>"))
}

func TestRecoverer(t *testing.T) {
	panics := []struct {
		name  string
		value any
	}{
		{"string", "something went wrong"},
		{"integer", 42},
		{"non-error value", strings.NewReader("error reader")},
	}

	for _, tt := range panics {
		t.Run("renders error page on "+tt.name+" panic", func(t *testing.T) {
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.value)
			})

			rr := httptest.NewRecorder()
			Recoverer(errorPage)(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/contact", nil))

			if rr.Code != http.StatusInternalServerError {
				t.Errorf("status: got %d, want 500", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), "Something went wrong") {
				t.Errorf("body: got %q, want the error page", rr.Body.String())
			}
		})
	}

	t.Run("nil page falls back to plain text", func(t *testing.T) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})

		rr := httptest.NewRecorder()
		Recoverer(nil)(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Internal Server Error") {
			t.Errorf("body: got %q", rr.Body.String())
		}
	})

	t.Run("re-panics ErrAbortHandler", func(t *testing.T) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})

		defer func() {
			if rec := recover(); rec != http.ErrAbortHandler {
				t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
			}
		}()
		Recoverer(errorPage)(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRecovererNoPanic(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "test-value")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	Recoverer(errorPage)(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("body: got %q, want %q", rr.Body.String(), "ok")
	}
	if got := rr.Header().Get("X-Custom"); got != "test-value" {
		t.Errorf("X-Custom: got %q, want %q", got, "test-value")
	}
}
