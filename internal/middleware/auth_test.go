// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireToken(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"valid token", "s3cret", "Bearer s3cret", http.StatusNoContent},
		{"lowercase scheme", "s3cret", "bearer s3cret", http.StatusNoContent},
		{"wrong token", "s3cret", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"basic scheme", "s3cret", "Basic s3cret", http.StatusUnauthorized},
		{"empty credentials", "s3cret", "Bearer ", http.StatusUnauthorized},
		{"disabled when unset", "", "Bearer anything", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/pages/1/publish", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			RequireToken(tt.token)(inner).ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
			if called != (tt.want == http.StatusNoContent) {
				t.Errorf("next called = %v", called)
			}
			if tt.want == http.StatusUnauthorized && rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("WWW-Authenticate should be set on 401")
			}
		})
	}
}
