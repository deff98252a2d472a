// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// ErrorPage writes a complete 500 response.
type ErrorPage func(w http.ResponseWriter)

// Recoverer catches panics in downstream handlers, logs the stack trace and
// answers with page. A nil page falls back to a plain-text 500.
func Recoverer(page ErrorPage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"host", r.Host,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				if page == nil {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				page(w)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
