package main

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const bearerPrefix = "Bearer "

// tokenMiddleware rejects requests without the configured bearer token. With
// no token configured every request passes.
func (s *server) tokenMiddleware(next http.Handler) http.Handler {
	want := sha256.Sum256([]byte(s.token))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !validToken(r.Header.Get("Authorization"), want) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="estatecalc"`)
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func validToken(header string, want [sha256.Size]byte) bool {
	if !strings.HasPrefix(header, bearerPrefix) {
		return false
	}
	got := sha256.Sum256([]byte(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))))
	return subtle.ConstantTimeCompare(got[:], want[:]) == 1
}

// requestLogger attaches a request-scoped logger to the context and logs each
// completed request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_ip", r.RemoteAddr).
				Logger()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(reqLogger.WithContext(r.Context())))

			reqLogger.Info().
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
