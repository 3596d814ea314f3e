package httpapi

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyUserID
)

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUserID).(string)
	return v
}

func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, reqID)))
	})
}

type statusRecorder struct {
	h  http.ResponseWriter
	st int
	n  int
}

func (w *statusRecorder) Header() http.Header { return w.h.Header() }
func (w *statusRecorder) WriteHeader(code int) {
	w.st = code
	w.h.WriteHeader(code)
}
func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.h.Write(b)
	w.n += n
	return n, err
}

func WithLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{h: w, st: http.StatusOK}
			next.ServeHTTP(sr, r)
			log.Info("http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sr.st,
				"bytes", sr.n,
				"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}

// BasicAuth gates a route on the shared credential. No header is 401,
// a wrong credential is 403, matching the original authorizer. On success
// the username is attached as the caller identity.
func (a *App) BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			writeEnvelope(w, http.StatusUnauthorized, "Authorization header is required", nil)
			return
		}

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Creds.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Creds.Password)) == 1
		if !userOK || !passOK {
			writeEnvelope(w, http.StatusForbidden, "Invalid credentials", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUserID, username)))
	})
}

// requireUser maps a missing identity to 401 instead of letting handlers
// run with an empty user id.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		writeEnvelope(w, http.StatusUnauthorized, "User identity is missing", nil)
		return "", false
	}
	return userID, true
}
