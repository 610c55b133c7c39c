package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"laundry-service/internal/common/logger"
)

const HeaderRequestID = "X-Request-ID"

type ctxKey struct{}

type Middleware func(http.Handler) http.Handler

// Chain applies mws so that the first one is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// RequestID propagates an incoming X-Request-ID or assigns a new uuid.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging writes one http_request entry per request.
func Logging(lg *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			lg.WithRequestID(RequestIDFrom(r.Context())).Info("http_request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

// Limit caps in-flight requests at n. A request that cannot get a slot
// within wait gets 503.
func Limit(n int64, wait time.Duration) Middleware {
	sem := semaphore.NewWeighted(n)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sem.TryAcquire(1) {
				ctx, cancel := context.WithTimeout(r.Context(), wait)
				err := sem.Acquire(ctx, 1)
				cancel()
				if err != nil {
					WriteProblem(w, http.StatusServiceUnavailable, "overloaded", "too many concurrent requests")
					return
				}
			}
			defer sem.Release(1)
			next.ServeHTTP(w, r)
		})
	}
}
