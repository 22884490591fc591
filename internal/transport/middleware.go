package transport

import (
	"net/http"
	"time"

	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"github.com/justinas/alice"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func accessLog(log observability.Logger) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			log.Info("http request",
				observability.String("request_id", RequestIDFromContext(r.Context())),
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.Int("status", rec.status),
				observability.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func recoverer(log observability.Logger) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					log.Error("panic recovered",
						observability.String("request_id", RequestIDFromContext(r.Context())),
						observability.Any("panic", p),
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
