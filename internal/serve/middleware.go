package serve

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"astroblog/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// withRequestID reuses an inbound X-Request-ID or mints one, echoes it on
// the response and attaches a request-scoped logger to the context.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		log := s.log.With(logger.String("request_id", id))
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), log)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// instrument writes the access log line and the request metrics. The route
// label is the matched mux pattern so ids never become label values.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(route, rec.status, elapsed)

		logger.FromContext(r.Context(), s.log).Info("request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("route", route),
			logger.Int("status", rec.status),
			logger.Int("bytes", rec.bytes),
			logger.Duration("duration", elapsed),
			logger.String("status_class", strconv.Itoa(rec.status/100)+"xx"),
		)
	})
}
