package api

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/felixgeelhaar/cockpit/pkg/observability"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument attaches request and correlation IDs, a server span, and
// request metrics labelled by route pattern.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx = observability.NewRequestContext(ctx, r.Header.Get(headerCorrelationID))
		if id := r.Header.Get(headerRequestID); id != "" {
			ctx = observability.WithRequestID(ctx, id)
		}
		w.Header().Set(headerRequestID, observability.RequestIDFromContext(ctx))
		w.Header().Set(headerCorrelationID, observability.CorrelationIDFromContext(ctx))

		ctx, span := observability.StartSpan(ctx, route,
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
		)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		observability.EndSpan(span, nil)

		tags := []observability.Tag{
			observability.T("method", r.Method),
			observability.T("route", route),
			observability.T("status", strconv.Itoa(rec.status)),
		}
		s.deps.Metrics.Counter(observability.MetricHTTPRequests, 1, tags...)
		s.deps.Metrics.Timing(observability.MetricHTTPDuration, time.Since(start), tags...)

		s.logger.DebugContext(ctx, "http request",
			"method", r.Method,
			"route", route,
			observability.StatusKey, rec.status,
			observability.DurationKey, time.Since(start),
		)
	})
}

// withRateLimit applies a fixed-window limit of limit requests per minute
// and client address.
func (s *Server) withRateLimit(route string, limit int, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if limit <= 0 || s.deps.Limiter == nil {
			next(w, r)
			return
		}

		decision := s.deps.Limiter.Allow(r.Context(), rateLimitKey(r), limit, time.Minute)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, limit-decision.Count)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.WindowEnd.Unix(), 10))

		if !decision.Allowed {
			s.deps.Metrics.Counter(observability.MetricHTTPRateLimitHits, 1, observability.T("route", route))
			w.Header().Set("Retry-After", strconv.Itoa(max(1, int(time.Until(decision.WindowEnd).Seconds()))))
			writeError(w, ErrTooManyRequests)
			return
		}
		next(w, r)
	}
}

func rateLimitKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "unknown"
	}
	return "ip:" + host
}
