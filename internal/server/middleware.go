package server

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/maxbolgarin/devstory/internal/ratelimit"
)

// withLogging logs every request with its status and duration
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := abstract.StartTimer()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", clientIP(r),
			"elapsed_time", timer.ElapsedTime().String(),
		)
	})
}

// withCORS sets CORS headers and answers preflight requests. An empty
// configured origin allows any.
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimited applies a fixed-window limiter keyed by client IP before the
// handler runs, decorating every response with X-RateLimit headers
func (s *Server) rateLimited(limiter *ratelimit.Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := limiter.Allow(clientIP(r))

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		h.Set("X-RateLimit-Reset", d.Reset.Format(time.RFC3339))

		if !d.Allowed {
			writeJSON(w, http.StatusTooManyRequests, model.APIError{
				Error:      "Too many requests. Please try again later.",
				Status:     http.StatusTooManyRequests,
				RetryAfter: int(d.RetryAfter.Seconds()) + 1,
			})
			return
		}
		next(w, r)
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the socket
// peer address
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
