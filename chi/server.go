// Package chi serves resolve and download over HTTP using the chi router.
package chi

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/makerfetch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultRequestTimeout bounds every handler.
const DefaultRequestTimeout = 2 * time.Minute

// RequestObserver records served requests. prometheus.Metrics implements it.
type RequestObserver interface {
	ObserveHTTPRequest(method, route string, code int, d time.Duration)
}

// Server wires HTTP handlers to a Resolver and a Downloader.
type Server struct {
	Resolver   makerfetch.Resolver
	Downloader makerfetch.Downloader
	Logger     *slog.Logger

	// Metrics is served at /metrics when set.
	Metrics http.Handler

	// Observer records every request when set.
	Observer RequestObserver

	Timeout time.Duration
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", s.healthz)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Get("/resolve", s.resolve)
		r.Get("/download", s.download)
	})
	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolve answers GET /v1/resolve?url=...&variant=... with the outcome.
// Failures keep the outcome body and map the reason to a status code.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts makerfetch.ResolveOptions
	if v := q.Get("variant"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "variant must be a positive integer")
			return
		}
		opts.VariantID = &id
	}

	out := s.Resolver.Resolve(r.Context(), q.Get("url"), opts)
	status := http.StatusOK
	if !out.OK() {
		status = StatusForReason(out.Failure.Reason)
	}
	writeJSON(w, status, out)
}

// download answers GET /v1/download?url=... with the asset bytes.
func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	out := s.Downloader.Download(r.Context(), r.URL.Query().Get("url"), makerfetch.DownloadOptions{})
	if !out.OK() {
		writeJSON(w, StatusForReason(out.Failure.Reason), out)
		return
	}

	asset := out.Asset
	contentType := asset.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": asset.Filename}))
	w.Header().Set("Content-Length", strconv.FormatInt(asset.Size, 10))
	w.Header().Set("X-Content-Hash", asset.ContentHash)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(asset.Data); err != nil {
		s.logger().Error("write asset failed", "error", err)
	}
}

// StatusForReason maps a reason code to an HTTP status.
func StatusForReason(reason string) int {
	switch reason {
	case makerfetch.EINVALIDURL:
		return http.StatusBadRequest
	case makerfetch.ENOTFOUND:
		return http.StatusNotFound
	case makerfetch.ETIMEOUT:
		return http.StatusGatewayTimeout
	case makerfetch.EINCOMPATIBLE, makerfetch.EMETRICS, makerfetch.EFORMAT:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		if s.Observer != nil {
			s.Observer.ObserveHTTPRequest(r.Method, route, status, time.Since(start))
		}
		s.logger().Info("request completed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger().Error("panic recovered", "error", rec)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("write JSON failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
