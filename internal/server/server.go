// Package server exposes the drafting and ranking handlers over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/trial-agent/internal/protocol"
	"github.com/sells-group/trial-agent/internal/siteselect"
)

// Drafter drafts protocols from study ideas.
type Drafter interface {
	Draft(ctx context.Context, idea string) protocol.Result
}

// Ranker ranks the candidate sites.
type Ranker interface {
	Rank(targetPatients int) siteselect.Result
}

// Options configures the router.
type Options struct {
	// Backend names the active text generator, reported by /health.
	Backend string
	// Timeout bounds the text generator call on /api/protocol. The handler
	// still answers 200 with the fallback draft when it expires.
	Timeout        time.Duration
	AllowedOrigins []string
}

type protocolRequest struct {
	Idea string `json:"idea"`
}

type rankRequest struct {
	TargetPatients *int `json:"target_patients"`
}

// NewRouter builds the HTTP handler.
func NewRouter(drafter Drafter, ranker Ranker, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(requestLogger)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "llm": opts.Backend})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/protocol", func(w http.ResponseWriter, req *http.Request) {
			var body protocolRequest
			if err := decode(req, &body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			ctx := req.Context()
			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
				defer cancel()
			}
			// A generator cut off by the deadline yields the fallback draft.
			writeJSON(w, http.StatusOK, drafter.Draft(ctx, body.Idea))
		})

		r.Post("/sites/rank", func(w http.ResponseWriter, req *http.Request) {
			var body rankRequest
			if err := decode(req, &body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			target := siteselect.DefaultTargetPatients
			if body.TargetPatients != nil {
				target = *body.TargetPatients
			}
			writeJSON(w, http.StatusOK, ranker.Rank(target))
		})
	})

	return r
}

// decode reads a JSON body. An empty body leaves v at its zero value.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}
