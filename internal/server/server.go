// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the session workspace and the scoring engine over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bonial-oss/sentinel-risk/internal/assessment"
	"github.com/bonial-oss/sentinel-risk/internal/scan"
	"github.com/bonial-oss/sentinel-risk/internal/types"
	"github.com/bonial-oss/sentinel-risk/internal/workspace"
)

const shutdownTimeout = 10 * time.Second

// Server serves the risk API.
type Server struct {
	router   chi.Router
	store    *workspace.Store
	assessor *assessment.Assessor
	scanner  *scan.Scanner
	scans    *scan.Registry
	config   assessment.Config
}

// Option configures a Server.
type Option func(*Server)

// WithScanner replaces the scanner used by background scans.
func WithScanner(s *scan.Scanner) Option {
	return func(srv *Server) { srv.scanner = s }
}

// WithAssessmentConfig sets the filters and policy applied by
// GET /api/assessment.
func WithAssessmentConfig(cfg assessment.Config) Option {
	return func(srv *Server) { srv.config = cfg }
}

// New creates a Server. ctx carries the logger used for request logs.
func New(ctx context.Context, store *workspace.Store, assessor *assessment.Assessor, opts ...Option) *Server {
	s := &Server{
		store:    store,
		assessor: assessor,
		scanner:  scan.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.scans = scan.NewRegistry(s.scanner)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Route("/risk", func(r chi.Router) {
			r.Post("/calculate", s.handleCalculate)
			r.Get("/overview", s.handleOverview)
			r.Get("/residual", s.handleResidual)
		})
		r.Get("/assets", s.handleListAssets)
		r.Post("/assets", s.handleAddAsset)
		r.Post("/findings", s.handleAddFinding)
		r.Get("/treatments", s.handleListTreatments)
		r.Post("/treatments", s.handleAddTreatment)
		r.Get("/consultations", s.handleListConsultations)
		r.Post("/consultations", s.handleAddConsultation)
		r.Get("/report", s.handleGetReport)
		r.Put("/report", s.handleSetReport)
		r.Get("/assessment", s.handleAssessment)
		r.Post("/scan", s.handleStartScan)
		r.Get("/scan/{scanID}/status", s.handleScanStatus)
		r.Get("/scan/{scanID}/result", s.handleScanResult)
	})

	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	logger := ctxlog.From(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", addr))
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shutdown server gracefully")
	}
	logger.Info("HTTP server stopped")
	return nil
}

// LoggingMiddleware embeds the logger from ctx into each request context and
// logs the request once it has been served.
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := ctxlog.From(ctx).With("request_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(ctxlog.With(r.Context(), logger))

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "sentinel",
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		ctxlog.From(r.Context()).Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError answers 400 for validation failures and 500 otherwise.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if types.IsValidation(err) {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	ctxlog.From(r.Context()).Error("request failed", "error", err)
	writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// decodeBody strictly decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return goerr.Wrap(err, "invalid request body", goerr.T(types.ErrTagValidation))
	}
	return nil
}
