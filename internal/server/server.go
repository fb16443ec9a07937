// Package server exposes the workbook engine over HTTP as a JSON API plus
// file downloads. It is thin glue: request decoding, session extraction
// and error mapping live here, all behavior lives in the engine.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"golang-ledger-validation-service/pkg/logger"

	apperrors "golang-ledger-validation-service/pkg/errors"

	"golang-ledger-validation-service/internal/engine"
	"golang-ledger-validation-service/internal/mailer"
)

// sessionHeader carries the client's session token; absent means the
// default single-operator session.
const sessionHeader = "X-Session-Token"

// Server is the HTTP front end of the validation service.
type Server struct {
	service *engine.Service
	mailer  *mailer.Mailer
	router  *chi.Mux
	logger  logger.Logger

	maxUploadBytes int64
}

// Options configures the server beyond its collaborators.
type Options struct {
	// MaxUploadBytes bounds request bodies on the upload routes.
	MaxUploadBytes int64
}

// New creates the server. The mailer may be nil, in which case the
// send-email route reports a configuration error.
func New(service *engine.Service, m *mailer.Mailer, log logger.Logger, opts Options) *Server {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	s := &Server{
		service:        service,
		mailer:         m,
		router:         chi.NewRouter(),
		logger:         log.WithComponent("http"),
		maxUploadBytes: opts.MaxUploadBytes,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP until the context is canceled, then
// drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.WithField("addr", addr).Info("http server listening")
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Post("/upload", s.handleUpload)
	s.router.Post("/bulk-fix", s.handleBulkFix)
	s.router.Post("/bulk-fix-preview", s.handleBulkFixPreview)
	s.router.Get("/download-csv", s.handleDownloadCSV)
	s.router.Get("/download-xlsx", s.handleDownloadXLSX)
	s.router.Post("/custom-errors", s.handleCustomErrors)
	s.router.Post("/edit-cell", s.handleEditCell)
	s.router.Post("/quick-scan", s.handleQuickScan)
	s.router.Post("/analyze-excel-sheets", s.handleAnalyzeSheets)
	s.router.Post("/financial-report", s.handleFinancialReport)
	s.router.Post("/send-email", s.handleSendEmail)
	s.router.Get("/healthz", s.handleHealth)

	// Frontend assets, when deployed alongside the binary.
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

// securityHeaders hardens every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=()")
		next.ServeHTTP(w, r)
	})
}

// session extracts the caller's session token.
func session(r *http.Request) string {
	return r.Header.Get(sessionHeader)
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("encoding response")
	}
}

// writeError maps an error to its HTTP status and JSON envelope, logging
// the technical detail with the request ID for correlation.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	le := apperrors.WrapIfNeeded(err, apperrors.CategoryInternal, apperrors.CodeUnexpectedError, "request failed")

	s.logger.WithFields(logger.Fields{
		"path":       r.URL.Path,
		"method":     r.Method,
		"code":       string(le.Code),
		"request_id": middleware.GetReqID(r.Context()),
	}).WithError(err).Error("request failed")

	s.writeJSON(w, le.HTTPStatus(), errorResponse{
		Error:      le.Message,
		Code:       string(le.Code),
		Suggestion: le.Suggestion,
	})
}

// writeAttachment sends bytes as a file download.
func (s *Server) writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename=`+filename)
	if _, err := w.Write(data); err != nil {
		s.logger.WithError(err).Error("writing attachment")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
