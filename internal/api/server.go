// Package api serves the canonical dataset over HTTP: selection
// vocabularies for filter controls, filtered views with summary stats, and
// CSV/XLSX exports. Every view endpoint funnels through the same filter
// engine, so results are consistent across views by construction.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/niveshke/esg-explorer/internal/model"
)

// DatasetFunc supplies the canonical dataset for a request. Implementations
// are expected to be cache-backed so repeated renders cost no I/O.
type DatasetFunc func() (*model.Dataset, error)

// UploadFunc normalizes an ad-hoc CSV payload into a dataset. Implementations
// are expected to cache by content so re-posting the same bytes is free.
type UploadFunc func(name string, data []byte) (*model.Dataset, error)

// Server exposes the analytical views.
type Server struct {
	dataset  DatasetFunc
	upload   UploadFunc
	validate *validator.Validate
}

// Option configures optional server capabilities.
type Option func(*Server)

// WithUpload enables the upload endpoint backed by the given normalizer.
func WithUpload(up UploadFunc) Option {
	return func(s *Server) { s.upload = up }
}

// NewServer creates a Server reading from the given dataset provider.
func NewServer(ds DatasetFunc, opts ...Option) *Server {
	s := &Server{
		dataset:  ds,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi route tree.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/vocab", s.handleVocab)
		r.Get("/view", s.handleView)
		r.Get("/view/export", s.handleExport)
		r.Get("/compare", s.handleCompare)
		r.Get("/sector/{sector}", s.handleSector)
		r.Get("/country", s.handleCountry)
		if s.upload != nil {
			r.Post("/upload", s.handleUpload)
		}
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int, allowedOrigins []string) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(allowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "api: server listen")
	}
	return nil
}
