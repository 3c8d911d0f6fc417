// Package server exposes the stemmers over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/deidaraiorek/deistem/algorithm"
	"github.com/deidaraiorek/deistem/stemmer"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	Addr             string
	DefaultAlgorithm string
	CacheSize        int
	// MaxBodyBytes caps POST /stem bodies. Zero means 1 MiB.
	MaxBodyBytes int64
}

type Server struct {
	cfg      Config
	log      *zap.Logger
	pool     *Pool
	registry *prometheus.Registry
	router   chi.Router
}

func New(cfg Config, log *zap.Logger) (*Server, error) {
	canonical, err := algorithm.Default().Canonical(cfg.DefaultAlgorithm)
	if err != nil {
		return nil, errors.Wrap(err, "default algorithm")
	}
	cfg.DefaultAlgorithm = canonical
	if cfg.CacheSize < 0 {
		return nil, errors.Wrapf(stemmer.ErrInvalidCacheSize, "got %d", cfg.CacheSize)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		log:      log,
		pool:     NewPool(cfg.CacheSize),
		registry: prometheus.NewRegistry(),
	}

	metrics := newHTTPMetrics()
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.requests,
		metrics.duration,
		newCacheCollector(s.pool),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(metrics.middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/algorithms", s.handleAlgorithms)
	r.Get("/stem/{algorithm}/{word}", s.handleStemWord)
	r.Post("/stem", s.handleStemWords)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.router = r

	return s, nil
}

func (s *Server) Handler() http.Handler { return s.router }

// Pool returns the stemmers backing the handlers.
func (s *Server) Pool() *Pool { return s.pool }

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr), zap.String("default_algorithm", s.cfg.DefaultAlgorithm))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}
