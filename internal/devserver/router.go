package devserver

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/interiorhaus/catalog-admin/pkg/config"
	"github.com/interiorhaus/catalog-admin/pkg/logger"
	"github.com/interiorhaus/catalog-admin/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the local stand-in for the hosted catalog backend: the same
// HTTP surface the admin core is a client of, backed by sqlite and a disk
// uploads folder.
type Server struct {
	store     *Store
	logg      *logger.Logger
	metrics   *metrics.HTTPMetrics
	uploadDir string
	maxBytes  int64
}

// NewServer builds the stand-in server and ensures its upload directory
// exists.
func NewServer(store *Store, cfg config.DevServerConfig, mediaCfg config.MediaConfig, logg *logger.Logger, m *metrics.HTTPMetrics) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Server{
		store:     store,
		logg:      logg,
		metrics:   m,
		uploadDir: cfg.UploadDir,
		maxBytes:  mediaCfg.MaxUploadBytes,
	}, nil
}

// Router assembles the chi routes. The prometheus registry may be nil when
// metrics exposure is not wanted (tests).
func (s *Server) Router(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.listProducts)
		r.Post("/products", s.createProduct)
		r.Put("/products/{id}", s.updateProduct)
		r.Delete("/products/{id}", s.deleteProduct)
		r.Post("/upload", s.uploadMedia)
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.uploadDir))))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, map[string]string{"status": "ok"})
	})

	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// observe logs each request and feeds the HTTP metrics.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(started)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.metrics.ObserveRequest(r.Method, route, rec.status, elapsed)

		ctx := s.logg.WithFields(r.Context(), map[string]any{
			"method":  r.Method,
			"route":   route,
			"status":  rec.status,
			"elapsed": elapsed.String(),
		})
		s.logg.Info(ctx, "request served")
	})
}
