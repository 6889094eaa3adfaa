package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/turhancan97/paper-ready-architecture/pkg/config"
	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
	"github.com/turhancan97/paper-ready-architecture/pkg/observability"
	"github.com/turhancan97/paper-ready-architecture/pkg/render"
)

// Server exposes the live preview over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness probe
//	GET  /config       current configuration as JSON
//	PUT  /config       replace the configuration; triggers a re-render
//	GET  /preview.png  latest rendered preview
//	GET  /preview.b64  latest preview as base64 text
//	GET  /schematic.svg Graphviz node-link view of the current config
//
// An invalid PUT is rejected with 400 and the last valid configuration
// is retained.
type Server struct {
	coord  *Coordinator
	logger *log.Logger

	// mu guards cfg: PUT handlers replace it while GET handlers read it.
	mu  sync.RWMutex
	cfg config.Config
}

// NewServer creates a preview server seeded with cfg.
func NewServer(coord *Coordinator, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{coord: coord, logger: logger, cfg: cfg}
	coord.Submit(cfg)
	return s
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/config", s.handleGetConfig)
	r.Put("/config", s.handlePutConfig)
	r.Get("/preview.png", s.handlePreviewPNG)
	r.Get("/preview.b64", s.handlePreviewB64)
	r.Get("/schematic.svg", s.handleSchematicSVG)

	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("preview server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// config returns a copy of the authoritative configuration.
func (s *Server) config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(s.config())
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decoding config"))
		return
	}
	if err := cfg.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	seq := s.coord.Submit(cfg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]uint64{"seq": seq})
}

func (s *Server) handlePreviewPNG(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.coord.Latest()
	if !ok {
		// First render may still be in flight; wait briefly.
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		var err error
		snap, err = s.coord.Wait(ctx, 1)
		if err != nil {
			s.writeError(w, http.StatusServiceUnavailable,
				apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "no preview available"))
			return
		}
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(snap.PNG)
}

func (s *Server) handlePreviewB64(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.coord.Latest()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable,
			apperrors.New(apperrors.ErrCodeRenderFailed, "no preview available"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(render.PreviewBase64(snap.PNG)))
}

func (s *Server) handleSchematicSVG(w http.ResponseWriter, _ *http.Request) {
	svg, err := s.coord.Schematic(s.config())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":  string(apperrors.GetCode(err)),
		"error": apperrors.UserMessage(err),
	})
}
