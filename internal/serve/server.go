package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"astroblog/internal/app"
	"astroblog/internal/domain/config"
	"astroblog/internal/logger"
	"astroblog/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg     config.Config
	pages   *app.Pages
	log     logger.Logger
	metrics *metrics.Metrics
}

func New(cfg config.Config, pages *app.Pages, log logger.Logger, m *metrics.Metrics) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Server{cfg: cfg, pages: pages, log: log, metrics: m}
}

// Handler is the full route table wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// shell pages of the static site
	mux.HandleFunc("GET /{$}", s.handleStaticPage("index.html"))
	mux.HandleFunc("GET /blogpost", s.handleStaticPage("blogpost.html"))

	mux.HandleFunc("GET /blog", s.handleBlogList)
	mux.HandleFunc("GET /blog/{$}", s.handleBlogList)
	mux.HandleFunc("GET /blog/{id}", s.handleDetail)
	mux.HandleFunc("GET /cartas", s.handleChartList)
	mux.HandleFunc("GET /cartas/{$}", s.handleChartList)
	mux.HandleFunc("GET /cartas/{id}", s.handleChartDetail)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Server.StaticDir)))

	return s.withRequestID(s.instrument(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("serve: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("listening",
		logger.String("addr", ln.Addr().String()),
		logger.String("static_dir", s.cfg.Server.StaticDir),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleBlogList(w http.ResponseWriter, r *http.Request) {
	page, err := s.pages.BlogList(r.Context())
	s.writePage(w, r, page, err)
}

func (s *Server) handleChartList(w http.ResponseWriter, r *http.Request) {
	page, err := s.pages.ChartList(r.Context())
	s.writePage(w, r, page, err)
}

// /blog/{id} resolves against posts and then charts.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	page, err := s.pages.Detail(r.Context(), r.PathValue("id"))
	s.writePage(w, r, page, err)
}

func (s *Server) handleChartDetail(w http.ResponseWriter, r *http.Request) {
	page, err := s.pages.ChartDetail(r.Context(), r.PathValue("id"))
	s.writePage(w, r, page, err)
}

func (s *Server) handleStaticPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.cfg.Server.StaticDir, name)
		if _, err := os.Stat(path); err != nil {
			logger.FromContext(r.Context(), s.log).Warn("static page missing",
				logger.String("path", path), logger.Error(err))
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// writePage never exposes err to the client; it is logged with the request.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, page app.Page, err error) {
	if err != nil {
		logger.FromContext(r.Context(), s.log).Error("render failed",
			logger.String("path", r.URL.Path), logger.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, page.Status, page.Body)
}

func writeHTML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
	}
	_, _ = w.Write(data)
}
