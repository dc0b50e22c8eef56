package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Vodeneev/leonspider/internal/pkg/health/handlers"
	"github.com/Vodeneev/leonspider/internal/pkg/performance"
)

// Options wires the HTTP surface of the service.
type Options struct {
	Service     string
	Runner      handlers.Runner
	Tracker     *performance.Tracker
	Runs        *RunStore
	CORSOrigins []string
}

func NewRouter(opts Options) http.Handler {
	if opts.Tracker == nil {
		opts.Tracker = performance.GetTracker()
	}
	if opts.Runs == nil {
		opts.Runs = NewRunStore()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	// Health endpoints
	r.Get("/ping", handlers.HandlePing)
	r.Get("/health", handlers.HandleHealth(opts.Service))

	r.Get("/metrics", handlers.HandleMetrics(opts.Tracker))

	r.Post("/api/analyze-leon", handlers.HandleAnalyze(opts.Runner))
	r.Get("/api/analyze-leon/last", handlers.HandleLastRun(opts.Runs.Last))

	return r
}

// Run serves handler on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, service string, handler http.Handler, readHeaderTimeout time.Duration) error {
	if readHeaderTimeout <= 0 {
		return fmt.Errorf("read_header_timeout must be specified in config")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Health server listening", "service", service, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Health server error", "service", service, "error", err)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func AddrFor(port int) string {
	return fmt.Sprintf(":%d", port)
}
