package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lychee-technology/formbuilder"
	"github.com/lychee-technology/formbuilder/factory"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const evictionInterval = time.Minute

// Server represents the HTTP server exposing editing sessions
type Server struct {
	store    formbuilder.SchemaStore
	sessions formbuilder.SessionRegistry
	config   *formbuilder.Config
	mux      *http.ServeMux
}

// NewServer creates a new Server instance
func NewServer(config *formbuilder.Config, store formbuilder.SchemaStore, sessions formbuilder.SessionRegistry) *Server {
	return &Server{
		store:    store,
		sessions: sessions,
		config:   config,
		mux:      http.NewServeMux(),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves on ln until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.mux,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.S().Infow("starting server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(evictionInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.sessions.EvictIdle()
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		zap.S().Infow("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./formbuilder.yaml if present)")
	flag.Parse()

	config, err := loadConfig(viper.New(), *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(config.Logging)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	sessions, store, err := factory.NewSessionRegistryWithConfig(config)
	if err != nil {
		sugar.Fatalf("failed to create session registry: %v", err)
	}

	server := NewServer(config, store, sessions)
	server.RegisterRoutes()

	ln, err := net.Listen("tcp", ":"+config.Server.Port)
	if err != nil {
		sugar.Fatalf("failed to listen on port %s: %v", config.Server.Port, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, ln); err != nil {
		sugar.Errorw("server stopped with error", "error", err)
		return
	}
	sugar.Infow("server stopped")
}
