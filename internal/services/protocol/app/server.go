// Package server wires the protocol runtime: storage, engine, the HTTP JSON
// API, the gRPC health listener and the reset sweeper.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	platformgrpc "github.com/louisbranch/lifeprotocol/internal/platform/grpc"
	"github.com/louisbranch/lifeprotocol/internal/platform/i18n"
	"github.com/louisbranch/lifeprotocol/internal/platform/timeouts"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/api/httpapi"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/engine"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/storage/sqlite"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/suggest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// HealthService is the service name reported by the gRPC health listener.
const HealthService = "lifeprotocol"

// Config holds the runtime settings of one protocol process.
type Config struct {
	HTTPAddr          string
	HealthAddr        string
	DBPath            string
	Interval          time.Duration
	SweepInterval     time.Duration
	BatchSize         int
	DefaultLocale     string
	GenerationTimeout time.Duration
	Suggest           suggest.Config
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Server hosts the protocol HTTP API and health listener.
type Server struct {
	httpListener   net.Listener
	healthListener net.Listener
	httpServer     *http.Server
	grpcServer     *grpc.Server
	health         *health.Server
	store          *sqlite.Store
	engine         *engine.Service
	sweepInterval  time.Duration
	closeOnce      sync.Once
}

// New opens storage, bootstraps the guest account, catches up on resets
// missed while the process was down and binds both listeners.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	translator, err := i18n.NewEmbedded(cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	store, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	var generator suggest.Generator = suggest.New(cfg.Suggest)
	if _, disabled := generator.(suggest.Disabled); disabled {
		log.Printf("task suggestions disabled: no AI API key configured")
		generator = nil
	}
	svc := engine.NewService(store, generator, translator, cfg.Clock, nil, engine.Config{
		Interval:          cfg.Interval,
		BatchSize:         cfg.BatchSize,
		DefaultLocale:     cfg.DefaultLocale,
		GenerationTimeout: cfg.GenerationTimeout,
	})

	if err := svc.EnsureGuest(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	resets, err := svc.CatchUp(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("startup catch-up: %w", err)
	}
	if resets > 0 {
		log.Printf("startup catch-up reset %d partitions", resets)
	}

	httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	healthListener, err := net.Listen("tcp", cfg.HealthAddr)
	if err != nil {
		_ = httpListener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.HealthAddr, err)
	}

	grpcServer, healthServer := platformgrpc.NewHealthServer(HealthService)
	return &Server{
		httpListener:   httpListener,
		healthListener: healthListener,
		httpServer: &http.Server{
			Handler:           httpapi.New(svc, translator, cfg.Clock),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		grpcServer:    grpcServer,
		health:        healthServer,
		store:         store,
		engine:        svc,
		sweepInterval: cfg.SweepInterval,
	}, nil
}

// HTTPAddr returns the bound HTTP listener address.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// HealthAddr returns the bound gRPC health listener address.
func (s *Server) HealthAddr() string {
	if s == nil || s.healthListener == nil {
		return ""
	}
	return s.healthListener.Addr().String()
}

// Run creates and serves a protocol server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve runs both listeners and the sweeper until ctx is done or a listener
// fails, then shuts everything down.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("protocol API listening at %v", s.httpListener.Addr())
	log.Printf("protocol health listening at %v", s.healthListener.Addr())

	serveErr := make(chan error, 2)
	go func() {
		if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("serve HTTP: %w", err)
		}
	}()
	go func() {
		if err := s.grpcServer.Serve(s.healthListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErr <- fmt.Errorf("serve gRPC health: %w", err)
		}
	}()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		s.engine.RunSweeper(sweepCtx, s.sweepInterval)
	}()
	defer func() {
		stopSweep()
		<-sweepDone
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	s.health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if shutdownErr := s.httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("shutdown HTTP: %v", shutdownErr)
	}
	s.grpcServer.GracefulStop()
	return err
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.health != nil {
			s.health.Shutdown()
		}
		if s.grpcServer != nil {
			s.grpcServer.Stop()
		}
		if s.httpServer != nil {
			_ = s.httpServer.Close()
		}
		if s.httpListener != nil {
			_ = s.httpListener.Close()
		}
		if s.healthListener != nil {
			_ = s.healthListener.Close()
		}
		if s.store != nil {
			if err := s.store.Close(); err != nil {
				log.Printf("close protocol store: %v", err)
			}
		}
	})
}

func openStore(path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open protocol sqlite store: %w", err)
	}
	return store, nil
}
