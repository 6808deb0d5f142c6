// Package server hosts the batchlens HTTP service: the layout analyzer, page
// classifier, quality detector, and QA checklist engine behind the endpoint
// registry.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/batchlens/batchlens/internal/api"
	"github.com/batchlens/batchlens/internal/classify"
	"github.com/batchlens/batchlens/internal/config"
	"github.com/batchlens/batchlens/internal/home"
	"github.com/batchlens/batchlens/internal/ingest"
	"github.com/batchlens/batchlens/internal/layout"
	"github.com/batchlens/batchlens/internal/pipeline"
	"github.com/batchlens/batchlens/internal/providers"
	"github.com/batchlens/batchlens/internal/server/endpoints"
	"github.com/batchlens/batchlens/internal/svcctx"
)

// Server is the main batchlens HTTP server.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the batchlens home directory; when set, ingested PDFs are
	// persisted under it
	Home *home.Dir
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	appCfg := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		appCfg = cfg.ConfigManager.Get()
	}

	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)
	reloadProviders(registry, appCfg)

	services, err := buildServices(appCfg, registry, cfg.Logger)
	if err != nil {
		return nil, err
	}
	services.ConfigManager = cfg.ConfigManager
	services.Home = cfg.Home

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		services:  services,
	}

	// Rebuild engine services when config changes on disk.
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			reloadProviders(registry, c)
			rebuilt, err := buildServices(c, registry, cfg.Logger)
			if err != nil {
				cfg.Logger.Error("config reload rejected", "error", err)
				return
			}
			s.mu.Lock()
			rebuilt.ConfigManager = cfg.ConfigManager
			rebuilt.Home = cfg.Home
			rebuilt.Documents = s.services.Documents // document store survives reloads
			s.services = rebuilt
			s.mu.Unlock()
			cfg.Logger.Info("engine services reloaded from config")
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // AI-backed document runs can be slow
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// buildServices constructs the engine services from configuration.
func buildServices(cfg *config.Config, registry *providers.Registry, logger *slog.Logger) (*svcctx.Services, error) {
	analyzer, err := layout.NewWithOverrides(layout.Overrides{
		SectionPatterns: cfg.Layout.SectionPatterns,
		FieldPatterns:   cfg.Layout.FieldPatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid layout pattern overrides: %w", err)
	}

	classifier, err := buildClassifier(cfg, registry, logger)
	if err != nil {
		return nil, err
	}

	return &svcctx.Services{
		Logger:     logger,
		Registry:   registry,
		Analyzer:   analyzer,
		Classifier: classifier,
		Pipeline:   pipeline.New(analyzer, classifier, cfg.Defaults.MaxWorkers, logger),
		Documents:  ingest.NewStore(),
	}, nil
}

// buildClassifier selects the classification strategy from config: an
// AI-assisted classifier when a provider is named and registered, else the
// deterministic rule classifier.
func buildClassifier(cfg *config.Config, registry *providers.Registry, logger *slog.Logger) (classify.Classifier, error) {
	rules := classify.NewRuleClassifier(cfg.Classifier.ExtraKeywords)
	if cfg.Classifier.Provider == "" {
		return rules, nil
	}

	client, err := registry.GetLLM(cfg.Classifier.Provider)
	if err != nil {
		return nil, fmt.Errorf("classifier provider %q not available: %w", cfg.Classifier.Provider, err)
	}
	llm := classify.NewLLMClassifier(client, cfg.Classifier.Model, rules)
	llm.SetLogger(logger)
	return llm, nil
}

// reloadProviders syncs the provider registry with the configured LLM
// providers, dropping clients whose config was removed or disabled.
func reloadProviders(registry *providers.Registry, cfg *config.Config) {
	for _, name := range registry.ListLLM() {
		p, ok := cfg.LLMProviders[name]
		if !ok || !p.Enabled {
			registry.UnregisterLLM(name)
		}
	}
	for name, p := range cfg.LLMProviders {
		if !p.Enabled || p.Type != "openai" {
			continue
		}
		registry.RegisterLLM(name, providers.NewOpenAIClient(providers.OpenAIConfig{
			APIKey:     cfg.ResolveAPIKey(name),
			Model:      p.Model,
			RateLimit:  p.RateLimit,
			MaxRetries: p.MaxRetries,
		}))
	}
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Handler returns the fully wired HTTP handler (tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		services := s.services
		s.mu.RUnlock()
		ctx := r.Context()
		if services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		ready := s.services != nil
		s.mu.RUnlock()
		if !ready {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
