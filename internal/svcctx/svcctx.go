// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/batchlens/batchlens/internal/classify"
	"github.com/batchlens/batchlens/internal/config"
	"github.com/batchlens/batchlens/internal/home"
	"github.com/batchlens/batchlens/internal/ingest"
	"github.com/batchlens/batchlens/internal/layout"
	"github.com/batchlens/batchlens/internal/pipeline"
	"github.com/batchlens/batchlens/internal/providers"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	ConfigManager *config.Manager
	Logger        *slog.Logger
	Registry      *providers.Registry
	Analyzer      *layout.Analyzer
	Classifier    classify.Classifier
	Pipeline      *pipeline.Runner
	Documents     *ingest.Store
	Home          *home.Dir
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ConfigManagerFrom extracts the config manager from context.
func ConfigManagerFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigManager
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// AnalyzerFrom extracts the layout analyzer from context.
func AnalyzerFrom(ctx context.Context) *layout.Analyzer {
	if s := ServicesFrom(ctx); s != nil {
		return s.Analyzer
	}
	return nil
}

// ClassifierFrom extracts the page classifier from context.
func ClassifierFrom(ctx context.Context) classify.Classifier {
	if s := ServicesFrom(ctx); s != nil {
		return s.Classifier
	}
	return nil
}

// PipelineFrom extracts the document pipeline runner from context.
func PipelineFrom(ctx context.Context) *pipeline.Runner {
	if s := ServicesFrom(ctx); s != nil {
		return s.Pipeline
	}
	return nil
}

// DocumentsFrom extracts the document store from context.
func DocumentsFrom(ctx context.Context) *ingest.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Documents
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}
