// Package feedback merges the completed analysis reports into a single
// request for the external feedback model and returns its reply.
package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/logger"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/metrics"
)

// Provider abstracts the external feedback model: one operation, free
// text in, free text out. Implementations live in adapters; tests
// inject deterministic doubles.
type Provider interface {
	// Generate produces feedback text for a prompt, honoring ctx for
	// cancellation and the caller-supplied timeout.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator builds the feedback request from an AnalysisBundle and
// invokes the provider exactly once per call. Retry and backoff belong
// to the caller, not here.
type Generator struct {
	provider Provider
	timeout  time.Duration
	logger   logger.Logger
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithLogger sets a custom logger for the generator.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithTimeout bounds each provider call with a context deadline. Zero
// leaves the caller's context as the only bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// NewGenerator creates a feedback generator backed by the given provider.
func NewGenerator(provider Provider, opts ...Option) *Generator {
	g := &Generator{provider: provider}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate builds the prompt deterministically from the bundle (same
// bundle, same prompt) and calls the provider once. The bundle is read,
// never mutated. Any provider failure, including an empty reply, comes
// back as a *ProviderError so callers can tell it apart from a
// successful FeedbackResult.
func (g *Generator) Generate(ctx context.Context, bundle types.AnalysisBundle) (types.FeedbackResult, error) {
	prompt := BuildPrompt(bundle)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.provider.Generate(ctx, prompt)
	metrics.RecordFeedbackLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordFeedbackError()
		metrics.RecordErrorByComponent("feedback", "provider_error")
		if g.logger != nil {
			g.logger.Error(ctx, "feedback provider call failed", logger.Error(err))
		}
		return types.FeedbackResult{}, &ProviderError{Message: "feedback model call failed", Err: err}
	}

	if strings.TrimSpace(text) == "" {
		metrics.RecordFeedbackError()
		metrics.RecordErrorByComponent("feedback", "empty_reply")
		return types.FeedbackResult{}, &ProviderError{Message: "feedback model returned an empty reply"}
	}

	return types.FeedbackResult{TextFeedback: text}, nil
}
