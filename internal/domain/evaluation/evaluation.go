// Package evaluation runs the analysis pipeline for a single
// transcript: the three analyzers fan out concurrently, their completed
// reports merge into a bundle, and the bundle feeds the feedback step.
package evaluation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/feedback"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/model"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/pacing"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/pause"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/pronunciation"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/logger"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/metrics"
)

// FeedbackGenerator abstracts the feedback step so tests can inject a
// deterministic double instead of a live model call.
type FeedbackGenerator interface {
	Generate(ctx context.Context, bundle types.AnalysisBundle) (types.FeedbackResult, error)
}

// Evaluator owns one invocation of the pipeline at a time. It holds no
// per-request state, so a single instance is shared safely across
// workers.
type Evaluator struct {
	feedback FeedbackGenerator
	logger   logger.Logger
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithLogger sets a custom logger for the evaluator.
func WithLogger(l logger.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Evaluator backed by the given feedback generator.
func New(fg FeedbackGenerator, opts ...Option) *Evaluator {
	e := &Evaluator{feedback: fg}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Analyze runs the three analyzers over the word sequence and returns
// their merged bundle. The analyzers are pure and independent, so they
// fan out on goroutines; the merge strictly waits for all three to
// complete before reading any report.
func (e *Evaluator) Analyze(words []model.Word, th types.Thresholds) types.AnalysisBundle {
	var bundle types.AnalysisBundle
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		bundle.Pronunciation = pronunciation.Analyze(words, th)
	}()
	go func() {
		defer wg.Done()
		bundle.Pacing = pacing.Analyze(words, th)
	}()
	go func() {
		defer wg.Done()
		bundle.Pauses = pause.Analyze(words, th)
	}()
	wg.Wait()

	return bundle
}

// Evaluate runs the full pipeline for one transcript: analysis fan-out,
// merge, then the feedback model call. A feedback failure is recorded
// on the result and never discards the three completed analyses.
func (e *Evaluator) Evaluate(ctx context.Context, tr model.Transcript, th types.Thresholds) types.Evaluation {
	start := time.Now()
	bundle := e.Analyze(tr.Words, th)
	metrics.RecordAnalysisLatency(float64(time.Since(start).Milliseconds()))

	result := types.Evaluation{
		Transcript:    tr.Text,
		Pronunciation: bundle.Pronunciation,
		Pacing:        bundle.Pacing,
		Pauses:        bundle.Pauses,
	}

	fb, err := e.feedback.Generate(ctx, bundle)
	if err != nil {
		result.FeedbackError = failureMessage(err)
		if e.logger != nil {
			e.logger.Warn(ctx, "feedback generation failed; returning analyses without feedback",
				logger.Error(err),
			)
		}
		return result
	}

	result.TextFeedback = fb.TextFeedback
	return result
}

// failureMessage extracts the short boundary message from a feedback
// failure, falling back to the raw error text.
func failureMessage(err error) string {
	var pe *feedback.ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
