// Package worker defines worker contracts for asynchronous audio
// evaluation: each worker drains jobs from the queue, transcribes the
// audio, runs the analysis pipeline, and records the outcome.
package worker

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/model"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/logger"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
// Using the model.Job type for consistency.
type Job = model.Job

// Transcriber produces a transcript from an uploaded audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, mimeType string) (model.Transcript, error)
}

// Evaluator runs the analysis pipeline over a transcript.
type Evaluator interface {
	Evaluate(ctx context.Context, tr model.Transcript, th types.Thresholds) types.Evaluation
}

// Tracker records task state transitions as a job moves through the
// pipeline.
type Tracker interface {
	MarkRunning(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, result types.Evaluation) error
	Fail(ctx context.Context, id string, reason string) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes evaluation jobs using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// EvalWorker implements Worker for processing evaluation jobs.
type EvalWorker struct {
	queue       Queue
	transcriber Transcriber
	evaluator   Evaluator
	tracker     Tracker
	thresholds  types.Thresholds
	name        string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// Logging
	logger logger.Logger
}

// NewEvalWorker creates a new worker with configuration options.
func NewEvalWorker(queue Queue, transcriber Transcriber, evaluator Evaluator, tracker Tracker, th types.Thresholds, opts ...Option) *EvalWorker {
	w := &EvalWorker{
		queue:       queue,
		transcriber: transcriber,
		evaluator:   evaluator,
		tracker:     tracker,
		thresholds:  th,
		name:        "worker", // default name
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
		logger:      logger.Get().Named("worker"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *EvalWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job",
					logger.String("taskID", job.TaskID),
					logger.Error(err),
				)
			}
		}
	}
}

// signalStop closes the shutdown channel exactly once.
func (w *EvalWorker) signalStop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// Shutdown gracefully stops the worker.
func (w *EvalWorker) Shutdown(ctx context.Context) error {
	w.signalStop()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob handles a single evaluation job end to end. The spooled
// audio file is removed once the job reaches a terminal state.
func (w *EvalWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()
	defer w.removeAudio(ctx, job.AudioPath)

	if err := w.tracker.MarkRunning(ctx, job.TaskID); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "tracker_error")
		return fmt.Errorf("mark running %s: %w", job.TaskID, err)
	}

	transcribeStart := time.Now()
	transcript, err := w.transcriber.Transcribe(ctx, job.AudioPath, job.MimeType)
	metrics.RecordTranscriptionLatency(float64(time.Since(transcribeStart).Milliseconds()))
	if err != nil {
		metrics.RecordTranscriptionError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "transcription_error")
		metrics.RecordEvaluationFailed()
		if failErr := w.tracker.Fail(ctx, job.TaskID, "transcription failed: "+err.Error()); failErr != nil {
			w.logger.Error(ctx, "failed to record transcription failure",
				logger.String("taskID", job.TaskID),
				logger.Error(failErr),
			)
		}
		return fmt.Errorf("transcribe %s: %w", job.TaskID, err)
	}

	// The pipeline itself never fails on data; a feedback outage is
	// recorded on the evaluation and the task still succeeds with the
	// three analyses present.
	result := w.evaluator.Evaluate(ctx, transcript, w.thresholds)

	if err := w.tracker.Complete(ctx, job.TaskID, result); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "tracker_error")
		metrics.RecordEvaluationFailed()
		return fmt.Errorf("complete %s: %w", job.TaskID, err)
	}

	metrics.RecordEvaluationCompleted()
	w.logger.Info(ctx, "evaluation finished",
		logger.String("taskID", job.TaskID),
		logger.String("fileName", job.FileName),
		logger.Int("words", len(transcript.Words)),
		logger.Bool("feedbackOK", result.FeedbackError == ""),
	)
	return nil
}

// removeAudio deletes the spooled upload; a missing file is fine.
func (w *EvalWorker) removeAudio(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		w.logger.Warn(ctx, "failed to remove spooled audio",
			logger.String("path", path),
			logger.Error(err),
		)
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*EvalWorker
	queue   Queue

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, transcriber Transcriber, evaluator Evaluator, tracker Tracker, th types.Thresholds) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*EvalWorker, workerCount),
		queue:    queue,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewEvalWorker(
			queue,
			transcriber,
			evaluator,
			tracker,
			th,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		worker.signalStop()
	}
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	for _, worker := range p.workers {
		worker.signalStop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
