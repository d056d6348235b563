// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	jobqueue "github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/mq/queue"
	workerpool "github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/mq/worker"
	repository "github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/repository"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/evaluation"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/feedback"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/model"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/logger"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/metrics"
)

// Service implements the API dependencies for the evaluation pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	tasks       repository.Store
	jobQueue    jobqueue.Queue
	transcriber workerpool.Transcriber
	provider    feedback.Provider
	evaluator   *evaluation.Evaluator
	workerPool  *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	storeShardCount int
	thresholds      types.Thresholds
	feedbackTimeout time.Duration

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStoreShardCount sets the number of task store shards.
func WithStoreShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.storeShardCount = count
		}
	}
}

// WithThresholds sets the analysis thresholds.
func WithThresholds(th types.Thresholds) Option {
	return func(s *Service) {
		s.thresholds = th
	}
}

// WithTranscriber sets the transcription client used by workers.
func WithTranscriber(t workerpool.Transcriber) Option {
	return func(s *Service) {
		s.transcriber = t
	}
}

// WithFeedbackProvider sets the language-model provider used for
// coaching feedback. Without one, evaluations carry a feedback error
// and the three analyses only.
func WithFeedbackProvider(p feedback.Provider) Option {
	return func(s *Service) {
		s.provider = p
	}
}

// WithFeedbackTimeout bounds each feedback model call with a context
// deadline.
func WithFeedbackTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.feedbackTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:       1024,                 // Default queue size
		storeShardCount: 8,                    // Default store shard count
		thresholds:      types.DefaultThresholds(),
		stopCh:          make(chan struct{}),
		logger:          nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.transcriber == nil {
		return ErrNoTranscriber
	}

	s.logger.Info(ctx, "starting evaluation service...")

	// Initialize components
	s.tasks = repository.NewMemStore(ctx,
		repository.WithShardCount(s.storeShardCount),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	s.evaluator = evaluation.New(
		s.feedbackGenerator(),
		evaluation.WithLogger(s.logger.Named("evaluation")),
	)

	// Create and start the worker pool
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s.transcriber, s.evaluator, s.tasks, s.thresholds)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "evaluation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("storeShards", s.storeShardCount),
		logger.Bool("feedbackEnabled", s.provider != nil),
	)

	return nil
}

// feedbackGenerator wires the configured provider into the pipeline.
// With no provider, a disabled generator keeps the pipeline running on
// analyses alone.
func (s *Service) feedbackGenerator() evaluation.FeedbackGenerator {
	if s.provider == nil {
		return disabledFeedback{}
	}
	return feedback.NewGenerator(s.provider,
		feedback.WithTimeout(s.feedbackTimeout),
		feedback.WithLogger(s.logger.Named("feedback")),
	)
}

// disabledFeedback reports feedback as unavailable for every request.
type disabledFeedback struct{}

func (disabledFeedback) Generate(ctx context.Context, bundle types.AnalysisBundle) (types.FeedbackResult, error) {
	return types.FeedbackResult{}, &feedback.ProviderError{Message: "feedback generation disabled"}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping evaluation service...")

	// Close queue first so workers drain and exit
	if q, ok := s.jobQueue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "evaluation service stopped")
}

// CreateTask records a new pending task.
func (s *Service) CreateTask(ctx context.Context, t repository.Task) error {
	return s.tasks.Create(ctx, t)
}

// FailTask marks a task failed with a reason.
func (s *Service) FailTask(ctx context.Context, id, reason string) error {
	return s.tasks.Fail(ctx, id, reason)
}

// Enqueue submits a job for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, j model.Job) bool {
	s.logger.Debug(ctx, "enqueueing job",
		logger.String("taskID", j.TaskID),
		logger.String("fileName", j.FileName),
	)

	success := s.jobQueue.Enqueue(ctx, j)
	if success {
		metrics.UpdateQueueSize(s.jobQueue.Len(ctx))
	}
	return success
}

// Get returns the task for an id.
func (s *Service) Get(ctx context.Context, id string) (repository.Task, error) {
	return s.tasks.Get(ctx, id)
}

// Recent returns up to n tasks, most recently submitted first.
func (s *Service) Recent(ctx context.Context, n int) ([]repository.Task, error) {
	return s.tasks.Recent(ctx, n)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		totalTasks := s.tasks.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalTasks"] = totalTasks

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalTasks(totalTasks)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
