package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/feedback"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/http/api"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/transcriber"
	app "github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/app"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/config"
	domainfeedback "github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/feedback"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/logger"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 30 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Load a local .env file when present; real environments set vars
	// directly.
	_ = godotenv.Load()

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Transcription client; the pipeline cannot run without one.
	asr, err := transcriber.NewClient(cfg.AssemblyAIAPIKey,
		transcriber.WithBaseURL(cfg.AssemblyAIBaseURL),
		transcriber.WithPollInterval(time.Duration(cfg.TranscribePollIntervalMS)*time.Millisecond),
		transcriber.WithMaxPolls(cfg.TranscribeMaxPolls),
		transcriber.WithMaxRetries(cfg.UploadMaxRetries),
		transcriber.WithLogger(loggerInstance.Named("transcriber")),
	)
	if err != nil {
		os.Stderr.WriteString("failed to build transcription client: " + err.Error() + "\n")
		return
	}

	// Feedback provider is optional; evaluations degrade to analyses
	// only when the key is absent.
	var provider domainfeedback.Provider
	if cfg.GeminiAPIKey != "" {
		gemini, err := feedback.NewGeminiClient(cfg.GeminiAPIKey,
			feedback.WithModel(cfg.GeminiModel),
			feedback.WithBaseURL(cfg.GeminiBaseURL),
			feedback.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.FeedbackTimeoutMS) * time.Millisecond}),
		)
		if err != nil {
			os.Stderr.WriteString("failed to build feedback client: " + err.Error() + "\n")
			return
		}
		provider = gemini
	} else {
		loggerInstance.Warn(ctx, "no feedback API key configured; text feedback disabled")
	}

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithStoreShardCount(cfg.StoreShardCount),
		app.WithThresholds(cfg.Thresholds),
		app.WithFeedbackTimeout(time.Duration(cfg.FeedbackTimeoutMS)*time.Millisecond),
		app.WithTranscriber(asr),
		app.WithFeedbackProvider(provider),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, cfg.UploadDir, cfg.MaxUploadBytes, cfg.MaxRecentLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Average pause over the life of the process
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	// GetStats already pushes the gauges; read it for its side effects.
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}

	if totalTasks, ok := stats["totalTasks"].(int); ok {
		metrics.UpdateTotalTasks(totalTasks)
	}

	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
}
