// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Thresholds are plain values handed to each analyzer call, never
//   read from process globals; per-request overrides stay possible.
// - Threshold ordering is validated once at load time; a violated
//   ordering is a configuration error, not a runtime data error.
package config

import (
	"runtime"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
)

// Default limits mirroring the transcription provider's constraints.
const (
	defaultMaxUploadBytes = 25 * 1024 * 1024 // provider upload cap
	defaultQueueSize      = 1024
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UploadDir is where incoming audio files are spooled before
	// processing.
	UploadDir string `koanf:"upload_dir"`

	// MaxUploadBytes caps the accepted audio file size.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// QueueSize bounds the in-memory evaluation job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// StoreShardCount configures the number of shards in the task store.
	StoreShardCount int `koanf:"store_shard_count"`

	// MaxRecentLimit caps GET /evaluations?limit.
	MaxRecentLimit int `koanf:"max_recent_limit"`

	// Transcription provider settings (AssemblyAI).
	AssemblyAIAPIKey         string `koanf:"assemblyai_api_key"`
	AssemblyAIBaseURL        string `koanf:"assemblyai_base_url"`
	TranscribePollIntervalMS int    `koanf:"transcribe_poll_interval_ms"`
	TranscribeMaxPolls       int    `koanf:"transcribe_max_polls"`
	UploadMaxRetries         int    `koanf:"upload_max_retries"`

	// Feedback model settings (Gemini).
	GeminiAPIKey      string `koanf:"gemini_api_key"`
	GeminiModel       string `koanf:"gemini_model"`
	GeminiBaseURL     string `koanf:"gemini_base_url"`
	FeedbackTimeoutMS int    `koanf:"feedback_timeout_ms"`

	// Thresholds are the analyzer boundaries; see types.Thresholds.
	Thresholds types.Thresholds `koanf:"thresholds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                 "info",
		Addr:                     ":8080",
		UploadDir:                "uploads",
		MaxUploadBytes:           defaultMaxUploadBytes,
		QueueSize:                defaultQueueSize,
		WorkerCount:              runtime.NumCPU() * 2,
		StoreShardCount:          8,
		MaxRecentLimit:           100,
		AssemblyAIBaseURL:        "https://api.assemblyai.com/v2",
		TranscribePollIntervalMS: 1000,
		TranscribeMaxPolls:       60,
		UploadMaxRetries:         3,
		GeminiModel:              "gemini-2.0-flash-lite",
		GeminiBaseURL:            "https://generativelanguage.googleapis.com/v1beta",
		FeedbackTimeoutMS:        30000,
		Thresholds:               types.DefaultThresholds(),
	}
}
