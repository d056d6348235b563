// Package worker defines worker contracts for asynchronous audio
// evaluation.
package worker

import (
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/logger"
)

// Option applies a configuration option to the EvalWorker.
type Option func(*EvalWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *EvalWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *EvalWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
