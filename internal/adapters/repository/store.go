// Package repository defines the evaluation task store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
)

// Status is the lifecycle state of an evaluation task.
type Status string

// Task lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Task is one tracked evaluation: the uploaded file, its processing
// state, and the pipeline result once available.
type Task struct {
	ID          string            `json:"task_id"`
	FileName    string            `json:"file_name"`
	Status      Status            `json:"status"`
	SubmittedAt time.Time         `json:"submitted_at"`
	FinishedAt  time.Time         `json:"finished_at,omitzero"`
	Result      *types.Evaluation `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Store provides read/write access to evaluation task state.
type Store interface {
	// Create registers a new pending task.
	// Returns ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, task Task) error

	// MarkRunning transitions a task to the running state.
	MarkRunning(ctx context.Context, id string) error

	// Complete stores the finished evaluation and marks the task
	// succeeded.
	Complete(ctx context.Context, id string, result types.Evaluation) error

	// Fail marks the task failed with a short reason.
	Fail(ctx context.Context, id string, reason string) error

	// Get returns the task for an id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (Task, error)

	// Recent returns up to n tasks, most recently submitted first.
	Recent(ctx context.Context, n int) ([]Task, error)

	// Count returns the number of tasks tracked in the store.
	Count(ctx context.Context) int
}
