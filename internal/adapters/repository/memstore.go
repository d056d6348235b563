package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount = 8
)

// shard holds one partition of the task map with its own lock so
// concurrent workers do not contend on a single mutex.
type shard struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

// MemStore implements Store with a sharded in-memory map. Submission
// order is kept separately so Recent can walk newest-first without
// scanning shards.
type MemStore struct {
	shards []*shard

	orderMu sync.RWMutex
	order   []string // task ids in submission order, oldest first
}

// NewMemStore creates a new in-memory task store with configuration options.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{}

	cfg := settings{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.shards = make([]*shard, cfg.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{tasks: make(map[string]Task)}
	}

	metrics.UpdateTotalTasks(0)
	return s
}

// shardFor maps a task id onto its shard.
func (s *MemStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Create registers a new pending task.
func (s *MemStore) Create(ctx context.Context, task Task) error {
	sh := s.shardFor(task.ID)
	sh.mu.Lock()
	if _, exists := sh.tasks[task.ID]; exists {
		sh.mu.Unlock()
		return ErrAlreadyExists
	}
	if task.Status == "" {
		task.Status = StatusPending
	}
	if task.SubmittedAt.IsZero() {
		task.SubmittedAt = time.Now()
	}
	sh.tasks[task.ID] = task
	sh.mu.Unlock()

	s.orderMu.Lock()
	s.order = append(s.order, task.ID)
	s.orderMu.Unlock()

	metrics.UpdateTotalTasks(s.Count(ctx))
	return nil
}

// MarkRunning transitions a task to the running state.
func (s *MemStore) MarkRunning(ctx context.Context, id string) error {
	return s.mutate(id, func(t *Task) {
		t.Status = StatusRunning
	})
}

// Complete stores the finished evaluation and marks the task succeeded.
func (s *MemStore) Complete(ctx context.Context, id string, result types.Evaluation) error {
	return s.mutate(id, func(t *Task) {
		t.Status = StatusSucceeded
		t.Result = &result
		t.FinishedAt = time.Now()
	})
}

// Fail marks the task failed with a short reason.
func (s *MemStore) Fail(ctx context.Context, id string, reason string) error {
	return s.mutate(id, func(t *Task) {
		t.Status = StatusFailed
		t.Error = reason
		t.FinishedAt = time.Now()
	})
}

// mutate applies fn to a stored task under the shard lock.
func (s *MemStore) mutate(id string, fn func(*Task)) error {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	task, exists := sh.tasks[id]
	if !exists {
		return ErrNotFound
	}
	fn(&task)
	sh.tasks[id] = task
	return nil
}

// Get returns the task for an id.
func (s *MemStore) Get(ctx context.Context, id string) (Task, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	task, exists := sh.tasks[id]
	if !exists {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// Recent returns up to n tasks, most recently submitted first.
func (s *MemStore) Recent(ctx context.Context, n int) ([]Task, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	s.orderMu.RLock()
	ids := make([]string, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(ids) < n; i-- {
		ids = append(ids, s.order[i])
	}
	s.orderMu.RUnlock()

	tasks := make([]Task, 0, len(ids))
	for _, id := range ids {
		if task, err := s.Get(ctx, id); err == nil {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// Count returns the number of tasks tracked in the store.
func (s *MemStore) Count(ctx context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.tasks)
		sh.mu.RUnlock()
	}
	return total
}
