package worker_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/mq/queue"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/mq/worker"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/model"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeTranscriber returns a canned transcript or error.
type fakeTranscriber struct {
	transcript model.Transcript
	err        error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath, mimeType string) (model.Transcript, error) {
	return f.transcript, f.err
}

// fakeEvaluator echoes the transcript text into the result.
type fakeEvaluator struct{}

func (fakeEvaluator) Evaluate(ctx context.Context, tr model.Transcript, th types.Thresholds) types.Evaluation {
	return types.Evaluation{Transcript: tr.Text}
}

// recordingTracker captures state transitions for assertions.
type recordingTracker struct {
	mu        sync.Mutex
	running   []string
	completed map[string]types.Evaluation
	failed    map[string]string
	done      chan string
}

func newRecordingTracker() *recordingTracker {
	return &recordingTracker{
		completed: make(map[string]types.Evaluation),
		failed:    make(map[string]string),
		done:      make(chan string, 16),
	}
}

func (t *recordingTracker) MarkRunning(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = append(t.running, id)
	return nil
}

func (t *recordingTracker) Complete(ctx context.Context, id string, result types.Evaluation) error {
	t.mu.Lock()
	t.completed[id] = result
	t.mu.Unlock()
	t.done <- id
	return nil
}

func (t *recordingTracker) Fail(ctx context.Context, id string, reason string) error {
	t.mu.Lock()
	t.failed[id] = reason
	t.mu.Unlock()
	t.done <- id
	return nil
}

func (t *recordingTracker) waitFor(id string, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		select {
		case got := <-t.done:
			if got == id {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func spoolTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o600); err != nil {
		t.Fatalf("write temp audio: %v", err)
	}
	return path
}

func TestEvalWorkerProcessing(t *testing.T) {
	Convey("Given a worker over a healthy pipeline", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		tracker := newRecordingTracker()
		asr := &fakeTranscriber{transcript: model.Transcript{Text: "hi there"}}
		w := worker.NewEvalWorker(q, asr, fakeEvaluator{}, tracker, types.DefaultThresholds(), worker.WithName("test-worker"))

		go w.Run(ctx)

		Convey("When a job is enqueued", func() {
			audioPath := spoolTempAudio(t)
			job := worker.Job{TaskID: "t1", AudioPath: audioPath, FileName: "job.wav", MimeType: "audio/wav"}
			So(q.Enqueue(ctx, job), ShouldBeTrue)

			Convey("Then the task should run and complete", func() {
				So(tracker.waitFor("t1", 2*time.Second), ShouldBeTrue)

				tracker.mu.Lock()
				defer tracker.mu.Unlock()
				So(tracker.running, ShouldContain, "t1")
				So(tracker.completed["t1"].Transcript, ShouldEqual, "hi there")
				So(tracker.failed, ShouldBeEmpty)
			})

			Convey("And the spooled audio file should be removed", func() {
				So(tracker.waitFor("t1", 2*time.Second), ShouldBeTrue)
				// Removal happens in a deferred call right after the
				// terminal transition.
				removed := false
				for i := 0; i < 50; i++ {
					if _, err := os.Stat(audioPath); os.IsNotExist(err) {
						removed = true
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				So(removed, ShouldBeTrue)
			})
		})

		Convey("When the worker is shut down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			Convey("Then shutdown should return promptly", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestEvalWorkerTranscriptionFailure(t *testing.T) {
	Convey("Given a worker whose transcriber is broken", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		tracker := newRecordingTracker()
		asr := &fakeTranscriber{err: errors.New("provider exploded")}
		w := worker.NewEvalWorker(q, asr, fakeEvaluator{}, tracker, types.DefaultThresholds())

		go w.Run(ctx)

		Convey("When a job is enqueued", func() {
			job := worker.Job{TaskID: "t1", AudioPath: spoolTempAudio(t), MimeType: "audio/wav"}
			So(q.Enqueue(ctx, job), ShouldBeTrue)

			Convey("Then the task should fail with the transcription reason", func() {
				So(tracker.waitFor("t1", 2*time.Second), ShouldBeTrue)

				tracker.mu.Lock()
				defer tracker.mu.Unlock()
				So(tracker.failed["t1"], ShouldContainSubstring, "transcription failed")
				So(tracker.failed["t1"], ShouldContainSubstring, "provider exploded")
				So(tracker.completed, ShouldBeEmpty)
			})
		})
	})
}

func TestPoolLifecycle(t *testing.T) {
	Convey("Given a pool of workers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		tracker := newRecordingTracker()
		asr := &fakeTranscriber{transcript: model.Transcript{Text: "ok"}}
		pool := worker.NewPool(3, q, asr, fakeEvaluator{}, tracker, types.DefaultThresholds())

		pool.Start(ctx)

		Convey("When several jobs are enqueued", func() {
			for _, id := range []string{"a", "b", "c", "d"} {
				job := worker.Job{TaskID: id, AudioPath: spoolTempAudio(t), MimeType: "audio/wav"}
				So(q.Enqueue(ctx, job), ShouldBeTrue)
			}

			Convey("Then all of them should complete", func() {
				for range []string{"a", "b", "c", "d"} {
					select {
					case <-tracker.done:
					case <-time.After(2 * time.Second):
						So("job never finished", ShouldBeEmpty)
					}
				}
				tracker.mu.Lock()
				defer tracker.mu.Unlock()
				So(len(tracker.completed), ShouldEqual, 4)
			})
		})

		Convey("When the pool is shut down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()

			Convey("Then shutdown should return without error", func() {
				So(pool.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}
