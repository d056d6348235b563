package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/repository"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemStoreLifecycle(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)

		Convey("When creating a task", func() {
			err := store.Create(ctx, repository.Task{ID: "t1", FileName: "speech.wav"})

			Convey("Then it should be readable as pending", func() {
				So(err, ShouldBeNil)
				task, err := store.Get(ctx, "t1")
				So(err, ShouldBeNil)
				So(task.Status, ShouldEqual, repository.StatusPending)
				So(task.FileName, ShouldEqual, "speech.wav")
				So(task.SubmittedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And creating the same id again should fail", func() {
				So(err, ShouldBeNil)
				err := store.Create(ctx, repository.Task{ID: "t1"})
				So(err, ShouldEqual, repository.ErrAlreadyExists)
			})
		})

		Convey("When walking the full lifecycle", func() {
			So(store.Create(ctx, repository.Task{ID: "t1"}), ShouldBeNil)
			So(store.MarkRunning(ctx, "t1"), ShouldBeNil)

			result := types.Evaluation{
				Transcript:    "hi there",
				Pronunciation: types.PronunciationReport{Score: 67.5},
			}
			So(store.Complete(ctx, "t1", result), ShouldBeNil)

			Convey("Then the terminal task should carry the result", func() {
				task, err := store.Get(ctx, "t1")
				So(err, ShouldBeNil)
				So(task.Status, ShouldEqual, repository.StatusSucceeded)
				So(task.Result, ShouldNotBeNil)
				So(task.Result.Pronunciation.Score, ShouldEqual, 67.5)
				So(task.FinishedAt.IsZero(), ShouldBeFalse)
				So(task.Error, ShouldBeEmpty)
			})
		})

		Convey("When failing a task", func() {
			So(store.Create(ctx, repository.Task{ID: "t2"}), ShouldBeNil)
			So(store.Fail(ctx, "t2", "transcription failed: boom"), ShouldBeNil)

			Convey("Then the failure reason should be stored", func() {
				task, err := store.Get(ctx, "t2")
				So(err, ShouldBeNil)
				So(task.Status, ShouldEqual, repository.StatusFailed)
				So(task.Error, ShouldContainSubstring, "boom")
				So(task.Result, ShouldBeNil)
			})
		})

		Convey("When touching an unknown id", func() {
			_, getErr := store.Get(ctx, "nope")

			Convey("Then every operation should report not found", func() {
				So(getErr, ShouldEqual, repository.ErrNotFound)
				So(store.MarkRunning(ctx, "nope"), ShouldEqual, repository.ErrNotFound)
				So(store.Fail(ctx, "nope", "x"), ShouldEqual, repository.ErrNotFound)
			})
		})
	})
}

func TestMemStoreRecent(t *testing.T) {
	Convey("Given a store with several tasks", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx, repository.WithShardCount(4))

		for i := 0; i < 5; i++ {
			id := fmt.Sprintf("t%d", i)
			So(store.Create(ctx, repository.Task{ID: id}), ShouldBeNil)
		}

		Convey("When listing fewer than exist", func() {
			tasks, err := store.Recent(ctx, 3)

			Convey("Then the newest submissions should come first", func() {
				So(err, ShouldBeNil)
				So(tasks, ShouldHaveLength, 3)
				So(tasks[0].ID, ShouldEqual, "t4")
				So(tasks[1].ID, ShouldEqual, "t3")
				So(tasks[2].ID, ShouldEqual, "t2")
			})
		})

		Convey("When listing more than exist", func() {
			tasks, err := store.Recent(ctx, 100)

			Convey("Then everything should come back", func() {
				So(err, ShouldBeNil)
				So(tasks, ShouldHaveLength, 5)
			})
		})

		Convey("When the limit is not positive", func() {
			_, err := store.Recent(ctx, 0)

			Convey("Then it should report an invalid limit", func() {
				So(err, ShouldEqual, repository.ErrInvalidLimit)
			})
		})

		Convey("When counting", func() {
			So(store.Count(ctx), ShouldEqual, 5)
		})
	})
}

func TestMemStoreConcurrency(t *testing.T) {
	Convey("Given many goroutines writing distinct tasks", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx, repository.WithShardCount(16))

		const n = 200
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("task-%d", i)
				_ = store.Create(ctx, repository.Task{ID: id})
				_ = store.MarkRunning(ctx, id)
				_ = store.Complete(ctx, id, types.Evaluation{})
			}(i)
		}
		wg.Wait()

		Convey("Then every task should be terminal", func() {
			So(store.Count(ctx), ShouldEqual, n)
			for i := 0; i < n; i++ {
				task, err := store.Get(ctx, fmt.Sprintf("task-%d", i))
				So(err, ShouldBeNil)
				So(task.Status, ShouldEqual, repository.StatusSucceeded)
			}
		})
	})
}
