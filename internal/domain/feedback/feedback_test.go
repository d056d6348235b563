package feedback_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/feedback"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeProvider returns a canned reply or error.
type fakeProvider struct {
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.calls++
	p.lastPrompt = prompt
	return p.reply, p.err
}

// stalledProvider never answers until its context expires.
type stalledProvider struct{}

func (stalledProvider) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Second):
		return "too late", nil
	}
}

func sampleBundle() types.AnalysisBundle {
	return types.AnalysisBundle{
		Pronunciation: types.PronunciationReport{
			Score: 67.5,
			MispronouncedWords: []types.MispronouncedWord{
				{Word: "there", Confidence: 0.4, Position: 1},
			},
		},
		Pacing: types.PacingReport{
			WordsPerMinute:   60,
			Category:         types.PacingSlow,
			TotalDurationSec: 2,
			WordCount:        2,
		},
		Pauses: types.PauseReport{
			Events: []types.PauseEvent{
				{StartMS: 300, EndMS: 1500, DurationMS: 1200, Category: types.PauseMedium},
			},
			TotalPauseTimeMS: 1200,
			PauseCount:       1,
			LongestPauseMS:   1200,
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	Convey("Given a completed analysis bundle", t, func() {
		bundle := sampleBundle()

		Convey("When building the prompt twice", func() {
			first := feedback.BuildPrompt(bundle)
			second := feedback.BuildPrompt(bundle)

			Convey("Then the output should be identical", func() {
				So(first, ShouldEqual, second)
			})
		})

		Convey("When inspecting the prompt content", func() {
			prompt := feedback.BuildPrompt(bundle)

			Convey("Then it should carry every analysis figure", func() {
				So(prompt, ShouldContainSubstring, "67.5/100")
				So(prompt, ShouldContainSubstring, `"there" (confidence 0.40)`)
				So(prompt, ShouldContainSubstring, "Words per minute: 60.0")
				So(prompt, ShouldContainSubstring, "Pacing assessment: slow")
				So(prompt, ShouldContainSubstring, "Pause count: 1")
				So(prompt, ShouldContainSubstring, "Longest pause: 1.20 seconds")
			})
		})

		Convey("When no words were mispronounced", func() {
			bundle.Pronunciation.MispronouncedWords = nil
			prompt := feedback.BuildPrompt(bundle)

			Convey("Then the prompt should say so explicitly", func() {
				So(prompt, ShouldContainSubstring, "Mispronounced words: none")
			})
		})
	})
}

func TestGenerator_Generate(t *testing.T) {
	Convey("Given a generator over a working provider", t, func() {
		provider := &fakeProvider{reply: "Great job overall. Slow down slightly."}
		gen := feedback.NewGenerator(provider)

		Convey("When generating feedback", func() {
			result, err := gen.Generate(context.Background(), sampleBundle())

			Convey("Then it should return the provider text", func() {
				So(err, ShouldBeNil)
				So(result.TextFeedback, ShouldEqual, "Great job overall. Slow down slightly.")
			})

			Convey("And the provider should be called exactly once", func() {
				So(provider.calls, ShouldEqual, 1)
				So(strings.Contains(provider.lastPrompt, "Pronunciation analysis"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a provider that fails", t, func() {
		provider := &fakeProvider{err: errors.New("model unavailable")}
		gen := feedback.NewGenerator(provider)

		Convey("When generating feedback", func() {
			_, err := gen.Generate(context.Background(), sampleBundle())

			Convey("Then the failure should surface as a ProviderError", func() {
				So(err, ShouldNotBeNil)
				var pe *feedback.ProviderError
				So(errors.As(err, &pe), ShouldBeTrue)
				So(errors.Is(err, feedback.ErrProvider), ShouldBeTrue)
				So(errors.Is(err, errors.Unwrap(pe)), ShouldBeTrue)
			})
		})
	})

	Convey("Given a generator with a timeout over a stalled provider", t, func() {
		gen := feedback.NewGenerator(stalledProvider{}, feedback.WithTimeout(20*time.Millisecond))

		Convey("When generating feedback", func() {
			_, err := gen.Generate(context.Background(), sampleBundle())

			Convey("Then the deadline should cut the call short", func() {
				var pe *feedback.ProviderError
				So(errors.As(err, &pe), ShouldBeTrue)
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})
	})

	Convey("Given a provider that returns only whitespace", t, func() {
		provider := &fakeProvider{reply: "   \n\t "}
		gen := feedback.NewGenerator(provider)

		Convey("When generating feedback", func() {
			_, err := gen.Generate(context.Background(), sampleBundle())

			Convey("Then the empty reply should be a ProviderError", func() {
				var pe *feedback.ProviderError
				So(errors.As(err, &pe), ShouldBeTrue)
				So(pe.Message, ShouldContainSubstring, "empty reply")
			})
		})
	})
}
