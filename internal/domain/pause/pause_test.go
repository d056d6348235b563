package pause_test

import (
	"testing"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/model"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/pause"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAnalyze(t *testing.T) {
	Convey("Given default thresholds", t, func() {
		th := types.DefaultThresholds()

		Convey("When analyzing fewer than two words", func() {
			report := pause.Analyze([]model.Word{{Text: "only", StartMS: 0, EndMS: 400}}, th)

			Convey("Then no pauses should be reported", func() {
				So(report.Events, ShouldNotBeNil)
				So(report.Events, ShouldBeEmpty)
				So(report.PauseCount, ShouldEqual, 0)
				So(report.TotalPauseTimeMS, ShouldEqual, 0)
				So(report.LongestPauseMS, ShouldEqual, 0)
			})
		})

		Convey("When a gap sits exactly on the minimum threshold", func() {
			words := []model.Word{
				{Text: "a", StartMS: 0, EndMS: 500},
				{Text: "b", StartMS: 1000, EndMS: 1400},
			}
			report := pause.Analyze(words, th)

			Convey("Then it should not count as a pause", func() {
				So(report.Events, ShouldBeEmpty)
			})
		})

		Convey("When a gap barely exceeds the minimum threshold", func() {
			words := []model.Word{
				{Text: "a", StartMS: 0, EndMS: 500},
				{Text: "b", StartMS: 1001, EndMS: 1400},
			}
			report := pause.Analyze(words, th)

			Convey("Then it should count as a short pause", func() {
				So(report.Events, ShouldHaveLength, 1)
				So(report.Events[0].StartMS, ShouldEqual, 500)
				So(report.Events[0].EndMS, ShouldEqual, 1001)
				So(report.Events[0].DurationMS, ShouldEqual, 501)
				So(report.Events[0].Category, ShouldEqual, types.PauseShort)
			})
		})

		Convey("When words overlap", func() {
			words := []model.Word{
				{Text: "a", StartMS: 0, EndMS: 800},
				{Text: "b", StartMS: 600, EndMS: 1200},
			}
			report := pause.Analyze(words, th)

			Convey("Then the negative gap should produce no event", func() {
				So(report.Events, ShouldBeEmpty)
				So(report.TotalPauseTimeMS, ShouldEqual, 0)
			})
		})

		Convey("When the transcript has gaps of each size", func() {
			words := []model.Word{
				{Text: "a", StartMS: 0, EndMS: 400},
				{Text: "b", StartMS: 1100, EndMS: 1500},    // 700ms: short
				{Text: "c", StartMS: 3000, EndMS: 3400},    // 1500ms: medium
				{Text: "d", StartMS: 6000, EndMS: 6400},    // 2600ms: long
				{Text: "e", StartMS: 6500, EndMS: 6900},    // 100ms: no pause
			}
			report := pause.Analyze(words, th)

			Convey("Then each gap should be categorized by duration", func() {
				So(report.Events, ShouldHaveLength, 3)
				So(report.Events[0].Category, ShouldEqual, types.PauseShort)
				So(report.Events[1].Category, ShouldEqual, types.PauseMedium)
				So(report.Events[2].Category, ShouldEqual, types.PauseLong)
			})

			Convey("And the aggregates should match the events", func() {
				So(report.PauseCount, ShouldEqual, 3)
				So(report.TotalPauseTimeMS, ShouldEqual, 700+1500+2600)
				So(report.LongestPauseMS, ShouldEqual, 2600)
			})

			Convey("And events should be in chronological order", func() {
				So(report.Events[0].StartMS, ShouldBeLessThan, report.Events[1].StartMS)
				So(report.Events[1].StartMS, ShouldBeLessThan, report.Events[2].StartMS)
			})
		})

		Convey("When a gap sits exactly on the long boundary", func() {
			words := []model.Word{
				{Text: "a", StartMS: 0, EndMS: 500},
				{Text: "b", StartMS: 2500, EndMS: 2900},
			}
			report := pause.Analyze(words, th)

			Convey("Then a 2000ms pause should classify as long", func() {
				So(report.Events, ShouldHaveLength, 1)
				So(report.Events[0].DurationMS, ShouldEqual, 2000)
				So(report.Events[0].Category, ShouldEqual, types.PauseLong)
			})
		})
	})
}
