// Package pause detects silence gaps between consecutive words and
// aggregates them into a pause report.
package pause

import (
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/model"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
)

// Analyze derives a PauseReport from a word sequence. Pure and
// deterministic; events are emitted in chronological order, mirroring
// word order.
//
// A gap between adjacent words becomes a pause event only when it
// strictly exceeds th.PauseMinMS; sub-threshold silence is natural
// phoneme spacing, not a pause. Negative gaps (overlapping words from a
// noisy transcription) are clamped to zero and produce no event.
func Analyze(words []model.Word, th types.Thresholds) types.PauseReport {
	report := types.PauseReport{Events: []types.PauseEvent{}}

	for i := 1; i < len(words); i++ {
		gap := words[i].StartMS - words[i-1].EndMS
		if gap < 0 {
			gap = 0
		}
		if gap <= th.PauseMinMS {
			continue
		}

		event := types.PauseEvent{
			StartMS:    words[i-1].EndMS,
			EndMS:      words[i].StartMS,
			DurationMS: gap,
			Category:   categorize(gap, th),
		}
		report.Events = append(report.Events, event)
		report.TotalPauseTimeMS += gap
		if gap > report.LongestPauseMS {
			report.LongestPauseMS = gap
		}
	}

	report.PauseCount = len(report.Events)
	return report
}

// categorize maps a pause duration to its category.
func categorize(durationMS int, th types.Thresholds) string {
	switch {
	case durationMS < th.PauseMediumMS:
		return types.PauseShort
	case durationMS < th.PauseLongMS:
		return types.PauseMedium
	default:
		return types.PauseLong
	}
}
