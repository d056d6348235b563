// Package pronunciation scores transcribed words against their provider
// confidence and flags likely mispronunciations.
//
// The overall score is the mean word confidence scaled to [0,100]. The
// mean is deterministic and monotonic: adding a low-confidence word can
// only lower the score, never raise it.
package pronunciation

import (
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/model"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
)

// maxScore is the upper bound of the pronunciation score range.
const maxScore = 100

// Analyze derives a PronunciationReport from a word sequence. It is a
// pure function of its inputs: no side effects, no shared state.
//
// An empty word list yields the neutral report (score 0, no flagged
// words). Confidence values outside [0,1] from a misbehaving provider
// are clamped, not rejected.
func Analyze(words []model.Word, th types.Thresholds) types.PronunciationReport {
	report := types.PronunciationReport{
		MispronouncedWords: []types.MispronouncedWord{},
	}
	if len(words) == 0 {
		return report
	}

	var sum float64
	for i, w := range words {
		c := clamp01(w.Confidence)
		sum += c
		if c < th.PronunciationMinConfidence {
			report.MispronouncedWords = append(report.MispronouncedWords, types.MispronouncedWord{
				Word:       w.Text,
				Confidence: c,
				Position:   i,
			})
		}
	}

	report.Score = sum / float64(len(words)) * maxScore
	return report
}

// clamp01 bounds a confidence value to [0,1].
func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
