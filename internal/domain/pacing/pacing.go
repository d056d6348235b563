// Package pacing computes the words-per-minute speaking rate from word
// timestamps and classifies it against configurable boundaries.
package pacing

import (
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/model"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/types"
)

const (
	msPerSecond      = 1000.0
	secondsPerMinute = 60.0
)

// Analyze derives a PacingReport from a word sequence. Pure and
// deterministic; never fails on data.
//
// Duration spans the first word's start to the last word's end. An
// empty sequence or a non-positive duration yields the explicit
// insufficient-data report instead of an error.
//
// Category boundaries are inclusive toward optimal: wpm equal to either
// boundary classifies as optimal.
func Analyze(words []model.Word, th types.Thresholds) types.PacingReport {
	if len(words) == 0 {
		return types.PacingReport{Category: types.PacingInsufficientData}
	}

	durationMS := words[len(words)-1].EndMS - words[0].StartMS
	durationSec := float64(durationMS) / msPerSecond
	if durationSec <= 0 {
		return types.PacingReport{
			Category:  types.PacingInsufficientData,
			WordCount: len(words),
		}
	}

	wpm := float64(len(words)) / durationSec * secondsPerMinute

	return types.PacingReport{
		WordsPerMinute:   wpm,
		Category:         categorize(wpm, th),
		TotalDurationSec: durationSec,
		WordCount:        len(words),
	}
}

// categorize maps a words-per-minute value to its pacing category.
func categorize(wpm float64, th types.Thresholds) string {
	switch {
	case wpm < th.PacingLowWPM:
		return types.PacingSlow
	case wpm > th.PacingHighWPM:
		return types.PacingFast
	default:
		return types.PacingOptimal
	}
}
