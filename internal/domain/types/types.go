// Package types contains common types used across the application.
package types

import "fmt"

// Pacing categories. InsufficientData is the explicit degenerate value
// for empty or zero-duration transcripts.
const (
	PacingSlow             = "slow"
	PacingOptimal          = "optimal"
	PacingFast             = "fast"
	PacingInsufficientData = "insufficient_data"
)

// Pause categories by duration.
const (
	PauseShort  = "short"
	PauseMedium = "medium"
	PauseLong   = "long"
)

// Thresholds carries the tunable boundaries for all three analyzers.
// It is passed explicitly into each analyzer call so tests and callers
// can override it per request without touching process state.
type Thresholds struct {
	// PronunciationMinConfidence marks a word as mispronounced when its
	// confidence falls below this value.
	PronunciationMinConfidence float64 `json:"pronunciation_min_confidence" koanf:"pronunciation_min_confidence"`

	// PacingLowWPM and PacingHighWPM bound the optimal speaking rate.
	PacingLowWPM  float64 `json:"pacing_low_wpm" koanf:"pacing_low_wpm"`
	PacingHighWPM float64 `json:"pacing_high_wpm" koanf:"pacing_high_wpm"`

	// PauseMinMS is the minimum gap that counts as a pause at all;
	// PauseMediumMS and PauseLongMS split qualifying pauses into
	// short/medium/long.
	PauseMinMS    int `json:"pause_min_ms" koanf:"pause_min_ms"`
	PauseMediumMS int `json:"pause_medium_ms" koanf:"pause_medium_ms"`
	PauseLongMS   int `json:"pause_long_ms" koanf:"pause_long_ms"`
}

// DefaultThresholds returns the documented tunable defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PronunciationMinConfidence: 0.6,
		PacingLowWPM:               90,
		PacingHighWPM:              150,
		PauseMinMS:                 500,
		PauseMediumMS:              1000,
		PauseLongMS:                2000,
	}
}

// Validate checks threshold ordering. Inverted boundaries are a
// configuration error surfaced once at load time, never per request.
func (t Thresholds) Validate() error {
	if t.PronunciationMinConfidence < 0 || t.PronunciationMinConfidence > 1 {
		return fmt.Errorf("pronunciation_min_confidence must be in [0,1], got %v", t.PronunciationMinConfidence)
	}
	if t.PacingLowWPM >= t.PacingHighWPM {
		return fmt.Errorf("pacing_low_wpm (%v) must be below pacing_high_wpm (%v)", t.PacingLowWPM, t.PacingHighWPM)
	}
	if t.PauseMinMS < 0 {
		return fmt.Errorf("pause_min_ms must not be negative, got %d", t.PauseMinMS)
	}
	if t.PauseMinMS >= t.PauseMediumMS {
		return fmt.Errorf("pause_min_ms (%d) must be below pause_medium_ms (%d)", t.PauseMinMS, t.PauseMediumMS)
	}
	if t.PauseMediumMS >= t.PauseLongMS {
		return fmt.Errorf("pause_medium_ms (%d) must be below pause_long_ms (%d)", t.PauseMediumMS, t.PauseLongMS)
	}
	return nil
}

// MispronouncedWord is a single low-confidence word flagged by the
// pronunciation analyzer. Position is the word's index in the input.
type MispronouncedWord struct {
	Word       string  `json:"word"`
	Confidence float64 `json:"confidence"`
	Position   int     `json:"position"`
}

// PronunciationReport is the pronunciation analyzer output.
type PronunciationReport struct {
	Score              float64             `json:"score"` // [0,100]
	MispronouncedWords []MispronouncedWord `json:"mispronounced_words"`
}

// PacingReport is the pacing analyzer output.
type PacingReport struct {
	WordsPerMinute   float64 `json:"words_per_minute"`
	Category         string  `json:"category"`
	TotalDurationSec float64 `json:"total_duration_sec"`
	WordCount        int     `json:"word_count"`
}

// PauseEvent is a silence gap between adjacent words that exceeded the
// minimum pause threshold.
type PauseEvent struct {
	StartMS    int    `json:"start_ms"`
	EndMS      int    `json:"end_ms"`
	DurationMS int    `json:"duration_ms"`
	Category   string `json:"category"`
}

// PauseReport is the pause analyzer output. Events are chronological.
type PauseReport struct {
	Events           []PauseEvent `json:"events"`
	TotalPauseTimeMS int          `json:"total_pause_time_ms"`
	PauseCount       int          `json:"pause_count"`
	LongestPauseMS   int          `json:"longest_pause_ms"`
}

// AnalysisBundle aggregates the three completed analyzer reports. It is
// passed by value into the feedback step, which never mutates it.
type AnalysisBundle struct {
	Pronunciation PronunciationReport `json:"pronunciation"`
	Pacing        PacingReport        `json:"pacing"`
	Pauses        PauseReport         `json:"pauses"`
}

// FeedbackResult carries the free-text feedback from the external model.
type FeedbackResult struct {
	TextFeedback string `json:"text_feedback"`
}

// Evaluation is the combined pipeline output for one audio submission.
// When the feedback call fails the three reports are still present and
// FeedbackError explains the failure; analyses are never dropped.
type Evaluation struct {
	Transcript    string              `json:"transcript"`
	Pronunciation PronunciationReport `json:"pronunciation"`
	Pacing        PacingReport        `json:"pacing"`
	Pauses        PauseReport         `json:"pauses"`
	TextFeedback  string              `json:"text_feedback,omitempty"`
	FeedbackError string              `json:"feedback_error,omitempty"`
}
