// Package model contains domain models passed between layers.
package model

import "time"

// Word is a single transcribed token with timing and confidence.
// Words arrive in chronological order; overlapping or out-of-order
// timestamps from a noisy transcription are tolerated downstream.
type Word struct {
	Text       string  `json:"text"`
	StartMS    int     `json:"start_ms"`
	EndMS      int     `json:"end_ms"`
	Confidence float64 `json:"confidence"` // provider confidence in [0,1]
}

// DurationMS returns the spoken duration of the word, clamped at zero.
func (w Word) DurationMS() int {
	d := w.EndMS - w.StartMS
	if d < 0 {
		return 0
	}
	return d
}

// Transcript is the full output of the transcription provider for one
// audio submission. Immutable once produced.
type Transcript struct {
	Text            string `json:"text"`
	Words           []Word `json:"words"`
	AudioDurationMS int    `json:"audio_duration_ms"`
}

// Job is the unit of work flowing through the queue: one uploaded audio
// file awaiting transcription and evaluation.
type Job struct {
	TaskID      string    // server-generated id returned to the client
	AudioPath   string    // local path of the saved upload
	FileName    string    // original client file name
	MimeType    string    // detected audio MIME type
	SubmittedAt time.Time // enqueue time
}
