// Package smoketest drives a live service instance end to end: it
// submits an audio file, polls the task until it settles, and checks
// the returned evaluation for shape problems.
package smoketest

import "time"

// Config controls a smoke test run.
type Config struct {
	// BaseURL is the root of the running service.
	BaseURL string

	// AudioFile is the path of the audio file to submit.
	AudioFile string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// PollInterval is the delay between status polls.
	PollInterval time.Duration

	// MaxPolls caps the number of status polls before giving up.
	MaxPolls int

	// Verbose enables per-poll logging.
	Verbose bool
}

// Stats captures what happened during a run.
type Stats struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TaskID     string
	Polls      int
	FinalState string
}
