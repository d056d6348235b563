package service

import "errors"

// Sentinel errors for service lifecycle failures.
var (
	// ErrNoTranscriber indicates the service was started without a
	// transcription client.
	ErrNoTranscriber = errors.New("service: no transcriber configured")
)
