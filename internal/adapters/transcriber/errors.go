package transcriber

import "errors"

// Sentinel errors for transcription failures.
var (
	// ErrMissingAPIKey indicates the client was built without credentials.
	ErrMissingAPIKey = errors.New("transcriber: missing API key")

	// ErrUnauthorized indicates the provider rejected the API key.
	ErrUnauthorized = errors.New("transcriber: unauthorized")

	// ErrFileTooLarge indicates the provider rejected the upload size.
	ErrFileTooLarge = errors.New("transcriber: file too large")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("transcriber: rate limited")

	// ErrTranscription indicates the provider failed to transcribe the audio.
	ErrTranscription = errors.New("transcriber: transcription failed")

	// ErrPollTimeout indicates the transcript never reached a terminal
	// status within the allowed number of polls.
	ErrPollTimeout = errors.New("transcriber: poll timeout")
)

// isPermanent reports whether an upload error cannot be fixed by
// retrying.
func isPermanent(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrFileTooLarge)
}
