package feedback

import "errors"

// Sentinel errors for feedback generation failures.
var (
	// ErrMissingAPIKey indicates the client was built without credentials.
	ErrMissingAPIKey = errors.New("feedback: missing API key")

	// ErrUnauthorized indicates the provider rejected the API key.
	ErrUnauthorized = errors.New("feedback: unauthorized")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("feedback: rate limited")

	// ErrEmptyReply indicates the provider returned no usable text.
	ErrEmptyReply = errors.New("feedback: empty reply")
)
