package feedback

import "errors"

// Sentinel kinds for feedback errors.
var (
	ErrProvider = errors.New("feedback provider failed")
)

// ProviderError marks a failed external feedback call: timeout,
// non-success status, or a malformed reply. It is distinct from a
// successful FeedbackResult so a failure is never silently substituted
// with empty text.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrProvider) match any ProviderError.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}
