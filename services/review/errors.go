package reviewService

import "errors"

var (
	// ErrAlreadyLiked means a like already exists for the (review, user) pair.
	ErrAlreadyLiked = errors.New("review already liked by this user")

	// ErrInvalidSearch means the search type is unknown or the query is blank.
	ErrInvalidSearch = errors.New("search type and query are required")

	// ErrReviewNotFound means the target review does not exist.
	ErrReviewNotFound = errors.New("review not found")
)

// ValidationError reports missing or malformed required fields on a submission.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SummarizeError wraps a failure reported by the summarization adapter. The
// message is surfaced to the caller as text instead of blocking the UI.
type SummarizeError struct {
	Err error
}

func (e *SummarizeError) Error() string {
	return "summarizing reviews: " + e.Err.Error()
}

func (e *SummarizeError) Unwrap() error {
	return e.Err
}
