package conversation

import "errors"

var (
	// ErrEmptySend is returned when Send is called with neither a prompt
	// nor an attachment. No turns are appended in that case.
	ErrEmptySend = errors.New("nothing to send: empty prompt and no attachment")

	// ErrNothingToRetry is returned by Retry when no prior send exists in
	// the session.
	ErrNothingToRetry = errors.New("no prior message to retry")
)

// User-facing copy patched onto turns when the async path fails. Cancellation
// gets distinct wording since it was voluntary and needs no retry framing.
const (
	cancelledMessage = "Request cancelled."

	// attachmentFallbackText is the user turn text when only a file was
	// provided.
	attachmentFallbackText = "Please see attached file."
)
