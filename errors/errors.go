// Package errors defines the error taxonomy of the conversation subsystem.
// Every class except OwnershipError is non-fatal and independently
// recoverable by user action (retry, re-select); none escalates globally.
package errors

import "fmt"

var (
	ErrWorkerPanic  = fmt.Errorf("worker panic")
	ErrNotConnected = fmt.Errorf("channel not connected")
	ErrNoTarget     = fmt.Errorf("no conversation or recipient selected")
)

// ConnectionError: the channel failed to establish or dropped. Surfaced as a
// standing banner; recovery belongs to the transport's reconnect policy.
type ConnectionError struct {
	Cause error
}

func (e ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Cause)
}

func (e ConnectionError) Unwrap() error { return e.Cause }

// DirectoryFetchError: the bulk conversation read failed. The directory
// stays empty until the user retries.
type DirectoryFetchError struct {
	Cause error
}

func (e DirectoryFetchError) Error() string {
	return fmt.Sprintf("loading conversations failed: %v", e.Cause)
}

func (e DirectoryFetchError) Unwrap() error { return e.Cause }

// ThreadFetchError: the message-log read for one conversation failed.
// Scoped to the open thread; the viewing state is untouched.
type ThreadFetchError struct {
	ConversationID string
	Cause          error
}

func (e ThreadFetchError) Error() string {
	return fmt.Sprintf("loading messages for conversation %s failed: %v", e.ConversationID, e.Cause)
}

func (e ThreadFetchError) Unwrap() error { return e.Cause }

// SendError: the service rejected an outgoing message. Transient; the input
// content is preserved for resubmission.
type SendError struct {
	Reason string
}

func (e SendError) Error() string {
	return fmt.Sprintf("message not sent: %s", e.Reason)
}

// OwnershipError: a fetched resource does not belong to the caller. Fatal to
// that specific view only.
type OwnershipError struct {
	Resource string
}

func (e OwnershipError) Error() string {
	return fmt.Sprintf("access denied to %s", e.Resource)
}
