package core

import "fmt"

// ConnectivityError marks a failure to reach the chat platform, as opposed
// to an empty batch of updates. The poll loop must not advance its cursor
// when it sees one.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("chat platform unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// GenerationError carries the remote status and body of a rejected
// generation call. The body is for the operator log only and must never be
// forwarded to a chat.
type GenerationError struct {
	StatusCode int
	Body       string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation service returned status %d", e.StatusCode)
}
