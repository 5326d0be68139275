// Package service exposes the grounding engine over NATS request/reply
// so that curation pipelines on other hosts can resolve terms without
// shipping the vocabulary indexes around.
package service

import "errors"

var (
	// ErrConnectionFailed is returned when the NATS connection cannot be established
	ErrConnectionFailed = errors.New("failed to connect to NATS")

	// ErrNotConnected is returned when an operation requires an open connection
	ErrNotConnected = errors.New("not connected to NATS")

	// ErrInvalidRequest is returned when a request payload cannot be decoded
	ErrInvalidRequest = errors.New("invalid request payload")

	// ErrRemote is returned when the server reports a failure for a request
	ErrRemote = errors.New("grounding service error")
)
