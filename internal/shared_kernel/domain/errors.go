package domain

import "errors"

var (
	// ErrValidation marks a malformed or incomplete command request. Such a
	// request never reaches the command store.
	ErrValidation = errors.New("validation error")
	// ErrUnknownIntent marks an intent without a matching execution handler.
	ErrUnknownIntent = errors.New("unknown intent")
	// ErrActionFailure marks a failed step inside an action sequence.
	ErrActionFailure = errors.New("action failure")
	// ErrInvalidTransition marks a claim or an outcome report that conflicts
	// with the current command status.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrConnectivity marks a robot that cannot reach the command store.
	ErrConnectivity = errors.New("connectivity failure")
	// ErrClaimTimeout marks a command that stayed executing for too long.
	ErrClaimTimeout = errors.New("claim timeout")

	ErrCommandNotFound  = errors.New("command not found")
	ErrDuplicateCommand = errors.New("duplicate pending command")
)
