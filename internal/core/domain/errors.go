package domain

import "errors"

var (
	// Login / registration outcomes.
	ErrUnregisteredEmail = errors.New("unregistered email")
	ErrAwaitingApproval  = errors.New("account awaiting approval")
	ErrRejected          = errors.New("account rejected or blocked")
	ErrAlreadyRegistered = errors.New("email already registered")
	ErrUnauthenticated   = errors.New("not authenticated")

	// Store and access outcomes.
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("access forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// AI gateway outcomes.
	ErrBadAIResponse = errors.New("malformed model response")
	ErrAIUnavailable = errors.New("model service unavailable")
)
