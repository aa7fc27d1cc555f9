package editor

import "errors"

var (
	// ErrNoSource is returned when a session has no source image to render.
	ErrNoSource = errors.New("no source image loaded")
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidUpdate wraps validation failures of a ParameterUpdate.
	ErrInvalidUpdate = errors.New("invalid parameter update")
)
