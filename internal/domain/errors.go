// Package domain folds pipeline events into dashboard state and drives
// dashboard sessions.
package domain

import "errors"

var (
	// ErrMalformedMessage marks messages that are not valid event JSON.
	ErrMalformedMessage = errors.New("malformed message")
	// ErrUnknownEventType marks well-formed messages with an unknown tag.
	ErrUnknownEventType = errors.New("unknown event type")
	// ErrInvalidNumericField marks numeric fields that do not parse.
	ErrInvalidNumericField = errors.New("invalid numeric field")
	// ErrUnknownStage marks stage names outside the pipeline ordering.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrRegionOutOfRange marks region selections past the known regions.
	ErrRegionOutOfRange = errors.New("region index out of range")
)
