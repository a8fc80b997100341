package domain

import "errors"

// Error classes surfaced by the pipeline. Stages wrap these with context so
// callers can branch with errors.Is.
var (
	// ErrInput marks an unreadable or unsupported input image.
	ErrInput = errors.New("invalid input")

	// ErrInference marks a failed call to an inference service.
	ErrInference = errors.New("inference failed")

	// ErrParse marks a detection reply that is not the expected JSON object.
	ErrParse = errors.New("malformed model response")

	// ErrStageOrder marks an attempt to set a stage output twice or out of order.
	ErrStageOrder = errors.New("stage out of order")
)
