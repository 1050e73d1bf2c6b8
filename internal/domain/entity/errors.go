package entity

import (
	"errors"
	"fmt"
)

// Standard domain errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrRateLimitExceeded  = errors.New("upstream rate limit exceeded")
	ErrInvalidCredentials = errors.New("upstream rejected credentials")
	ErrMalformedResponse  = errors.New("upstream returned an unexpected format")
	ErrEmptyResponse      = errors.New("upstream returned an empty response")
	ErrUpstream           = errors.New("upstream request failed")
)

// Validation failures. Each one is also an ErrInvalidInput.
var (
	ErrNoFile           = validationError("no file uploaded")
	ErrNoFilename       = validationError("no file selected")
	ErrUnsupportedType  = validationError("only PDF files are supported")
	ErrFileTooLarge     = validationError("file exceeds the size limit")
	ErrEmptyFile        = validationError("file is empty")
	ErrQuestionTooShort = validationError("question is too short")
)

type kindError struct {
	msg  string
	kind error
}

func validationError(msg string) error {
	return &kindError{msg: msg, kind: ErrInvalidInput}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// WrapError keeps kind matchable with errors.Is while adding operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return kind
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}
