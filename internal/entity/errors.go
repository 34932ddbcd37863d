package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Input errors, raised before any network call. All wrap ErrValidation.
	ErrValidation   = errors.New("validation failed")
	ErrUnknownModel = fmt.Errorf("%w: unknown model alias", ErrValidation)
	ErrEmptyPrompt  = fmt.Errorf("%w: prompt is empty", ErrValidation)
	ErrMissingFile  = fmt.Errorf("%w: no file attached", ErrValidation)
	ErrInvalidFile  = fmt.Errorf("%w: invalid file", ErrValidation)
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrValidation)

	// Backend errors
	ErrTransport = errors.New("backend unreachable")
	ErrContent   = errors.New("backend response missing expected field")
	ErrUpload    = errors.New("document upload failed")

	ErrInvalidFormat = errors.New("invalid format")
)

// Stage names a step of the document query pipeline
type Stage string

const (
	StageUpload Stage = "upload"
	StageSelect Stage = "select"
	StageIndex  Stage = "index"
	StageQuery  Stage = "query"
)

// StageError reports which pipeline step failed. Later steps never ran.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
