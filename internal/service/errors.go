package service

import (
	"errors"

	"plate-service/internal/platecore"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrUnknownJurisdiction = errors.New("unknown jurisdiction")
)

// ValidationError carries a failed plate validation. It matches
// ErrInvalidInput with errors.Is.
type ValidationError struct {
	Result platecore.PlateValidationResult
}

func (e *ValidationError) Error() string {
	if len(e.Result.Reasons) == 0 {
		return "invalid plate"
	}
	return "invalid plate: " + e.Result.Reasons[0].Code
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
