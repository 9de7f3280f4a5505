package retarget

import (
	"errors"
	"fmt"
)

// ConfigErrorCode categorizes calibration configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeArityMismatch indicates a per-channel array does not match
	// the fixed channel schedule.
	ErrCodeArityMismatch ConfigErrorCode = "ARITY_MISMATCH"

	// ErrCodeUnknownValue indicates an unrecognised enum value.
	ErrCodeUnknownValue ConfigErrorCode = "UNKNOWN_VALUE"
)

// ConfigError is a calibration integration error. It is returned instead
// of truncating or padding mismatched input.
type ConfigError struct {
	Code     ConfigErrorCode
	Field    string
	Expected int
	Got      int
	Message  string
}

func (e *ConfigError) Error() string {
	if e.Code == ErrCodeArityMismatch {
		return fmt.Sprintf("%s: %s has %d entries, expected %d", e.Code, e.Field, e.Got, e.Expected)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// IsArityError returns true if the error is an arity mismatch.
func IsArityError(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeArityMismatch
	}
	return false
}
