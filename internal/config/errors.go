package config

import (
	"errors"
	"fmt"
)

// Error codes for configuration loading.
const (
	ErrCodeNotFound = "CONFIG_NOT_FOUND"
	ErrCodeFormat   = "CONFIG_FORMAT"
	ErrCodeParse    = "CONFIG_PARSE"
	ErrCodeSchema   = "CONFIG_SCHEMA"
	ErrCodeInvalid  = "CONFIG_INVALID"
)

// LoadError is returned by Load and Validate.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError returns true if err is a *LoadError with the given code.
func IsLoadError(err error, code string) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}
