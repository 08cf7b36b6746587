package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is matched by every configuration error
	ErrConfig = errors.New("invalid configuration")
	// ErrIO is matched by every error reading the input file
	ErrIO = errors.New("i/o error")
)

// ConfigError reports an unusable setting. It is returned before any I/O.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// IOError reports a failure to open or read the input file
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
