package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrMissingTracer   = fmt.Errorf("missing tracer: %w", ErrInvalidArgument)
)
