package service

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned for any failed login attempt. It is
// deliberately generic: callers must not learn which field was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports a rejected input field. The request is not persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// AsValidation returns the ValidationError wrapped in err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
