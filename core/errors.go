package core

import "github.com/pkg/errors"

var (
	// ErrKeyNotFound is returned by a KVStore when nothing is stored under the key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrQuotaExceeded is returned by a KVStore when the value exceeds its size limit.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}
