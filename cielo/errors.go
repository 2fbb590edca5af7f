package cielo

import (
	"errors"
	"sync"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/dispatch"
)

// Remote error codes with a dedicated error type.
const (
	CodeSystemUnavailable int64 = 97
	CodeTimeout           int64 = 98
)

var (
	ErrSystemUnavailable = errors.New("cielo: system unavailable")
	ErrTimeout           = errors.New("cielo: timeout")
)

// SystemUnavailableError is the erro document with code 97.
type SystemUnavailableError struct{ *xmlskema.RemoteError }

func (e *SystemUnavailableError) Unwrap() error { return e.RemoteError }

// Is matches ErrSystemUnavailable and xmlskema.ErrRemote.
func (e *SystemUnavailableError) Is(target error) bool {
	return target == ErrSystemUnavailable || target == xmlskema.ErrRemote
}

// TimeoutError is the erro document with code 98.
type TimeoutError struct{ *xmlskema.RemoteError }

func (e *TimeoutError) Unwrap() error { return e.RemoteError }

// Is matches ErrTimeout and xmlskema.ErrRemote.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == xmlskema.ErrRemote
}

var (
	registryOnce sync.Once
	registry     *dispatch.Registry
	registryErr  error
)

// Responses returns the registry of documents the service answers with:
// transacao (decoded to *TransactionResult) and erro.
func Responses() (*dispatch.Registry, error) {
	registryOnce.Do(func() {
		s, err := Schemas()
		if err != nil {
			registryErr = err
			return
		}
		registry, registryErr = dispatch.New(
			dispatch.WithErrorSchema(s.MustGet(SchemaError), "code", "message"),
			dispatch.WithSchema(s.MustGet(SchemaTransaction), func(obj *xmlskema.Object) (any, error) {
				return TransactionFromObject(obj), nil
			}),
			dispatch.WithErrorCode(CodeSystemUnavailable, func(base *xmlskema.RemoteError) error {
				return &SystemUnavailableError{base}
			}),
			dispatch.WithErrorCode(CodeTimeout, func(base *xmlskema.RemoteError) error {
				return &TimeoutError{base}
			}),
		)
	})
	return registry, registryErr
}
