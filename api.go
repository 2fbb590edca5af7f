package xmlskema

import "context"

// Type is a scalar type adapter. It converts one appstruct to one canonical
// string and back.
//
// Encode returns Absent for an Absent appstruct (see IsAbsent) and fails with
// *EncodingError when v is outside the adapter's domain. Decode returns a nil
// appstruct for Absent and fails with *DecodingError when the string cannot be
// parsed. The Path of returned errors is left empty; the schema tree fills it.
type Type interface {
	Name() string
	Encode(v any) (Value, error)
	Decode(v Value) (any, error)
}

// Validator checks a decoded appstruct. A failing validator returns Issues
// rooted at "/" which the schema tree rebases under the field path; any other
// error is reported as a business_rule issue.
type Validator interface {
	Validate(ctx context.Context, v any) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, v any) error

// Validate calls f.
func (f ValidatorFunc) Validate(ctx context.Context, v any) error { return f(ctx, v) }

// Rule is a cross-field check over a mapping appstruct. at points to the
// mapping; issues should be built from it.
type Rule func(ctx context.Context, at PathRef, obj *Object) []Issue

type namedRule struct {
	name string
	fn   Rule
}

// ---- context options ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that stops encode/decode at the first
// issue instead of collecting all of them.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current call should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
