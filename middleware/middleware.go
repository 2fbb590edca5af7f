// Package middleware decodes XML documents posted as a form field before they
// reach an http.Handler.
package middleware

import (
	"context"
	"net/http"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/dispatch"
	"github.com/reoring/xmlskema/xmldoc"
)

// ctxKeyDecoded is a typed context key for storing Decoded[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

type ctxKeyRoot struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, db xmlskema.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, db)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (xmlskema.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(xmlskema.Decoded[T])
	return v, ok
}

// RootFromContext returns the root element name of the decoded document.
func RootFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyRoot{}).(string)
	return v, ok
}

// ObjectFromContext returns the decoded mapping stored by DecodeForm.
func ObjectFromContext(ctx context.Context) (*xmlskema.Object, bool) {
	d, ok := DecodedFromContext[any](ctx)
	if !ok {
		return nil, false
	}
	obj, ok := d.Value.(*xmlskema.Object)
	return obj, ok
}

// ErrorHandler writes the response for a document that failed to decode.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler answers 400 with the error text.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// ErrorPayload shapes Issues for an erro document: a positional summary of
// the first issue plus the total count.
func ErrorPayload(issues []xmlskema.Issue) map[string]any {
	out := map[string]any{"count": len(issues)}
	if len(issues) > 0 {
		out["path"] = issues[0].Path
		out["code"] = issues[0].Code
	}
	return out
}

// DecodeForm reads the document in form field, selects its schema by root
// element from reg and stores the decoded appstruct (with presence metadata)
// in the request context. Documents the registry does not know, or that fail
// validation, are passed to onError (DefaultErrorHandler when nil).
func DecodeForm(reg *dispatch.Registry, field string, onError ErrorHandler) func(http.Handler) http.Handler {
	if onError == nil {
		onError = DefaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.Header().Set("Allow", http.MethodPost)
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			el, err := xmldoc.Parse([]byte(r.PostFormValue(field)))
			if err != nil {
				onError(w, r, err)
				return
			}
			n, ok := reg.Schema(el.Name)
			if !ok {
				onError(w, r, &xmlskema.UnrecognizedResponseError{Name: el.Name})
				return
			}
			dm, err := n.DecodeWithMeta(r.Context(), xmlskema.FromDocument(n, el))
			if err != nil {
				onError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyRoot{}, el.Name)
			next.ServeHTTP(w, r.WithContext(ContextWithDecoded(ctx, dm)))
		})
	}
}
