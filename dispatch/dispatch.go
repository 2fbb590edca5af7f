// Package dispatch selects the schema of an inbound document by its root
// element name and turns error documents into Go errors.
package dispatch

import (
	"context"
	"fmt"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/xmldoc"
)

// Factory converts a decoded mapping into a typed value.
type Factory func(obj *xmlskema.Object) (any, error)

// ErrorConstructor builds the error for one remote error code. The generic
// *xmlskema.RemoteError is passed in so coded variants can wrap it.
type ErrorConstructor func(base *xmlskema.RemoteError) error

type entry struct {
	node    *xmlskema.Node
	factory Factory
}

// Registry maps root element names to schemas. It is immutable after New
// and safe for concurrent use.
type Registry struct {
	content   map[string]entry
	order     []string
	errNode   *xmlskema.Node
	codeField string
	msgField  string
	byCode    map[int64]ErrorConstructor
	buildErr  error
}

// Option configures a Registry.
type Option func(*Registry)

// WithSchema registers a content schema under its wire name. factory may be
// nil, in which case Decode returns the *xmlskema.Object.
func WithSchema(n *xmlskema.Node, factory Factory) Option {
	return func(r *Registry) {
		if n == nil {
			r.fail(fmt.Errorf("dispatch: nil schema"))
			return
		}
		name := n.WireName()
		if _, dup := r.content[name]; dup || r.errNode != nil && r.errNode.WireName() == name {
			r.fail(fmt.Errorf("dispatch: root %q registered twice", name))
			return
		}
		r.content[name] = entry{node: n, factory: factory}
		r.order = append(r.order, name)
	}
}

// WithErrorSchema registers the error document schema. codeField and
// msgField are the semantic names of its integer code and message fields.
func WithErrorSchema(n *xmlskema.Node, codeField, msgField string) Option {
	return func(r *Registry) {
		if n == nil {
			r.fail(fmt.Errorf("dispatch: nil error schema"))
			return
		}
		if _, dup := r.content[n.WireName()]; dup {
			r.fail(fmt.Errorf("dispatch: root %q registered twice", n.WireName()))
			return
		}
		r.errNode, r.codeField, r.msgField = n, codeField, msgField
	}
}

// WithErrorCode registers the constructor used for one remote error code.
func WithErrorCode(code int64, ctor ErrorConstructor) Option {
	return func(r *Registry) {
		if ctor != nil {
			r.byCode[code] = ctor
		}
	}
}

// New builds a Registry.
func New(opts ...Option) (*Registry, error) {
	r := &Registry{content: map[string]entry{}, byCode: map[int64]ErrorConstructor{}}
	for _, o := range opts {
		o(r)
	}
	if r.buildErr != nil {
		return nil, r.buildErr
	}
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Registry {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) fail(err error) {
	if r.buildErr == nil {
		r.buildErr = err
	}
}

// Roots returns the registered content root names in registration order.
func (r *Registry) Roots() []string { return append([]string(nil), r.order...) }

// Schema returns the content schema registered for root.
func (r *Registry) Schema(root string) (*xmlskema.Node, bool) {
	e, ok := r.content[root]
	return e.node, ok
}

// Decode decodes el with the schema registered for its root name. An error
// document is always returned as an error: the constructor registered for its
// code, or a generic *xmlskema.RemoteError. Unknown roots fail with
// *xmlskema.UnrecognizedResponseError.
func (r *Registry) Decode(ctx context.Context, el *xmlskema.Element) (any, error) {
	if el == nil {
		return nil, &xmlskema.DocumentParseError{Reason: "no root element"}
	}
	if r.errNode != nil && el.Name == r.errNode.WireName() {
		return nil, r.remoteError(ctx, el)
	}
	e, ok := r.content[el.Name]
	if !ok {
		return nil, &xmlskema.UnrecognizedResponseError{Name: el.Name}
	}
	v, err := e.node.Decode(ctx, xmlskema.FromDocument(e.node, el))
	if err != nil {
		return nil, err
	}
	if e.factory == nil {
		return v, nil
	}
	obj, _ := v.(*xmlskema.Object)
	return e.factory(obj)
}

// DecodeBytes parses data and decodes it with Decode.
func (r *Registry) DecodeBytes(ctx context.Context, data []byte) (any, error) {
	el, err := xmldoc.Parse(data)
	if err != nil {
		return nil, err
	}
	return r.Decode(ctx, el)
}

func (r *Registry) remoteError(ctx context.Context, el *xmlskema.Element) error {
	v, err := r.errNode.Decode(ctx, xmlskema.FromDocument(r.errNode, el))
	if err != nil {
		return err
	}
	obj, _ := v.(*xmlskema.Object)
	base := &xmlskema.RemoteError{Code: obj.Int(r.codeField), Message: obj.String(r.msgField)}
	if ctor, ok := r.byCode[base.Code]; ok {
		return ctor(base)
	}
	return base
}
