package dsl

import (
	xmlskema "github.com/reoring/xmlskema"
)

type objectBuilder struct {
	name   string
	opts   []xmlskema.Option
	fields []*fieldSpec
}

type fieldSpec struct {
	name string
	typ  xmlskema.Type
	node *xmlskema.Node
	opts []xmlskema.Option
}

type fieldStep struct {
	b *objectBuilder
	f *fieldSpec
}

// Object creates a mapping builder. Fields are required unless marked
// Optional or given a Default, and serialize in the order they are declared.
func Object(name string) *objectBuilder {
	return &objectBuilder{name: name}
}

// Tag sets the wire name of the mapping itself.
func (b *objectBuilder) Tag(wire string) *objectBuilder {
	b.opts = append(b.opts, xmlskema.Tag(wire))
	return b
}

// Optional marks the mapping itself optional when nested in a parent.
func (b *objectBuilder) Optional() *objectBuilder {
	b.opts = append(b.opts, xmlskema.Optional())
	return b
}

// Validate appends mapping-level validators.
func (b *objectBuilder) Validate(vs ...xmlskema.Validator) *objectBuilder {
	b.opts = append(b.opts, xmlskema.Validate(vs...))
	return b
}

// Refine adds a cross-field rule. It is executed after the children decoded
// without issues.
func (b *objectBuilder) Refine(name string, r xmlskema.Rule) *objectBuilder {
	if r == nil {
		return b
	}
	b.opts = append(b.opts, xmlskema.Refine(name, r))
	return b
}

// Field registers a scalar field with its type adapter.
func (b *objectBuilder) Field(name string, typ xmlskema.Type) *fieldStep {
	f := &fieldSpec{name: name, typ: typ}
	b.fields = append(b.fields, f)
	return &fieldStep{b: b, f: f}
}

// Attribute registers a scalar field placed as an attribute.
func (b *objectBuilder) Attribute(name string, typ xmlskema.Type) *fieldStep {
	return b.Field(name, typ).Attr()
}

// Nested registers a mapping field. The nested node keeps its wire name
// unless Tag is called on the returned step.
func (b *objectBuilder) Nested(name string, n *xmlskema.Node) *fieldStep {
	f := &fieldSpec{name: name, node: n}
	if n != nil {
		f.opts = append(f.opts, xmlskema.Tag(n.WireName()))
	}
	b.fields = append(b.fields, f)
	return &fieldStep{b: b, f: f}
}

// Build validates the definition and returns the mapping node.
func (b *objectBuilder) Build() (*xmlskema.Node, error) {
	children := make([]*xmlskema.Node, 0, len(b.fields))
	for _, f := range b.fields {
		switch {
		case f.node != nil:
			children = append(children, f.node.WithName(f.name, f.opts...))
		case f.typ != nil:
			children = append(children, xmlskema.Scalar(f.name, f.typ, f.opts...))
		default:
			return nil, &xmlskema.SchemaError{Node: f.name, Reason: "field without type or node"}
		}
	}
	return xmlskema.Mapping(b.name, children, b.opts...)
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() *xmlskema.Node {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

// Tag overrides the wire name of the current field.
func (f *fieldStep) Tag(wire string) *fieldStep {
	f.f.opts = append(f.f.opts, xmlskema.Tag(wire))
	return f
}

// Attr places the current field as an attribute.
func (f *fieldStep) Attr() *fieldStep {
	f.f.opts = append(f.f.opts, xmlskema.AsAttribute())
	return f
}

// Optional lets the current field be absent.
func (f *fieldStep) Optional() *fieldStep {
	f.f.opts = append(f.f.opts, xmlskema.Optional())
	return f
}

// Default substitutes v when the current field is absent on decode.
func (f *fieldStep) Default(v any) *fieldStep {
	f.f.opts = append(f.f.opts, xmlskema.Default(v))
	return f
}

// Validate appends validators to the current field.
func (f *fieldStep) Validate(vs ...xmlskema.Validator) *fieldStep {
	f.f.opts = append(f.f.opts, xmlskema.Validate(vs...))
	return f
}

func (f *fieldStep) Field(name string, typ xmlskema.Type) *fieldStep { return f.b.Field(name, typ) }
func (f *fieldStep) Attribute(name string, typ xmlskema.Type) *fieldStep {
	return f.b.Attribute(name, typ)
}
func (f *fieldStep) Nested(name string, n *xmlskema.Node) *fieldStep { return f.b.Nested(name, n) }
func (f *fieldStep) Refine(name string, r xmlskema.Rule) *objectBuilder {
	return f.b.Refine(name, r)
}
func (f *fieldStep) Build() (*xmlskema.Node, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() *xmlskema.Node      { return f.b.MustBuild() }
