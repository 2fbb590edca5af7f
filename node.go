package xmlskema

import "fmt"

// NodeKind distinguishes scalar from mapping nodes.
type NodeKind uint8

const (
	NodeScalar NodeKind = iota
	NodeMapping
)

func (k NodeKind) String() string {
	if k == NodeMapping {
		return "mapping"
	}
	return "scalar"
}

// Placement selects how a child of a mapping is serialized.
type Placement uint8

const (
	PlaceElement   Placement = iota // Nested child element.
	PlaceAttribute                  // Attribute of the parent element.
)

func (p Placement) String() string {
	if p == PlaceAttribute {
		return "attribute"
	}
	return "element"
}

// Node is an immutable schema node describing a scalar field or a mapping with
// ordered children. Build nodes with Scalar and Mapping (or the dsl package);
// they must not be modified afterwards.
type Node struct {
	name       string
	wireName   string
	kind       NodeKind
	typ        Type
	children   []*Node
	placement  Placement
	optional   bool
	def        any
	validators []Validator
	rules      []namedRule
}

// Option configures a Node under construction.
type Option func(*Node)

// Tag overrides the wire name (defaults to the semantic name).
func Tag(wire string) Option { return func(n *Node) { n.wireName = wire } }

// AsAttribute places a scalar child as an attribute of its parent element.
func AsAttribute() Option { return func(n *Node) { n.placement = PlaceAttribute } }

// Optional makes an absent field decode to nothing instead of failing with
// "required".
func Optional() Option {
	return func(n *Node) {
		n.optional = true
		n.def = nil
	}
}

// Default makes the field optional and substitutes v when it is absent on
// decode. Defaults are not re-validated.
func Default(v any) Option {
	return func(n *Node) {
		n.optional = true
		n.def = v
	}
}

// Validate appends validators, applied in order to the decoded appstruct.
func Validate(vs ...Validator) Option {
	return func(n *Node) {
		for _, v := range vs {
			if v != nil {
				n.validators = append(n.validators, v)
			}
		}
	}
}

// Refine appends a cross-field rule run after all children of a mapping have
// been processed without issues.
func Refine(name string, r Rule) Option {
	return func(n *Node) {
		if r != nil {
			n.rules = append(n.rules, namedRule{name: name, fn: r})
		}
	}
}

// Scalar returns a scalar node backed by typ.
func Scalar(name string, typ Type, opts ...Option) *Node {
	n := &Node{name: name, wireName: name, kind: NodeScalar, typ: typ}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Mapping returns a mapping node with children in serialization order.
func Mapping(name string, children []*Node, opts ...Option) (*Node, error) {
	n := &Node{name: name, wireName: name, kind: NodeMapping}
	for _, o := range opts {
		o(n)
	}
	n.children = make([]*Node, len(children))
	copy(n.children, children)
	if err := n.check(); err != nil {
		return nil, err
	}
	return n, nil
}

// MustMapping is like Mapping but panics on an invalid definition.
func MustMapping(name string, children []*Node, opts ...Option) *Node {
	n, err := Mapping(name, children, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

// WithName returns a copy of n carrying a different semantic and wire name.
// It is used to register the same structure under several root names.
func (n *Node) WithName(name string, opts ...Option) *Node {
	cp := *n
	cp.name = name
	cp.wireName = name
	cp.validators = append([]Validator(nil), n.validators...)
	cp.rules = append([]namedRule(nil), n.rules...)
	for _, o := range opts {
		o(&cp)
	}
	return &cp
}

func (n *Node) check() error {
	if n.name == "" {
		return &SchemaError{Node: n.wireName, Reason: "empty name"}
	}
	if n.placement == PlaceAttribute {
		return &SchemaError{Node: n.name, Reason: "a mapping cannot be placed as an attribute"}
	}
	names := map[string]struct{}{}
	wires := map[string]struct{}{}
	for i, c := range n.children {
		if c == nil {
			return &SchemaError{Node: n.name, Reason: fmt.Sprintf("child %d is nil", i)}
		}
		if c.kind == NodeMapping && c.placement == PlaceAttribute {
			return &SchemaError{Node: c.name, Reason: "a mapping cannot be placed as an attribute"}
		}
		if c.kind == NodeScalar && c.typ == nil {
			return &SchemaError{Node: c.name, Reason: "scalar without type"}
		}
		if c.name == "" || c.wireName == "" {
			return &SchemaError{Node: n.name, Reason: fmt.Sprintf("child %d has an empty name", i)}
		}
		if _, dup := names[c.name]; dup {
			return &SchemaError{Node: n.name, Reason: fmt.Sprintf("duplicate child name %q", c.name)}
		}
		names[c.name] = struct{}{}
		wk := c.placement.String() + ":" + c.wireName
		if _, dup := wires[wk]; dup {
			return &SchemaError{Node: n.name, Reason: fmt.Sprintf("duplicate %s %q", c.placement, c.wireName)}
		}
		wires[wk] = struct{}{}
	}
	return nil
}

// Name returns the semantic name.
func (n *Node) Name() string { return n.name }

// WireName returns the name used in documents.
func (n *Node) WireName() string { return n.wireName }

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Type returns the adapter of a scalar node (nil for mappings).
func (n *Node) Type() Type { return n.typ }

// Placement returns the placement under the parent mapping.
func (n *Node) Placement() Placement { return n.placement }

// IsAttribute reports whether the node is placed as an attribute.
func (n *Node) IsAttribute() bool { return n.placement == PlaceAttribute }

// Required reports whether an absent value is a validation error.
func (n *Node) Required() bool { return !n.optional }

// Default returns the default substituted when absent.
func (n *Node) Default() (any, bool) { return n.def, n.optional && n.def != nil }

// Children returns a copy of the ordered children of a mapping.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child returns the child with the given semantic name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Validators returns the number of validators attached to the node.
func (n *Node) Validators() int { return len(n.validators) }
