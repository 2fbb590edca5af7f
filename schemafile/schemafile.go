// Package schemafile builds schema trees from YAML definitions.
//
// A file holds named definitions. Fields reference a type adapter by name,
// another definition with ref, or nest an inline mapping with fields:
//
//	schemas:
//	  - name: establishment
//	    tag: dados-ec
//	    fields:
//	      - {name: number, tag: numero, type: string, validate: [{maxLength: 20}]}
//	      - {name: key, tag: chave, type: string, validate: [{maxLength: 100}]}
//	  - name: query
//	    tag: requisicao-consulta
//	    fields:
//	      - {name: id, type: string, attribute: true}
//	      - {name: establishment, ref: establishment}
//
// Definitions may reference only definitions declared before them.
package schemafile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/codec"
	"github.com/reoring/xmlskema/rules"
)

// File is the YAML document shape.
type File struct {
	Schemas []Definition `yaml:"schemas"`
}

// Definition describes one mapping schema.
type Definition struct {
	Name   string     `yaml:"name"`
	Tag    string     `yaml:"tag,omitempty"`
	Fields []FieldDef `yaml:"fields"`
	Rules  []RuleDef  `yaml:"rules,omitempty"`
}

// FieldDef describes one child node.
type FieldDef struct {
	Name      string         `yaml:"name"`
	Tag       string         `yaml:"tag,omitempty"`
	Type      string         `yaml:"type,omitempty"`
	Ref       string         `yaml:"ref,omitempty"`
	Fields    []FieldDef     `yaml:"fields,omitempty"`
	Rules     []RuleDef      `yaml:"rules,omitempty"`
	Attribute bool           `yaml:"attribute,omitempty"`
	Optional  bool           `yaml:"optional,omitempty"`
	Default   any            `yaml:"default,omitempty"`
	Validate  []ValidatorDef `yaml:"validate,omitempty"`
}

// ValidatorDef holds exactly one validator.
type ValidatorDef struct {
	Length      *LengthDef `yaml:"length,omitempty"`
	MaxLength   *int       `yaml:"maxLength,omitempty"`
	ExactLength *int       `yaml:"exactLength,omitempty"`
	Range       *RangeDef  `yaml:"range,omitempty"`
	OneOf       []any      `yaml:"oneOf,omitempty"`
	Pattern     string     `yaml:"pattern,omitempty"`
}

// LengthDef bounds a string length; a missing bound is unchecked.
type LengthDef struct {
	Min *int `yaml:"min,omitempty"`
	Max *int `yaml:"max,omitempty"`
}

// RangeDef bounds a number. Bounds may be written as numbers or strings
// ("9999999999.99") to keep decimals exact.
type RangeDef struct {
	Min any `yaml:"min,omitempty"`
	Max any `yaml:"max,omitempty"`
}

// RuleDef is a cross-field rule: when the condition holds, the listed
// fields are required (and the forbidden ones must be absent).
type RuleDef struct {
	Name    string   `yaml:"name"`
	If      *CondDef `yaml:"if,omitempty"`
	Require []string `yaml:"require,omitempty"`
	Forbid  []string `yaml:"forbid,omitempty"`
}

// CondDef is a single comparison. Op is one of eq, ne, lt, le, gt, ge,
// present, missing.
type CondDef struct {
	Path  string `yaml:"path"`
	Op    string `yaml:"op"`
	Value any    `yaml:"value,omitempty"`
}

// Set is a loaded collection of schema nodes.
type Set struct {
	nodes map[string]*xmlskema.Node
	order []string
}

type loadOptions struct {
	types map[string]xmlskema.Type
}

// Option configures Load.
type Option func(*loadOptions)

// WithType registers an additional type adapter name.
func WithType(name string, t xmlskema.Type) Option {
	return func(o *loadOptions) { o.types[name] = t }
}

// BuiltinTypes returns the adapter names known without options.
func BuiltinTypes() map[string]xmlskema.Type {
	return map[string]xmlskema.Type{
		"string":          codec.String(),
		"integer":         codec.Integer(),
		"decimal":         codec.Decimal(),
		"boolean":         codec.Boolean(),
		"money":           codec.Money(),
		"month":           codec.Month(),
		"datetime":        codec.DateTime(),
		"strict-datetime": codec.StrictDateTime(),
	}
}

// Load parses a YAML definition file and builds every schema in it.
func Load(data []byte, opts ...Option) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return Build(f, opts...)
}

// Build builds the definitions of f.
func Build(f File, opts ...Option) (*Set, error) {
	o := &loadOptions{types: BuiltinTypes()}
	for _, fn := range opts {
		fn(o)
	}
	s := &Set{nodes: map[string]*xmlskema.Node{}}
	for _, d := range f.Schemas {
		if _, dup := s.nodes[d.Name]; dup {
			return nil, &xmlskema.SchemaError{Node: d.Name, Reason: "defined twice"}
		}
		n, err := s.mapping(d.Name, d.Tag, d.Fields, d.Rules, nil, o)
		if err != nil {
			return nil, err
		}
		s.nodes[d.Name] = n
		s.order = append(s.order, d.Name)
	}
	return s, nil
}

// Get returns the schema named name.
func (s *Set) Get(name string) (*xmlskema.Node, bool) {
	n, ok := s.nodes[name]
	return n, ok
}

// MustGet is like Get but panics when name is not defined.
func (s *Set) MustGet(name string) *xmlskema.Node {
	n, ok := s.nodes[name]
	if !ok {
		panic(fmt.Sprintf("schemafile: schema %q not defined", name))
	}
	return n
}

// Names returns the definition names in file order.
func (s *Set) Names() []string { return append([]string(nil), s.order...) }

func (s *Set) mapping(name, tag string, fields []FieldDef, rs []RuleDef, extra []xmlskema.Option, o *loadOptions) (*xmlskema.Node, error) {
	children := make([]*xmlskema.Node, 0, len(fields))
	for _, fd := range fields {
		c, err := s.field(fd, o)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	opts := append([]xmlskema.Option(nil), extra...)
	if tag != "" {
		opts = append(opts, xmlskema.Tag(tag))
	}
	for _, rd := range rs {
		r, err := buildRule(name, rd)
		if err != nil {
			return nil, err
		}
		opts = append(opts, xmlskema.Refine(rd.Name, r))
	}
	return xmlskema.Mapping(name, children, opts...)
}

func (s *Set) field(fd FieldDef, o *loadOptions) (*xmlskema.Node, error) {
	var opts []xmlskema.Option
	if fd.Attribute {
		opts = append(opts, xmlskema.AsAttribute())
	}
	if fd.Optional {
		opts = append(opts, xmlskema.Optional())
	}
	if fd.Default != nil {
		opts = append(opts, xmlskema.Default(fd.Default))
	}
	for i, vd := range fd.Validate {
		v, err := buildValidator(vd)
		if err != nil {
			return nil, &xmlskema.SchemaError{Node: fd.Name, Reason: fmt.Sprintf("validator %d: %v", i, err)}
		}
		opts = append(opts, xmlskema.Validate(v))
	}

	kinds := 0
	for _, set := range []bool{fd.Type != "", fd.Ref != "", len(fd.Fields) > 0} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, &xmlskema.SchemaError{Node: fd.Name, Reason: "exactly one of type, ref or fields is required"}
	}
	switch {
	case fd.Ref != "":
		ref, ok := s.nodes[fd.Ref]
		if !ok {
			return nil, &xmlskema.SchemaError{Node: fd.Name, Reason: fmt.Sprintf("unknown ref %q", fd.Ref)}
		}
		wire := ref.WireName()
		if fd.Tag != "" {
			wire = fd.Tag
		}
		return ref.WithName(fd.Name, append([]xmlskema.Option{xmlskema.Tag(wire)}, opts...)...), nil
	case len(fd.Fields) > 0:
		return s.mapping(fd.Name, fd.Tag, fd.Fields, fd.Rules, opts, o)
	}
	t, ok := o.types[fd.Type]
	if !ok {
		return nil, &xmlskema.SchemaError{Node: fd.Name, Reason: fmt.Sprintf("unknown type %q", fd.Type)}
	}
	if fd.Tag != "" {
		opts = append(opts, xmlskema.Tag(fd.Tag))
	}
	return xmlskema.Scalar(fd.Name, t, opts...), nil
}

func buildValidator(vd ValidatorDef) (v xmlskema.Validator, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	var vs []xmlskema.Validator
	if vd.Length != nil {
		min, max := -1, -1
		if vd.Length.Min != nil {
			min = *vd.Length.Min
		}
		if vd.Length.Max != nil {
			max = *vd.Length.Max
		}
		vs = append(vs, rules.Length(min, max))
	}
	if vd.MaxLength != nil {
		vs = append(vs, rules.MaxLength(*vd.MaxLength))
	}
	if vd.ExactLength != nil {
		vs = append(vs, rules.ExactLength(*vd.ExactLength))
	}
	if vd.Range != nil {
		vs = append(vs, rules.Range(vd.Range.Min, vd.Range.Max))
	}
	if len(vd.OneOf) > 0 {
		vs = append(vs, rules.OneOf(vd.OneOf...))
	}
	if vd.Pattern != "" {
		vs = append(vs, rules.Pattern(vd.Pattern))
	}
	if len(vs) != 1 {
		return nil, fmt.Errorf("expected exactly one validator, got %d", len(vs))
	}
	return vs[0], nil
}

var ops = map[string]rules.Op{
	"eq": rules.Eq, "ne": rules.Ne,
	"lt": rules.Lt, "le": rules.Le, "gt": rules.Gt, "ge": rules.Ge,
	"present": rules.Present, "missing": rules.Missing,
}

func buildRule(owner string, rd RuleDef) (xmlskema.Rule, error) {
	var body []xmlskema.Rule
	if len(rd.Require) > 0 {
		body = append(body, rules.Require(rd.Require...))
	}
	if len(rd.Forbid) > 0 {
		body = append(body, rules.Forbid(rd.Forbid...))
	}
	if len(body) == 0 {
		return nil, &xmlskema.SchemaError{Node: owner, Reason: fmt.Sprintf("rule %q has no require or forbid", rd.Name)}
	}
	if rd.If == nil {
		return rules.And(body...), nil
	}
	op, ok := ops[rd.If.Op]
	if !ok {
		return nil, &xmlskema.SchemaError{Node: owner, Reason: fmt.Sprintf("rule %q: unknown op %q", rd.Name, rd.If.Op)}
	}
	return rules.If(rd.If.Path, op, rd.If.Value).Then(body...), nil
}
