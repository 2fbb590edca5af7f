package rules

import (
	"context"
	"reflect"
	"strings"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/i18n"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
	// Present holds when the field is set; want is ignored.
	Present
	// Missing holds when the field is absent; want is ignored.
	Missing
)

// Conditional composes conditional execution of mapping rules.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a path against a value using an operator.
// The path is a JSON Pointer over semantic names relative to the mapping, like
// "/card/indicator".
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...xmlskema.Rule) xmlskema.Rule {
	inner := And(rules...)
	return func(ctx context.Context, at xmlskema.PathRef, obj *xmlskema.Object) []xmlskema.Issue {
		if !c.eval(obj) {
			return nil
		}
		return inner(ctx, at, obj)
	}
}

// Require reports a required issue for every listed path that is absent.
func Require(paths ...string) xmlskema.Rule {
	ps := make([]string, len(paths))
	for i, p := range paths {
		ps[i] = normalizePath(p)
	}
	return func(ctx context.Context, at xmlskema.PathRef, obj *xmlskema.Object) []xmlskema.Issue {
		var out []xmlskema.Issue
		for _, p := range ps {
			if _, ok := valueAtPath(obj, p); ok {
				continue
			}
			it := refAt(at, p).Issue(xmlskema.CodeRequired, i18n.T(xmlskema.CodeRequired, nil))
			it.Rule = "require"
			out = append(out, it)
			if xmlskema.IsFailFast(ctx) {
				return out
			}
		}
		return out
	}
}

// Forbid reports a business_rule issue for every listed path that is set.
func Forbid(paths ...string) xmlskema.Rule {
	return func(ctx context.Context, at xmlskema.PathRef, obj *xmlskema.Object) []xmlskema.Issue {
		var out []xmlskema.Issue
		for _, p := range paths {
			p = normalizePath(p)
			if _, ok := valueAtPath(obj, p); !ok {
				continue
			}
			it := xmlskema.IssueAt(refAt(at, p), xmlskema.CodeBusinessRule, "field must not be set", map[string]any{"forbidden": p})
			it.Rule = "forbid"
			out = append(out, it)
			if xmlskema.IsFailFast(ctx) {
				return out
			}
		}
		return out
	}
}

// And executes all rules and concatenates Issues, stopping early in fail-fast mode.
func And(rules ...xmlskema.Rule) xmlskema.Rule {
	return func(ctx context.Context, at xmlskema.PathRef, obj *xmlskema.Object) []xmlskema.Issue {
		var out []xmlskema.Issue
		for _, r := range rules {
			if r == nil {
				continue
			}
			if iss := r(ctx, at, obj); len(iss) > 0 {
				out = append(out, iss...)
				if xmlskema.IsFailFast(ctx) {
					return out
				}
			}
		}
		return out
	}
}

// Or succeeds if any rule returns no Issues. When every branch fails it
// returns the branch with the fewest issues.
func Or(rules ...xmlskema.Rule) xmlskema.Rule {
	return func(ctx context.Context, at xmlskema.PathRef, obj *xmlskema.Object) []xmlskema.Issue {
		var best []xmlskema.Issue
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r(ctx, at, obj)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		return best
	}
}

// ------- helpers -------

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func refAt(at xmlskema.PathRef, p string) xmlskema.PathRef {
	for _, seg := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		at = at.Field(seg)
	}
	return at
}

func (c Conditional) eval(obj *xmlskema.Object) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.eval(obj) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.eval(obj) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAtPath(obj, c.path)
	switch c.op {
	case Present:
		return ok
	case Missing:
		return !ok
	}
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// valueAtPath navigates nested objects and maps by JSON Pointer. Absent values
// are reported as not found.
func valueAtPath(v any, pointer string) (any, bool) {
	rel := strings.TrimPrefix(pointer, "/")
	if rel == "" {
		return v, !xmlskema.IsAbsent(v)
	}
	cur := v
	for _, seg := range strings.Split(rel, "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		switch t := cur.(type) {
		case *xmlskema.Object:
			if t == nil {
				return nil, false
			}
			val, ok := t.Get(seg)
			if !ok {
				return nil, false
			}
			cur = val
		case map[string]any:
			val, ok := t[seg]
			if !ok {
				return nil, false
			}
			cur = val
		default:
			rv := reflect.ValueOf(cur)
			if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			mv := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
			if !mv.IsValid() {
				return nil, false
			}
			cur = mv.Interface()
		}
	}
	if xmlskema.IsAbsent(cur) {
		return nil, false
	}
	return cur, true
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return same(cur, want)
	case Ne:
		return !same(cur, want)
	case Lt, Le, Gt, Ge:
		a, okA := number(cur)
		b, okB := number(want)
		if !okA || !okB {
			return false
		}
		switch op {
		case Lt:
			return a.LessThan(b)
		case Le:
			return a.LessThanOrEqual(b)
		case Gt:
			return a.GreaterThan(b)
		case Ge:
			return a.GreaterThanOrEqual(b)
		}
	}
	return false
}

func isIntLike(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloatLike(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
