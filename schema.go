package xmlskema

import (
	"context"
	"errors"

	"github.com/reoring/xmlskema/i18n"
)

// walkState accumulates issues (and presence on decode) during one call.
type walkState struct {
	issues   Issues
	presence PresenceMap
}

func (st *walkState) add(iss ...Issue) { st.issues = AppendIssues(st.issues, iss...) }

func (st *walkState) stop(ctx context.Context) bool {
	return len(st.issues) > 0 && IsFailFast(ctx)
}

func (st *walkState) mark(path string, p Presence) {
	if st.presence != nil {
		st.presence[path] |= p
	}
}

func requiredIssue(at PathRef) Issue {
	return Issue{Path: at.Pointer(), Code: CodeRequired, Message: i18n.T(CodeRequired, nil), Hint: "required field missing"}
}

// Encode validates the appstruct v against n and returns its canonical value.
// Absent fields (nil, missing keys, Absent values) are omitted from the result.
// An appstruct outside an adapter's domain fails immediately with
// *EncodingError; validator and required-field failures are returned as Issues.
func (n *Node) Encode(ctx context.Context, v any) (Value, error) {
	if n.kind == NodeScalar && n.typ == nil {
		return Absent(), &SchemaError{Node: n.name, Reason: "scalar without type"}
	}
	st := &walkState{}
	if IsAbsent(v) {
		if n.Required() {
			return Absent(), Issues{requiredIssue(Root())}
		}
		return Absent(), nil
	}
	out, _, err := n.encodeAt(ctx, v, Root(), st)
	if err != nil {
		return Absent(), err
	}
	if len(st.issues) > 0 {
		return Absent(), st.issues
	}
	if out.IsAbsent() && n.Required() {
		return Absent(), Issues{requiredIssue(Root())}
	}
	return out, nil
}

// encodeAt returns the canonical value of v together with its canonical
// appstruct (the decoded form of the encoded string) used for validation.
func (n *Node) encodeAt(ctx context.Context, v any, at PathRef, st *walkState) (Value, any, error) {
	if n.kind == NodeScalar {
		return n.encodeScalar(ctx, v, at, st)
	}
	if _, ok := lookupField(v, ""); !ok {
		return Absent(), nil, &EncodingError{Path: at.Pointer(), Type: "mapping", Value: v, Reason: "expected a mapping"}
	}
	out := Value{kind: ValueMapping}
	obj := NewObject()
	failed := false
	for _, c := range n.children {
		raw, _ := lookupField(v, c.name)
		cat := at.Field(c.name)
		if IsAbsent(raw) {
			if c.Required() {
				st.add(requiredIssue(cat))
				failed = true
				if st.stop(ctx) {
					return out, obj, nil
				}
			}
			continue
		}
		before := len(st.issues)
		cv, canon, err := c.encodeAt(ctx, raw, cat, st)
		if err != nil {
			return Absent(), nil, err
		}
		if len(st.issues) > before {
			failed = true
			if st.stop(ctx) {
				return out, obj, nil
			}
			continue
		}
		if cv.IsAbsent() {
			if c.Required() {
				st.add(requiredIssue(cat))
				failed = true
				if st.stop(ctx) {
					return out, obj, nil
				}
			}
			continue
		}
		out.entries = append(out.entries, Entry{Name: c.name, Value: cv})
		obj.Set(c.name, canon)
	}
	if !failed {
		n.refineObject(ctx, at, obj, st)
	}
	return out, obj, nil
}

func (n *Node) encodeScalar(ctx context.Context, v any, at PathRef, st *walkState) (Value, any, error) {
	cs, err := n.typ.Encode(v)
	if err != nil {
		return Absent(), nil, withPath(err, at.Pointer())
	}
	if cs.IsAbsent() {
		return cs, nil, nil
	}
	if cs.Kind() != ValueString {
		return Absent(), nil, &EncodingError{Path: at.Pointer(), Type: n.typ.Name(), Value: v, Reason: "adapter produced a non-string value"}
	}
	canon, err := n.typ.Decode(cs)
	if err != nil {
		return Absent(), nil, &EncodingError{Path: at.Pointer(), Type: n.typ.Name(), Value: v, Reason: "encoded form does not decode: " + err.Error()}
	}
	if iss := n.runValidators(ctx, at, canon); len(iss) > 0 {
		st.add(iss...)
	}
	return cs, canon, nil
}

// Decode converts the canonical value v into an appstruct, applying defaults
// for absent optional fields and running validators. Mappings decode to
// *Object. Failures are returned as Issues.
func (n *Node) Decode(ctx context.Context, v Value) (any, error) {
	out, err := n.decode(ctx, v, &walkState{})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeWithMeta is Decode plus presence metadata keyed by JSON Pointer.
func (n *Node) DecodeWithMeta(ctx context.Context, v Value) (Decoded[any], error) {
	st := &walkState{presence: PresenceMap{}}
	out, err := n.decode(ctx, v, st)
	return Decoded[any]{Value: out, Presence: st.presence}, err
}

func (n *Node) decode(ctx context.Context, v Value, st *walkState) (any, error) {
	if n.kind == NodeScalar && n.typ == nil {
		return nil, &SchemaError{Node: n.name, Reason: "scalar without type"}
	}
	root := Root()
	if v.IsAbsent() {
		if n.Required() {
			return nil, Issues{requiredIssue(root)}
		}
		st.mark(root.Pointer(), PresenceDefaultApplied)
		return n.def, nil
	}
	st.mark(root.Pointer(), PresenceSeen)
	out := n.decodeAt(ctx, v, root, st)
	if len(st.issues) > 0 {
		return nil, st.issues
	}
	return out, nil
}

func (n *Node) decodeAt(ctx context.Context, v Value, at PathRef, st *walkState) any {
	if n.kind == NodeScalar {
		return n.decodeScalar(ctx, v, at, st)
	}
	if v.Kind() != ValueMapping {
		st.add(Issue{Path: at.Pointer(), Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected a mapping"})
		return nil
	}
	obj := NewObject()
	failed := false
	for _, c := range n.children {
		cv := v.Get(c.name)
		cat := at.Field(c.name)
		p := cat.Pointer()
		if cv.IsAbsent() {
			if c.Required() {
				st.add(requiredIssue(cat))
				failed = true
				if st.stop(ctx) {
					return obj
				}
				continue
			}
			if c.def != nil {
				obj.Set(c.name, c.def)
				st.mark(p, PresenceDefaultApplied)
			}
			continue
		}
		st.mark(p, PresenceSeen)
		if s, ok := cv.AsString(); ok && s == "" {
			st.mark(p, PresenceEmpty)
		}
		before := len(st.issues)
		dv := c.decodeAt(ctx, cv, cat, st)
		if len(st.issues) > before {
			failed = true
			if st.stop(ctx) {
				return obj
			}
			continue
		}
		if !IsAbsent(dv) {
			obj.Set(c.name, dv)
		}
	}
	if !failed {
		n.refineObject(ctx, at, obj, st)
	}
	return obj
}

func (n *Node) decodeScalar(ctx context.Context, v Value, at PathRef, st *walkState) any {
	if v.Kind() != ValueString {
		st.add(Issue{Path: at.Pointer(), Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected text"})
		return nil
	}
	dv, err := n.typ.Decode(v)
	if err != nil {
		cause := withPath(err, at.Pointer())
		st.add(Issue{Path: at.Pointer(), Code: CodeInvalidFormat, Message: i18n.T(CodeInvalidFormat, nil), Hint: n.typ.Name(), Cause: cause})
		return nil
	}
	if iss := n.runValidators(ctx, at, dv); len(iss) > 0 {
		st.add(iss...)
		return nil
	}
	return dv
}

// refineObject runs mapping-level validators and rules on a fully processed object.
func (n *Node) refineObject(ctx context.Context, at PathRef, obj *Object, st *walkState) {
	if iss := n.runValidators(ctx, at, obj); len(iss) > 0 {
		st.add(iss...)
		if st.stop(ctx) {
			return
		}
	}
	for _, r := range n.rules {
		iss := r.fn(ctx, at, obj)
		for i := range iss {
			if iss[i].Rule == "" {
				iss[i].Rule = r.name
			}
			if iss[i].Code == "" {
				iss[i].Code = CodeBusinessRule
			}
		}
		st.add(iss...)
		if st.stop(ctx) {
			return
		}
	}
}

// runValidators applies validators in order and stops at the first failure.
func (n *Node) runValidators(ctx context.Context, at PathRef, v any) Issues {
	for _, vd := range n.validators {
		err := vd.Validate(ctx, v)
		if err == nil {
			continue
		}
		if iss, ok := AsIssues(err); ok {
			return rebase(at.Pointer(), iss)
		}
		return Issues{{Path: at.Pointer(), Code: CodeBusinessRule, Message: err.Error(), Cause: err}}
	}
	return nil
}

// withPath returns a copy of an adapter error carrying path.
func withPath(err error, path string) error {
	var ee *EncodingError
	if errors.As(err, &ee) {
		cp := *ee
		if cp.Path == "" {
			cp.Path = path
		}
		return &cp
	}
	var de *DecodingError
	if errors.As(err, &de) {
		cp := *de
		if cp.Path == "" {
			cp.Path = path
		}
		return &cp
	}
	return err
}
