package xmlskema

import (
	"reflect"
	"strconv"
	"strings"
)

// ValueKind enumerates the canonical value kinds.
type ValueKind uint8

const (
	ValueAbsent  ValueKind = iota // No value was supplied or found.
	ValueString                   // A single string.
	ValueMapping                  // An ordered name -> Value mapping.
)

// Value is the canonical representation ("cstruct") exchanged between the
// schema tree and the structural mapper. The zero Value is Absent.
//
// Absent is distinct from an empty string: Text("") is present.
type Value struct {
	kind    ValueKind
	str     string
	entries []Entry
}

// Entry is one name/value pair of a mapping Value.
type Entry struct {
	Name  string
	Value Value
}

// Absent returns the Absent value.
func Absent() Value { return Value{} }

// Text returns a string value.
func Text(s string) Value { return Value{kind: ValueString, str: s} }

// Fields returns a mapping value holding entries in the given order. Absent
// entries are dropped; a later entry replaces an earlier one with the same name
// in place.
func Fields(entries ...Entry) Value {
	v := Value{kind: ValueMapping, entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		v = v.With(e.Name, e.Value)
	}
	return v
}

// Kind reports the value kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether v is Absent.
func (v Value) IsAbsent() bool { return v.kind == ValueAbsent }

// AsString returns the string held by v; ok is false for other kinds.
func (v Value) AsString() (string, bool) {
	if v.kind != ValueString {
		return "", false
	}
	return v.str, true
}

// Get returns the mapping entry named name, or Absent.
func (v Value) Get(name string) Value {
	for _, e := range v.entries {
		if e.Name == name {
			return e.Value
		}
	}
	return Value{}
}

// Len returns the number of entries of a mapping value.
func (v Value) Len() int { return len(v.entries) }

// Entries returns a copy of the mapping entries in order.
func (v Value) Entries() []Entry {
	if v.kind != ValueMapping {
		return nil
	}
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// With returns a copy of the mapping v with name set to val. Setting Absent
// removes the entry. Calling With on a non-mapping value starts a new mapping.
func (v Value) With(name string, val Value) Value {
	out := Value{kind: ValueMapping}
	if v.kind == ValueMapping {
		out.entries = make([]Entry, 0, len(v.entries)+1)
	}
	replaced := false
	for _, e := range v.entries {
		if e.Name == name {
			replaced = true
			if val.IsAbsent() {
				continue
			}
			e.Value = val
		}
		out.entries = append(out.entries, e)
	}
	if !replaced && !val.IsAbsent() {
		out.entries = append(out.entries, Entry{Name: name, Value: val})
	}
	return out
}

// Equal reports whether v and o hold the same kind and content, including
// entry order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueString:
		return v.str == o.str
	case ValueMapping:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for i := range v.entries {
			if v.entries[i].Name != o.entries[i].Name || !v.entries[i].Value.Equal(o.entries[i].Value) {
				return false
			}
		}
	}
	return true
}

// String renders v for debugging.
func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return strconv.Quote(v.str)
	case ValueMapping:
		b := &strings.Builder{}
		b.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Name)
			b.WriteString(": ")
			b.WriteString(e.Value.String())
		}
		b.WriteByte('}')
		return b.String()
	default:
		return "<absent>"
	}
}

// IsAbsent reports whether an appstruct stands for Absent: nil, a nil
// pointer/map/interface, or an Absent Value.
func IsAbsent(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case Value:
		return t.IsAbsent()
	case *Value:
		return t == nil || t.IsAbsent()
	case *Object:
		return t == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
