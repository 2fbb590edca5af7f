package xmlskema

import (
	"bytes"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Object is the appstruct of a mapping node: an ordered name -> value mapping.
// Decoding always yields *Object with keys in schema declaration order.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object { return &Object{vals: map[string]any{}} }

// ObjectFrom builds an Object from a plain map. Key order follows the order in
// which a schema later reads the fields, so iteration order of m is irrelevant.
func ObjectFrom(m map[string]any) *Object {
	o := NewObject()
	for k, v := range m {
		o.Set(k, v)
	}
	return o
}

// Set stores v under k. A new key is appended; an existing key keeps its
// position.
func (o *Object) Set(k string, v any) *Object {
	if o.vals == nil {
		o.vals = map[string]any{}
	}
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
	return o
}

// Get returns the value stored under k.
func (o *Object) Get(k string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[k]
	return v, ok
}

// Has reports whether k is present.
func (o *Object) Has(k string) bool {
	_, ok := o.Get(k)
	return ok
}

// Delete removes k.
func (o *Object) Delete(k string) {
	if o == nil {
		return
	}
	if _, ok := o.vals[k]; !ok {
		return
	}
	delete(o.vals, k)
	for i, kk := range o.keys {
		if kk == k {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Map returns a shallow copy as a plain map.
func (o *Object) Map() map[string]any {
	out := make(map[string]any, o.Len())
	for _, k := range o.Keys() {
		out[k] = o.vals[k]
	}
	return out
}

// String returns the string under k, or "".
func (o *Object) String(k string) string {
	v, _ := o.Get(k)
	s, _ := v.(string)
	return s
}

// Int returns the int64 under k, or 0.
func (o *Object) Int(k string) int64 {
	v, _ := o.Get(k)
	n, _ := v.(int64)
	return n
}

// Bool returns the bool under k, or false.
func (o *Object) Bool(k string) bool {
	v, _ := o.Get(k)
	b, _ := v.(bool)
	return b
}

// Decimal returns the decimal under k, or zero.
func (o *Object) Decimal(k string) decimal.Decimal {
	v, _ := o.Get(k)
	d, _ := v.(decimal.Decimal)
	return d
}

// Time returns the time under k, or the zero time.
func (o *Object) Time(k string) time.Time {
	v, _ := o.Get(k)
	t, _ := v.(time.Time)
	return t
}

// Object returns the nested object under k, or nil.
func (o *Object) Object(k string) *Object {
	v, _ := o.Get(k)
	c, _ := v.(*Object)
	return c
}

// MarshalJSON renders the object with keys in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// lookupField reads name from a mapping appstruct. ok is false when v is not a
// supported mapping shape.
func lookupField(v any, name string) (val any, ok bool) {
	switch t := v.(type) {
	case *Object:
		val, _ = t.Get(name)
		return val, true
	case Object:
		val, _ = t.Get(name)
		return val, true
	case map[string]any:
		return t[name], true
	case map[string]string:
		if s, found := t[name]; found {
			return s, true
		}
		return nil, true
	}
	return nil, false
}
