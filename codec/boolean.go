package codec

import (
	"reflect"
	"strings"

	xmlskema "github.com/reoring/xmlskema"
)

// Boolean returns the boolean adapter. It encodes "true"/"false"; on decode
// "false" and "0" (any case) are false and every other string is true.
func Boolean() xmlskema.Type { return booleanType{} }

type booleanType struct{}

func (booleanType) Name() string { return "boolean" }

func (booleanType) Encode(v any) (xmlskema.Value, error) {
	if xmlskema.IsAbsent(v) {
		return xmlskema.Absent(), nil
	}
	rv := reflect.ValueOf(v)
	var b bool
	switch rv.Kind() {
	case reflect.Bool:
		b = rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b = !rv.IsZero()
	default:
		return xmlskema.Absent(), encodingError("boolean", v, "expected a bool")
	}
	if b {
		return xmlskema.Text("true"), nil
	}
	return xmlskema.Text("false"), nil
}

func (booleanType) Decode(v xmlskema.Value) (any, error) {
	s, ok, err := textOf("boolean", v)
	if err != nil || !ok {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "0":
		return false, nil
	}
	return true, nil
}
