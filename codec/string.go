package codec

import (
	"fmt"
	"reflect"
	"strconv"

	xmlskema "github.com/reoring/xmlskema"
)

// String returns the string adapter. Encoding accepts string kinds,
// fmt.Stringer, integers and floats; decoding is the identity.
func String() xmlskema.Type { return stringType{} }

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Encode(v any) (xmlskema.Value, error) {
	if xmlskema.IsAbsent(v) {
		return xmlskema.Absent(), nil
	}
	if s, ok := stringKind(v); ok {
		return xmlskema.Text(s), nil
	}
	if st, ok := v.(fmt.Stringer); ok {
		return xmlskema.Text(st.String()), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return xmlskema.Text(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return xmlskema.Text(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return xmlskema.Text(strconv.FormatFloat(rv.Float(), 'f', -1, 64)), nil
	}
	return xmlskema.Absent(), encodingError("string", v, "expected a string")
}

func (stringType) Decode(v xmlskema.Value) (any, error) {
	s, ok, err := textOf("string", v)
	if err != nil || !ok {
		return nil, err
	}
	return s, nil
}
