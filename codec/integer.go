package codec

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	xmlskema "github.com/reoring/xmlskema"
)

// Integer returns the integer adapter. The appstruct domain on decode is int64.
func Integer() xmlskema.Type { return integerType{} }

type integerType struct{}

func (integerType) Name() string { return "integer" }

func (integerType) Encode(v any) (xmlskema.Value, error) {
	if xmlskema.IsAbsent(v) {
		return xmlskema.Absent(), nil
	}
	n, err := toInt64(v)
	if err != nil {
		return xmlskema.Absent(), encodingError("integer", v, err.Error())
	}
	return xmlskema.Text(strconv.FormatInt(n, 10)), nil
}

func (integerType) Decode(v xmlskema.Value) (any, error) {
	s, ok, err := textOf("integer", v)
	if err != nil || !ok {
		return nil, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, decodingError("integer", s, "not an integer", err)
	}
	return n, nil
}

type intErr string

func (e intErr) Error() string { return string(e) }

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case bool:
		return 0, intErr("expected an integer, got bool")
	case decimal.Decimal:
		if !t.IsInteger() {
			return 0, intErr("not an integral value")
		}
		return t.IntPart(), nil
	}
	if s, ok := stringKind(v); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, intErr("not an integer")
		}
		return n, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return 0, intErr("integer overflows int64")
		}
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) || math.Abs(f) > math.MaxInt64 {
			return 0, intErr("not an integral value")
		}
		return int64(f), nil
	}
	return 0, intErr("expected an integer")
}
