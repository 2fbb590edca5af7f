package codec

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/shopspring/decimal"

	xmlskema "github.com/reoring/xmlskema"
)

func encodingError(typ string, v any, reason string) *xmlskema.EncodingError {
	return &xmlskema.EncodingError{Type: typ, Value: v, Reason: reason}
}

func decodingError(typ, in, reason string, cause error) *xmlskema.DecodingError {
	return &xmlskema.DecodingError{Type: typ, Input: in, Reason: reason, Cause: cause}
}

// textOf returns the string of a string Value; ok is false for Absent.
func textOf(typ string, v xmlskema.Value) (string, bool, error) {
	if v.IsAbsent() {
		return "", false, nil
	}
	s, ok := v.AsString()
	if !ok {
		return "", false, decodingError(typ, v.String(), "expected text", nil)
	}
	return s, true, nil
}

// stringKind returns the underlying string of string-kinded values such as
// json.Number.
func stringKind(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// toDecimal converts numeric appstructs to a decimal, keeping the exponent of
// the input representation.
func toDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case *decimal.Decimal:
		return *t, nil
	case decimal.NullDecimal:
		if !t.Valid {
			return decimal.Decimal{}, fmt.Errorf("null decimal")
		}
		return t.Decimal, nil
	case float32:
		return floatDecimal(float64(t))
	case float64:
		return floatDecimal(t)
	}
	if s, ok := stringKind(v); ok {
		return decimal.NewFromString(s)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return decimal.NewFromString(strconv.FormatUint(u, 10))
		}
		return decimal.NewFromInt(int64(u)), nil
	}
	return decimal.Decimal{}, fmt.Errorf("%T is not a number", v)
}

func floatDecimal(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("%v is not a finite number", f)
	}
	// Shortest representation: 199.5 stays 199.5 and 200.213 keeps three places.
	return decimal.NewFromString(strconv.FormatFloat(f, 'f', -1, 64))
}

// isFalsy mirrors the "no value" notion used by optional symbol fields: nil,
// empty strings, zero numbers and false.
func isFalsy(v any) bool {
	if xmlskema.IsAbsent(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}
