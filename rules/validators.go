package rules

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/i18n"
)

func fail(code, rule string, kv ...any) error {
	it := xmlskema.Root().Issue(code, "", kv...)
	data := map[string]string{}
	for k, v := range it.Params {
		data[k] = fmt.Sprint(v)
	}
	it.Message = i18n.T(code, data)
	it.Rule = rule
	return xmlskema.Issues{it}
}

// Length bounds the number of characters of a string. A negative bound is
// not checked.
func Length(min, max int) xmlskema.Validator {
	return xmlskema.ValidatorFunc(func(_ context.Context, v any) error {
		s, ok := asText(v)
		if !ok {
			return fail(xmlskema.CodeInvalidType, "length", "expected", "string", "got", fmt.Sprintf("%T", v))
		}
		n := utf8.RuneCountInString(s)
		if min >= 0 && n < min {
			return fail(xmlskema.CodeTooShort, "length", "min", min, "got", n)
		}
		if max >= 0 && n > max {
			return fail(xmlskema.CodeTooLong, "length", "max", max, "got", n)
		}
		return nil
	})
}

// MaxLength is Length(-1, max).
func MaxLength(max int) xmlskema.Validator { return Length(-1, max) }

// ExactLength is Length(n, n).
func ExactLength(n int) xmlskema.Validator { return Length(n, n) }

// Range bounds a numeric appstruct (integers, decimals, numeric strings).
// Bounds accept the same kinds; a nil bound is not checked. Invalid bounds
// panic when the validator is built.
func Range(min, max any) xmlskema.Validator {
	lo, hasLo := mustBound(min)
	hi, hasHi := mustBound(max)
	return xmlskema.ValidatorFunc(func(_ context.Context, v any) error {
		d, ok := number(v)
		if !ok {
			return fail(xmlskema.CodeInvalidType, "range", "expected", "number", "got", fmt.Sprintf("%T", v))
		}
		if hasLo && d.LessThan(lo) {
			return fail(xmlskema.CodeTooSmall, "range", "min", lo.String(), "got", d.String())
		}
		if hasHi && d.GreaterThan(hi) {
			return fail(xmlskema.CodeTooBig, "range", "max", hi.String(), "got", d.String())
		}
		return nil
	})
}

// Min is Range(min, nil).
func Min(min any) xmlskema.Validator { return Range(min, nil) }

// Max is Range(nil, max).
func Max(max any) xmlskema.Validator { return Range(nil, max) }

// OneOf accepts only the listed values. Numbers compare by value, so
// OneOf(1, 2) accepts a decoded int64(2).
func OneOf(values ...any) xmlskema.Validator {
	allowed := make([]string, 0, len(values))
	for _, w := range values {
		allowed = append(allowed, fmt.Sprint(w))
	}
	return xmlskema.ValidatorFunc(func(_ context.Context, v any) error {
		for _, w := range values {
			if same(v, w) {
				return nil
			}
		}
		return fail(xmlskema.CodeInvalidEnum, "oneOf", "allowed", strings.Join(allowed, ","), "got", fmt.Sprint(v))
	})
}

// Pattern requires a string matching expr. It panics if expr does not compile.
func Pattern(expr string) xmlskema.Validator {
	re := regexp.MustCompile(expr)
	return xmlskema.ValidatorFunc(func(_ context.Context, v any) error {
		s, ok := asText(v)
		if !ok {
			return fail(xmlskema.CodeInvalidType, "pattern", "expected", "string", "got", fmt.Sprintf("%T", v))
		}
		if !re.MatchString(s) {
			return fail(xmlskema.CodePattern, "pattern", "pattern", expr)
		}
		return nil
	})
}

// All runs every validator and reports the union of their issues.
func All(vs ...xmlskema.Validator) xmlskema.Validator {
	return xmlskema.ValidatorFunc(func(ctx context.Context, v any) error {
		var out xmlskema.Issues
		for _, vd := range vs {
			if vd == nil {
				continue
			}
			err := vd.Validate(ctx, v)
			if err == nil {
				continue
			}
			iss, ok := xmlskema.AsIssues(err)
			if !ok {
				return err
			}
			out = xmlskema.AppendIssues(out, iss...)
			if xmlskema.IsFailFast(ctx) {
				break
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	})
}

// ------- helpers -------

func asText(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func mustBound(b any) (decimal.Decimal, bool) {
	if b == nil {
		return decimal.Decimal{}, false
	}
	d, ok := number(b)
	if !ok {
		panic(fmt.Sprintf("rules: invalid numeric bound %v", b))
	}
	return d, true
}

func number(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case *decimal.Decimal:
		if t == nil {
			return decimal.Decimal{}, false
		}
		return *t, true
	case bool:
		return decimal.Decimal{}, false
	}
	if s, ok := asText(v); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		return d, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		d, err := decimal.NewFromString(strconv.FormatUint(rv.Uint(), 10))
		return d, err == nil
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(rv.Float()), true
	}
	return decimal.Decimal{}, false
}

// same compares two appstructs, numbers by value and everything else deeply.
func same(a, b any) bool {
	if isNumeric(a) && isNumeric(b) {
		x, okx := number(a)
		y, oky := number(b)
		return okx && oky && x.Equal(y)
	}
	return reflect.DeepEqual(a, b)
}

func isNumeric(v any) bool {
	switch v.(type) {
	case decimal.Decimal, *decimal.Decimal:
		return true
	}
	k := reflect.ValueOf(v).Kind()
	return isIntLike(k) || isFloatLike(k)
}
