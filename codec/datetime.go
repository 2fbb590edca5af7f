package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	xmlskema "github.com/reoring/xmlskema"
)

// DateTimeLayout is the only timestamp form written on the wire.
const DateTimeLayout = "2006-01-02T15:04:05"

// DateTime returns the timestamp adapter used for inbound and outbound
// documents. Encoding writes DateTimeLayout and rejects values carrying a
// zone other than UTC, which stands for the zone-less wall clock. Decoding
// also accepts "<layout>.<ms>-<offset>": the milliseconds are added and the
// offset is discarded.
func DateTime() xmlskema.Type { return dateTimeType{lenient: true} }

// StrictDateTime is DateTime without the extended decode form.
func StrictDateTime() xmlskema.Type { return dateTimeType{} }

type dateTimeType struct{ lenient bool }

func (t dateTimeType) Name() string {
	if t.lenient {
		return "datetime"
	}
	return "strict-datetime"
}

func (t dateTimeType) Encode(v any) (xmlskema.Value, error) {
	if xmlskema.IsAbsent(v) {
		return xmlskema.Absent(), nil
	}
	ts, err := asTime(t.Name(), v)
	if err != nil {
		return xmlskema.Absent(), err
	}
	if ts.IsZero() {
		return xmlskema.Absent(), nil
	}
	if ts.Location() != time.UTC {
		return xmlskema.Absent(), encodingError(t.Name(), v, "timezone information is not accepted")
	}
	return xmlskema.Text(ts.Format(DateTimeLayout)), nil
}

func (t dateTimeType) Decode(v xmlskema.Value) (any, error) {
	s, ok, err := textOf(t.Name(), v)
	if err != nil || !ok {
		return nil, err
	}
	ts, strictErr := parseLayout(s)
	if strictErr == nil {
		return ts, nil
	}
	if !t.lenient {
		return nil, decodingError(t.Name(), s, "expected "+DateTimeLayout, strictErr)
	}
	base, rest, found := strings.Cut(s, ".")
	if !found {
		return nil, decodingError(t.Name(), s, "expected "+DateTimeLayout, strictErr)
	}
	ms, _, found := strings.Cut(rest, "-")
	if !found {
		return nil, decodingError(t.Name(), s, "expected <timestamp>.<ms>-<offset>", nil)
	}
	ts, err = parseLayout(base)
	if err != nil {
		return nil, decodingError(t.Name(), s, "expected "+DateTimeLayout, err)
	}
	n, err := strconv.Atoi(ms)
	if err != nil || n < 0 {
		return nil, decodingError(t.Name(), s, "invalid milliseconds", err)
	}
	return ts.Add(time.Duration(n) * time.Millisecond), nil
}

// parseLayout parses exactly DateTimeLayout. time.Parse alone would also take
// a fractional second after the seconds field.
func parseLayout(s string) (time.Time, error) {
	if len(s) != len(DateTimeLayout) {
		return time.Time{}, fmt.Errorf("%q does not match %s", s, DateTimeLayout)
	}
	return time.Parse(DateTimeLayout, s)
}
