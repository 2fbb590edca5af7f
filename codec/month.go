package codec

import (
	"time"

	xmlskema "github.com/reoring/xmlskema"
)

const monthLayout = "200601"

// Month returns the YYYYMM adapter. Decoded values are the first day of the
// month at UTC midnight.
func Month() xmlskema.Type { return monthType{} }

type monthType struct{}

func (monthType) Name() string { return "month" }

func (monthType) Encode(v any) (xmlskema.Value, error) {
	if xmlskema.IsAbsent(v) {
		return xmlskema.Absent(), nil
	}
	t, err := asTime("month", v)
	if err != nil {
		return xmlskema.Absent(), err
	}
	if t.IsZero() {
		return xmlskema.Absent(), nil
	}
	return xmlskema.Text(t.Format(monthLayout)), nil
}

func (monthType) Decode(v xmlskema.Value) (any, error) {
	s, ok, err := textOf("month", v)
	if err != nil || !ok {
		return nil, err
	}
	if len(s) != 6 {
		return nil, decodingError("month", s, "expected YYYYMM", nil)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, decodingError("month", s, "expected YYYYMM", nil)
		}
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return nil, decodingError("month", s, "expected YYYYMM", err)
	}
	return t, nil
}

// timeLayouts are tried in order for textual time appstructs, as produced
// by JSON input.
var timeLayouts = []string{time.RFC3339Nano, DateTimeLayout, "2006-01-02", "2006-01", monthLayout}

func asTime(typ string, v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		return *t, nil
	}
	if s, ok := stringKind(v); ok {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, encodingError(typ, v, "unrecognized time text")
	}
	return time.Time{}, encodingError(typ, v, "expected a time.Time")
}
