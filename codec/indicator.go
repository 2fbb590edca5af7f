package codec

import (
	"fmt"
	"strconv"
	"strings"

	xmlskema "github.com/reoring/xmlskema"
)

// IndicatorCode pairs a domain symbol with its wire code.
type IndicatorCode struct {
	Symbol string
	Code   int64
}

// Indicator returns a closed symbol <-> code adapter. Falsy appstructs encode
// as Absent; any other unknown symbol, and any unknown code on decode, fails.
func Indicator(name string, pairs ...IndicatorCode) xmlskema.Type {
	t := indicatorType{name: name, bySymbol: map[string]int64{}, byCode: map[int64]string{}}
	for _, p := range pairs {
		t.bySymbol[p.Symbol] = p.Code
		t.byCode[p.Code] = p.Symbol
		t.symbols = append(t.symbols, p.Symbol)
	}
	return t
}

type indicatorType struct {
	name     string
	bySymbol map[string]int64
	byCode   map[int64]string
	symbols  []string
}

func (t indicatorType) Name() string { return t.name }

func (t indicatorType) Encode(v any) (xmlskema.Value, error) {
	if isFalsy(v) {
		return xmlskema.Absent(), nil
	}
	s, ok := stringKind(v)
	if !ok {
		if st, isStringer := v.(fmt.Stringer); isStringer {
			s, ok = st.String(), true
		}
	}
	code, known := t.bySymbol[s]
	if !ok || !known {
		return xmlskema.Absent(), encodingError(t.name, v, "expected one of "+strings.Join(t.symbols, ", "))
	}
	return xmlskema.Text(strconv.FormatInt(code, 10)), nil
}

func (t indicatorType) Decode(v xmlskema.Value) (any, error) {
	s, ok, err := textOf(t.name, v)
	if err != nil || !ok {
		return nil, err
	}
	code, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, decodingError(t.name, s, "not an indicator code", err)
	}
	sym, known := t.byCode[code]
	if !known {
		return nil, decodingError(t.name, s, "unknown indicator code", nil)
	}
	return sym, nil
}
