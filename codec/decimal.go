package codec

import (
	"strings"

	"github.com/shopspring/decimal"

	xmlskema "github.com/reoring/xmlskema"
)

// Decimal returns the fixed-point decimal adapter (decimal.Decimal on decode).
func Decimal() xmlskema.Type { return decimalType{} }

type decimalType struct{}

func (decimalType) Name() string { return "decimal" }

func (decimalType) Encode(v any) (xmlskema.Value, error) {
	if xmlskema.IsAbsent(v) {
		return xmlskema.Absent(), nil
	}
	d, err := toDecimal(v)
	if err != nil {
		return xmlskema.Absent(), encodingError("decimal", v, err.Error())
	}
	return xmlskema.Text(d.String()), nil
}

func (decimalType) Decode(v xmlskema.Value) (any, error) {
	s, ok, err := textOf("decimal", v)
	if err != nil || !ok {
		return nil, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, decodingError("decimal", s, "not a decimal number", err)
	}
	return d, nil
}
