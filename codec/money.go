package codec

import (
	"strings"

	"github.com/shopspring/decimal"

	xmlskema "github.com/reoring/xmlskema"
)

// Money returns the amount adapter used by the remote protocol: the amount in
// cents written without a decimal point. 199.5 encodes as "19950" and "190"
// decodes as 1.90.
func Money() xmlskema.Type { return moneyType{} }

type moneyType struct{}

func (moneyType) Name() string { return "money" }

func (moneyType) Encode(v any) (xmlskema.Value, error) {
	if xmlskema.IsAbsent(v) {
		return xmlskema.Absent(), nil
	}
	d, err := toDecimal(v)
	if err != nil {
		return xmlskema.Absent(), encodingError("money", v, err.Error())
	}
	if d.Sign() < 0 {
		return xmlskema.Absent(), encodingError("money", v, "negative amount")
	}
	// The exponent tracks the written representation, so 200.10 keeps two
	// places and 200.100 is rejected along with 200.123.
	if d.Exponent() < -2 {
		return xmlskema.Absent(), encodingError("money", v, "more than two decimal places")
	}
	return xmlskema.Text(strings.Replace(d.StringFixed(2), ".", "", 1)), nil
}

func (moneyType) Decode(v xmlskema.Value) (any, error) {
	s, ok, err := textOf("money", v)
	if err != nil || !ok {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return nil, decodingError("money", s, "expected digits only", nil)
	}
	digits := s
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	n := len(digits)
	d, err := decimal.NewFromString(digits[:n-2] + "." + digits[n-2:])
	if err != nil {
		return nil, decodingError("money", s, "not an amount", err)
	}
	return d, nil
}
