// Package codec provides the scalar type adapters of xmlskema.
//
// Each adapter converts one appstruct to one canonical string and back:
//
//	String()          string kinds, fmt.Stringer, integers and floats -> text
//	Integer()         integer kinds and integral strings <-> int64
//	Decimal()         decimal.Decimal <-> plain decimal text
//	Boolean()         bool <-> "true"/"false"
//	Money()           decimal amount with at most two places <-> digits ("199.5" -> "19950")
//	Month()           time.Time <-> "YYYYMM"
//	DateTime()        time.Time <-> "YYYY-MM-DDTHH:MM:SS", lenient decode
//	StrictDateTime()  as DateTime, strict decode
//	Indicator(...)    closed symbol <-> small integer mapping
//
// Absent appstructs (see xmlskema.IsAbsent) encode to Absent and Absent
// values decode to nil.
package codec
