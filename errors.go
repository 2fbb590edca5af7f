package xmlskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	// Cross-field rules over a mapping
	CodeBusinessRule = "business_rule"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrEncoding             = errors.New("xmlskema: encoding error")
	ErrDecoding             = errors.New("xmlskema: decoding error")
	ErrValidation           = errors.New("xmlskema: validation error")
	ErrDocumentParse        = errors.New("xmlskema: document parse error")
	ErrUnrecognizedResponse = errors.New("xmlskema: unrecognized response")
	ErrRemote               = errors.New("xmlskema: remote error")
	ErrInvalidSchema        = errors.New("xmlskema: invalid schema")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer over semantic field names (for example: /order/value).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
	// Rule optionally records the rule name that produced this issue.
	Rule string
}

// Issues is a collection of validation errors that implements error. It is
// the ValidationError of the codec.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. too_long at /order/number
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is matches ErrValidation.
func (iss Issues) Is(target error) bool { return target == ErrValidation }

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// rebase prefixes the paths of child issues with base.
func rebase(base string, child Issues) Issues {
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case base == "/" || base == "":
			if p == "" {
				p = "/"
			}
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// EncodingError reports an appstruct outside the domain of a type adapter.
type EncodingError struct {
	Path   string
	Type   string
	Value  any
	Reason string
}

func (e *EncodingError) Error() string {
	p := e.Path
	if p == "" {
		p = "/"
	}
	return fmt.Sprintf("xmlskema: cannot encode %#v as %s at %s: %s", e.Value, e.Type, p, e.Reason)
}

// Is matches ErrEncoding.
func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }

// DecodingError reports a canonical string a type adapter cannot parse. The
// schema tree reports it as an invalid_format Issue whose Cause is this error.
type DecodingError struct {
	Path   string
	Type   string
	Input  string
	Reason string
	Cause  error
}

func (e *DecodingError) Error() string {
	p := e.Path
	if p == "" {
		p = "/"
	}
	return fmt.Sprintf("xmlskema: cannot decode %q as %s at %s: %s", e.Input, e.Type, p, e.Reason)
}

func (e *DecodingError) Unwrap() error { return e.Cause }

// Is matches ErrDecoding.
func (e *DecodingError) Is(target error) bool { return target == ErrDecoding }

// DocumentParseError reports inbound bytes that are not a well-formed document.
type DocumentParseError struct {
	Line   int // 1-based; 0 when unknown.
	Reason string
	Cause  error
}

func (e *DocumentParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("xmlskema: malformed document (line %d): %s", e.Line, e.Reason)
	}
	return "xmlskema: malformed document: " + e.Reason
}

func (e *DocumentParseError) Unwrap() error { return e.Cause }

// Is matches ErrDocumentParse.
func (e *DocumentParseError) Is(target error) bool { return target == ErrDocumentParse }

// UnrecognizedResponseError reports a root element name no schema is
// registered for.
type UnrecognizedResponseError struct {
	Name string
}

func (e *UnrecognizedResponseError) Error() string {
	return fmt.Sprintf("xmlskema: no schema registered for root element %q", e.Name)
}

// Is matches ErrUnrecognizedResponse.
func (e *UnrecognizedResponseError) Is(target error) bool { return target == ErrUnrecognizedResponse }

// RemoteError is a business error reported by the remote party.
type RemoteError struct {
	Code    int64
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
}

// Is matches ErrRemote.
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// SchemaError reports an inconsistent schema definition detected at build time.
type SchemaError struct {
	Node   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("xmlskema: invalid schema node %q: %s", e.Node, e.Reason)
}

// Is matches ErrInvalidSchema.
func (e *SchemaError) Is(target error) bool { return target == ErrInvalidSchema }
