package xmldoc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	xmlskema "github.com/reoring/xmlskema"
)

// Encoding names accepted by WithEncoding.
const (
	ISO88591 = "ISO-8859-1"
	UTF8     = "UTF-8"
)

type options struct {
	encoding    string
	declaration bool
	indent      string
}

// Option configures Marshal.
type Option func(*options)

// WithEncoding selects the output charset (ISO88591 or UTF8).
func WithEncoding(name string) Option { return func(o *options) { o.encoding = name } }

// WithoutDeclaration omits the <?xml ...?> line.
func WithoutDeclaration() Option { return func(o *options) { o.declaration = false } }

// WithIndent writes one element per line indented by indent.
func WithIndent(indent string) Option { return func(o *options) { o.indent = indent } }

func newOptions(opts []Option) options {
	o := options{encoding: ISO88591, declaration: true}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// encoderFor returns the canonical charset name and its encoder; UTF-8 needs
// no encoder.
func encoderFor(name string) (string, *encoding.Encoder, error) {
	switch strings.ToUpper(name) {
	case ISO88591, "LATIN1", "ISO8859-1":
		return ISO88591, encoding.HTMLEscapeUnsupported(charmap.ISO8859_1.NewEncoder()), nil
	case UTF8, "UTF8":
		return UTF8, nil, nil
	}
	return "", nil, fmt.Errorf("unsupported output encoding %q", name)
}

// Marshal serializes el. An element carrying both text and children, an
// empty name or text outside the XML character range is an *EncodingError.
func Marshal(el *xmlskema.Element, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	charset, enc, err := encoderFor(o.encoding)
	if err != nil {
		return nil, &xmlskema.EncodingError{Type: "document", Value: o.encoding, Reason: err.Error()}
	}
	if el == nil {
		return nil, &xmlskema.EncodingError{Type: "document", Reason: "no root element"}
	}
	var buf bytes.Buffer
	if err := writeElement(&buf, el, "/"+el.Name, o.indent, 0); err != nil {
		return nil, err
	}
	body := buf.Bytes()
	if enc != nil {
		body, err = enc.Bytes(body)
		if err != nil {
			return nil, &xmlskema.EncodingError{Type: "document", Value: o.encoding, Reason: err.Error()}
		}
	}
	if !o.declaration {
		return body, nil
	}
	out := make([]byte, 0, len(body)+64)
	out = append(out, `<?xml version="1.0" encoding="`+charset+`"?>`+"\n"...)
	return append(out, body...), nil
}

func writeElement(buf *bytes.Buffer, el *xmlskema.Element, path, indent string, depth int) error {
	if el.Name == "" {
		return &xmlskema.EncodingError{Path: path, Type: "element", Reason: "empty element name"}
	}
	if el.Text != nil && len(el.Children) > 0 {
		return &xmlskema.EncodingError{Path: path, Type: "element", Value: *el.Text, Reason: "element has both text and children"}
	}
	pad(buf, indent, depth)
	buf.WriteByte('<')
	buf.WriteString(el.Name)
	for _, a := range el.Attrs {
		if a.Name == "" {
			return &xmlskema.EncodingError{Path: path, Type: "attribute", Reason: "empty attribute name"}
		}
		if !validChars(a.Value) {
			return &xmlskema.EncodingError{Path: path + "/@" + a.Name, Type: "attribute", Value: a.Value, Reason: "invalid XML character"}
		}
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		escape(buf, a.Value, true)
		buf.WriteByte('"')
	}
	switch {
	case el.Text != nil && *el.Text != "":
		if !validChars(*el.Text) {
			return &xmlskema.EncodingError{Path: path, Type: "text", Value: *el.Text, Reason: "invalid XML character"}
		}
		buf.WriteByte('>')
		escape(buf, *el.Text, false)
	case len(el.Children) > 0:
		buf.WriteByte('>')
		for _, c := range el.Children {
			if c == nil {
				continue
			}
			if indent != "" {
				buf.WriteByte('\n')
			}
			if err := writeElement(buf, c, path+"/"+c.Name, indent, depth+1); err != nil {
				return err
			}
		}
		if indent != "" {
			buf.WriteByte('\n')
			pad(buf, indent, depth)
		}
	default:
		buf.WriteString("/>")
		return nil
	}
	buf.WriteString("</")
	buf.WriteString(el.Name)
	buf.WriteByte('>')
	return nil
}

func pad(buf *bytes.Buffer, indent string, depth int) {
	for i := 0; i < depth && indent != ""; i++ {
		buf.WriteString(indent)
	}
}

func escape(buf *bytes.Buffer, s string, attr bool) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			if attr {
				buf.WriteString("&quot;")
			} else {
				buf.WriteRune(r)
			}
		case '\n', '\r', '\t':
			if attr {
				fmt.Fprintf(buf, "&#%d;", r)
			} else if r == '\r' {
				buf.WriteString("&#13;")
			} else {
				buf.WriteRune(r)
			}
		default:
			buf.WriteRune(r)
		}
	}
}

// validChars reports whether s holds only characters allowed by XML 1.0.
func validChars(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}
