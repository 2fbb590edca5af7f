package xmldoc

import (
	"context"

	xmlskema "github.com/reoring/xmlskema"
)

// Encode validates v against n and serializes it as a document rooted at the
// wire name of n.
func Encode(ctx context.Context, n *xmlskema.Node, v any, opts ...Option) ([]byte, error) {
	cs, err := n.Encode(ctx, v)
	if err != nil {
		return nil, err
	}
	el, err := xmlskema.ToDocument(n, cs)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, &xmlskema.EncodingError{Type: "document", Value: v, Reason: "scalar root encoded to nothing"}
	}
	return Marshal(el, opts...)
}

// Decode parses data and decodes it with n. The root element name must be
// the wire name of n.
func Decode(ctx context.Context, n *xmlskema.Node, data []byte) (any, error) {
	el, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return DecodeElement(ctx, n, el)
}

// DecodeElement decodes an already parsed document with n.
func DecodeElement(ctx context.Context, n *xmlskema.Node, el *xmlskema.Element) (any, error) {
	if el.Name != n.WireName() {
		return nil, &xmlskema.UnrecognizedResponseError{Name: el.Name}
	}
	return n.Decode(ctx, xmlskema.FromDocument(n, el))
}
