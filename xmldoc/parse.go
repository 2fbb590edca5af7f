package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html/charset"

	xmlskema "github.com/reoring/xmlskema"
)

type frame struct {
	el   *xmlskema.Element
	text strings.Builder
}

// Parse reads one document. Namespaces are removed from element and
// attribute names and namespace declarations are dropped. Text of an
// element with children must be whitespace, which is discarded; an empty
// leaf has nil Text. Failures are *xmlskema.DocumentParseError.
func Parse(data []byte) (*xmlskema.Element, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	d.Strict = true

	var (
		stack      []*frame
		root       *xmlskema.Element
		rootClosed bool
	)
	parseErr := func(reason string, cause error) error {
		line, _ := d.InputPos()
		return &xmlskema.DocumentParseError{Line: line, Reason: reason, Cause: cause}
	}

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			var se *xml.SyntaxError
			if errors.As(err, &se) {
				return nil, &xmlskema.DocumentParseError{Line: se.Line, Reason: se.Msg, Cause: err}
			}
			return nil, parseErr(err.Error(), err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, parseErr("unexpected element "+t.Name.Local+" after document end", nil)
			}
			el := xmlskema.NewElement(t.Name.Local)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" && a.Name.Space == "" {
					continue
				}
				el.SetAttr(a.Name.Local, a.Value)
			}
			if n := len(stack); n > 0 {
				parent := stack[n-1]
				if !blank(parent.text.String()) {
					return nil, parseErr("mixed content in element "+parent.el.Name, nil)
				}
				parent.el.Append(el)
			} else {
				root = el
			}
			stack = append(stack, &frame{el: el})

		case xml.EndElement:
			n := len(stack)
			if n == 0 {
				return nil, parseErr("unexpected end element "+t.Name.Local, nil)
			}
			top := stack[n-1]
			stack = stack[:n-1]
			txt := top.text.String()
			if len(top.el.Children) > 0 {
				if !blank(txt) {
					return nil, parseErr("mixed content in element "+top.el.Name, nil)
				}
			} else if txt != "" {
				top.el.SetText(txt)
			}
			if len(stack) == 0 {
				rootClosed = true
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !blank(string(t)) {
					return nil, parseErr("character data outside the root element", nil)
				}
				continue
			}
			stack[len(stack)-1].text.Write(t)
		}
	}
	if root == nil {
		return nil, parseErr("no root element", io.ErrUnexpectedEOF)
	}
	if !rootClosed {
		return nil, parseErr("unclosed root element "+root.Name, io.ErrUnexpectedEOF)
	}
	return root, nil
}

func blank(s string) bool {
	for _, r := range s {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
