package xmlskema

// ToDocument builds the document tree for the canonical value v using only
// the structural metadata of n: wire names, placement and child order.
//
// Absent children are skipped, so optional fields never produce empty
// elements. An Absent mapping root yields an empty element; an Absent scalar
// root yields nil.
func ToDocument(n *Node, v Value) (*Element, error) {
	if n.kind == NodeScalar {
		if v.IsAbsent() {
			return nil, nil
		}
		return scalarElement(n, v, Root())
	}
	return mappingElement(n, v, Root())
}

func mappingElement(n *Node, v Value, at PathRef) (*Element, error) {
	el := NewElement(n.wireName)
	if v.IsAbsent() {
		return el, nil
	}
	if v.Kind() != ValueMapping {
		return nil, &EncodingError{Path: at.Pointer(), Type: "mapping", Value: v.String(), Reason: "expected a mapping value"}
	}
	for _, c := range n.children {
		cv := v.Get(c.name)
		if cv.IsAbsent() {
			continue
		}
		cat := at.Field(c.name)
		if c.placement == PlaceAttribute {
			s, ok := cv.AsString()
			if !ok {
				return nil, &EncodingError{Path: cat.Pointer(), Type: "attribute", Value: cv.String(), Reason: "attributes hold text only"}
			}
			el.SetAttr(c.wireName, s)
			continue
		}
		var (
			sub *Element
			err error
		)
		if c.kind == NodeMapping {
			sub, err = mappingElement(c, cv, cat)
		} else {
			sub, err = scalarElement(c, cv, cat)
		}
		if err != nil {
			return nil, err
		}
		el.Append(sub)
	}
	return el, nil
}

func scalarElement(n *Node, v Value, at PathRef) (*Element, error) {
	s, ok := v.AsString()
	if !ok {
		return nil, &EncodingError{Path: at.Pointer(), Type: "text", Value: v.String(), Reason: "expected a string value"}
	}
	el := NewElement(n.wireName)
	el.SetText(s)
	return el, nil
}

// FromDocument extracts the canonical value described by n from el. Missing
// attributes and child elements yield Absent; the schema tree decides later
// whether that is an error. Only the first child element matching a wire name
// is read, and unknown elements are ignored.
func FromDocument(n *Node, el *Element) Value {
	if el == nil {
		return Absent()
	}
	if n.kind == NodeScalar {
		if el.Text == nil {
			return Absent()
		}
		return Text(*el.Text)
	}
	out := Value{kind: ValueMapping}
	for _, c := range n.children {
		var cv Value
		if c.placement == PlaceAttribute {
			if s, ok := el.Attr(c.wireName); ok {
				cv = Text(s)
			}
		} else {
			cv = FromDocument(c, el.Find(c.wireName))
		}
		if !cv.IsAbsent() {
			out.entries = append(out.entries, Entry{Name: c.name, Value: cv})
		}
	}
	return out
}
