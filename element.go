package xmlskema

// Attr is one element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the document tree. An element is either a leaf
// carrying Text or a branch carrying Children, never both.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Text     *string
}

// NewElement returns an empty element named name.
func NewElement(name string) *Element { return &Element{Name: name} }

// Attr returns the value of the attribute with the given name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, keeping the position of an existing one.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Find returns the first direct child named name, or nil.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Append adds a child element.
func (e *Element) Append(c *Element) { e.Children = append(e.Children, c) }

// SetText makes e a leaf holding s.
func (e *Element) SetText(s string) { e.Text = &s }

// IsLeaf reports whether e has no children.
func (e *Element) IsLeaf() bool { return len(e.Children) == 0 }
