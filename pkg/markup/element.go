package markup

import "strings"

// Attr is a single attribute in document order.
type Attr struct {
	Space string // Namespace URI (empty for unqualified attributes)
	Name  string // Local name
	Value string
}

// Element is one decoded XML element.
type Element struct {
	Space    string // Namespace URI of the element
	Name     string // Local name, namespace prefix stripped
	Attrs    []Attr
	Children []*Element
	Text     string // Character data directly inside the element, concatenated
}

// Is reports whether the element's local name ends with kind.
// Suffix matching mirrors how PLMXML readers dispatch on tag names.
func (e *Element) Is(kind string) bool {
	return e != nil && strings.HasSuffix(e.Name, kind)
}

// Attr returns the value of the first attribute with the given local name,
// regardless of namespace, and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if a.Name == name && a.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the value of the named attribute, or "" when absent.
func (e *Element) AttrValue(name string) string {
	v, _ := e.Attr(name)
	return v
}

// AttrNS returns the value of the attribute with the given namespace URI and
// local name, and whether it was present.
func (e *Element) AttrNS(space, name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if a.Space == space && a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ChildrenOf returns the child elements whose local name ends with kind,
// in document order.
func (e *Element) ChildrenOf(kind string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Is(kind) {
			out = append(out, c)
		}
	}
	return out
}

// Walk calls fn for e and every descendant in document order.
// Returning false from fn skips the element's subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}
