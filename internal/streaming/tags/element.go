package tags

// Attr is a single name="value" pair of an element
type Attr struct {
	Name  string
	Value string
}

// Element is one open tag: its name and attributes in document order
type Element struct {
	Name  string
	Attrs []Attr
}

// Attr returns the value of the named attribute, or "" when absent
func (e *Element) Attr(name string) string {
	v, _ := e.Lookup(name)
	return v
}

// Lookup returns the value of the named attribute and whether it was present
func (e *Element) Lookup(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			return e.Attrs[i].Value, true
		}
	}
	return "", false
}

// Is reports whether the element has the given tag name
func (e *Element) Is(name string) bool {
	return e != nil && e.Name == name
}

// Path is the chain of currently open elements, outermost first.
// The walker reuses the backing array; handlers must not keep a Path
// beyond the callback that received it.
type Path []*Element

// Last returns the innermost element, or nil for an empty path
func (p Path) Last() *Element {
	return p.At(0)
}

// At returns the element back levels above the innermost one (At(0) is Last),
// or nil when the path is not that deep
func (p Path) At(back int) *Element {
	i := len(p) - 1 - back
	if back < 0 || i < 0 {
		return nil
	}
	return p[i]
}

// Trim returns the path without its innermost n elements, or nil when the
// path has fewer than n elements
func (p Path) Trim(n int) Path {
	if n < 0 || n > len(p) {
		return nil
	}
	return p[:len(p)-n]
}

// EndsWith reports whether the innermost tag names equal names, in order
func (p Path) EndsWith(names ...string) bool {
	n := len(names)
	if len(p) < n {
		return false
	}
	for i, name := range names {
		if p[len(p)-n+i].Name != name {
			return false
		}
	}
	return true
}

// Handler receives element events from a Walker.
// CloseElement is called while the closing element is still the innermost
// path entry, so both callbacks see the same path for a given element.
type Handler interface {
	OpenElement(path Path)
	CloseElement(path Path)
}
