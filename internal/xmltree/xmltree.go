// Package xmltree holds the minimal XML DOM shared by the record codec, the
// response classifier and the user and field metadata readers.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Attr is a single attribute, kept in document order.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the tree. Text holds the concatenated character
// data found directly inside the element.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Text     string
}

// New creates a detached element.
func New(name string, attrs ...Attr) *Element {
	return &Element{Name: name, Attrs: attrs}
}

// Add appends a new child element and returns it.
func (e *Element) Add(name string, attrs ...Attr) *Element {
	child := New(name, attrs...)
	e.Children = append(e.Children, child)
	return child
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Find walks a slash separated path of child names below e. A leading slash
// anchors the path at e itself, so "/response/result" matches only when e is
// the response element.
func (e *Element) Find(path string) []*Element {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	current := []*Element{e}
	if strings.HasPrefix(path, "/") {
		if e.Name != parts[0] {
			return nil
		}
		parts = parts[1:]
	}
	for _, part := range parts {
		if part == "" {
			continue
		}
		var next []*Element
		for _, el := range current {
			for _, child := range el.Children {
				if child.Name == part {
					next = append(next, child)
				}
			}
		}
		current = next
	}
	return current
}

// Descendants returns every element named name below e, in document order.
func (e *Element) Descendants(name string) []*Element {
	var out []*Element
	for _, child := range e.Children {
		if child.Name == name {
			out = append(out, child)
		}
		out = append(out, child.Descendants(name)...)
	}
	return out
}

// First returns the first descendant named name, or nil.
func (e *Element) First(name string) *Element {
	for _, child := range e.Children {
		if child.Name == name {
			return child
		}
		if found := child.First(name); found != nil {
			return found
		}
	}
	return nil
}

// Parse reads a whole document and returns its root element.
func Parse(data []byte) (*Element, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = true

	var stack []*Element
	var root *Element

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("unexpected element %s after document end", t.Name.Local)
			}
			elem := &Element{Name: t.Name.Local}
			for _, a := range t.Attr {
				elem.Attrs = append(elem.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, elem)
			} else {
				root = elem
			}
			stack = append(stack, elem)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isIgnorableOutsideRoot(string(t)) {
					return nil, fmt.Errorf("unexpected character data outside root element")
				}
				continue
			}
			stack[len(stack)-1].Text += string(t)
		}
	}

	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}

	return root, nil
}

func isIgnorableOutsideRoot(data string) bool {
	for _, r := range data {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Marshal serialises e and its children without an XML declaration.
func Marshal(e *Element) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := encode(enc, e); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(enc *xml.Encoder, e *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, child := range e.Children {
		if err := encode(enc, child); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
