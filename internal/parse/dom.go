// ABOUTME: Minimal prefix-preserving XML element tree used for feed field lookups
// ABOUTME: Elements are matched by qualified name (content:encoded) instead of namespace URI

package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// node is either an element (name set) or a run of character data.
type node struct {
	name     string
	text     string
	attrs    []xml.Attr
	children []*node
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// buildTree reads a whole XML document and returns its root element.
// RawToken keeps prefixes intact but does not pair tags, so nesting is
// checked here.
func buildTree(r io.Reader) (*node, error) {
	d := xml.NewDecoder(r)
	d.Strict = true
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charset.NewReaderLabel

	var root *node
	var stack []*node

	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &node{name: qualified(t.Name), attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("second root element <%s>", el.name)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 || stack[len(stack)-1].name != name {
				return nil, fmt.Errorf("unexpected </%s>", name)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, errors.New("text outside root element")
				}
				continue
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, &node{text: string(t)})
		}
	}

	if root == nil {
		return nil, errors.New("no root element")
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("unclosed <%s>", stack[len(stack)-1].name)
	}
	return root, nil
}

// walk visits every descendant element of n in document order.
func (n *node) walk(fn func(*node)) {
	for _, c := range n.children {
		if c.name == "" {
			continue
		}
		fn(c)
		c.walk(fn)
	}
}

// all returns descendant elements with the given qualified name.
func (n *node) all(name string) []*node {
	var out []*node
	n.walk(func(c *node) {
		if c.name == name {
			out = append(out, c)
		}
	})
	return out
}

// first returns the first descendant element with the given qualified name.
func (n *node) first(name string) *node {
	var found *node
	n.walk(func(c *node) {
		if found == nil && c.name == name {
			found = c
		}
	})
	return found
}

func (n *node) attr(name string) string {
	for _, a := range n.attrs {
		if qualified(a.Name) == name {
			return a.Value
		}
	}
	return ""
}

func (n *node) hasElementChildren() bool {
	for _, c := range n.children {
		if c.name != "" {
			return true
		}
	}
	return false
}

// textContent concatenates all descendant character data.
func (n *node) textContent() string {
	if n.name == "" {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.textContent())
	}
	return b.String()
}

// innerXML serializes the children of n back to markup.
func (n *node) innerXML() string {
	var b strings.Builder
	for _, c := range n.children {
		c.writeXML(&b)
	}
	return b.String()
}

func (n *node) writeXML(b *strings.Builder) {
	if n.name == "" {
		b.WriteString(textEscaper.Replace(n.text))
		return
	}
	b.WriteByte('<')
	b.WriteString(n.name)
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(qualified(a.Name))
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.Value))
		b.WriteByte('"')
	}
	if len(n.children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range n.children {
		c.writeXML(b)
	}
	b.WriteString("</")
	b.WriteString(n.name)
	b.WriteByte('>')
}
