// Package svgdoc is a small document model for pages embedding inline SVG.
// Pages are parsed with golang.org/x/net/html, elements are looked up by
// id or class, and SVG subtrees are cloned and serialized back to markup
// a standalone SVG decoder accepts.
package svgdoc

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// ErrNotElement is returned when serializing something that is not an element.
var ErrNotElement = errors.New("svgdoc: node is not an element")

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads an HTML page. The encoding is sniffed from the content,
// as a browser would do for a page served without a charset.
func Parse(r io.Reader) (*Document, error) {
	utf8, err := charset.NewReader(r, "")
	if err != nil {
		return nil, errors.Wrap(err, "svgdoc: detecting charset")
	}
	root, err := html.Parse(utf8)
	if err != nil {
		return nil, errors.Wrap(err, "svgdoc: parsing page")
	}
	return &Document{root: root}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(page string) (*Document, error) {
	return Parse(strings.NewReader(page))
}

// ElementByID returns the first element whose id attribute is id, or nil.
func (d *Document) ElementByID(id string) *Element {
	n := find(d.root, func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})
	return wrap(n)
}

// FirstByClass returns the first element, in document order, carrying class
// among its class tokens, or nil.
func (d *Document) FirstByClass(class string) *Element {
	n := find(d.root, func(n *html.Node) bool {
		v, ok := attr(n, "class")
		if !ok {
			return false
		}
		for _, c := range strings.Fields(v) {
			if c == class {
				return true
			}
		}
		return false
	})
	return wrap(n)
}

func wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{node: n}
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Element is a reference to an element of a Document, or to a detached clone.
type Element struct {
	node *html.Node
}

// Name returns the local tag name ("svg", "button", ...).
func (e *Element) Name() string {
	if e == nil || e.node == nil {
		return ""
	}
	return e.node.Data
}

// IsSVG reports whether e is an <svg> element in the SVG namespace.
func (e *Element) IsSVG() bool {
	return e != nil && e.node != nil && e.node.Type == html.ElementNode &&
		e.node.DataAtom == atom.Svg && e.node.Namespace == "svg"
}

// Attribute returns the value of a non namespaced attribute.
func (e *Element) Attribute(name string) (string, bool) {
	if e == nil || e.node == nil {
		return "", false
	}
	return attr(e.node, name)
}

// SetAttribute adds or replaces a non namespaced attribute.
func (e *Element) SetAttribute(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// Clone returns a deep copy of e, detached from its document.
func (e *Element) Clone() *Element {
	return &Element{node: cloneNode(e.node)}
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}

// Serialize renders e and its subtree as markup.
func (e *Element) Serialize() (string, error) {
	if e == nil || e.node == nil || e.node.Type != html.ElementNode {
		return "", ErrNotElement
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return "", errors.Wrapf(err, "svgdoc: serializing <%s>", e.node.Data)
	}
	return buf.String(), nil
}
