// Package xmltree provides a read-only tree-query layer over legacy metadata
// XML. The record mapper reaches into the tree with path queries
// (FindFirst/FindAll) and never sees the underlying encoding/xml types, so
// the XML representation stays contained in this one package.
//
// Element name matching is case sensitive by design: VAULT metadata contains
// both <origininfo> and <originInfo> elements with different contents and
// the two must not be conflated.
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element in the parsed metadata tree.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node

	text strings.Builder
}

// Parse reads an XML document and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	decoder := xml.NewDecoder(r)
	// VAULT exports occasionally carry Latin-1 declarations; read them as-is.
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var root *Node
	var stack []*Node

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					node.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements: %s and %s", root.Name, node.Name)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("no root element found")
	}
	return root, nil
}

// ParseString parses an XML document held in a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// Text returns the node's own character data with surrounding whitespace
// trimmed. Returns "" for a nil node so lookups chain safely.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.text.String())
}

// Attr returns the value of the named attribute, or "" if absent.
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// FindAll returns every descendant reached by following the path of element
// names from this node. An empty path returns the node itself.
func (n *Node) FindAll(path ...string) []*Node {
	if n == nil {
		return nil
	}
	current := []*Node{n}
	for _, name := range path {
		var next []*Node
		for _, node := range current {
			for _, child := range node.Children {
				if child.Name == name {
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

// FindFirst returns the first node reached by the path, or nil.
func (n *Node) FindFirst(path ...string) *Node {
	nodes := n.FindAll(path...)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// FirstText returns the trimmed text of the first node on the path, or "".
func (n *Node) FirstText(path ...string) string {
	return n.FindFirst(path...).Text()
}

// AllText returns the trimmed, non-empty texts of every node on the path.
func (n *Node) AllText(path ...string) []string {
	var out []string
	for _, node := range n.FindAll(path...) {
		if s := node.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
