// Package view turns collection snapshots into small presentational trees
// that render to HTML for the daemon and to styled text for the terminal.
package view

import (
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is one element of a rendered view.
type Node struct {
	Tag string `json:"tag"`
	// Component names the view that produced the node, e.g. "KakapoItem".
	Component string            `json:"component,omitempty"`
	Class     string            `json:"class,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Text      string            `json:"text,omitempty"`
	Children  []*Node           `json:"children,omitempty"`
}

// Find returns all descendants (not including n) produced by component.
func (n *Node) Find(component string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Component == component {
			out = append(out, c)
		}
		out = append(out, c.Find(component)...)
	}
	return out
}

// HTML renders the tree as an HTML fragment.
func (n *Node) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n.htmlNode()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (n *Node) htmlNode() *html.Node {
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	if n.Class != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: n.Class})
	}
	for _, k := range sortedKeys(n.Attrs) {
		el.Attr = append(el.Attr, html.Attribute{Key: k, Val: n.Attrs[k]})
	}
	if n.Text != "" {
		el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}
	for _, c := range n.Children {
		el.AppendChild(c.htmlNode())
	}
	return el
}
