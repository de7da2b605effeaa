package dom

import (
	"bytes"
	"context"
	"strings"

	"golang.org/x/net/html"
)

type Element struct {
	doc  *Document
	node *html.Node
}

// Query finds the first descendant matching selector.
func (e *Element) Query(selector string) *Element {
	sel := e.doc.compile(selector)
	if sel == nil {
		return nil
	}
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if n := sel.MatchFirst(c); n != nil {
			return e.doc.wrap(n)
		}
	}
	return nil
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) RemoveAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Key != name {
			attrs = append(attrs, a)
		}
	}
	e.node.Attr = attrs
}

func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}

func (e *Element) Text() string {
	var b strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return b.String()
}

func (e *Element) clear() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}

// SetText replaces the element's children with a single text node.
func (e *Element) SetText(s string) {
	e.clear()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// SetInnerHTML replaces the element's children with fragment after
// sanitizing it.
func (e *Element) SetInnerHTML(fragment string) error {
	clean := e.doc.policy.Sanitize(fragment)
	nodes, err := html.ParseFragment(strings.NewReader(clean), e.node)
	if err != nil {
		return err
	}
	e.clear()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&buf, c)
	}
	return buf.String()
}

func (e *Element) AppendChild(child *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches the element from the document.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
	delete(e.doc.handlers, e.node)
}

// Attached reports whether the element is still in the document tree.
func (e *Element) Attached() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// OnClick sets the click handler, replacing any previous one.
func (e *Element) OnClick(fn func(context.Context)) {
	e.doc.handlers[e.node] = fn
}

func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.SetAttr("class", strings.Join(append(e.Classes(), name), " "))
}

func (e *Element) RemoveClass(name string) {
	var keep []string
	for _, c := range e.Classes() {
		if c != name {
			keep = append(keep, c)
		}
	}
	e.SetAttr("class", strings.Join(keep, " "))
}
