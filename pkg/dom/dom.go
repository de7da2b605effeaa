// Package dom is a small headless document model over golang.org/x/net/html.
// Elements are looked up by CSS selector; click handlers are kept beside the
// tree, one per element, like an onclick property.
//
// A Document is not safe for concurrent use. It belongs to one page loop.
package dom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Document struct {
	root      *html.Node
	handlers  map[*html.Node]func(context.Context)
	selectors map[string]cascadia.Selector
	policy    *bluemonday.Policy
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	policy.AllowAttrs("id").Globally()

	return &Document{
		root:      root,
		handlers:  make(map[*html.Node]func(context.Context)),
		selectors: make(map[string]cascadia.Selector),
		policy:    policy,
	}, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) compile(selector string) cascadia.Selector {
	if sel, ok := d.selectors[selector]; ok {
		return sel
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	d.selectors[selector] = sel
	return sel
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

// Query returns the first element matching selector, or nil. An invalid
// selector matches nothing.
func (d *Document) Query(selector string) *Element {
	sel := d.compile(selector)
	if sel == nil {
		return nil
	}
	return d.wrap(sel.MatchFirst(d.root))
}

func (d *Document) QueryAll(selector string) []*Element {
	sel := d.compile(selector)
	if sel == nil {
		return nil
	}
	nodes := sel.MatchAll(d.root)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

func (d *Document) ByID(id string) *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return d.wrap(found)
}

func (d *Document) Body() *Element {
	return d.Query("body")
}

// CreateElement makes a detached element.
func (d *Document) CreateElement(tag string) *Element {
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// Click runs the element's click handler and reports whether it had one.
func (d *Document) Click(ctx context.Context, e *Element) bool {
	if e == nil {
		return false
	}
	fn, ok := d.handlers[e.node]
	if !ok {
		return false
	}
	fn(ctx)
	return true
}

func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// walk visits n and its descendants depth first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
