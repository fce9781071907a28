// CLAUDE:SUMMARY Document: Accessor implementation over an x/net/html tree with cascadia CSS and htmlquery XPath execution.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Layout is the live rendering state of one element, as captured from a
// browser.
type Layout struct {
	Style Style
	Box   Rect
}

// Document is an Accessor over an in-memory tree. Without layout (parsed
// HTML) style is derived from inline declarations, the hidden attribute and
// non-rendered tags. With layout (browser capture) the captured values win.
type Document struct {
	doc    *html.Node
	url    string
	layout map[*html.Node]Layout
}

// Parse reads an HTML document.
func Parse(r io.Reader, url string) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse HTML: %w", err)
	}
	return &Document{doc: n, url: url}, nil
}

// ParseString parses an HTML string.
func ParseString(s, url string) (*Document, error) {
	return Parse(strings.NewReader(s), url)
}

// URL implements Accessor.
func (d *Document) URL() string { return d.url }

// Root implements Accessor.
func (d *Document) Root() *html.Node {
	if d.doc == nil {
		return nil
	}
	if d.doc.Type == html.ElementNode {
		return d.doc
	}
	for c := d.doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Body implements Accessor.
func (d *Document) Body() *html.Node {
	root := d.Root()
	if root == nil {
		return nil
	}
	for _, c := range ChildElements(root) {
		if Tag(c) == "body" {
			return c
		}
	}
	return nil
}

// ElementByID implements Accessor.
func (d *Document) ElementByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	return findElement(d.Root(), func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return ok && v == id
	})
}

// QuerySelectorAll implements Accessor.
func (d *Document) QuerySelectorAll(selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("dom: css %q: %w", selector, err)
	}
	return sel.MatchAll(d.doc), nil
}

// Evaluate implements Accessor.
func (d *Document) Evaluate(xpath string) ([]*html.Node, error) {
	nodes, err := htmlquery.QueryAll(d.doc, xpath)
	if err != nil {
		return nil, fmt.Errorf("dom: xpath %q: %w", xpath, err)
	}
	out := nodes[:0]
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
	}
	return out, nil
}

// ComputedStyle implements Accessor.
func (d *Document) ComputedStyle(el *html.Node) Style {
	if l, ok := d.layout[el]; ok {
		return l.Style
	}
	if !IsElement(el) {
		return Style{}
	}
	decl := inlineStyle(el)
	st := Style{Opacity: decl["opacity"]}

	if _, skip := nonRendered[Tag(el)]; skip {
		st.Display = "none"
	} else if _, hidden := Attr(el, "hidden"); hidden {
		st.Display = "none"
	}
	if v, ok := decl["display"]; ok {
		st.Display = v
	}

	// visibility is inherited.
	if v, ok := decl["visibility"]; ok && v != "inherit" {
		st.Visibility = v
	} else if p := ParentElement(el); p != nil {
		st.Visibility = d.ComputedStyle(p).Visibility
	}
	return st
}

// BoundingBox implements Accessor. Parsed documents have no layout; the
// only box they can vouch for is the empty box of an element inside a
// display:none subtree.
func (d *Document) BoundingBox(el *html.Node) (Rect, bool) {
	if l, ok := d.layout[el]; ok {
		return l.Box, true
	}
	for n := el; IsElement(n); n = n.Parent {
		if d.ComputedStyle(n).Display == "none" {
			return Rect{}, true
		}
	}
	return Rect{}, false
}

var nonRendered = map[string]struct{}{
	"head": {}, "script": {}, "style": {}, "template": {}, "title": {},
	"meta": {}, "link": {}, "base": {}, "noscript": {},
}

// inlineStyle parses the style attribute into lower-case property/value pairs.
func inlineStyle(el *html.Node) map[string]string {
	raw, ok := Attr(el, "style")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	decls, err := parser.ParseDeclarations(raw)
	if err != nil {
		return nil
	}
	out := make(map[string]string, len(decls))
	for _, d := range decls {
		out[strings.ToLower(d.Property)] = strings.ToLower(strings.TrimSpace(d.Value))
	}
	return out
}
