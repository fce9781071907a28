// CLAUDE:SUMMARY Decodes a live-browser DOM capture (tree + computed style + boxes) into a Document.
package dom

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrEmptyCapture is returned when a capture carries no root element.
var ErrEmptyCapture = errors.New("dom: capture has no root element")

// Capture is the JSON shape produced by the in-page capture script.
type Capture struct {
	URL  string        `json:"url"`
	Root *CapturedNode `json:"root"`
}

// CapturedNode is one node of a capture. Type is "element" or "text".
type CapturedNode struct {
	Type     string          `json:"type"`
	Tag      string          `json:"tag,omitempty"`
	Attrs    [][2]string     `json:"attrs,omitempty"`
	Text     string          `json:"text,omitempty"`
	Style    *Style          `json:"style,omitempty"`
	Box      *Rect           `json:"box,omitempty"`
	Children []*CapturedNode `json:"children,omitempty"`
}

// DecodeCapture parses capture JSON and builds a Document from it.
func DecodeCapture(data []byte) (*Document, error) {
	var c Capture
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("dom: decode capture: %w", err)
	}
	return FromCapture(&c)
}

// FromCapture builds a Document whose style and layout answers come from
// the capture rather than from inline declarations.
func FromCapture(c *Capture) (*Document, error) {
	if c == nil || c.Root == nil || c.Root.Type != "element" {
		return nil, ErrEmptyCapture
	}
	d := &Document{
		doc:    &html.Node{Type: html.DocumentNode},
		url:    c.URL,
		layout: make(map[*html.Node]Layout),
	}
	d.doc.AppendChild(d.build(c.Root))
	return d, nil
}

func (d *Document) build(cn *CapturedNode) *html.Node {
	if cn.Type == "text" {
		return &html.Node{Type: html.TextNode, Data: cn.Text}
	}
	tag := strings.ToLower(cn.Tag)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, kv := range cn.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[0], Val: kv[1]})
	}
	if cn.Style != nil || cn.Box != nil {
		var l Layout
		if cn.Style != nil {
			l.Style = *cn.Style
		}
		if cn.Box != nil {
			l.Box = *cn.Box
		}
		d.layout[n] = l
	}
	for _, child := range cn.Children {
		if child == nil || (child.Type != "element" && child.Type != "text") {
			continue
		}
		n.AppendChild(d.build(child))
	}
	return n
}
