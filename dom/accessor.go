// CLAUDE:SUMMARY Read-only Document Accessor contract shared by the static HTML and live browser backends.
// Package dom exposes a read-only view over a document tree.
//
// Elements are addressed as *html.Node from golang.org/x/net/html. The
// Accessor interface adds what the tree alone cannot answer: computed style,
// layout boxes, id lookup and query execution in the CSS and XPath dialects.
// Two implementations exist: Document built from parsed HTML, and Document
// built from a live browser capture (see FromCapture).
package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Accessor is the read-only capability every locator component is built on.
// Implementations must not mutate the tree.
type Accessor interface {
	// Root returns the document element (<html>), or nil for an empty tree.
	Root() *html.Node
	// Body returns the <body> element, or nil.
	Body() *html.Node
	// URL returns the document URL, empty when unknown.
	URL() string
	// ElementByID returns the first element in document order whose id
	// attribute equals id.
	ElementByID(id string) *html.Node
	// ComputedStyle returns the visibility-relevant computed style of el.
	ComputedStyle(el *html.Node) Style
	// BoundingBox returns the rendered box of el. ok is false when the
	// backend has no layout information for el.
	BoundingBox(el *html.Node) (box Rect, ok bool)
	// QuerySelectorAll runs a CSS selector against the whole document.
	QuerySelectorAll(selector string) ([]*html.Node, error)
	// Evaluate runs an XPath expression against the whole document.
	Evaluate(xpath string) ([]*html.Node, error)
}

// Style carries the computed values that decide visibility. Values use the
// CSS computed-value spelling; empty means the initial value.
type Style struct {
	Display    string `json:"display,omitempty"`
	Visibility string `json:"visibility,omitempty"`
	Opacity    string `json:"opacity,omitempty"`
}

// Hidden reports whether the style alone makes an element invisible.
func (s Style) Hidden() bool {
	if s.Display == "none" || s.Visibility == "hidden" {
		return true
	}
	if s.Opacity == "" {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s.Opacity), 64)
	return err == nil && v == 0
}

// Rect is a layout box in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the box has no rendered area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// IsVisible reports whether el is currently rendered: its style does not
// hide it and, when layout is known, its box has a nonzero area.
func IsVisible(acc Accessor, el *html.Node) bool {
	if acc.ComputedStyle(el).Hidden() {
		return false
	}
	if box, ok := acc.BoundingBox(el); ok && box.Empty() {
		return false
	}
	return true
}
