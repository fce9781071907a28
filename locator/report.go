// CLAUDE:SUMMARY Builds the ElementReport: ranked locators, geometry, visibility, sanitized snippet, ARIA ancestry, attributes.
package locator

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/hazyhaar/locscope/dom"
)

// BuildElementReport analyses el against the document. The only error is
// ErrInvalidArgument for a nil or non-element node.
func (e *Engine) BuildElementReport(acc dom.Accessor, el *html.Node) (*ElementReport, error) {
	if acc == nil {
		return nil, fmt.Errorf("%w: nil accessor", ErrInvalidArgument)
	}
	cands, err := e.Candidates(acc, el)
	if err != nil {
		return nil, err
	}

	box, _ := acc.BoundingBox(el)
	return &ElementReport{
		Tag:              dom.Tag(el),
		Position:         Point{X: box.X, Y: box.Y},
		Size:             Size{Width: box.Width, Height: box.Height},
		IsVisible:        dom.IsVisible(acc, el),
		Locators:         e.Evaluate(acc, el, cands),
		DOMSnippet:       e.snippet(el),
		AriaAncestryPath: ariaAncestry(el),
		Attributes:       dom.Attributes(el),
		URL:              acc.URL(),
		Timestamp:        e.timestamp(),
	}, nil
}

func (e *Engine) snippet(el *html.Node) string {
	return truncateRunes(e.sanitizer.Sanitize(dom.OuterHTML(el)), e.snippetLimit)
}

// snippetElements are the elements kept in a snippet; anything else is
// unwrapped and script/style content is dropped.
var snippetElements = []string{
	"a", "abbr", "article", "aside", "b", "blockquote", "body", "br", "button",
	"caption", "code", "dd", "details", "dialog", "div", "dl", "dt", "em",
	"fieldset", "figcaption", "figure", "footer", "form", "h1", "h2", "h3",
	"h4", "h5", "h6", "header", "hr", "html", "i", "img", "input", "label",
	"legend", "li", "main", "mark", "menu", "nav", "ol", "optgroup", "option",
	"output", "p", "picture", "pre", "progress", "section", "select", "small",
	"source", "span", "strong", "sub", "summary", "sup", "svg", "table",
	"tbody", "td", "textarea", "tfoot", "th", "thead", "tr", "u", "ul",
}

// snippetAttrs are the non-data attributes kept in a snippet.
var snippetAttrs = []string{
	"id", "class", "name", "type", "value", "role", "title", "alt",
	"placeholder", "for", "tabindex", "hidden", "disabled", "checked",
	"aria-label", "aria-labelledby", "aria-describedby", "aria-expanded",
	"aria-pressed", "aria-checked", "aria-selected", "aria-disabled",
	"aria-hidden", "aria-haspopup", "aria-controls", "aria-current",
}

// snippetPolicy keeps structure and locator-relevant attributes but drops
// scripts, event handlers and javascript: URLs.
func snippetPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(snippetElements...)
	p.AllowNoAttrs().OnElements(snippetElements...)
	p.AllowDataAttributes()
	p.AllowAttrs(snippetAttrs...).Globally()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src").OnElements("img")
	return p
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
