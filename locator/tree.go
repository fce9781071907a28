// CLAUDE:SUMMARY Tree serializer: depth-capped structural DOM snapshot and filtered accessibility node list.
package locator

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/locscope/dom"
)

const maxTreeDepth = 20

// TreeNode is one node of the structural snapshot. Element nodes carry tag,
// attributes and children; text nodes carry textContent only.
type TreeNode struct {
	Type        string            `json:"type"`
	Tag         string            `json:"tag,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Children    []*TreeNode       `json:"children,omitempty"`
	TextContent string            `json:"textContent,omitempty"`
}

// DocumentTree serializes the document element depth-first. Elements deeper
// than 20 levels below the root are pruned. Returns nil for an empty tree.
func (e *Engine) DocumentTree(acc dom.Accessor) *TreeNode {
	return serializeNode(acc.Root(), 0)
}

func serializeNode(n *html.Node, depth int) *TreeNode {
	if !dom.IsElement(n) || depth > maxTreeDepth {
		return nil
	}
	out := &TreeNode{
		Type:       "element",
		Tag:        dom.Tag(n),
		Attributes: dom.Attributes(n),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if child := serializeNode(c, depth+1); child != nil {
				out.Children = append(out.Children, child)
			}
		case html.TextNode:
			if text := strings.TrimSpace(c.Data); text != "" {
				out.Children = append(out.Children, &TreeNode{Type: "text", TextContent: text})
			}
		}
	}
	return out
}

// AriaSnapshot is the accessibility-relevant view of a whole document.
type AriaSnapshot struct {
	ID         string     `json:"id"`
	TotalNodes int        `json:"totalNodes"`
	Nodes      []AriaNode `json:"nodes"`
	Timestamp  string     `json:"timestamp"`
	URL        string     `json:"url"`
}

// ariaAttrs are recorded when present, in this order.
var ariaAttrs = []string{
	"role",
	"aria-label", "aria-labelledby", "aria-describedby",
	"aria-expanded", "aria-pressed", "aria-checked", "aria-selected",
	"aria-disabled", "aria-hidden", "aria-haspopup", "aria-controls",
	"aria-live", "aria-current", "aria-level", "aria-required",
	"tabindex", "id", "name",
}

// stateAttrs are boolean attributes recorded as "true" when present.
var stateAttrs = []string{"disabled", "checked"}

var (
	skippedTags = map[string]bool{"script": true, "style": true, "noscript": true}

	semanticTags = map[string]bool{
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"button": true, "a": true, "form": true, "input": true, "select": true, "textarea": true,
	}

	salientAttrs = []string{"role", "aria-label", "aria-expanded", "aria-pressed"}
	identAttrs   = []string{"id", "name", "dataTestId"}
)

// AccessibilityTree lists, in document order, every rendered descendant of
// body that carries an ARIA signal, a semantic tag, an identifier or text.
func (e *Engine) AccessibilityTree(acc dom.Accessor) *AriaSnapshot {
	snap := &AriaSnapshot{
		ID:        e.newID(),
		Nodes:     []AriaNode{},
		Timestamp: e.timestamp(),
		URL:       acc.URL(),
	}
	body := acc.Body()
	if body == nil {
		return snap
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		dom.Walk(c, func(el *html.Node) bool {
			if node, ok := ariaRecord(acc, el); ok {
				snap.Nodes = append(snap.Nodes, node)
			}
			return true
		})
	}
	snap.TotalNodes = len(snap.Nodes)
	return snap
}

func ariaRecord(acc dom.Accessor, el *html.Node) (AriaNode, bool) {
	tag := dom.Tag(el)
	if skippedTags[tag] {
		return nil, false
	}
	st := acc.ComputedStyle(el)
	if st.Display == "none" || st.Visibility == "hidden" {
		return nil, false
	}

	node := AriaNode{"tag": tag}
	for _, a := range ariaAttrs {
		if v, ok := dom.Attr(el, a); ok {
			node[a] = v
		}
	}
	for _, a := range stateAttrs {
		if _, ok := dom.Attr(el, a); ok {
			node[a] = "true"
		}
	}
	for _, a := range testIDAttrs {
		if v := dom.AttrValue(el, a); v != "" {
			node["dataTestId"] = v
			break
		}
	}
	if text := truncateRunes(strings.TrimSpace(dom.TextContent(el)), maxTextLen); text != "" {
		node["textContent"] = text
	}

	if semanticTags[tag] || node["textContent"] != "" {
		return node, true
	}
	for _, k := range salientAttrs {
		if _, ok := node[k]; ok {
			return node, true
		}
	}
	for _, k := range identAttrs {
		if node[k] != "" {
			return node, true
		}
	}
	return nil, false
}
