package locator

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/locscope/dom"
)

const (
	maxSelectorDepth = 5
	maxAncestryDepth = 10
)

// suffixAttrs are tried in order for the single attribute suffix per level.
var suffixAttrs = []string{"name", "placeholder", "title", "type"}

// CSSPath builds a child-combinator path of at most five levels below body.
// A colon-free id short-circuits to #id.
func CSSPath(acc dom.Accessor, policy *Policy, el *html.Node) string {
	if id := dom.AttrValue(el, "id"); id != "" && !strings.Contains(id, ":") {
		return "#" + id
	}

	body := acc.Body()
	var parts []string
	for cur, depth := el, 0; dom.IsElement(cur) && cur != body && depth < maxSelectorDepth; cur, depth = cur.Parent, depth+1 {
		parts = append(parts, cssStep(policy, cur))
	}
	if len(parts) == 0 {
		return dom.Tag(el)
	}
	slices.Reverse(parts)
	return strings.Join(parts, " > ")
}

func cssStep(policy *Policy, el *html.Node) string {
	var b strings.Builder
	b.WriteString(dom.Tag(el))

	if fields := strings.Fields(dom.AttrValue(el, "class")); len(fields) > 0 && !strings.Contains(fields[0], ":") {
		b.WriteString(".")
		b.WriteString(fields[0])
	}

	for _, attr := range suffixAttrs {
		v := dom.AttrValue(el, attr)
		if v == "" || policy.IsDynamic(v) {
			continue
		}
		b.WriteString("[" + attr + `="` + v + `"]`)
		break
	}
	return b.String()
}

// XPath builds an absolute path from the root element. An id short-circuits
// to an id predicate. Positions count only same-tag preceding siblings and
// are omitted for the first of a tag, so //div/div means "some div".
func XPath(el *html.Node) string {
	if id := dom.AttrValue(el, "id"); id != "" {
		return `//*[@id="` + id + `"]`
	}

	var parts []string
	for cur := el; dom.IsElement(cur); cur = cur.Parent {
		step := dom.Tag(cur)
		if n := dom.PrecedingSameTag(cur); n > 0 {
			step += "[" + strconv.Itoa(n+1) + "]"
		}
		parts = append(parts, step)
	}
	slices.Reverse(parts)
	return "/" + strings.Join(parts, "/")
}

// ariaAncestry lists, root first, the accessibility attributes of el and up
// to nine ancestors. Elements carrying nothing but their tag are skipped.
func ariaAncestry(el *html.Node) []AriaNode {
	path := []AriaNode{}
	for cur, depth := el, 0; dom.IsElement(cur) && depth < maxAncestryDepth; cur, depth = cur.Parent, depth+1 {
		node := AriaNode{"tag": dom.Tag(cur)}
		for _, a := range cur.Attr {
			if a.Key == "role" || a.Key == "tabindex" || strings.HasPrefix(a.Key, "aria-") {
				node[a.Key] = a.Val
			}
		}
		if len(node) > 1 {
			path = append(path, node)
		}
	}
	slices.Reverse(path)
	return path
}
