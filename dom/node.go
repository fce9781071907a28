package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// IsElement reports whether n is a non-nil element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Tag returns the lower-case tag name of an element.
func Tag(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}
	return strings.ToLower(n.Data)
}

// Attr returns the value of an attribute on a node.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrValue returns the attribute value, or "" when absent.
func AttrValue(n *html.Node, key string) string {
	v, _ := Attr(n, key)
	return v
}

// Attributes returns every attribute of n as a map. Never nil for an element.
func Attributes(n *html.Node) map[string]string {
	out := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		out[key] = a.Val
	}
	return out
}

// ParentElement returns the parent of n if it is an element.
func ParentElement(n *html.Node) *html.Node {
	if n == nil || !IsElement(n.Parent) {
		return nil
	}
	return n.Parent
}

// ChildElements returns the element children of n in document order.
func ChildElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// PrecedingSameTag counts the element siblings before n that share its tag.
func PrecedingSameTag(n *html.Node) int {
	tag := Tag(n)
	count := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && Tag(s) == tag {
			count++
		}
	}
	return count
}

// TextContent concatenates every descendant text node, like DOM textContent.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// OuterHTML renders n and its subtree.
func OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// Walk visits n and its element descendants in document order. Returning
// false from fn skips the subtree below the current element.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if n.Type == html.ElementNode && !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// findElement returns the first element under root (inclusive) matching fn.
func findElement(root *html.Node, fn func(*html.Node) bool) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if fn(n) {
			found = n
			return false
		}
		return true
	})
	return found
}
