package locator

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/locscope/dom"
)

// implicitRoles maps tags to their implicit ARIA role. Inputs are refined by
// inputRoles.
var implicitRoles = map[string]string{
	"button":   "button",
	"a":        "link",
	"input":    "textbox",
	"textarea": "textbox",
	"select":   "combobox",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"nav":      "navigation",
	"main":     "main",
	"form":     "form",
}

var inputRoles = map[string]string{
	"checkbox": "checkbox",
	"radio":    "radio",
	"submit":   "button",
	"button":   "button",
}

// Role returns the explicit role attribute, or the implicit role of the tag.
func Role(el *html.Node) (string, bool) {
	if r := dom.AttrValue(el, "role"); r != "" {
		return r, true
	}
	tag := dom.Tag(el)
	if tag == "input" {
		if r, ok := inputRoles[strings.ToLower(dom.AttrValue(el, "type"))]; ok {
			return r, true
		}
	}
	r, ok := implicitRoles[tag]
	return r, ok
}

// ImplicitTags returns the tags whose implicit role is role, sorted.
func ImplicitTags(role string) []string {
	var tags []string
	for tag, r := range implicitRoles {
		if r == role {
			tags = append(tags, tag)
		}
	}
	if role == "button" || role == "checkbox" || role == "radio" {
		tags = append(tags, "input")
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}

// nameSource records where an accessible name came from.
type nameSource int

const (
	nameNone nameSource = iota
	nameAriaLabel
	nameLabelledBy
	nameContent
	nameLabel
	namePlaceholder
	nameAlt
)

// AccessibleName resolves the simplified accessible name of el. The first
// source that applies wins, even when it yields an empty string.
func AccessibleName(acc dom.Accessor, el *html.Node) (string, bool) {
	name, src := resolveName(acc, el)
	return name, src != nameNone
}

func resolveName(acc dom.Accessor, el *html.Node) (string, nameSource) {
	if v := dom.AttrValue(el, "aria-label"); v != "" {
		return v, nameAriaLabel
	}
	if ref := dom.AttrValue(el, "aria-labelledby"); ref != "" {
		if target := acc.ElementByID(ref); target != nil {
			return named(strings.TrimSpace(dom.TextContent(target)), nameLabelledBy)
		}
	}

	switch dom.Tag(el) {
	case "button", "a":
		return named(strings.TrimSpace(dom.TextContent(el)), nameContent)
	case "input":
		if label := labelFor(acc, el); label != nil {
			return named(strings.TrimSpace(dom.TextContent(label)), nameLabel)
		}
		return named(dom.AttrValue(el, "placeholder"), namePlaceholder)
	case "img":
		return named(dom.AttrValue(el, "alt"), nameAlt)
	}
	return "", nameNone
}

// labelFor returns the first label[for=id] of el.
func labelFor(acc dom.Accessor, el *html.Node) *html.Node {
	id := dom.AttrValue(el, "id")
	if id == "" {
		return nil
	}
	labels, err := acc.QuerySelectorAll("label[for=" + cssString(id) + "]")
	if err != nil || len(labels) == 0 {
		return nil
	}
	return labels[0]
}

func named(s string, src nameSource) (string, nameSource) {
	if s == "" {
		return "", nameNone
	}
	return s, src
}

// cssString quotes s as a CSS string literal.
func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}
