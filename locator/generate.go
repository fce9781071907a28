// CLAUDE:SUMMARY Candidate generator: enumerates up to 13 locator candidates per element in fixed priority order.
package locator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/hazyhaar/locscope/dom"
)

// testIDAttrs are checked in order; the first present one wins.
var testIDAttrs = []string{"data-testid", "data-test-id", "data-test", "data-qa", "data-cy"}

const maxTextLen = 100

// Candidates enumerates the locator candidates of el in generation order.
// The XPath fallback is always last, so the result is never empty.
func (e *Engine) Candidates(acc dom.Accessor, el *html.Node) ([]Candidate, error) {
	if !dom.IsElement(el) {
		return nil, fmt.Errorf("%w: not an element", ErrInvalidArgument)
	}

	var out []Candidate
	add := func(k Kind, expr, reason, name string) {
		out = append(out, Candidate{
			Kind:           k,
			Expression:     expr,
			Dialect:        k.Dialect(),
			Reason:         reason,
			AccessibleName: name,
		})
	}

	for _, attr := range testIDAttrs {
		if v := dom.AttrValue(el, attr); v != "" {
			add(KindTestID, attrSelector(attr, v), "test identifier attribute "+attr, "")
			break
		}
	}

	// A name taken only from the placeholder does not make a role candidate.
	role, hasRole := Role(el)
	name, src := resolveName(acc, el)
	roleNamed := src != nameNone && src != namePlaceholder
	if hasRole && roleNamed {
		add(KindRole, `role="`+role+`"`, "ARIA role with accessible name", name)
	}

	if v := dom.AttrValue(el, "aria-label"); v != "" {
		add(KindAriaLabel, attrSelector("aria-label", v), "aria-label attribute", "")
	}

	if v := dom.AttrValue(el, "role"); v != "" && !roleNamed {
		add(KindBareRole, attrSelector("role", v), "role attribute without accessible name", "")
	}

	if label := labelFor(acc, el); label != nil {
		if text := strings.TrimSpace(dom.TextContent(label)); text != "" {
			add(KindLabel, `label:has-text("`+text+`")`, "associated form label", "")
		}
	}

	if text := collapseSpace(dom.TextContent(el)); text != "" &&
		utf8.RuneCountInString(text) <= maxTextLen && !e.policy.IsDynamic(text) {
		add(KindText, `text="`+text+`"`, "stable visible text", "")
	}

	if v := dom.AttrValue(el, "placeholder"); v != "" {
		add(KindPlaceholder, attrSelector("placeholder", v), "placeholder attribute", "")
	}

	if dom.Tag(el) == "img" {
		if v := dom.AttrValue(el, "alt"); v != "" {
			add(KindAlt, `img[alt="`+v+`"]`, "image alt text", "")
		}
	}

	if v := dom.AttrValue(el, "title"); v != "" {
		add(KindTitle, attrSelector("title", v), "title attribute", "")
	}

	if v := dom.AttrValue(el, "name"); v != "" {
		add(KindName, attrSelector("name", v), "name attribute", "")
	}

	if v := dom.AttrValue(el, "id"); v != "" && !strings.Contains(v, ":") {
		add(KindID, "#"+v, "id attribute", "")
	}

	add(KindCSS, CSSPath(acc, e.policy, el), "structural CSS path", "")
	add(KindXPath, XPath(el), "absolute XPath fallback", "")
	return out, nil
}

func attrSelector(attr, value string) string {
	return "[" + attr + `="` + value + `"]`
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
