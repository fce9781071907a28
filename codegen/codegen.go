// CLAUDE:SUMMARY Renders locator candidates as Playwright (TypeScript) or Selenium (Python) lookup calls from a per-kind template table.
// Package codegen turns locator candidates into test-framework code.
//
// Every locator kind has one template per framework. The literal value is
// parsed back out of the candidate expression, so the input contract is the
// exact expression syntax produced by the locator package. Expressions that
// do not parse fall back to a plain selector lookup.
package codegen

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/hazyhaar/locscope/locator"
)

// ErrUnsupportedFramework is returned for a framework name Emit does not know.
var ErrUnsupportedFramework = errors.New("codegen: unsupported framework")

// Framework is a target test framework.
type Framework string

const (
	Playwright Framework = "playwright"
	Selenium   Framework = "selenium"
)

// Frameworks lists the supported frameworks.
func Frameworks() []Framework { return []Framework{Playwright, Selenium} }

// ParseFramework accepts a framework name in any case. Empty means Playwright.
func ParseFramework(s string) (Framework, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Playwright, nil
	}
	for _, fw := range Frameworks() {
		if name == string(fw) {
			return fw, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnsupportedFramework, s, Frameworks())
}

// template renders one kind. m holds the submatches of re against the
// expression; m[0] is the whole expression.
type template struct {
	re         *regexp.Regexp
	playwright func(m []string, c locator.Candidate) string
	selenium   func(m []string, c locator.Candidate) string
}

var wholeRe = regexp.MustCompile(`^(.+)$`)

func attrPattern(attr string) *regexp.Regexp {
	return regexp.MustCompile(`^\[` + regexp.QuoteMeta(attr) + `="(.*)"\]$`)
}

var templates = map[locator.Kind]template{
	locator.KindTestID: {
		re: regexp.MustCompile(`^\[([a-z-]+)="(.*)"\]$`),
		playwright: func(m []string, _ locator.Candidate) string {
			if m[1] == "data-testid" {
				return call("page.getByTestId", m[2])
			}
			return call("page.locator", m[0])
		},
		selenium: func(m []string, _ locator.Candidate) string { return find("CSS_SELECTOR", m[0]) },
	},
	locator.KindRole: {
		re: regexp.MustCompile(`^role="(.*)"$`),
		playwright: func(m []string, c locator.Candidate) string {
			if c.AccessibleName == "" {
				return call("page.getByRole", m[1])
			}
			return fmt.Sprintf("page.getByRole('%s', { name: '%s' })", escapeString(m[1]), escapeString(c.AccessibleName))
		},
		selenium: func(m []string, c locator.Candidate) string { return find("XPATH", roleXPath(m[1], c.AccessibleName)) },
	},
	locator.KindAriaLabel: {
		re:         attrPattern("aria-label"),
		playwright: func(m []string, _ locator.Candidate) string { return call("page.getByLabel", m[1]) },
		selenium:   func(m []string, _ locator.Candidate) string { return find("CSS_SELECTOR", m[0]) },
	},
	locator.KindBareRole: {
		re:         attrPattern("role"),
		playwright: func(m []string, _ locator.Candidate) string { return call("page.locator", m[0]) },
		selenium:   func(m []string, _ locator.Candidate) string { return find("CSS_SELECTOR", m[0]) },
	},
	locator.KindLabel: {
		re:         regexp.MustCompile(`^label:has-text\("(.*)"\)$`),
		playwright: func(m []string, _ locator.Candidate) string { return call("page.getByLabel", m[1]) },
		selenium: func(m []string, _ locator.Candidate) string {
			return find("XPATH", "//*[@id=//label[normalize-space(.)="+xpathLiteral(m[1])+"]/@for]")
		},
	},
	locator.KindText: {
		re:         regexp.MustCompile(`^text="(.*)"$`),
		playwright: func(m []string, _ locator.Candidate) string { return call("page.getByText", m[1]) },
		selenium: func(m []string, _ locator.Candidate) string {
			return find("XPATH", "//*[normalize-space(text())="+xpathLiteral(m[1])+"]")
		},
	},
	locator.KindPlaceholder: {
		re:         attrPattern("placeholder"),
		playwright: func(m []string, _ locator.Candidate) string { return call("page.getByPlaceholder", m[1]) },
		selenium:   func(m []string, _ locator.Candidate) string { return find("CSS_SELECTOR", m[0]) },
	},
	locator.KindAlt: {
		re:         regexp.MustCompile(`^img\[alt="(.*)"\]$`),
		playwright: func(m []string, _ locator.Candidate) string { return call("page.getByAltText", m[1]) },
		selenium:   func(m []string, _ locator.Candidate) string { return find("CSS_SELECTOR", m[0]) },
	},
	locator.KindTitle: {
		re:         attrPattern("title"),
		playwright: func(m []string, _ locator.Candidate) string { return call("page.getByTitle", m[1]) },
		selenium:   func(m []string, _ locator.Candidate) string { return find("CSS_SELECTOR", m[0]) },
	},
	locator.KindName: {
		re:         attrPattern("name"),
		playwright: func(m []string, _ locator.Candidate) string { return call("page.locator", m[0]) },
		selenium:   func(m []string, _ locator.Candidate) string { return find("NAME", m[1]) },
	},
	locator.KindID: {
		re:         regexp.MustCompile(`^#(.+)$`),
		playwright: func(m []string, _ locator.Candidate) string { return call("page.locator", m[0]) },
		selenium:   func(m []string, _ locator.Candidate) string { return find("ID", m[1]) },
	},
	locator.KindCSS: {
		re:         wholeRe,
		playwright: func(m []string, _ locator.Candidate) string { return call("page.locator", m[0]) },
		selenium:   func(m []string, _ locator.Candidate) string { return find("CSS_SELECTOR", m[0]) },
	},
	locator.KindXPath: {
		re:         wholeRe,
		playwright: func(m []string, _ locator.Candidate) string { return call("page.locator", "xpath="+m[0]) },
		selenium:   func(m []string, _ locator.Candidate) string { return find("XPATH", m[0]) },
	},
}

// Emit renders one candidate for fw. The output depends only on its
// arguments.
func Emit(c locator.Candidate, fw Framework) (string, error) {
	if !slices.Contains(Frameworks(), fw) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFramework, string(fw))
	}
	tpl, ok := templates[c.Kind]
	if ok {
		if m := tpl.re.FindStringSubmatch(c.Expression); m != nil {
			if fw == Playwright {
				return tpl.playwright(m, c), nil
			}
			return tpl.selenium(m, c), nil
		}
	}
	return fallback(c.Expression, fw), nil
}

func fallback(expr string, fw Framework) string {
	if fw == Playwright {
		return call("page.locator", expr)
	}
	return find("CSS_SELECTOR", expr)
}

// Rendered is one ranked locator with its code.
type Rendered struct {
	Kind       locator.Kind `json:"kind"`
	Expression string       `json:"expression"`
	Score      int          `json:"score"`
	Code       string       `json:"code"`
}

// EmitAll renders every locator in rank order.
func EmitAll(locs []locator.ScoredLocator, fw Framework) ([]Rendered, error) {
	out := make([]Rendered, 0, len(locs))
	for _, l := range locs {
		code, err := Emit(l.Candidate, fw)
		if err != nil {
			return nil, err
		}
		out = append(out, Rendered{Kind: l.Kind, Expression: l.Expression, Score: l.Score, Code: code})
	}
	return out, nil
}

func call(fn, arg string) string {
	return fn + "('" + escapeString(arg) + "')"
}

func find(by, arg string) string {
	return "driver.find_element(By." + by + ", '" + escapeString(arg) + "')"
}

// roleXPath matches the explicit role or any tag carrying it implicitly,
// narrowed by accessible name when one is known. The name test covers every
// source the name resolver reads: aria-label, aria-labelledby, own text,
// label[for], placeholder and alt.
func roleXPath(role, name string) string {
	alts := []string{"@role=" + xpathLiteral(role)}
	for _, tag := range locator.ImplicitTags(role) {
		alts = append(alts, "self::"+tag)
	}
	pred := "(" + strings.Join(alts, " or ") + ")"
	if name != "" {
		lit := xpathLiteral(name)
		names := []string{
			"normalize-space(.)=" + lit,
			"@aria-label=" + lit,
			"@placeholder=" + lit,
			"@alt=" + lit,
			"@id=//label[normalize-space(.)=" + lit + "]/@for",
			"@aria-labelledby=//*[normalize-space(.)=" + lit + "]/@id",
		}
		pred += " and (" + strings.Join(names, " or ") + ")"
	}
	return "//*[" + pred + "]"
}

// escapeString escapes s for a single-quoted JavaScript or Python literal.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so a value holding both quote kinds becomes a concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	args := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if p != "" {
			args = append(args, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
