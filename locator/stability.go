// CLAUDE:SUMMARY Stability analysis: ordered, configurable dynamic-value pattern policy and per-dialect match counting that never fails.
package locator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hazyhaar/locscope/dom"
)

// Pattern is one named dynamic-value heuristic, as written in config.
type Pattern struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
}

// DefaultPatterns returns the built-in heuristics in evaluation order.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Name: "numeric-run", Pattern: `\d{4,}`},
		{Name: "uuid", Pattern: `(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`},
		{Name: "hex-color", Pattern: `#[0-9a-fA-F]{6}`},
		{Name: "jss-class", Pattern: `jss\d+`},
		{Name: "mixed-alnum", Pattern: `[a-zA-Z]+\d+[a-zA-Z]+\d+`},
		{Name: "port-suffix", Pattern: `:\d+`},
		{Name: "epoch-timestamp", Pattern: `\d{13,}`},
	}
}

type rule struct {
	name string
	re   *regexp.Regexp
}

// Policy is an ordered list of dynamic-value heuristics. It is immutable
// and safe for concurrent use.
type Policy struct {
	rules []rule
}

// NewPolicy compiles patterns in order. An empty list yields a policy that
// flags nothing.
func NewPolicy(patterns []Pattern) (*Policy, error) {
	p := &Policy{rules: make([]rule, 0, len(patterns))}
	for i, pt := range patterns {
		re, err := regexp.Compile(pt.Pattern)
		if err != nil {
			return nil, fmt.Errorf("locator: dynamic pattern %d (%s): %w", i, pt.Name, err)
		}
		name := pt.Name
		if name == "" {
			name = fmt.Sprintf("pattern-%d", i)
		}
		p.rules = append(p.rules, rule{name: name, re: re})
	}
	return p, nil
}

// DefaultPolicy compiles DefaultPatterns.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return p
}

// Match returns the name of the first rule that flags value. A nil Policy
// flags nothing.
func (p *Policy) Match(value string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, r := range p.rules {
		if r.re.MatchString(value) {
			return r.name, true
		}
	}
	return "", false
}

// IsDynamic reports whether value looks generated.
func (p *Policy) IsDynamic(value string) bool {
	_, ok := p.Match(value)
	return ok
}

// Names lists the rule names in order.
func (p *Policy) Names() []string {
	out := make([]string, len(p.rules))
	for i, r := range p.rules {
		out[i] = r.name
	}
	return out
}

var (
	textOperandRe  = regexp.MustCompile(`text="(?:[^"\\]|\\.)*"`)
	labelHasTextRe = regexp.MustCompile(`label:has-text\("(?:[^"\\]|\\.)*"\)`)
)

// MatchCount returns how many elements of the document the candidate
// matches under its dialect. It never fails: invalid CSS or XPath counts as
// 0, and text queries that cannot be reduced to CSS are assumed present (1).
func MatchCount(acc dom.Accessor, c Candidate) int {
	switch c.Dialect {
	case DialectXPath:
		nodes, err := acc.Evaluate(c.Expression)
		if err != nil {
			return 0
		}
		return len(nodes)
	case DialectText:
		return textMatchCount(acc, c.Expression)
	default:
		nodes, err := acc.QuerySelectorAll(c.Expression)
		if err != nil {
			return 0
		}
		return len(nodes)
	}
}

func textMatchCount(acc dom.Accessor, expr string) int {
	rest := labelHasTextRe.ReplaceAllString(expr, "label")
	rest = strings.TrimSpace(textOperandRe.ReplaceAllString(rest, ""))
	if rest == "" {
		return 1
	}
	nodes, err := acc.QuerySelectorAll(rest)
	if err != nil || len(nodes) == 0 {
		return 1
	}
	return len(nodes)
}
