// CLAUDE:SUMMARY Locator data model: the 13 candidate kinds with their weight table, dialects, tiers, and report types.
// Package locator generates, scores and ranks locators for DOM elements and
// serializes documents into structural and accessibility snapshots.
//
// Every operation is a pure read over a dom.Accessor: nothing is cached
// between calls and the document is never mutated.
package locator

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when the caller passes something that is
// not an element.
var ErrInvalidArgument = errors.New("locator: invalid argument")

// Kind enumerates the candidate types. The declaration order is the
// generation order, which is also the tie-break order when ranking.
type Kind int

const (
	KindTestID Kind = iota
	KindRole
	KindAriaLabel
	KindBareRole
	KindLabel
	KindText
	KindPlaceholder
	KindAlt
	KindTitle
	KindName
	KindID
	KindCSS
	KindXPath
)

// Dialect is the query language of an expression.
type Dialect string

const (
	DialectCSS   Dialect = "css"
	DialectXPath Dialect = "xpath"
	DialectText  Dialect = "text"
)

type kindInfo struct {
	name    string
	weight  int
	dialect Dialect
}

// kindTable drives naming, scoring and dialect per kind.
var kindTable = [...]kindInfo{
	KindTestID:      {"testid", 85, DialectCSS},
	KindRole:        {"role", 90, DialectText},
	KindAriaLabel:   {"aria-label", 80, DialectCSS},
	KindBareRole:    {"role-attr", 70, DialectCSS},
	KindLabel:       {"label", 45, DialectText},
	KindText:        {"text", 20, DialectText},
	KindPlaceholder: {"placeholder", 50, DialectCSS},
	KindAlt:         {"alt", 40, DialectCSS},
	KindTitle:       {"title", 35, DialectCSS},
	KindName:        {"name", 60, DialectCSS},
	KindID:          {"id", 55, DialectCSS},
	KindCSS:         {"css", 15, DialectCSS},
	KindXPath:       {"xpath", 10, DialectXPath},
}

// Kinds returns every kind in generation order.
func Kinds() []Kind {
	out := make([]Kind, len(kindTable))
	for i := range kindTable {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) valid() bool { return k >= 0 && int(k) < len(kindTable) }

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindTable[k].name
}

// Weight returns the type weight added to the base score.
func (k Kind) Weight() int {
	if !k.valid() {
		return 0
	}
	return kindTable[k].weight
}

// Dialect returns the query language expressions of this kind use.
func (k Kind) Dialect() Dialect {
	if !k.valid() {
		return DialectCSS
	}
	return kindTable[k].dialect
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, info := range kindTable {
		if info.name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown locator kind %q", ErrInvalidArgument, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidArgument, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Candidate is one proposed locator. Immutable once generated.
type Candidate struct {
	Kind           Kind    `json:"kind"`
	Expression     string  `json:"expression"`
	Dialect        Dialect `json:"dialect"`
	Reason         string  `json:"reason"`
	AccessibleName string  `json:"accessibleName,omitempty"`
}

// Tier is a coarse reliability label derived from a score.
type Tier string

const (
	TierExcellent Tier = "Excellent"
	TierGood      Tier = "Good"
	TierFair      Tier = "Fair"
	TierPoor      Tier = "Poor"
)

// TierFor maps a score to its tier.
func TierFor(score int) Tier {
	switch {
	case score >= 80:
		return TierExcellent
	case score >= 60:
		return TierGood
	case score >= 40:
		return TierFair
	default:
		return TierPoor
	}
}

// ScoredLocator is a candidate with its evaluation.
type ScoredLocator struct {
	Candidate
	Score         int  `json:"score"`
	StabilityTier Tier `json:"stabilityTier"`
	MatchCount    int  `json:"matchCount"`
	Dynamic       bool `json:"dynamic"`
}

// Point is a position in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is an extent in CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AriaNode holds the accessibility-relevant attributes of one element,
// keyed by attribute name plus "tag". Absent attributes have no key.
type AriaNode map[string]string

// Tag returns the element tag.
func (n AriaNode) Tag() string { return n["tag"] }

// ElementReport is the full analysis of one element.
type ElementReport struct {
	Tag              string            `json:"tag"`
	Position         Point             `json:"position"`
	Size             Size              `json:"size"`
	IsVisible        bool              `json:"isVisible"`
	Locators         []ScoredLocator   `json:"locators"`
	DOMSnippet       string            `json:"domSnippet"`
	AriaAncestryPath []AriaNode        `json:"ariaAncestryPath"`
	Attributes       map[string]string `json:"attributes"`
	URL              string            `json:"url,omitempty"`
	Timestamp        string            `json:"timestamp"`
}

// Best returns the top-ranked locator.
func (r *ElementReport) Best() ScoredLocator {
	return r.Locators[0]
}
