package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_Match(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		value string
		rule  string
	}{
		{"order-12345", "numeric-run"},
		{"550e8400-e29b-41d4-a716-446655440000", "numeric-run"},
		{"abcdefab-cdef-abcd-efab-cdefabcdefab", "uuid"},
		{"#ff00aa", "hex-color"},
		{"jss42", "jss-class"},
		{"css1x2y", "mixed-alnum"},
		{"localhost:80", "port-suffix"},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			rule, ok := p.Match(tc.value)
			require.True(t, ok)
			assert.Equal(t, tc.rule, rule)
		})
	}

	for _, stable := range []string{"login-btn", "Submit", "email", "v2", "Log in"} {
		assert.False(t, p.IsDynamic(stable), stable)
	}
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy([]Pattern{{Pattern: `^tmp-`}, {Name: "session", Pattern: `sess_[a-z]+`}})
	require.NoError(t, err)
	assert.Equal(t, []string{"pattern-0", "session"}, p.Names())
	assert.True(t, p.IsDynamic("tmp-row"))
	assert.False(t, p.IsDynamic("order-12345"))

	empty, err := NewPolicy(nil)
	require.NoError(t, err)
	assert.False(t, empty.IsDynamic("jss42"))

	var nilPolicy *Policy
	assert.False(t, nilPolicy.IsDynamic("jss42"))

	_, err = NewPolicy([]Pattern{{Name: "broken", Pattern: `(`}})
	assert.ErrorContains(t, err, "broken")
}

func TestMatchCount(t *testing.T) {
	d := parseDoc(t, `
<label for="a">A</label><input id="a">
<label for="b">B</label><input id="b">
<button>One</button>`)

	cases := []struct {
		name string
		c    Candidate
		want int
	}{
		{"css unique", Candidate{Expression: "button", Dialect: DialectCSS}, 1},
		{"css many", Candidate{Expression: "input", Dialect: DialectCSS}, 2},
		{"css none", Candidate{Expression: "select", Dialect: DialectCSS}, 0},
		{"css invalid", Candidate{Expression: "div[", Dialect: DialectCSS}, 0},
		{"xpath", Candidate{Expression: "//input", Dialect: DialectXPath}, 2},
		{"xpath invalid", Candidate{Expression: "//div[", Dialect: DialectXPath}, 0},
		{"text only", Candidate{Expression: `text="One"`, Dialect: DialectText}, 1},
		{"label reduces to css", Candidate{Expression: `label:has-text("A")`, Dialect: DialectText}, 2},
		{"role is assumed present", Candidate{Expression: `role="button"`, Dialect: DialectText}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchCount(d, tc.c))
		})
	}
}
