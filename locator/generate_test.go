package locator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates_Order(t *testing.T) {
	cases := []struct {
		name string
		body string
		sel  string
		want []Kind
	}{
		{
			name: "test id button",
			body: `<button data-testid="login-btn">Log in</button>`,
			sel:  "button",
			want: []Kind{KindTestID, KindRole, KindText, KindCSS, KindXPath},
		},
		{
			name: "input with placeholder",
			body: `<input placeholder="Email" name="email">`,
			sel:  "input",
			want: []Kind{KindPlaceholder, KindName, KindCSS, KindXPath},
		},
		{
			name: "placeholder only",
			body: `<input placeholder="Username">`,
			sel:  "input",
			want: []Kind{KindPlaceholder, KindCSS, KindXPath},
		},
		{
			name: "explicit role named by placeholder",
			body: `<input role="searchbox" placeholder="Find">`,
			sel:  "input",
			want: []Kind{KindBareRole, KindPlaceholder, KindCSS, KindXPath},
		},
		{
			name: "labelled input",
			body: `<label for="user">Username</label><input id="user">`,
			sel:  "input",
			want: []Kind{KindRole, KindLabel, KindID, KindCSS, KindXPath},
		},
		{
			name: "role without name",
			body: `<div role="tab">Settings</div>`,
			sel:  "div",
			want: []Kind{KindBareRole, KindText, KindCSS, KindXPath},
		},
		{
			name: "aria-label",
			body: `<button aria-label="Close">X</button>`,
			sel:  "button",
			want: []Kind{KindRole, KindAriaLabel, KindText, KindCSS, KindXPath},
		},
		{
			name: "image",
			body: `<img alt="Company logo" title="Logo" src="/logo.png">`,
			sel:  "img",
			want: []Kind{KindAlt, KindTitle, KindCSS, KindXPath},
		},
		{
			name: "dynamic text is skipped",
			body: `<span>Order 123456</span>`,
			sel:  "span",
			want: []Kind{KindCSS, KindXPath},
		},
	}
	e := newTestEngine(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := parseDoc(t, tc.body)
			cands, err := e.Candidates(d, first(t, d, tc.sel))
			require.NoError(t, err)
			assert.Equal(t, tc.want, kindsOf(cands))
			for _, c := range cands {
				assert.Equal(t, c.Kind.Dialect(), c.Dialect)
				assert.NotEmpty(t, c.Reason)
			}
		})
	}
}

func TestCandidates_Expressions(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<label for="user">Username</label><input id="user" data-qa="user-field">`)

	cands, err := e.Candidates(d, first(t, d, "input"))
	require.NoError(t, err)

	got := map[Kind]string{}
	for _, c := range cands {
		got[c.Kind] = c.Expression
	}
	assert.Equal(t, `[data-qa="user-field"]`, got[KindTestID])
	assert.Equal(t, `role="textbox"`, got[KindRole])
	assert.Equal(t, `label:has-text("Username")`, got[KindLabel])
	assert.Equal(t, "#user", got[KindID])
	assert.Equal(t, "#user", got[KindCSS])
	assert.Equal(t, `//*[@id="user"]`, got[KindXPath])

	assert.Equal(t, "Username", cands[1].AccessibleName)
}

func TestCandidates_TextRules(t *testing.T) {
	e := newTestEngine(t)
	long := strings.Repeat("a", maxTextLen+1)
	d := parseDoc(t, `<p id="a">  Hello
	   world </p><p id="b">`+long+`</p>`)

	cands, err := e.Candidates(d, first(t, d, "#a"))
	require.NoError(t, err)
	assert.Equal(t, `text="Hello world"`, cands[0].Expression)

	cands, err = e.Candidates(d, first(t, d, "#b"))
	require.NoError(t, err)
	assert.NotContains(t, kindsOf(cands), KindText)
}

func TestCandidates_ColonID(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<input id=":r3:" name="q">`)
	cands, err := e.Candidates(d, first(t, d, "input"))
	require.NoError(t, err)
	assert.NotContains(t, kindsOf(cands), KindID)
	assert.Equal(t, `//*[@id=":r3:"]`, cands[len(cands)-1].Expression)
}

func TestCandidates_NotElement(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<p>text</p>`)

	_, err := e.Candidates(d, first(t, d, "p").FirstChild)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = e.Candidates(d, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
