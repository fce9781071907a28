package locator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/locscope/dom"
)

func TestBuildElementReport_LoginButton(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<button data-testid="login-btn">Log in</button>`)

	rep, err := e.BuildElementReport(d, first(t, d, "button"))
	require.NoError(t, err)

	assert.Equal(t, "button", rep.Tag)
	assert.True(t, rep.IsVisible)
	assert.Equal(t, map[string]string{"data-testid": "login-btn"}, rep.Attributes)
	assert.Equal(t, "https://app.test/login", rep.URL)
	assert.Equal(t, "2026-03-01T12:00:00Z", rep.Timestamp)
	assert.Empty(t, rep.AriaAncestryPath)

	require.Len(t, rep.Locators, 5)
	wantOrder := []struct {
		kind  Kind
		score int
	}{
		{KindRole, 100},
		{KindTestID, 100},
		{KindText, 90},
		{KindCSS, 85},
		{KindXPath, 80},
	}
	for i, w := range wantOrder {
		assert.Equal(t, w.kind, rep.Locators[i].Kind, "rank %d", i)
		assert.Equal(t, w.score, rep.Locators[i].Score, "rank %d", i)
		assert.Equal(t, 1, rep.Locators[i].MatchCount, "rank %d", i)
	}

	best := rep.Best()
	assert.Equal(t, `role="button"`, best.Expression)
	assert.Equal(t, TierExcellent, best.StabilityTier)
	assert.Equal(t, "Log in", best.AccessibleName)
}

func TestBuildElementReport_RoleOutranksTestID(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<button data-testid="login-btn" aria-label="Sign in">Login</button>`)

	rep, err := e.BuildElementReport(d, first(t, d, "button"))
	require.NoError(t, err)

	var got []Kind
	for _, l := range rep.Locators {
		got = append(got, l.Kind)
		assert.Equal(t, 1, l.MatchCount, l.Kind.String())
	}
	assert.Equal(t, []Kind{KindRole, KindTestID, KindAriaLabel, KindText, KindCSS, KindXPath}, got)

	role := rep.Locators[0]
	assert.Equal(t, `role="button"`, role.Expression)
	assert.Equal(t, "Sign in", role.AccessibleName)
	assert.Equal(t, 100, role.Score)
	assert.Equal(t, 100, byKind(t, rep.Locators, KindTestID).Score)
}

func TestBuildElementReport_PlaceholderOnlyInput(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<input placeholder="Username">`)

	rep, err := e.BuildElementReport(d, first(t, d, "input"))
	require.NoError(t, err)

	require.Len(t, rep.Locators, 3)
	placeholder := byKind(t, rep.Locators, KindPlaceholder)
	css := byKind(t, rep.Locators, KindCSS)
	assert.Greater(t, placeholder.Score, css.Score)
	assert.Equal(t, KindPlaceholder, rep.Best().Kind)
}

func TestBuildElementReport_DynamicID(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<div id="jss42">Hi</div>`)

	rep, err := e.BuildElementReport(d, first(t, d, "div"))
	require.NoError(t, err)

	id := byKind(t, rep.Locators, KindID)
	assert.True(t, id.Dynamic)
	assert.Equal(t, 95, id.Score)

	css := byKind(t, rep.Locators, KindCSS)
	assert.True(t, css.Dynamic)
	assert.Equal(t, 55, css.Score)

	text := byKind(t, rep.Locators, KindText)
	assert.False(t, text.Dynamic)
	assert.Equal(t, 90, text.Score)
}

func TestBuildElementReport_Duplicates(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<ul><li class="item">a</li><li class="item">b</li></ul>`)

	rep, err := e.BuildElementReport(d, first(t, d, "li"))
	require.NoError(t, err)

	css := byKind(t, rep.Locators, KindCSS)
	assert.Equal(t, "ul > li.item", css.Expression)
	assert.Equal(t, 2, css.MatchCount)
	assert.Equal(t, 50+15-5+5+5, css.Score)

	solo := parseDoc(t, `<ul><li class="item">a</li></ul>`)
	rep, err = e.BuildElementReport(solo, first(t, solo, "li"))
	require.NoError(t, err)
	soloCSS := byKind(t, rep.Locators, KindCSS)
	assert.Equal(t, "ul > li.item", soloCSS.Expression)
	assert.Equal(t, 1, soloCSS.MatchCount)
	assert.Equal(t, 15, soloCSS.Score-css.Score)
}

func TestBuildElementReport_Hidden(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<button data-testid="x" hidden>Go</button>`)

	rep, err := e.BuildElementReport(d, first(t, d, "button"))
	require.NoError(t, err)
	assert.False(t, rep.IsVisible)
	assert.Equal(t, Size{}, rep.Size)
}

func TestBuildElementReport_Snippet(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<button data-testid="go" onclick="steal()">Go<script>alert(1)</script></button>`)

	rep, err := e.BuildElementReport(d, first(t, d, "button"))
	require.NoError(t, err)
	assert.Contains(t, rep.DOMSnippet, `data-testid="go"`)
	assert.Contains(t, rep.DOMSnippet, "Go")
	assert.NotContains(t, rep.DOMSnippet, "onclick")
	assert.NotContains(t, rep.DOMSnippet, "alert")

	short := NewEngine(Options{SnippetLimit: 10})
	rep, err = short.BuildElementReport(d, first(t, d, "button"))
	require.NoError(t, err)
	assert.Equal(t, 10, len([]rune(rep.DOMSnippet)))
}

func TestBuildElementReport_LiveLayout(t *testing.T) {
	e := newTestEngine(t)
	capture := `{"url":"https://app.test/","root":{"type":"element","tag":"html","children":[
	  {"type":"element","tag":"body","children":[
	    {"type":"element","tag":"button","attrs":[["name","go"]],
	     "style":{"display":"inline-block","visibility":"visible","opacity":"1"},
	     "box":{"x":10,"y":20,"width":80,"height":24},
	     "children":[{"type":"text","text":"Go"}]}]}]}}`
	doc, err := dom.DecodeCapture([]byte(capture))
	require.NoError(t, err)

	rep, err := e.BuildElementReport(doc, first(t, doc, "button"))
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 20}, rep.Position)
	assert.Equal(t, Size{Width: 80, Height: 24}, rep.Size)
	assert.True(t, rep.IsVisible)
	assert.Equal(t, "https://app.test/", rep.URL)
}

func TestBuildElementReport_Invalid(t *testing.T) {
	e := newTestEngine(t)
	d := parseDoc(t, `<p>x</p>`)

	_, err := e.BuildElementReport(nil, first(t, d, "p"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = e.BuildElementReport(d, first(t, d, "p").FirstChild)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 0))
	assert.True(t, strings.HasPrefix(truncateRunes(strings.Repeat("é", 600), 500), "é"))
}
