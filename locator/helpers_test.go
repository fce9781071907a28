package locator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/hazyhaar/locscope/dom"
	"github.com/hazyhaar/locscope/idgen"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(Options{
		NewID: idgen.Fixed("snap_test"),
		Now:   func() time.Time { return fixedNow },
	})
}

func parseDoc(t *testing.T, body string) *dom.Document {
	t.Helper()
	d, err := dom.ParseString("<!DOCTYPE html><html><head></head><body>"+body+"</body></html>", "https://app.test/login")
	require.NoError(t, err)
	return d
}

// first returns the first element matching a CSS selector.
func first(t *testing.T, d *dom.Document, sel string) *html.Node {
	t.Helper()
	nodes, err := d.QuerySelectorAll(sel)
	require.NoError(t, err)
	require.NotEmpty(t, nodes, "no match for %s", sel)
	return nodes[0]
}

func kindsOf(cands []Candidate) []Kind {
	out := make([]Kind, len(cands))
	for i, c := range cands {
		out[i] = c.Kind
	}
	return out
}

func byKind(t *testing.T, locs []ScoredLocator, k Kind) ScoredLocator {
	t.Helper()
	for _, l := range locs {
		if l.Kind == k {
			return l
		}
	}
	t.Fatalf("no %s locator", k)
	return ScoredLocator{}
}
