package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/locscope/dom"
)

// Tab wraps a Rod page navigated to one URL.
type Tab struct {
	Page    *rod.Page
	PageURL string
	manager *Manager
	router  stopper
}

// stopper is the part of *rod.HijackRouter a tab needs to release.
type stopper interface {
	Stop() error
}

// OpenTab creates a tab, applies stealth and resource blocking, navigates
// to pageURL and waits for the load event.
func OpenTab(ctx context.Context, mgr *Manager, pageURL string) (*Tab, error) {
	b, err := mgr.Browser(ctx)
	if err != nil {
		return nil, err
	}

	var page *rod.Page
	if mgr.cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	tab := &Tab{Page: page, PageURL: pageURL, manager: mgr}
	if len(mgr.cfg.ResourceBlocking) > 0 {
		router, err := applyResourceBlocking(page, mgr.cfg.ResourceBlocking)
		if err != nil {
			mgr.cfg.Logger.Warn("browser: resource blocking failed", "error", err)
		} else {
			tab.router = router
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, mgr.cfg.NavigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		tab.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		mgr.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	return tab, nil
}

// captureJS serializes the live document with the computed style and
// bounding box of every element, in one evaluation.
const captureJS = `() => {
	const walk = (n) => {
		if (n.nodeType === Node.TEXT_NODE) return {type: "text", text: n.data};
		if (n.nodeType !== Node.ELEMENT_NODE) return null;
		const cs = getComputedStyle(n);
		const r = n.getBoundingClientRect();
		const out = {
			type: "element",
			tag: n.tagName.toLowerCase(),
			attrs: Array.from(n.attributes, (a) => [a.name, a.value]),
			style: {display: cs.display, visibility: cs.visibility, opacity: cs.opacity},
			box: {x: r.x, y: r.y, width: r.width, height: r.height},
			children: [],
		};
		for (const c of n.childNodes) {
			const w = walk(c);
			if (w) out.children.push(w);
		}
		return out;
	};
	return JSON.stringify({url: location.href, root: walk(document.documentElement)});
}`

// Capture snapshots the page as a Document whose style and layout answers
// come from the browser.
func (t *Tab) Capture(ctx context.Context) (*dom.Document, error) {
	res, err := t.Page.Context(ctx).Eval(captureJS)
	if err != nil {
		return nil, fmt.Errorf("browser: capture: %w", err)
	}
	doc, err := dom.DecodeCapture([]byte(res.Value.Str()))
	if err != nil {
		return nil, fmt.Errorf("browser: capture %s: %w", t.PageURL, err)
	}
	return doc, nil
}

// Close stops the tab's request router, if any, and closes the page. It is
// safe to call more than once.
func (t *Tab) Close() error {
	var errs []error
	if t.router != nil {
		if err := t.router.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("browser: stop router: %w", err))
		}
		t.router = nil
	}
	if t.Page != nil {
		if err := t.Page.Close(); err != nil {
			errs = append(errs, err)
		}
		t.Page = nil
	}
	return errors.Join(errs...)
}

// Load opens pageURL in a fresh tab, captures it and closes the tab.
func (m *Manager) Load(ctx context.Context, pageURL string) (*dom.Document, error) {
	tab, err := OpenTab(ctx, m, pageURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := tab.Close(); err != nil {
			m.cfg.Logger.Debug("browser: close tab", "error", err)
		}
	}()
	return tab.Capture(ctx)
}
