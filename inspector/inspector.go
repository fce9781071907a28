// CLAUDE:SUMMARY Inspector service: loads documents (HTML or live URL), resolves targets, and runs report/tree/aria/emit behind kit endpoints.
// Package inspector is the service layer of locscope. It turns a request
// (an HTML document or a URL, plus a target expression) into element
// reports, document snapshots and framework code, and exposes those
// operations over HTTP and MCP.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"

	"github.com/hazyhaar/locscope/codegen"
	"github.com/hazyhaar/locscope/dom"
	"github.com/hazyhaar/locscope/internal/browser"
	"github.com/hazyhaar/locscope/internal/urlguard"
	"github.com/hazyhaar/locscope/kit"
	"github.com/hazyhaar/locscope/locator"
)

var (
	// ErrNoSource is returned when a request carries neither HTML nor a URL.
	ErrNoSource = errors.New("inspector: html or url required")
	// ErrNoTarget is returned when an element operation has no target.
	ErrNoTarget = errors.New("inspector: target required")
	// ErrInvalidTarget is returned for a target expression that does not compile.
	ErrInvalidTarget = errors.New("inspector: invalid target")
	// ErrTargetNotFound is returned when the target matches nothing.
	ErrTargetNotFound = errors.New("inspector: target not found")
	// ErrInvalidURL is returned for a URL the capture browser may not open.
	ErrInvalidURL = errors.New("inspector: url refused")
	// ErrBrowserUnavailable wraps live-capture failures.
	ErrBrowserUnavailable = errors.New("inspector: browser unavailable")
)

// PageLoader captures a live document.
type PageLoader interface {
	Load(ctx context.Context, url string) (*dom.Document, error)
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithPageLoader replaces the Chrome-backed loader.
func WithPageLoader(l PageLoader) Option {
	return func(in *Inspector) { in.loader = l }
}

// WithEngineOptions overrides engine options built from the config. Zero
// fields keep their config values.
func WithEngineOptions(opts locator.Options) Option {
	return func(in *Inspector) { in.engineOpts = opts }
}

// Request is the transport-neutral input of every operation.
type Request struct {
	HTML      string `json:"html,omitempty"`
	URL       string `json:"url,omitempty"`
	Target    string `json:"target,omitempty"`
	Framework string `json:"framework,omitempty"`
}

// Report is an element report enriched with a Markdown rendering of the
// element and ready-to-paste framework code for every locator.
type Report struct {
	*locator.ElementReport
	Markdown  string             `json:"markdown,omitempty"`
	Framework codegen.Framework  `json:"framework"`
	Code      []codegen.Rendered `json:"code"`
}

// Inspector is safe for concurrent use.
type Inspector struct {
	cfg        *Config
	logger     *slog.Logger
	engine     *locator.Engine
	engineOpts locator.Options
	loader     PageLoader
	browser    *browser.Manager
	guard      *urlguard.Guard
	md         *converter.Converter
	metrics    *Metrics
	endpoints  map[string]kit.Endpoint
}

// New creates an Inspector. A nil cfg means DefaultConfig.
func New(cfg *Config, logger *slog.Logger, opts ...Option) (*Inspector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	in := &Inspector{
		cfg:    cfg,
		logger: logger,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		guard:   urlguard.New(cfg.Browser.AllowPrivate),
		metrics: newMetrics(),
	}
	for _, o := range opts {
		o(in)
	}

	eo := in.engineOpts
	if eo.Policy == nil {
		policy, err := locator.NewPolicy(cfg.DynamicPatterns)
		if err != nil {
			return nil, fmt.Errorf("inspector: %w", err)
		}
		eo.Policy = policy
	}
	if eo.SnippetLimit <= 0 {
		eo.SnippetLimit = cfg.Report.SnippetLimit
	}
	in.engine = locator.NewEngine(eo)

	if in.loader == nil {
		in.browser = browser.NewManager(browser.Config{
			RemoteURL:        cfg.Browser.Remote,
			Stealth:          cfg.Browser.StealthEnabled(),
			NavigateTimeout:  cfg.Browser.NavigateTimeout,
			ResourceBlocking: cfg.Browser.ResourceBlocking,
			Logger:           logger,
		})
		in.loader = in.browser
	}

	in.endpoints = map[string]kit.Endpoint{
		"report": in.wrap("report", func(ctx context.Context, r *Request) (any, error) { return in.Report(ctx, r) }),
		"tree":   in.wrap("tree", func(ctx context.Context, r *Request) (any, error) { return in.Tree(ctx, r) }),
		"aria":   in.wrap("aria", func(ctx context.Context, r *Request) (any, error) { return in.Aria(ctx, r) }),
		"emit":   in.wrap("emit", func(ctx context.Context, r *Request) (any, error) { return in.Emit(ctx, r) }),
	}
	return in, nil
}

// Metrics returns the inspector's collectors.
func (in *Inspector) Metrics() *Metrics { return in.metrics }

// Endpoint returns the middleware-wrapped endpoint of op, or nil.
func (in *Inspector) Endpoint(op string) kit.Endpoint { return in.endpoints[op] }

func (in *Inspector) wrap(op string, fn func(context.Context, *Request) (any, error)) kit.Endpoint {
	ep := func(ctx context.Context, req any) (any, error) {
		r, ok := req.(*Request)
		if !ok || r == nil {
			return nil, fmt.Errorf("%w: bad request type %T", locator.ErrInvalidArgument, req)
		}
		return fn(ctx, r)
	}
	return kit.Chain(
		kit.Recovery(in.logger),
		in.metrics.instrument(op),
		kit.Logging(in.logger, op),
		kit.Timeout(in.cfg.RequestTimeout),
	)(ep)
}

// Report analyses the target element.
func (in *Inspector) Report(ctx context.Context, r *Request) (*Report, error) {
	fw, err := codegen.ParseFramework(r.Framework)
	if err != nil {
		return nil, err
	}
	doc, el, err := in.target(ctx, r)
	if err != nil {
		return nil, err
	}

	rep, err := in.engine.BuildElementReport(doc, el)
	if err != nil {
		return nil, err
	}
	in.metrics.observeReport(rep)

	code, err := codegen.EmitAll(rep.Locators, fw)
	if err != nil {
		return nil, err
	}
	out := &Report{ElementReport: rep, Framework: fw, Code: code}

	md, err := in.md.ConvertString(dom.OuterHTML(el))
	if err != nil {
		in.logger.DebugContext(ctx, "inspector: markdown conversion failed", "error", err)
	} else {
		out.Markdown = strings.TrimSpace(md)
	}
	return out, nil
}

// Tree serializes the whole document structure.
func (in *Inspector) Tree(ctx context.Context, r *Request) (*locator.TreeNode, error) {
	doc, err := in.load(ctx, r)
	if err != nil {
		return nil, err
	}
	return in.engine.DocumentTree(doc), nil
}

// Aria serializes the accessibility-relevant nodes of the document.
func (in *Inspector) Aria(ctx context.Context, r *Request) (*locator.AriaSnapshot, error) {
	doc, err := in.load(ctx, r)
	if err != nil {
		return nil, err
	}
	return in.engine.AccessibilityTree(doc), nil
}

// Emit renders every ranked locator of the target as framework code.
func (in *Inspector) Emit(ctx context.Context, r *Request) ([]codegen.Rendered, error) {
	fw, err := codegen.ParseFramework(r.Framework)
	if err != nil {
		return nil, err
	}
	doc, el, err := in.target(ctx, r)
	if err != nil {
		return nil, err
	}
	cands, err := in.engine.Candidates(doc, el)
	if err != nil {
		return nil, err
	}
	return codegen.EmitAll(in.engine.Evaluate(doc, el, cands), fw)
}

// Close releases the browser, if one was started.
func (in *Inspector) Close() error {
	if in.browser != nil {
		return in.browser.Close()
	}
	return nil
}

func (in *Inspector) load(ctx context.Context, r *Request) (*dom.Document, error) {
	switch {
	case r.HTML != "":
		doc, err := dom.ParseString(r.HTML, r.URL)
		in.metrics.observeLoad("html", err)
		return doc, err
	case r.URL != "":
		if err := in.guard.Check(ctx, r.URL); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
		}
		doc, err := in.loader.Load(ctx, r.URL)
		in.metrics.observeLoad("url", err)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("inspector: load %s: %w", r.URL, ctxErr)
			}
			return nil, fmt.Errorf("%w: %w", ErrBrowserUnavailable, err)
		}
		return doc, nil
	}
	return nil, ErrNoSource
}

func (in *Inspector) target(ctx context.Context, r *Request) (*dom.Document, *html.Node, error) {
	if strings.TrimSpace(r.Target) == "" {
		return nil, nil, ErrNoTarget
	}
	doc, err := in.load(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	el, err := ResolveTarget(doc, r.Target)
	if err != nil {
		return nil, nil, err
	}
	return doc, el, nil
}

// ResolveTarget returns the first element matched by expr. Expressions
// starting with "/" or "(" are XPath, anything else is CSS.
func ResolveTarget(acc dom.Accessor, expr string) (*html.Node, error) {
	expr = strings.TrimSpace(expr)
	var (
		nodes []*html.Node
		err   error
	)
	if strings.HasPrefix(expr, "/") || strings.HasPrefix(expr, "(") {
		nodes, err = acc.Evaluate(expr)
	} else {
		nodes, err = acc.QuerySelectorAll(expr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, expr)
	}
	return nodes[0], nil
}
