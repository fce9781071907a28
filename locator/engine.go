package locator

import (
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/locscope/idgen"
)

// Options configures an Engine.
type Options struct {
	// Policy flags dynamic-looking values. Default: DefaultPolicy().
	Policy *Policy

	// SnippetLimit caps domSnippet length in runes. Default: 500.
	SnippetLimit int

	// NewID stamps accessibility snapshots. Default: "snap_" + UUIDv7.
	NewID idgen.Generator

	// Now stamps reports and snapshots. Default: time.Now.
	Now func() time.Time
}

func (o *Options) defaults() {
	if o.Policy == nil {
		o.Policy = DefaultPolicy()
	}
	if o.SnippetLimit <= 0 {
		o.SnippetLimit = 500
	}
	if o.NewID == nil {
		o.NewID = idgen.Prefixed("snap_", idgen.Default)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Engine runs candidate generation, scoring and serialization. It holds
// only configuration and is safe for concurrent use.
type Engine struct {
	policy       *Policy
	sanitizer    *bluemonday.Policy
	snippetLimit int
	newID        idgen.Generator
	now          func() time.Time
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	opts.defaults()
	return &Engine{
		policy:       opts.Policy,
		sanitizer:    snippetPolicy(),
		snippetLimit: opts.SnippetLimit,
		newID:        opts.NewID,
		now:          opts.Now,
	}
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339Nano)
}
