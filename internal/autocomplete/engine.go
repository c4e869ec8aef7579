// Package autocomplete is a context-aware SQL completion engine.
//
// Given a buffer and a cursor offset, the engine classifies the syntactic
// position of the cursor (after a dot, a table keyword, a column keyword,
// inside a call, or anywhere else), gathers candidates for that position from
// the metadata cache and the buffer's FROM/JOIN clauses, and returns them
// fuzzy-ranked against the token being typed.
//
// Detection is regex based and does not track nesting: a subquery's FROM
// contributes tables to the whole buffer.
package autocomplete

import (
	"context"
	"log"
	"regexp"
	"unicode/utf8"

	"github.com/nhath/ezcomplete/internal/metacache"
)

// DefaultFetchConcurrency bounds parallel table lookups across databases.
const DefaultFetchConcurrency = 4

// ValidFor matches text that keeps a returned list valid while the user types.
var ValidFor = regexp.MustCompile("^[\\p{L}\\p{N}_$\"`\\[\\].]*$")

// Options configure an Engine. Zero values select defaults.
type Options struct {
	MaxResults       int
	ContextWindow    int
	FetchConcurrency int
	// Snippets are offered after DefaultSnippets.
	Snippets []Snippet
}

// Result is the outcome of one completion request. The host replaces
// [From, cursor) with the chosen candidate's InsertText.
type Result struct {
	From     int
	Options  []Candidate
	ValidFor *regexp.Regexp
	Context  ContextClass
	// Partial is the raw token being replaced.
	Partial string
}

// Engine answers completion requests. It is safe for concurrent use; all
// shared state lives in the cache.
type Engine struct {
	cache    *metacache.Cache
	opts     Options
	snippets []Snippet
}

// New creates an engine over cache.
func New(cache *metacache.Cache, opts Options) *Engine {
	if opts.MaxResults <= 0 || opts.MaxResults > MaxResultsCeiling {
		opts.MaxResults = MaxResultsCeiling
	}
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = DefaultContextWindow
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = DefaultFetchConcurrency
	}
	snippets := make([]Snippet, 0, len(DefaultSnippets)+len(opts.Snippets))
	snippets = append(snippets, DefaultSnippets...)
	snippets = append(snippets, opts.Snippets...)

	return &Engine{cache: cache, opts: opts, snippets: snippets}
}

// Complete returns ranked candidates for the cursor position in text. cursor
// is a byte offset and is clamped to the buffer. It returns nil when nothing
// is being typed, the cursor does not follow a dot and the request was not
// explicit. It never panics; an internal failure yields empty Options.
func (e *Engine) Complete(ctx context.Context, text string, cursor int, explicit bool) (res *Result) {
	cursor = clampCursor(text, cursor)
	before := text[:cursor]

	cls := Classify(before, e.opts.ContextWindow)
	if cls.Partial == "" && cls.Class != ContextDot && !explicit {
		return nil
	}

	res = &Result{
		From:     cursor - len(cls.Partial),
		Options:  []Candidate{},
		ValidFor: ValidFor,
		Context:  cls.Class,
		Partial:  cls.Partial,
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("autocomplete: completion at %d failed: %v", cursor, r)
			res.Options = []Candidate{}
		}
	}()

	req := &request{
		ctx:         ctx,
		cache:       e.cache,
		aliases:     BuildAliasMap(text),
		refs:        BuildReferencedTables(text),
		concurrency: e.opts.FetchConcurrency,
		snippets:    e.snippets,
	}

	// A column keyword with nothing to scope it to completes like any other token.
	if cls.Class == ContextColumn && len(req.refs) == 0 {
		cls.Class = ContextDefault
		res.Context = ContextDefault
	}

	var raw []Candidate
	switch cls.Class {
	case ContextDot:
		raw = req.buildDot(cls)
	case ContextTable:
		raw = req.buildTable()
	case ContextColumn:
		raw = req.buildColumn()
	case ContextFunction:
		raw = req.buildFunction()
	default:
		raw = req.buildDefault()
	}

	res.Options = rank(raw, normalizeIdent(cls.Partial), e.opts.MaxResults)
	return res
}

func clampCursor(text string, cursor int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > len(text) {
		return len(text)
	}
	for cursor > 0 && cursor < len(text) && !utf8.RuneStart(text[cursor]) {
		cursor--
	}
	return cursor
}

// Refine re-ranks the options against typed, the text now between From and the
// cursor, without consulting the cache. ok is false once typed no longer
// matches ValidFor; the host must then call Complete again.
func (r *Result) Refine(typed string) (opts []Candidate, ok bool) {
	if r == nil || !r.ValidFor.MatchString(typed) {
		return nil, false
	}
	return rank(r.Options, normalizeIdent(typed), MaxResultsCeiling), true
}
