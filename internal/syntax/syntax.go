// Package syntax wraps tree-sitter parsing behind a small, error-tolerant
// contract: Parse always returns a traversable tree for a known language,
// even over malformed input, and only reports ErrParseUnavailable when the
// language has no registered grammar at all.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"codescope/internal/lang"
)

// ErrParseUnavailable is returned when the requested language is recognized
// but carries no tree-sitter grammar (lang.Language.HasParser() == false).
var ErrParseUnavailable = errors.New("syntax: parser unavailable for language")

// Tree wraps a parsed tree-sitter tree together with the source bytes it was
// parsed from, since signature/name extraction needs both.
type Tree struct {
	Root   *sitter.Node
	Source []byte

	raw *sitter.Tree
}

// Close releases the underlying tree-sitter tree. Callers must call it once
// done with the Tree; it is safe to call on a zero-value Tree.
func (t *Tree) Close() {
	if t != nil && t.raw != nil {
		t.raw.Close()
	}
}

// Driver pools idle tree-sitter parsers per language, since constructing a
// parser and assigning its grammar has measurable setup cost and a parser
// is not safe for concurrent use. Pooled parsers are reset before reuse via
// sitter.Parser.Reset, which ParseCtx performs internally on each call.
type Driver struct {
	mu      sync.Mutex
	parsers map[string][]*sitter.Parser
}

// NewDriver returns a ready-to-use parser driver.
func NewDriver() *Driver {
	return &Driver{parsers: make(map[string][]*sitter.Parser)}
}

// Parse parses source as languageName and returns a traversable tree.
// It returns ErrParseUnavailable if languageName is unknown or has no
// grammar. Malformed source still yields a tree containing ERROR nodes; the
// error return is reserved for languages with no parser at all, matching
// tree-sitter's own error-tolerant parsing behavior.
func (d *Driver) Parse(ctx context.Context, languageName string, source []byte) (*Tree, error) {
	l, ok := lang.Languages[languageName]
	if !ok || !l.HasParser() {
		return nil, fmt.Errorf("%w: %s", ErrParseUnavailable, languageName)
	}

	p := d.acquire(languageName, l)
	defer d.release(languageName, p)

	raw, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		// tree-sitter itself only fails on cancellation/timeout, not on
		// malformed syntax; propagate as-is rather than masking it.
		return nil, err
	}

	return &Tree{Root: raw.RootNode(), Source: source, raw: raw}, nil
}

func (d *Driver) acquire(languageName string, l *lang.Language) *sitter.Parser {
	d.mu.Lock()
	pool := d.parsers[languageName]
	if len(pool) == 0 {
		d.mu.Unlock()
		return l.NewParser()
	}
	p := pool[len(pool)-1]
	d.parsers[languageName] = pool[:len(pool)-1]
	d.mu.Unlock()
	return p
}

func (d *Driver) release(languageName string, p *sitter.Parser) {
	d.mu.Lock()
	d.parsers[languageName] = append(d.parsers[languageName], p)
	d.mu.Unlock()
}

// Query returns the compiled tag query for languageName, or
// ErrParseUnavailable if the language has no grammar.
func (d *Driver) Query(languageName string) (*sitter.Query, error) {
	l, ok := lang.Languages[languageName]
	if !ok || !l.HasParser() {
		return nil, fmt.Errorf("%w: %s", ErrParseUnavailable, languageName)
	}
	return l.GetTagQuery()
}
