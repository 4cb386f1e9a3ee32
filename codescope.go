// Package codescope is the public facade for the code-intelligence engine:
// a multi-language parser/extractor pipeline backing a BM25 text index, a
// TF-IDF similarity index and a call/reference graph store, queryable
// through the single Engine type this package exports. internal/engine
// does the work; this package only translates its results into the stable
// result shapes external callers (a tool-protocol adapter, a CLI) depend
// on, mirroring mvp-joe-canopy's root-package-as-facade convention layered
// over a internal/-heavy package split.
package codescope

import (
	"context"

	"codescope/internal/engine"
	"codescope/internal/model"
)

// Re-exported data model types so callers never need to
// import an internal package.
type (
	SymbolKind = model.SymbolKind
	Symbol     = model.Symbol
	Reference  = model.Reference
	CallEdge   = model.CallEdge
	ImportEdge = model.ImportEdge
)

// SymbolKind values.
const (
	Function  = model.Function
	Method    = model.Method
	Class     = model.Class
	Struct    = model.Struct
	Enum      = model.Enum
	Interface = model.Interface
	Trait     = model.Trait
	TypeAlias = model.TypeAlias
	Module    = model.Module
	Namespace = model.Namespace
	Constant  = model.Constant
	Variable  = model.Variable
	Macro     = model.Macro
	Other     = model.Other
)

// Stats is the result of Engine.Stats(): {files, symbols, chunks}.
type Stats struct {
	Files   int
	Symbols int
	Chunks  int
}

// SearchHit is one result of Engine.Search: {file, start_line, end_line,
// content, score}.
type SearchHit struct {
	File      string
	StartLine int
	EndLine   int
	Content   string
	Score     float64
}

// SimilarHit is one result of Engine.FindSimilar: {id, file, start_line,
// end_line, similarity}.
type SimilarHit struct {
	ID         string
	File       string
	StartLine  int
	EndLine    int
	Similarity float64
}

// ReferenceHit is one result of Engine.FindReferences, classified local
// (same file as a declaration of that name) or cross-file.
type ReferenceHit struct {
	Reference
	Local bool
}

// UsageKind classifies a FindSymbolUsages hit.
type UsageKind = engine.UsageKind

const (
	UsageCall      = engine.UsageCall
	UsageReference = engine.UsageReference
	UsageImport    = engine.UsageImport
)

// Usage is one result of Engine.FindSymbolUsages.
type Usage struct {
	Name     string
	FilePath string
	Line     int
	Kind     UsageKind
}

// FileInput is one (path, content) pair for Engine.IndexFiles.
type FileInput = engine.FileInput

// Option configures an Engine at construction time.
type Option = engine.Option

// WithLanguages restricts indexing to the named languages.
func WithLanguages(languages ...string) Option { return engine.WithLanguages(languages...) }

// WithBM25Params overrides the text index's default k1=1.2, b=0.75.
func WithBM25Params(k1, b float64) Option { return engine.WithBM25Params(k1, b) }

// WithChunkWindow overrides the similarity index's default 50/10 chunk
// window for files with no Symbols.
func WithChunkWindow(lines, overlap int) Option { return engine.WithChunkWindow(lines, overlap) }

// Engine is the code-intelligence engine: the single object through which
// every indexing and query operation is served.
type Engine struct {
	inner *engine.Engine
}

// New returns an empty, ready-to-use Engine.
func New(opts ...Option) *Engine {
	return &Engine{inner: engine.New(opts...)}
}

// IndexFile parses and indexes content as path. It returns true if path's
// language was recognized and a parser was available; otherwise it indexes
// nothing and returns false. A file whose language is recognized but has no
// parser is still listed by ListFiles and counted by Stats.
func (e *Engine) IndexFile(ctx context.Context, path string, content []byte) bool {
	return e.inner.IndexFile(ctx, path, content)
}

// BatchResult is the result of Engine.IndexFiles: how many files were
// successfully indexed, tagged with a batch id.
type BatchResult = engine.BatchResult

// IndexFiles indexes every (path, content) pair in batch, in parallel
// across distinct files, and returns a BatchResult holding the count
// successfully indexed and the batch id.
func (e *Engine) IndexFiles(ctx context.Context, batch []FileInput) BatchResult {
	return e.inner.IndexFiles(ctx, batch)
}

// RemoveFile removes path and every record derived from it. It returns
// true if path had previously been indexed.
func (e *Engine) RemoveFile(path string) bool {
	return e.inner.RemoveFile(path)
}

// Clear removes every indexed file.
func (e *Engine) Clear() {
	e.inner.Clear()
}

// FindSymbols returns every Symbol whose name matches namePattern (a
// case-insensitive substring, or a glob if the pattern contains '*' or
// '?') and whose Kind matches kind. An empty namePattern or empty kind
// means "match anything" for that axis.
func (e *Engine) FindSymbols(namePattern string, kind SymbolKind) []Symbol {
	return e.inner.FindSymbols(namePattern, kind)
}

// SymbolAt returns the innermost Symbol in path containing line (1-based),
// or false if none does.
func (e *Engine) SymbolAt(path string, line int) (Symbol, bool) {
	return e.inner.SymbolAt(path, line)
}

// SymbolsInFile returns path's Symbols in declaration order.
func (e *Engine) SymbolsInFile(path string) []Symbol {
	return e.inner.SymbolsInFile(path)
}

// GetFile returns path's last-indexed content, or false if path is not
// indexed.
func (e *Engine) GetFile(path string) (string, bool) {
	return e.inner.GetFile(path)
}

// GetFileLines returns the 1-based inclusive [start, end] line range of
// path's content, or false (InvalidRange) if the range is malformed, out
// of bounds, or path is not indexed.
func (e *Engine) GetFileLines(path string, start, end int) (string, bool) {
	return e.inner.GetFileLines(path, start, end)
}

// Search ranks BM25 hits for query across every indexed file, returning at
// most k, highest score first.
func (e *Engine) Search(query string, k int) []SearchHit {
	hits := e.inner.Search(query, k)
	out := make([]SearchHit, len(hits))
	for i, h := range hits {
		out[i] = SearchHit{File: h.FilePath, StartLine: h.StartLine, EndLine: h.EndLine, Content: h.Content, Score: h.Score}
	}
	return out
}

// FindSimilar ranks cosine-similarity hits for code across every indexed
// chunk, returning at most k, highest similarity first.
func (e *Engine) FindSimilar(code string, k int) []SimilarHit {
	hits := e.inner.FindSimilar(code, k)
	out := make([]SimilarHit, len(hits))
	for i, h := range hits {
		out[i] = SimilarHit{ID: h.ChunkID, File: h.FilePath, StartLine: h.StartLine, EndLine: h.EndLine, Similarity: h.Similarity}
	}
	return out
}

// FindReferences returns every Reference named name, classified local or
// cross-file.
func (e *Engine) FindReferences(name string) []ReferenceHit {
	hits := e.inner.FindReferences(name)
	out := make([]ReferenceHit, len(hits))
	for i, h := range hits {
		out[i] = ReferenceHit{Reference: h.Reference, Local: h.Local}
	}
	return out
}

// Callers returns the Symbols that call symbolID. A missing id returns an
// empty slice.
func (e *Engine) Callers(symbolID string) []Symbol {
	return e.inner.Callers(symbolID)
}

// Callees returns the Symbols symbolID calls. A missing id returns an
// empty slice.
func (e *Engine) Callees(symbolID string) []Symbol {
	return e.inner.Callees(symbolID)
}

// ListFiles returns every indexed file path, sorted.
func (e *Engine) ListFiles() []string {
	return e.inner.ListFiles()
}

// Stats reports the current file, symbol and chunk counts.
func (e *Engine) Stats() Stats {
	s := e.inner.Stats()
	return Stats{Files: s.Files, Symbols: s.Symbols, Chunks: s.Chunks}
}

// GetSymbolSource returns symbolID's declaration plus contextLines of
// surrounding source on each side, clamped to file bounds.
func (e *Engine) GetSymbolSource(symbolID string, contextLines int) (string, bool) {
	return e.inner.GetSymbolSource(symbolID, contextLines)
}

// FindSymbolUsages returns every occurrence of name, tagged Call,
// Reference or Import. includeImports controls whether Import-tagged
// occurrences are included; excludeTests omits occurrences in files that
// look like tests.
func (e *Engine) FindSymbolUsages(name string, includeImports, excludeTests bool) []Usage {
	usages := e.inner.FindSymbolUsages(name, includeImports, excludeTests)
	out := make([]Usage, len(usages))
	for i, u := range usages {
		out[i] = Usage{Name: u.Name, FilePath: u.FilePath, Line: u.Line, Kind: u.Kind}
	}
	return out
}

// Dependencies returns path's import edges, restricted by direction
// ("out", "in", or "both"; any other value behaves as "both").
func (e *Engine) Dependencies(path, direction string) []ImportEdge {
	return e.inner.Dependencies(path, direction)
}
