// Package engine owns the Language Registry-driven parser/extractor
// pipeline and the three indexes (graph store, text index, similarity
// index) it feeds, enforces the per-file remove-then-insert transaction
// discipline that keeps them consistent, and exposes the query surface the
// root codescope package wraps.
package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"codescope/internal/extract"
	"codescope/internal/graphstore"
	"codescope/internal/lang"
	"codescope/internal/model"
	"codescope/internal/simindex"
	"codescope/internal/syntax"
	"codescope/internal/textindex"
	"codescope/internal/tokenize"
)

// ErrUnsupportedLanguage and ErrParseUnavailable classify why a file was
// not indexed. Neither is ever returned to a caller of the
// Engine's public methods: index_file surfaces both as a false return.
// They exist so the one internal call site that needs to tell registration
// failure from parse failure can do so with errors.Is.
var (
	ErrUnsupportedLanguage = errors.New("engine: no language registered for extension")
	ErrParseUnavailable    = fmt.Errorf("engine: %w", syntax.ErrParseUnavailable)
)

// Stats is the result of Engine.Stats().
type Stats struct {
	Files   int
	Symbols int
	Chunks  int
}

// BatchResult is the result of Engine.IndexFiles: how many files were
// successfully indexed, tagged with a batch id so a caller that logs or
// reports on multiple IndexFiles calls can tell them apart.
type BatchResult struct {
	Count   int
	BatchID string
}

// fileRecord is the engine's bookkeeping for one indexed file, extending
// model.FileRecord with the actual reference/call/import slices (rather
// than indices into a shared slice) since this engine keeps those records
// inside graphstore, not a flat array.
type fileRecord struct {
	model.FileRecord
	References []model.Reference
	Calls      []model.CallEdge
	Imports    []model.ImportEdge
}

// Engine supports parallel readers and serialized writers per file, with
// one shared corpus-statistics lock held inside textindex/simindex; every
// method is synchronous from the caller's perspective.
type Engine struct {
	driver *syntax.Driver

	// indexMu guards the graph/text/sim fields themselves (not their
	// internal state, which each index locks on its own): Clear replaces
	// all three with fresh, empty indexes, so any query path or
	// commit/remove path that dereferences one of these pointers must hold
	// indexMu for read first, or it can race against a concurrent Clear.
	indexMu sync.RWMutex
	graph   *graphstore.Store
	text    *textindex.Index
	sim     *simindex.Index

	languages map[string]bool // nil means all registered languages

	filesMu sync.RWMutex
	files   map[string]*fileRecord

	// stripe serializes the remove-then-insert transition per file path,
	// so a read never observes a partially-removed file:
	// at any instant a path is either fully present (old or new state) or
	// fully absent, never half of either.
	stripe [stripeCount]sync.Mutex
}

const stripeCount = 64

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLanguages restricts IndexFile/IndexFiles to the named languages;
// files whose language is not in the set are treated as unsupported
// (index_file returns false), matching canopy's WithLanguages option.
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		e.languages = make(map[string]bool, len(languages))
		for _, l := range languages {
			e.languages[l] = true
		}
	}
}

// WithBM25Params overrides the text index's default k1=1.2, b=0.75.
func WithBM25Params(k1, b float64) Option {
	return func(e *Engine) {
		e.text = textindex.New(textindex.WithBM25Params(k1, b))
	}
}

// WithChunkWindow overrides the similarity index's default 50-line windows
// with 10-line overlap, used to chunk files that declare no Symbols.
func WithChunkWindow(lines, overlap int) Option {
	return func(e *Engine) {
		e.sim = simindex.New(simindex.WithChunkWindow(lines, overlap))
	}
}

// New returns an empty, ready-to-use Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		driver: syntax.NewDriver(),
		graph:  graphstore.New(),
		text:   textindex.New(),
		sim:    simindex.New(),
		files:  make(map[string]*fileRecord),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) stripeFor(path string) *sync.Mutex {
	h := sha256.Sum256([]byte(path))
	idx := int(h[0]) % stripeCount
	return &e.stripe[idx]
}

// IndexFile parses and indexes content as path, replacing any prior record
// for path first. It returns false, indexing nothing, if path's extension
// maps to no registered language, the language is excluded by
// WithLanguages, or the language has no tree-sitter grammar
// (ErrParseUnavailable) — neither is treated as fatal. A file of the last
// kind is still registered (ListFiles, GetFile, Stats), with no Symbols,
// text postings or similarity chunks.
func (e *Engine) IndexFile(ctx context.Context, path string, content []byte) bool {
	l, err := e.resolveLanguage(path)
	if err != nil {
		if errors.Is(err, ErrParseUnavailable) {
			mu := e.stripeFor(path)
			mu.Lock()
			e.removeFileLocked(path)
			e.filesMu.Lock()
			e.files[path] = &fileRecord{FileRecord: model.FileRecord{
				Path:      path,
				Language:  lang.ForExtension(extOf(path)),
				Content:   append([]byte(nil), content...),
				LineCount: countLines(content),
			}}
			e.filesMu.Unlock()
			mu.Unlock()
		}
		return false
	}

	mu := e.stripeFor(path)
	mu.Lock()
	defer mu.Unlock()

	e.removeFileLocked(path)

	query, err := l.GetTagQuery()
	if err != nil {
		return false
	}
	tree, err := e.driver.Parse(ctx, l.Name, content)
	if err != nil {
		return false
	}
	defer tree.Close()

	res := extract.Extract(l.Name, tree, query, path)
	e.commitFile(path, l.Name, content, res)
	return true
}

// IndexFiles indexes every (path, content) pair in batch and returns the
// number successfully indexed, tagged with a batch id distinguishing this
// call from any other. Distinct files are indexed in parallel; indexing of
// a single path is unaffected by ordering relative to other paths in the
// batch.
func (e *Engine) IndexFiles(ctx context.Context, batch []FileInput) BatchResult {
	batchID := uuid.New().String()

	numWorkers := 8
	if numWorkers > len(batch) {
		numWorkers = len(batch)
	}
	if numWorkers == 0 {
		return BatchResult{BatchID: batchID}
	}

	work := make(chan int, len(batch))
	for i := range batch {
		work <- i
	}
	close(work)

	var count int32Counter
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				if e.IndexFile(ctx, batch[idx].Path, batch[idx].Content) {
					count.add(1)
				}
			}
		}()
	}
	wg.Wait()
	return BatchResult{Count: count.value(), BatchID: batchID}
}

// FileInput is one (path, content) pair for IndexFiles.
type FileInput struct {
	Path    string
	Content []byte
}

// RemoveFile removes path and every derived record for it. It returns true
// if path had previously been indexed.
func (e *Engine) RemoveFile(path string) bool {
	mu := e.stripeFor(path)
	mu.Lock()
	defer mu.Unlock()
	return e.removeFileLocked(path)
}

// Clear removes every indexed file and resets all indexes to empty.
func (e *Engine) Clear() {
	for i := range e.stripe {
		e.stripe[i].Lock()
	}
	defer func() {
		for i := range e.stripe {
			e.stripe[i].Unlock()
		}
	}()

	e.indexMu.Lock()
	e.graph.Clear()
	e.text = textindex.New()
	e.sim = simindex.New()
	e.indexMu.Unlock()

	e.filesMu.Lock()
	e.files = make(map[string]*fileRecord)
	e.filesMu.Unlock()
}

func (e *Engine) resolveLanguage(path string) (*lang.Language, error) {
	ext := extOf(path)
	name := lang.ForExtension(ext)
	if name == "" {
		return nil, ErrUnsupportedLanguage
	}
	if e.languages != nil && !e.languages[name] {
		return nil, ErrUnsupportedLanguage
	}
	l := lang.Languages[name]
	if l == nil || !l.HasParser() {
		return nil, ErrParseUnavailable
	}
	return l, nil
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case '.':
			return path[i:]
		case '/', '\\':
			return ""
		}
	}
	return ""
}

// removeFileLocked assumes the caller already holds path's stripe mutex.
func (e *Engine) removeFileLocked(path string) bool {
	e.filesMu.Lock()
	_, existed := e.files[path]
	delete(e.files, path)
	e.filesMu.Unlock()

	if !existed {
		return false
	}

	e.indexMu.RLock()
	defer e.indexMu.RUnlock()
	e.graph.RemoveFile(path)
	e.text.Remove(path)
	e.sim.RemoveFile(path)
	return true
}

// commitFile installs res as path's records across all three indexes. The
// caller must hold path's stripe mutex, and must have already removed any
// prior record for path, so this is the "insert" half of a
// remove-then-insert transaction: either all of a file's derived records
// exist or none do, never a partial set.
func (e *Engine) commitFile(path, language string, content []byte, res extract.Result) {
	e.indexMu.RLock()
	e.graph.AddFile(path, res.Symbols, res.References, res.Calls, res.Imports)
	e.text.Add(path, content)

	e.addChunks(path, content, res.Symbols)
	e.indexMu.RUnlock()

	symbolIDs := make([]string, len(res.Symbols))
	for i, s := range res.Symbols {
		symbolIDs[i] = s.ID
	}

	fr := &fileRecord{
		FileRecord: model.FileRecord{
			Path:      path,
			Language:  language,
			Content:   append([]byte(nil), content...),
			LineCount: countLines(content),
			SymbolIDs: symbolIDs,
		},
		References: res.References,
		Calls:      res.Calls,
		Imports:    res.Imports,
	}

	e.filesMu.Lock()
	e.files[path] = fr
	e.filesMu.Unlock()
}

// addChunks builds the similarity index's chunks for path: one chunk per
// Symbol's source body, or — when the file declares no Symbols — fixed
// windows over the whole file.
func (e *Engine) addChunks(path string, content []byte, symbols []model.Symbol) {
	lines := splitLinesKeep(content)

	if len(symbols) == 0 {
		windowLines, overlap := e.sim.WindowLines(), e.sim.WindowOverlap()
		step := windowLines - overlap
		if step <= 0 {
			step = windowLines
		}
		for start := 0; start < len(lines); start += step {
			end := start + windowLines
			if end > len(lines) {
				end = len(lines)
			}
			chunkText := joinLines(lines[start:end])
			if len(chunkText) == 0 {
				continue
			}
			chunkID := fmt.Sprintf("%s:window@%d", path, start+1)
			tokens := tokenize.Tokens([]byte(chunkText))
			e.sim.AddChunk(chunkID, path, simindex.LineRange{Start: start + 1, End: end}, tokens)
			if end >= len(lines) {
				break
			}
		}
		return
	}

	for _, sym := range symbols {
		start, end := sym.StartLine-1, sym.EndLine
		if start < 0 {
			start = 0
		}
		if end > len(lines) {
			end = len(lines)
		}
		if start >= end {
			continue
		}
		chunkText := joinLines(lines[start:end])
		tokens := tokenize.Tokens([]byte(chunkText))
		e.sim.AddChunk(sym.ID, path, simindex.LineRange{Start: sym.StartLine, End: sym.EndLine}, tokens)
	}
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := 1
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n
}

func splitLinesKeep(content []byte) []string {
	var lines []string
	start := 0
	for i, b := range content {
		if b == '\n' {
			lines = append(lines, string(content[start:i]))
			start = i + 1
		}
	}
	lines = append(lines, string(content[start:]))
	return lines
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// int32Counter is a tiny atomic-free counter safe for the fan-in pattern
// used by IndexFiles: each worker goroutine owns no shared state except
// this counter, guarded by its own mutex rather than sync/atomic.
type int32Counter struct {
	mu sync.Mutex
	n  int
}

func (c *int32Counter) add(d int) {
	c.mu.Lock()
	c.n += d
	c.mu.Unlock()
}

func (c *int32Counter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
