package engine

import (
	"path"
	"sort"
	"strings"

	"codescope/internal/model"
	"codescope/internal/simindex"
	"codescope/internal/textindex"
)

// SearchHit is one ranked result of Search.
type SearchHit struct {
	FilePath  string
	StartLine int
	EndLine   int
	Content   string
	Score     float64
}

// SimilarHit is one ranked result of FindSimilar.
type SimilarHit struct {
	ChunkID    string
	FilePath   string
	StartLine  int
	EndLine    int
	Similarity float64
}

// ReferenceHit is one result of FindReferences, classified by whether it
// sits in the same file as a Symbol declaration of that name, or cross-file.
type ReferenceHit struct {
	model.Reference
	Local bool
}

// FindSymbols returns every live Symbol whose name matches namePattern and
// kind matches kind. A pattern with no '*' or '?' is a case-insensitive
// substring match; otherwise it is a glob. An empty namePattern matches
// every name. An empty kind matches every kind.
func (e *Engine) FindSymbols(namePattern string, kind model.SymbolKind) []model.Symbol {
	matchName := buildNameMatcher(namePattern)

	e.indexMu.RLock()
	all := e.graph.AllSymbols()
	e.indexMu.RUnlock()
	out := make([]model.Symbol, 0, len(all))
	for _, s := range all {
		if kind != "" && s.Kind != kind {
			continue
		}
		if !matchName(s.Name) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func buildNameMatcher(pattern string) func(string) bool {
	if pattern == "" {
		return func(string) bool { return true }
	}
	if strings.ContainsAny(pattern, "*?") {
		return func(name string) bool {
			ok, err := path.Match(pattern, name)
			return err == nil && ok
		}
	}
	lower := strings.ToLower(pattern)
	return func(name string) bool {
		return strings.Contains(strings.ToLower(name), lower)
	}
}

// SymbolAt returns the innermost Symbol in path whose [StartLine, EndLine]
// range contains line, or false if none does. "Innermost" is the Symbol
// with the smallest range; a tie is broken by the larger StartLine (the
// more deeply nested declaration starts later for well-formed nesting).
func (e *Engine) SymbolAt(path string, line int) (model.Symbol, bool) {
	e.indexMu.RLock()
	candidates := e.graph.SymbolsInFile(path)
	e.indexMu.RUnlock()
	var best model.Symbol
	found := false
	for _, s := range candidates {
		if line < s.StartLine || line > s.EndLine {
			continue
		}
		if !found {
			best, found = s, true
			continue
		}
		bestRange := best.EndLine - best.StartLine
		sRange := s.EndLine - s.StartLine
		if sRange < bestRange || (sRange == bestRange && s.StartLine > best.StartLine) {
			best = s
		}
	}
	return best, found
}

// SymbolsInFile returns path's Symbols in declaration order.
func (e *Engine) SymbolsInFile(path string) []model.Symbol {
	e.indexMu.RLock()
	defer e.indexMu.RUnlock()
	return e.graph.SymbolsInFile(path)
}

// GetFile returns path's last-indexed content, or false if path is not
// indexed.
func (e *Engine) GetFile(path string) (string, bool) {
	e.filesMu.RLock()
	defer e.filesMu.RUnlock()
	fr, ok := e.files[path]
	if !ok {
		return "", false
	}
	return string(fr.Content), true
}

// GetFileLines returns the 1-based inclusive [start, end] line range of
// path's content. Returns false if path is not indexed, start > end, or the
// range falls outside [1, LineCount].
func (e *Engine) GetFileLines(path string, start, end int) (string, bool) {
	e.filesMu.RLock()
	fr, ok := e.files[path]
	e.filesMu.RUnlock()
	if !ok {
		return "", false
	}
	if start > end || start < 1 || end > fr.LineCount {
		return "", false
	}
	lines := splitLinesKeep(fr.Content)
	if end > len(lines) {
		return "", false
	}
	return joinLines(lines[start-1 : end]), true
}

// Search ranks path-scoped BM25 hits for query, returning at most k,
// highest score first. Per hit, the line range is the 3-line window
// centered on the first matched position.
func (e *Engine) Search(query string, k int) []SearchHit {
	e.indexMu.RLock()
	hits := e.text.Search(query, k)
	e.indexMu.RUnlock()
	out := make([]SearchHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, e.buildSearchHit(h))
	}
	return out
}

func (e *Engine) buildSearchHit(h textindex.Hit) SearchHit {
	e.filesMu.RLock()
	fr, ok := e.files[h.DocID]
	e.filesMu.RUnlock()

	hit := SearchHit{FilePath: h.DocID, Score: h.Score}
	if !ok {
		return hit
	}

	center := h.MatchedLine
	if center < 1 {
		center = 1
	}
	start, end := center-1, center+1
	if start < 1 {
		start = 1
	}
	if end > fr.LineCount {
		end = fr.LineCount
	}
	if end < start {
		end = start
	}
	hit.StartLine, hit.EndLine = start, end

	lines := splitLinesKeep(fr.Content)
	if end <= len(lines) && start >= 1 {
		hit.Content = joinLines(lines[start-1 : end])
	}
	return hit
}

// FindSimilar tokenizes code and ranks it against every indexed chunk,
// returning at most k by cosine similarity descending.
func (e *Engine) FindSimilar(code string, k int) []SimilarHit {
	e.indexMu.RLock()
	matches := e.sim.FindSimilar(code, k)
	e.indexMu.RUnlock()
	out := make([]SimilarHit, 0, len(matches))
	for _, m := range matches {
		out = append(out, toSimilarHit(m))
	}
	return out
}

func toSimilarHit(m simindex.Match) SimilarHit {
	return SimilarHit{
		ChunkID:    m.ChunkID,
		FilePath:   m.FilePath,
		StartLine:  m.Lines.Start,
		EndLine:    m.Lines.End,
		Similarity: m.Similarity,
	}
}

// FindReferences returns every Reference named name, each classified local
// if it shares a file with at least one Symbol declaration named name,
// cross-file otherwise.
func (e *Engine) FindReferences(name string) []ReferenceHit {
	e.indexMu.RLock()
	refs := e.graph.ReferencesTo(name)
	declFiles := make(map[string]bool)
	for _, s := range e.graph.ResolveName(name, "") {
		declFiles[s.FilePath] = true
	}
	e.indexMu.RUnlock()

	out := make([]ReferenceHit, 0, len(refs))
	for _, r := range refs {
		out = append(out, ReferenceHit{Reference: r, Local: declFiles[r.FilePath]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// Callees returns the Symbols symbolID's declaration calls. A missing id
// returns an empty slice.
func (e *Engine) Callees(symbolID string) []model.Symbol {
	e.indexMu.RLock()
	defer e.indexMu.RUnlock()
	return e.graph.Callees(symbolID)
}

// Callers returns the Symbols whose declarations call symbolID's Symbol
// (matched by name). A missing id returns an empty slice.
func (e *Engine) Callers(symbolID string) []model.Symbol {
	e.indexMu.RLock()
	defer e.indexMu.RUnlock()
	return e.graph.Callers(symbolID)
}

// ListFiles returns every indexed file path, sorted.
func (e *Engine) ListFiles() []string {
	e.filesMu.RLock()
	defer e.filesMu.RUnlock()
	out := make([]string, 0, len(e.files))
	for p := range e.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Stats reports the current file, symbol and chunk counts.
func (e *Engine) Stats() Stats {
	e.filesMu.RLock()
	numFiles := len(e.files)
	e.filesMu.RUnlock()

	e.indexMu.RLock()
	defer e.indexMu.RUnlock()
	return Stats{
		Files:   numFiles,
		Symbols: e.graph.Count(),
		Chunks:  e.sim.ChunkCount(),
	}
}
