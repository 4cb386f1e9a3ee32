package engine

import (
	"sort"

	"codescope/internal/discover"
	"codescope/internal/model"
)

// UsageKind classifies one hit from FindSymbolUsages.
type UsageKind string

const (
	UsageCall      UsageKind = "call"
	UsageReference UsageKind = "reference"
	UsageImport    UsageKind = "import"
)

// Usage is one occurrence of a name, tagged by how it was used. Grounded in
// original_source/src/tool_handlers/symbols.rs's find_symbol_usages, which
// distinguishes import-usages from call/reference usages beyond what
// FindReferences alone reports.
type Usage struct {
	Name     string
	FilePath string
	Line     int
	Kind     UsageKind
}

// GetSymbolSource returns symbolID's declaration source plus contextLines
// of surrounding context on each side, clamped to file bounds. Grounded in
// original_source/src/tool_handlers/symbols.rs's get_symbol_definition
// context_lines parameter.
func (e *Engine) GetSymbolSource(symbolID string, contextLines int) (string, bool) {
	e.indexMu.RLock()
	sym, ok := e.graph.Symbol(symbolID)
	e.indexMu.RUnlock()
	if !ok {
		return "", false
	}
	start := sym.StartLine - contextLines
	end := sym.EndLine + contextLines
	if start < 1 {
		start = 1
	}

	e.filesMu.RLock()
	fr, ok := e.files[sym.FilePath]
	e.filesMu.RUnlock()
	if !ok {
		return "", false
	}
	if end > fr.LineCount {
		end = fr.LineCount
	}
	if start > end {
		return "", false
	}

	lines := splitLinesKeep(fr.Content)
	if end > len(lines) {
		end = len(lines)
	}
	return joinLines(lines[start-1 : end]), true
}

// FindSymbolUsages returns every occurrence of name across the indexed
// corpus, tagged Call, Reference or Import. When includeImports is false,
// Import-tagged occurrences are omitted. When excludeTests is true,
// occurrences in files discover.IsTestFile classifies as tests are
// omitted. Grounded in
// original_source/src/tool_handlers/symbols.rs's
// find_symbol_usages(repo, symbol, include_imports, exclude_tests).
func (e *Engine) FindSymbolUsages(name string, includeImports, excludeTests bool) []Usage {
	var out []Usage

	e.indexMu.RLock()
	refs := e.graph.ReferencesTo(name)
	e.indexMu.RUnlock()
	for _, r := range refs {
		if excludeTests && discover.IsTestFile(r.FilePath) {
			continue
		}
		out = append(out, Usage{Name: name, FilePath: r.FilePath, Line: r.Line, Kind: UsageReference})
	}

	if includeImports {
		e.filesMu.RLock()
		for path, fr := range e.files {
			if excludeTests && discover.IsTestFile(path) {
				continue
			}
			for _, imp := range fr.Imports {
				if imp.ImportedModule == name {
					out = append(out, Usage{Name: name, FilePath: path, Kind: UsageImport})
				}
			}
		}
		e.filesMu.RUnlock()
	}

	// Calls are also References in the graph store (extract.go emits both
	// for a call site); reclassify entries whose line matches a recorded
	// CallEdge so a caller distinguishes foo() from a bare mention of foo.
	callLines := make(map[string]map[int]bool)
	e.filesMu.RLock()
	for path, fr := range e.files {
		for _, c := range fr.Calls {
			if c.CalleeName != name {
				continue
			}
			if callLines[path] == nil {
				callLines[path] = make(map[int]bool)
			}
			callLines[path][c.Line] = true
		}
	}
	e.filesMu.RUnlock()

	for i := range out {
		if out[i].Kind == UsageReference && callLines[out[i].FilePath][out[i].Line] {
			out[i].Kind = UsageCall
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// Dependencies returns path's import edges, restricted by direction:
// "out" returns modules path imports, "in" returns files importing path's
// module (matched against path's own module identity, its path without the
// extension, via
// the Graph Store's Importers lookup), "both" (the default for any other
// value) returns both, with "in" results represented as synthetic
// ImportEdges sourced from the importing file. Grounded in
// original_source/src/tool_handlers/callgraph.rs's direction parameter.
func (e *Engine) Dependencies(path, direction string) []model.ImportEdge {
	var out []model.ImportEdge
	if direction != "out" && direction != "in" {
		direction = "both"
	}

	e.indexMu.RLock()
	defer e.indexMu.RUnlock()

	if direction == "out" || direction == "both" {
		out = append(out, e.graph.Imports(path)...)
	}
	if direction == "in" || direction == "both" {
		module := moduleNameOf(path)
		for _, importer := range e.graph.Importers(module) {
			out = append(out, model.ImportEdge{SourceFilePath: importer, ImportedModule: module})
		}
	}
	return out
}

// moduleNameOf derives the module identity a file would be imported as:
// its path with the extension stripped, mirroring how Python/Ruby/JS
// import statements typically name a same-repo module.
func moduleNameOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[:i]
		}
		if path[i] == '/' {
			break
		}
	}
	return path
}
