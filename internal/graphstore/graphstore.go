// Package graphstore implements the Graph Store: a live,
// incrementally-updated arena of Symbols addressed by integer index, with
// call and reference edges held as index slices rather than pointers, so
// callers/callees and find-references queries run in time proportional to
// the result size instead of a full scan.
package graphstore

import (
	"sort"
	"strings"
	"sync"

	"codescope/internal/model"
)

// Store holds the Symbol arena and its derived edges. All exported methods
// are safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	symbols []*model.Symbol  // arena; nil slots are deleted symbols
	byID    map[string]int   // Symbol.ID -> arena index
	byFile  map[string][]int // FilePath -> arena indices declared in that file

	// byFileName resolves (FilePath, Name) -> arena indices, used for
	// same-file-preferred callee resolution.
	byFileName map[string]map[string][]int
	// byName resolves Name -> arena indices across all files, the fallback
	// when no same-file declaration matches.
	byName map[string][]int

	// forward call edges: caller arena index -> callee names it calls.
	callsOut map[int][]string
	// reverse call edges: callee name -> caller arena indices.
	callsIn map[string][]int

	// references keyed by referenced name, and by containing symbol id, for
	// find_references / find_symbol_usages.
	refsByName      map[string][]model.Reference
	refsByContainer map[string][]model.Reference

	// per-file bookkeeping so RemoveFile can undo exactly what AddFile did.
	fileCallerIdx map[string][]int    // file -> arena indices of its CallEdges' callers (for callsOut cleanup)
	fileCallNames map[string][]fcall  // file -> (callerIdx, calleeName) pairs added for this file
	fileRefNames  map[string][]string // file -> distinct reference names touched, for refsByName cleanup
	fileImports   map[string][]model.ImportEdge
}

type fcall struct {
	callerIdx int
	name      string
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		byID:            make(map[string]int),
		byFile:          make(map[string][]int),
		byFileName:      make(map[string]map[string][]int),
		byName:          make(map[string][]int),
		callsOut:        make(map[int][]string),
		callsIn:         make(map[string][]int),
		refsByName:      make(map[string][]model.Reference),
		refsByContainer: make(map[string][]model.Reference),
		fileCallerIdx:   make(map[string][]int),
		fileCallNames:   make(map[string][]fcall),
		fileRefNames:    make(map[string][]string),
		fileImports:     make(map[string][]model.ImportEdge),
	}
}

// AddFile inserts symbols, references, call edges and import edges for one
// file. Callers must have already removed any prior records for filePath
// (RemoveFile); AddFile does not check for duplicates beyond the symbol-id
// map, relying on the engine's remove-then-insert transaction discipline.
func (s *Store) AddFile(filePath string, symbols []model.Symbol, refs []model.Reference, calls []model.CallEdge, imports []model.ImportEdge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fileIdxs []int
	for i := range symbols {
		sym := symbols[i]
		idx := len(s.symbols)
		s.symbols = append(s.symbols, &sym)
		s.byID[sym.ID] = idx
		fileIdxs = append(fileIdxs, idx)

		if s.byFileName[sym.FilePath] == nil {
			s.byFileName[sym.FilePath] = make(map[string][]int)
		}
		s.byFileName[sym.FilePath][sym.Name] = append(s.byFileName[sym.FilePath][sym.Name], idx)
		s.byName[sym.Name] = append(s.byName[sym.Name], idx)
	}
	s.byFile[filePath] = fileIdxs

	var refNames []string
	for _, r := range refs {
		s.refsByName[r.Name] = append(s.refsByName[r.Name], r)
		refNames = append(refNames, r.Name)
		if r.ContainingSymbolID != "" {
			s.refsByContainer[r.ContainingSymbolID] = append(s.refsByContainer[r.ContainingSymbolID], r)
		}
	}
	s.fileRefNames[filePath] = refNames

	var callerIdxs []int
	var fcalls []fcall
	for _, c := range calls {
		callerIdx, ok := s.byID[c.CallerSymbolID]
		if !ok {
			// No dangling CallEdge: a caller that failed to
			// register as a Symbol cannot anchor an edge.
			continue
		}
		s.callsOut[callerIdx] = append(s.callsOut[callerIdx], c.CalleeName)
		s.callsIn[c.CalleeName] = append(s.callsIn[c.CalleeName], callerIdx)
		callerIdxs = append(callerIdxs, callerIdx)
		fcalls = append(fcalls, fcall{callerIdx: callerIdx, name: c.CalleeName})
	}
	s.fileCallerIdx[filePath] = callerIdxs
	s.fileCallNames[filePath] = fcalls
	s.fileImports[filePath] = imports
}

// RemoveFile deletes every Symbol, reference, call edge and import edge
// whose FilePath (or SourceFilePath) equals path. It is the exact inverse
// of AddFile, so remove-then-add leaves the Store indistinguishable from
// never having seen path.
func (s *Store) RemoveFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idxs := s.byFile[path]
	for _, idx := range idxs {
		sym := s.symbols[idx]
		if sym == nil {
			continue
		}
		delete(s.byID, sym.ID)
		s.byName[sym.Name] = removeInt(s.byName[sym.Name], idx)
		if m := s.byFileName[sym.FilePath]; m != nil {
			m[sym.Name] = removeInt(m[sym.Name], idx)
			if len(m[sym.Name]) == 0 {
				delete(m, sym.Name)
			}
			if len(m) == 0 {
				delete(s.byFileName, sym.FilePath)
			}
		}
		s.symbols[idx] = nil
	}
	delete(s.byFile, path)

	for _, fc := range s.fileCallNames[path] {
		s.callsOut[fc.callerIdx] = removeString(s.callsOut[fc.callerIdx], fc.name)
		if len(s.callsOut[fc.callerIdx]) == 0 {
			delete(s.callsOut, fc.callerIdx)
		}
		s.callsIn[fc.name] = removeInt(s.callsIn[fc.name], fc.callerIdx)
		if len(s.callsIn[fc.name]) == 0 {
			delete(s.callsIn, fc.name)
		}
	}
	delete(s.fileCallerIdx, path)
	delete(s.fileCallNames, path)

	for _, name := range s.fileRefNames[path] {
		s.refsByName[name] = filterRefs(s.refsByName[name], path)
		if len(s.refsByName[name]) == 0 {
			delete(s.refsByName, name)
		}
	}
	delete(s.fileRefNames, path)
	for id, refs := range s.refsByContainer {
		kept := filterRefs(refs, path)
		if len(kept) == 0 {
			delete(s.refsByContainer, id)
		} else {
			s.refsByContainer[id] = kept
		}
	}
	delete(s.fileImports, path)
}

// Clear removes every Symbol and edge, resetting the Store to empty.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := New()
	s.symbols = nil
	s.byID = fresh.byID
	s.byFile = fresh.byFile
	s.byFileName = fresh.byFileName
	s.byName = fresh.byName
	s.callsOut = fresh.callsOut
	s.callsIn = fresh.callsIn
	s.refsByName = fresh.refsByName
	s.refsByContainer = fresh.refsByContainer
	s.fileCallerIdx = fresh.fileCallerIdx
	s.fileCallNames = fresh.fileCallNames
	s.fileRefNames = fresh.fileRefNames
	s.fileImports = fresh.fileImports
}

// Symbol returns the live Symbol with the given id, or false if it does not
// exist (deleted, or never indexed).
func (s *Store) Symbol(id string) (model.Symbol, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok || s.symbols[idx] == nil {
		return model.Symbol{}, false
	}
	return *s.symbols[idx], true
}

// SymbolsInFile returns every live Symbol declared in path, in declaration
// order (by StartLine, which is also arena insertion order per file).
func (s *Store) SymbolsInFile(path string) []model.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Symbol
	for _, idx := range s.byFile[path] {
		if sym := s.symbols[idx]; sym != nil {
			out = append(out, *sym)
		}
	}
	return out
}

// AllSymbols returns every live Symbol, in a deterministic order (by
// FilePath then StartLine then Name) so callers that filter it (find_symbols)
// get reproducible results regardless of indexing order.
func (s *Store) AllSymbols() []model.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		if sym != nil {
			out = append(out, *sym)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		if out[i].StartLine != out[j].StartLine {
			return out[i].StartLine < out[j].StartLine
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ResolveName returns the Symbols matching name, preferring declarations in
// preferFile when any exist there, otherwise every Symbol named name across
// all files.
func (s *Store) ResolveName(name, preferFile string) []model.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if preferFile != "" {
		if m := s.byFileName[preferFile]; m != nil {
			if idxs := m[name]; len(idxs) > 0 {
				return s.symbolsAt(idxs)
			}
		}
	}
	return s.symbolsAt(s.byName[name])
}

func (s *Store) symbolsAt(idxs []int) []model.Symbol {
	var out []model.Symbol
	for _, idx := range idxs {
		if sym := s.symbols[idx]; sym != nil {
			out = append(out, *sym)
		}
	}
	return out
}

// Callees returns the Symbols called by callerID: every CallEdge recorded
// with that caller, resolved to Symbols by name with callerID's own file
// preferred on ties. A missing caller id returns an empty slice, never an
// error.
func (s *Store) Callees(callerID string) []model.Symbol {
	s.mu.RLock()
	idx, ok := s.byID[callerID]
	if !ok || s.symbols[idx] == nil {
		s.mu.RUnlock()
		return nil
	}
	callerFile := s.symbols[idx].FilePath
	names := append([]string(nil), s.callsOut[idx]...)
	s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []model.Symbol
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, sym := range s.ResolveName(name, callerFile) {
			out = append(out, sym)
		}
	}
	return out
}

// Callers returns the Symbols whose body contains a call to calleeID's
// name, i.e. the reverse of Callees. A missing callee id returns an empty
// slice.
func (s *Store) Callers(calleeID string) []model.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[calleeID]
	if !ok || s.symbols[idx] == nil {
		return nil
	}
	name := s.symbols[idx].Name

	var out []model.Symbol
	seen := make(map[int]bool)
	for _, callerIdx := range s.callsIn[name] {
		if seen[callerIdx] {
			continue
		}
		seen[callerIdx] = true
		if sym := s.symbols[callerIdx]; sym != nil {
			out = append(out, *sym)
		}
	}
	return out
}

// ReferencesTo returns every Reference recorded against name.
func (s *Store) ReferencesTo(name string) []model.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Reference, len(s.refsByName[name]))
	copy(out, s.refsByName[name])
	return out
}

// ReferencesIn returns every Reference whose ContainingSymbolID is id.
func (s *Store) ReferencesIn(id string) []model.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Reference, len(s.refsByContainer[id]))
	copy(out, s.refsByContainer[id])
	return out
}

// Imports returns the ImportEdges recorded for path.
func (s *Store) Imports(path string) []model.ImportEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ImportEdge, len(s.fileImports[path]))
	copy(out, s.fileImports[path])
	return out
}

// Importers returns every file path with an ImportEdge naming module,
// either exactly or as a path ending in "/"+module, so the bare name "sub"
// matches a file that imports "pkg/sub".
func (s *Store) Importers(module string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for path, edges := range s.fileImports {
		for _, e := range edges {
			if e.ImportedModule == module || strings.HasSuffix(e.ImportedModule, "/"+module) {
				if !seen[path] {
					seen[path] = true
					out = append(out, path)
				}
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// Count returns the number of live Symbols.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sym := range s.symbols {
		if sym != nil {
			n++
		}
	}
	return n
}

func removeInt(xs []int, v int) []int {
	out := xs[:0]
	for _, x := range xs {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func removeString(xs []string, v string) []string {
	out := xs[:0]
	for _, x := range xs {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func filterRefs(refs []model.Reference, path string) []model.Reference {
	out := refs[:0]
	for _, r := range refs {
		if r.FilePath != path {
			out = append(out, r)
		}
	}
	return out
}
