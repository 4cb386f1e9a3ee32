// Package extract implements the Symbol Extractor: a language-agnostic
// visitor that turns a parsed syntax tree plus its tag query into Symbols,
// References, CallEdges and ImportEdges, guided entirely by the capture
// names and structural hooks the Language Registry (internal/lang) exposes.
package extract

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"codescope/internal/lang"
	"codescope/internal/model"
	"codescope/internal/syntax"
)

// Result holds everything extracted from one file in a single call.
type Result struct {
	Symbols    []model.Symbol
	References []model.Reference
	Calls      []model.CallEdge
	Imports    []model.ImportEdge
}

// defEntry is bookkeeping for a definition already turned into a Symbol,
// keyed later by byte range so reference/call sites can find their
// innermost enclosing declaration by walking node ancestry.
type defEntry struct {
	id      string
	kind    lang.SymbolKind
	endByte uint32
}

// Extract runs languageName's tag query against tree and produces the full
// set of derived records for filePath. It never returns an error: malformed
// input yields a tree with ERROR nodes (see internal/syntax), and this
// extractor simply skips nodes it cannot make sense of, so extraction
// continues past them rather than aborting the whole file.
func Extract(languageName string, tree *syntax.Tree, query *sitter.Query, filePath string) Result {
	l := lang.Languages[languageName]
	if l == nil || tree == nil || tree.Root == nil {
		return Result{}
	}
	source := tree.Source

	symbols, defsByStart, declNameBytes := extractDefinitions(l, query, tree.Root, source, filePath)
	refs, calls, imports := extractUses(l, query, tree.Root, source, filePath, defsByStart, declNameBytes)

	return Result{Symbols: symbols, References: refs, Calls: calls, Imports: imports}
}

func extractDefinitions(l *lang.Language, query *sitter.Query, root *sitter.Node, source []byte, filePath string) ([]model.Symbol, map[uint32]defEntry, map[uint32]bool) {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	var symbols []model.Symbol
	defsByStart := make(map[uint32]defEntry)
	declNameBytes := make(map[uint32]bool)
	seenIDs := make(map[string]bool)

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		nameNode, captureName, defNode := matchNodes(query, match)
		if defNode == nil || captureName == "" {
			continue
		}
		kind, symbolKind, ok := lang.CaptureInfo(captureName)
		if !ok || kind != lang.CaptureDefinition {
			continue
		}
		if nameNode != nil {
			declNameBytes[nameNode.StartByte()] = true
		}

		var name string
		if nameNode != nil {
			name = lang.NodeText(nameNode, source)
		} else {
			// Anonymous declaration (closure/lambda): spec mandates a
			// deterministic synthetic name so reindexing an unmoved
			// closure keeps the same Symbol id.
			name = fmt.Sprintf("<closure@%d>", defNode.StartPoint().Row+1)
			symbolKind = lang.Function
		}

		if l.RefineSymbolKind != nil {
			symbolKind = l.RefineSymbolKind(defNode, symbolKind, source)
		}

		qualifiedName := name
		if l.FindEnclosingClass != nil {
			if enclosing := l.FindEnclosingClass(defNode, source); enclosing != "" {
				qualifiedName = enclosing + "." + name
				if symbolKind == lang.Function {
					symbolKind = lang.Method
				}
			}
		}
		if l.FindReceiverType != nil {
			if recv := l.FindReceiverType(defNode, source); recv != "" {
				qualifiedName = recv + "." + name
			}
		}

		startLine := int(defNode.StartPoint().Row) + 1
		endLine := int(defNode.EndPoint().Row) + 1
		if endLine < startLine {
			endLine = startLine
		}

		id := model.BuildSymbolID(filePath, qualifiedName, startLine)
		if seenIDs[id] {
			// First-wins: a node matched by more than one query pattern
			// (e.g. a JS arrow function matched by both its own
			// variable_declarator pattern and the enclosing
			// lexical_declaration pattern) keeps its first classification.
			continue
		}
		seenIDs[id] = true

		var signature string
		if l.ExtractSignature != nil {
			signature = l.ExtractSignature(defNode, symbolKind, source)
		}

		symbols = append(symbols, model.Symbol{
			ID:            id,
			Name:          name,
			Kind:          symbolKind,
			FilePath:      filePath,
			StartLine:     startLine,
			EndLine:       endLine,
			Signature:     signature,
			QualifiedName: qualifiedName,
			DocComment:    findDocComment(l, defNode, source),
		})

		defsByStart[defNode.StartByte()] = defEntry{id: id, kind: symbolKind, endByte: defNode.EndByte()}
	}

	return symbols, defsByStart, declNameBytes
}

// useCandidate is one query match not classified as a definition, collected
// before any Reference/CallEdge/ImportEdge is built so the identifier
// capture (which matches every plain identifier in the tree, including ones
// a more specific pattern already classified as a call or import) can be
// filtered against what those specific patterns already claimed.
type useCandidate struct {
	kind     lang.CaptureKind
	nameNode *sitter.Node
	siteNode *sitter.Node
}

func extractUses(l *lang.Language, query *sitter.Query, root *sitter.Node, source []byte, filePath string, defsByStart map[uint32]defEntry, declNameBytes map[uint32]bool) ([]model.Reference, []model.CallEdge, []model.ImportEdge) {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	var candidates []useCandidate
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		nameNode, captureName, siteNode := matchNodes(query, match)
		if nameNode == nil || captureName == "" || siteNode == nil {
			continue
		}
		kind, _, ok := lang.CaptureInfo(captureName)
		if !ok || kind == lang.CaptureDefinition {
			continue
		}
		candidates = append(candidates, useCandidate{kind: kind, nameNode: nameNode, siteNode: siteNode})
	}

	// claimedBytes marks name-node positions a more specific pattern
	// (declaration, call, import) already accounts for, so the generic
	// reference.identifier pattern — which matches every bare identifier,
	// declaration names and call callees included — doesn't double-emit a
	// Reference for the same occurrence.
	claimedBytes := make(map[uint32]bool, len(declNameBytes))
	for b := range declNameBytes {
		claimedBytes[b] = true
	}
	for _, c := range candidates {
		if c.kind == lang.CaptureCall || c.kind == lang.CaptureImport {
			claimedBytes[c.nameNode.StartByte()] = true
		}
	}

	var refs []model.Reference
	var calls []model.CallEdge
	var imports []model.ImportEdge

	for _, c := range candidates {
		name := lang.NodeText(c.nameNode, source)
		line := int(c.nameNode.StartPoint().Row) + 1

		switch c.kind {
		case lang.CaptureImport:
			imports = append(imports, model.ImportEdge{
				SourceFilePath: filePath,
				ImportedModule: trimImportQuotes(name),
			})
		case lang.CaptureCall:
			containing := findEnclosingSymbol(defsByStart, c.siteNode, nil)
			refs = append(refs, model.Reference{
				Name:               name,
				FilePath:           filePath,
				Line:               line,
				ContainingSymbolID: containing,
			})
			if caller := findEnclosingSymbol(defsByStart, c.siteNode, callableKinds); caller != "" {
				calls = append(calls, model.CallEdge{
					CallerSymbolID: caller,
					CalleeName:     name,
					FilePath:       filePath,
					Line:           line,
				})
			}
			// Edges outside any enclosing function are dropped, but the
			// reference itself still stands: a call at file scope is a
			// legitimate use of an identifier even with no caller Symbol.
		case lang.CaptureReference:
			if claimedBytes[c.nameNode.StartByte()] {
				continue
			}
			containing := findEnclosingSymbol(defsByStart, c.siteNode, nil)
			refs = append(refs, model.Reference{
				Name:               name,
				FilePath:           filePath,
				Line:               line,
				ContainingSymbolID: containing,
			})
		}
	}

	// Ruby/JS-style call-as-import (require, require_relative, require()):
	// these languages have no dedicated import grammar node, so their tag
	// queries don't capture reference.import at all. ImportCallNames names
	// call-expression callees that behave as imports; importsFromCalls runs
	// the query once more and keeps the calls whose callee is one of them.
	if len(l.ImportCallNames) > 0 && l.ExtractImportTarget != nil {
		imports = append(imports, importsFromCalls(l, query, root, source, filePath)...)
	}

	return refs, calls, imports
}

var callableKinds = map[lang.SymbolKind]bool{
	lang.Function: true,
	lang.Method:   true,
}

// findEnclosingSymbol walks node's ancestors looking for the innermost one
// that is itself a recorded definition. If kinds is non-nil, only
// definitions whose kind is in the set count as a match; ancestors of other
// kinds are stepped over rather than stopping the walk, so e.g. a call
// nested in a class body but not in any method still finds an outer
// function if one encloses the class.
func findEnclosingSymbol(defsByStart map[uint32]defEntry, node *sitter.Node, kinds map[lang.SymbolKind]bool) string {
	current := node.Parent()
	for current != nil {
		if entry, ok := defsByStart[current.StartByte()]; ok && entry.endByte == current.EndByte() {
			if kinds == nil || kinds[entry.kind] {
				return entry.id
			}
		}
		current = current.Parent()
	}
	return ""
}

// matchNodes extracts the @name capture and the definition/reference
// capture (name + node) from a query match by walking match.Captures.
func matchNodes(query *sitter.Query, match *sitter.QueryMatch) (nameNode *sitter.Node, captureName string, siteNode *sitter.Node) {
	for _, c := range match.Captures {
		cname := query.CaptureNameForId(c.Index)
		if cname == "name" {
			nameNode = c.Node
			continue
		}
		if _, _, ok := lang.CaptureInfo(cname); ok {
			captureName = cname
			siteNode = c.Node
		}
	}
	return nameNode, captureName, siteNode
}

// findDocComment returns the text of comment siblings immediately preceding
// defNode within its parent, joined in source order. Returns "" if the
// language declares no comment node types or none are adjacent.
func findDocComment(l *lang.Language, defNode *sitter.Node, source []byte) string {
	if len(l.CommentNodeTypes) == 0 {
		return ""
	}
	parent := defNode.Parent()
	if parent == nil {
		return ""
	}

	idx := -1
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(i)
		if child.StartByte() == defNode.StartByte() && child.EndByte() == defNode.EndByte() {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return ""
	}

	var lines []string
	for i := idx - 1; i >= 0; i-- {
		sib := parent.Child(i)
		if !l.IsComment(sib) {
			break
		}
		lines = append([]string{lang.NodeText(sib, source)}, lines...)
	}
	return strings.Join(lines, "\n")
}

func trimImportQuotes(s string) string {
	return strings.Trim(s, "\"'`")
}

// importsFromCalls handles languages (Ruby, JavaScript) where import-like
// behavior is expressed as an ordinary call (require, require_relative,
// require()) rather than a dedicated grammar node, using the same reference.call
// capture pattern already compiled into the tag query.
func importsFromCalls(l *lang.Language, query *sitter.Query, root *sitter.Node, source []byte, filePath string) []model.ImportEdge {
	names := make(map[string]bool, len(l.ImportCallNames))
	for _, n := range l.ImportCallNames {
		names[n] = true
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	var imports []model.ImportEdge
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		nameNode, captureName, siteNode := matchNodes(query, match)
		if nameNode == nil || siteNode == nil {
			continue
		}
		kind, _, ok := lang.CaptureInfo(captureName)
		if !ok || kind != lang.CaptureCall {
			continue
		}
		calleeName := lang.NodeText(nameNode, source)
		if !names[calleeName] {
			continue
		}
		target := l.ExtractImportTarget(siteNode, source)
		if target == "" {
			continue
		}
		imports = append(imports, model.ImportEdge{
			SourceFilePath: filePath,
			ImportedModule: trimImportQuotes(target),
		})
	}
	return imports
}
