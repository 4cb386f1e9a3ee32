// Package lang provides a language registry mapping file extensions to
// tree-sitter grammars, their embedded tag queries, and small per-language
// structural helpers (receiver types, enclosing declarations, signatures,
// doc comments) that a lexical/structural extractor needs but a tag query
// alone cannot express.
package lang

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed queries/*.scm
var queryFS embed.FS

var whitespaceRe = regexp.MustCompile(`\s+`)

// SymbolKind is the closed set of declaration kinds recognized across
// every supported language.
type SymbolKind string

const (
	Function  SymbolKind = "function"
	Method    SymbolKind = "method"
	Class     SymbolKind = "class"
	Struct    SymbolKind = "struct"
	Enum      SymbolKind = "enum"
	Interface SymbolKind = "interface"
	Trait     SymbolKind = "trait"
	TypeAlias SymbolKind = "type_alias"
	Module    SymbolKind = "module"
	Namespace SymbolKind = "namespace"
	Constant  SymbolKind = "constant"
	Variable  SymbolKind = "variable"
	Macro     SymbolKind = "macro"
	Other     SymbolKind = "other"
)

// CaptureKind distinguishes a declaration from a non-declaring use.
type CaptureKind int

const (
	CaptureDefinition CaptureKind = iota
	CaptureReference
	CaptureCall
	CaptureImport
)

// captureMap maps a query capture name (e.g. "definition.function") to the
// kind of occurrence it represents and, for definitions, the SymbolKind.
var captureMap = map[string]struct {
	Kind       CaptureKind
	SymbolKind SymbolKind
}{
	"definition.function":   {CaptureDefinition, Function},
	"definition.method":     {CaptureDefinition, Method},
	"definition.class":      {CaptureDefinition, Class},
	"definition.struct":     {CaptureDefinition, Struct},
	"definition.enum":       {CaptureDefinition, Enum},
	"definition.interface":  {CaptureDefinition, Interface},
	"definition.trait":      {CaptureDefinition, Trait},
	"definition.type_alias": {CaptureDefinition, TypeAlias},
	"definition.module":     {CaptureDefinition, Module},
	"definition.namespace":  {CaptureDefinition, Namespace},
	"definition.constant":   {CaptureDefinition, Constant},
	"definition.variable":   {CaptureDefinition, Variable},
	"definition.macro":      {CaptureDefinition, Macro},
	"reference.call":        {CaptureCall, Other},
	"reference.import":      {CaptureImport, Other},
	"reference.identifier":  {CaptureReference, Other},
}

// CaptureInfo returns the classification for a query capture name, if known.
func CaptureInfo(name string) (kind CaptureKind, symbolKind SymbolKind, ok bool) {
	c, ok := captureMap[name]
	return c.Kind, c.SymbolKind, ok
}

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string

	// CommentNodeTypes lists tree-sitter node type names treated as comments
	// when scanning for a doc-comment region immediately preceding a
	// declaration.
	CommentNodeTypes []string

	lang      *sitter.Language
	queryOnce sync.Once
	query     *sitter.Query
	queryErr  error

	// FindEnclosingClass returns the name of the nearest enclosing
	// class/struct/module/namespace declaration for a definition node that
	// sits lexically inside one (Python/Ruby/Java/C++ method-in-class
	// style). Returns "" if the node is not nested in such a declaration.
	FindEnclosingClass func(node *sitter.Node, source []byte) string

	// FindReceiverType extracts the receiver type name for a method
	// declaration that carries it syntactically rather than by nesting
	// (Go-style). Returns "" if not applicable.
	FindReceiverType func(node *sitter.Node, source []byte) string

	// ExtractSignature returns a signature string for a definition node.
	ExtractSignature func(node *sitter.Node, kind SymbolKind, source []byte) string

	// RefineSymbolKind lets a language narrow a capture's default
	// SymbolKind by inspecting the definition node itself, for grammars
	// where one query pattern covers several kinds (e.g. Go's type_spec
	// covers struct, interface and type_alias).
	RefineSymbolKind func(node *sitter.Node, captured SymbolKind, source []byte) SymbolKind

	// ImportCallNames lists call-expression callee names that behave as
	// imports syntactically (Ruby's require/require_relative, a require()
	// call in JS) for languages without a dedicated import/use grammar
	// node the query can capture directly.
	ImportCallNames []string

	// ExtractImportTarget extracts the imported module string from a call
	// node whose callee name is in ImportCallNames.
	ExtractImportTarget func(node *sitter.Node, source []byte) string
}

// GetLanguage returns the tree-sitter Language pointer, or nil if this
// Language entry has no grammar wired — recognized by extension but never
// parseable.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// HasParser reports whether a grammar is registered for this language.
func (l *Language) HasParser() bool {
	return l.lang != nil
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe); callers that
// process many files concurrently should pool these, see internal/syntax.
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetTagQuery returns the compiled tree-sitter query (safe to share across
// goroutines once compiled).
func (l *Language) GetTagQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if
// unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// IsComment reports whether node's type is one of l's comment node types.
func (l *Language) IsComment(node *sitter.Node) bool {
	t := node.Type()
	for _, ct := range l.CommentNodeTypes {
		if ct == t {
			return true
		}
	}
	return false
}
