// Package model holds the data types shared across the parser driver,
// symbol extractor, indexes and engine facade: Symbol, Reference, CallEdge,
// ImportEdge and FileRecord, per the data model.
package model

import (
	"fmt"

	"codescope/internal/lang"
)

// SymbolKind is the closed set of declaration kinds a Symbol can carry.
type SymbolKind = lang.SymbolKind

// Re-exported for callers that only import internal/model.
const (
	Function  = lang.Function
	Method    = lang.Method
	Class     = lang.Class
	Struct    = lang.Struct
	Enum      = lang.Enum
	Interface = lang.Interface
	Trait     = lang.Trait
	TypeAlias = lang.TypeAlias
	Module    = lang.Module
	Namespace = lang.Namespace
	Constant  = lang.Constant
	Variable  = lang.Variable
	Macro     = lang.Macro
	Other     = lang.Other
)

// Symbol is a declaration recorded at a location in a file.
//
// ID is derived from FilePath+QualifiedName+StartLine (see BuildSymbolID) so it
// stays stable across a pure reindex of an unmoved declaration, and two
// declarations that share a qualified name (overloads, shadowing) still
// coexist as distinct Symbols.
type Symbol struct {
	ID            string
	Name          string
	Kind          SymbolKind
	FilePath      string
	StartLine     int // 1-based, inclusive
	EndLine       int // 1-based, inclusive; EndLine >= StartLine
	Signature     string
	QualifiedName string
	DocComment    string
}

// Reference is a lexical use of an identifier that is not itself a
// declaration.
type Reference struct {
	Name               string
	FilePath           string
	Line               int
	ContainingSymbolID string // "" if not enclosed by any declaration
}

// CallEdge records a call-expression's syntactic callee name. Resolution to
// a concrete Symbol happens at query time by name, since extraction is
// lexical rather than type-aware.
type CallEdge struct {
	CallerSymbolID string
	CalleeName     string
	FilePath       string
	Line           int
}

// ImportEdge is a module dependency recorded at an import/use/require site.
type ImportEdge struct {
	SourceFilePath string
	ImportedModule string
}

// BuildSymbolID derives a Symbol's stable id from its declaration site.
// Using file_path+qualified_name+start_line (rather than a random or
// insertion-order id) is what makes ids survive a pure reindex and lets
// overloaded/shadowed declarations with the same qualified name coexist.
func BuildSymbolID(filePath, qualifiedName string, startLine int) string {
	return fmt.Sprintf("%s:%s:%d", filePath, qualifiedName, startLine)
}

// FileRecord is the engine's bookkeeping for one indexed file.
type FileRecord struct {
	Path      string
	Language  string
	Content   []byte // immutable snapshot of last-indexed bytes
	LineCount int
	SymbolIDs []string
}
