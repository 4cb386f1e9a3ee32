package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

func init() {
	Languages["ruby"] = &Language{
		Name:                "ruby",
		Extensions:          []string{".rb"},
		CommentNodeTypes:    []string{"comment"},
		lang:                ruby.GetLanguage(),
		FindEnclosingClass:  rubyFindEnclosingClass,
		ExtractSignature:    rubyExtractSignature,
		ImportCallNames:     []string{"require", "require_relative"},
		ExtractImportTarget: rubyExtractImportTarget,
	}
}

func rubyFindEnclosingClass(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		if current.Type() == "class" || current.Type() == "module" {
			return rubyClassName(current, source)
		}
		current = current.Parent()
	}
	return ""
}

func rubyClassName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "constant" || child.Type() == "scope_resolution" {
			return NodeText(child, source)
		}
	}
	return ""
}

func rubyExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	if kind == Class || kind == Module {
		return rubyExtractClassSignature(defNode, source)
	}
	return rubyExtractMethodSignature(defNode, source)
}

func rubyExtractClassSignature(node *sitter.Node, source []byte) string {
	var name, superclass string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "constant", "scope_resolution":
			if name == "" {
				name = NodeText(child, source)
			}
		case "superclass":
			for j := 0; j < int(child.ChildCount()); j++ {
				sc := child.Child(j)
				if sc.Type() == "constant" || sc.Type() == "scope_resolution" {
					superclass = NodeText(sc, source)
				}
			}
		}
	}
	if superclass != "" {
		return name + " < " + superclass
	}
	return name
}

func rubyExtractMethodSignature(node *sitter.Node, source []byte) string {
	var name, params string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			name = NodeText(child, source)
		case "method_parameters":
			params = CollapseWhitespace(NodeText(child, source))
		}
	}
	if params != "" {
		return name + params
	}
	return name
}

// rubyExtractImportTarget pulls the quoted string argument out of a
// require/require_relative call, e.g. require "json" -> "json".
func rubyExtractImportTarget(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "argument_list" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			arg := child.Child(j)
			if arg.Type() == "string" {
				return CollapseWhitespace(stripQuotes(NodeText(arg, source)))
			}
		}
	}
	return ""
}

func stripQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
