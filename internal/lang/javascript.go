package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

func init() {
	Languages["javascript"] = &Language{
		Name:                "javascript",
		Extensions:          []string{".js", ".jsx", ".mjs", ".cjs"},
		CommentNodeTypes:    []string{"comment"},
		lang:                javascript.GetLanguage(),
		FindEnclosingClass:  jsFindEnclosingClass,
		ExtractSignature:    jsExtractSignature,
		ImportCallNames:     []string{"require"},
		ExtractImportTarget: jsExtractImportTarget,
	}
}

func jsFindEnclosingClass(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		if current.Type() == "class_declaration" || current.Type() == "class" {
			for i := 0; i < int(current.ChildCount()); i++ {
				child := current.Child(i)
				if child.Type() == "identifier" {
					return NodeText(child, source)
				}
			}
			return ""
		}
		current = current.Parent()
	}
	return ""
}

func jsExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	switch defNode.Type() {
	case "function_declaration", "method_definition":
		var name, params string
		for i := 0; i < int(defNode.ChildCount()); i++ {
			child := defNode.Child(i)
			switch child.Type() {
			case "identifier", "property_identifier":
				name = NodeText(child, source)
			case "formal_parameters":
				params = CollapseWhitespace(NodeText(child, source))
			}
		}
		return name + params
	case "class_declaration":
		for i := 0; i < int(defNode.ChildCount()); i++ {
			child := defNode.Child(i)
			if child.Type() == "identifier" {
				return NodeText(child, source)
			}
		}
	case "variable_declarator":
		for i := 0; i < int(defNode.ChildCount()); i++ {
			child := defNode.Child(i)
			if child.Type() == "identifier" {
				return NodeText(child, source) + "(...)"
			}
		}
	}
	return CollapseWhitespace(NodeText(defNode, source))
}

func jsExtractImportTarget(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "arguments" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			arg := child.Child(j)
			if arg.Type() == "string" {
				return stripQuotes(NodeText(arg, source))
			}
		}
	}
	return ""
}
