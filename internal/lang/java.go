package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

func init() {
	Languages["java"] = &Language{
		Name:               "java",
		Extensions:         []string{".java"},
		CommentNodeTypes:   []string{"line_comment", "block_comment"},
		lang:               java.GetLanguage(),
		ExtractSignature:   javaExtractSignature,
		FindEnclosingClass: javaFindEnclosingClass,
	}
}

func javaFindEnclosingClass(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "class_declaration", "interface_declaration", "enum_declaration":
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

func javaExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	var name, params string
	for i := 0; i < int(defNode.ChildCount()); i++ {
		child := defNode.Child(i)
		switch child.Type() {
		case "identifier":
			if name == "" {
				name = NodeText(child, source)
			}
		case "formal_parameters":
			params = CollapseWhitespace(NodeText(child, source))
		}
	}
	return name + params
}
