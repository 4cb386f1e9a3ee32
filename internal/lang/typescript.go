package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func init() {
	Languages["typescript"] = &Language{
		Name:               "typescript",
		Extensions:         []string{".ts", ".tsx"},
		CommentNodeTypes:   []string{"comment"},
		lang:               typescript.GetLanguage(),
		FindEnclosingClass: tsFindEnclosingClass,
		ExtractSignature:   tsExtractSignature,
	}
}

func tsFindEnclosingClass(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		if current.Type() == "class_declaration" {
			for i := 0; i < int(current.ChildCount()); i++ {
				child := current.Child(i)
				if child.Type() == "type_identifier" {
					return NodeText(child, source)
				}
			}
			return ""
		}
		current = current.Parent()
	}
	return ""
}

func tsExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	var name, params string
	for i := 0; i < int(defNode.ChildCount()); i++ {
		child := defNode.Child(i)
		switch child.Type() {
		case "identifier", "property_identifier", "type_identifier":
			if name == "" {
				name = NodeText(child, source)
			}
		case "formal_parameters":
			params = CollapseWhitespace(NodeText(child, source))
		}
	}
	if params != "" {
		return name + params
	}
	return name
}
