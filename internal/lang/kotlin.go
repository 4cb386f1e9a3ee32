package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"
)

func init() {
	Languages["kotlin"] = &Language{
		Name:               "kotlin",
		Extensions:         []string{".kt", ".kts"},
		CommentNodeTypes:   []string{"comment", "multiline_comment"},
		lang:               kotlin.GetLanguage(),
		ExtractSignature:   kotlinExtractSignature,
		FindEnclosingClass: kotlinFindEnclosingClass,
	}
}

func kotlinFindEnclosingClass(node *sitter.Node, source []byte) string {
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

func kotlinExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	var name, params string
	for i := 0; i < int(defNode.ChildCount()); i++ {
		child := defNode.Child(i)
		switch child.Type() {
		case "simple_identifier", "type_identifier":
			if name == "" {
				name = NodeText(child, source)
			}
		case "function_value_parameters":
			params = CollapseWhitespace(NodeText(child, source))
		}
	}
	if params != "" {
		return name + params
	}
	return name
}
