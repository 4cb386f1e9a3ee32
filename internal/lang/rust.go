package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

func init() {
	Languages["rust"] = &Language{
		Name:               "rust",
		Extensions:         []string{".rs"},
		CommentNodeTypes:   []string{"line_comment", "block_comment"},
		lang:               rust.GetLanguage(),
		FindEnclosingClass: rustFindEnclosingImpl,
		ExtractSignature:   rustExtractSignature,
	}
}

// rustFindEnclosingImpl returns the type name of the enclosing impl block,
// turning a free function_item nested in an impl into a Method.
func rustFindEnclosingImpl(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		if current.Type() == "impl_item" {
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

func rustExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	var name, params, result string
	for i := 0; i < int(defNode.ChildCount()); i++ {
		child := defNode.Child(i)
		switch child.Type() {
		case "identifier", "type_identifier":
			if name == "" {
				name = NodeText(child, source)
			}
		case "parameters":
			params = CollapseWhitespace(NodeText(child, source))
		case "generic_type", "primitive_type", "reference_type", "unit_type":
			result = CollapseWhitespace(NodeText(child, source))
		}
	}
	sig := name + params
	if result != "" {
		sig += " -> " + result
	}
	return sig
}
