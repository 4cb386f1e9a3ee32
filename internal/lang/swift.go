package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/swift"
)

func init() {
	Languages["swift"] = &Language{
		Name:               "swift",
		Extensions:         []string{".swift"},
		CommentNodeTypes:   []string{"comment", "multiline_comment"},
		lang:               swift.GetLanguage(),
		ExtractSignature:   swiftExtractSignature,
		FindEnclosingClass: swiftFindEnclosingClass,
	}
}

func swiftFindEnclosingClass(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "class_declaration":
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

func swiftExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	if defNode.Type() != "function_declaration" {
		return CollapseWhitespace(NodeText(defNode, source))
	}
	var parts []string
	for i := 0; i < int(defNode.ChildCount()); i++ {
		child := defNode.Child(i)
		if child.Type() == "function_body" {
			break
		}
		parts = append(parts, NodeText(child, source))
	}
	sig := ""
	for i, p := range parts {
		if i > 0 {
			sig += " "
		}
		sig += p
	}
	return CollapseWhitespace(sig)
}
