package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

func init() {
	Languages["csharp"] = &Language{
		Name:               "csharp",
		Extensions:         []string{".cs"},
		CommentNodeTypes:   []string{"comment"},
		lang:               csharp.GetLanguage(),
		ExtractSignature:   csharpExtractSignature,
		FindEnclosingClass: csharpFindEnclosingClass,
	}
}

func csharpFindEnclosingClass(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "class_declaration", "interface_declaration", "struct_declaration":
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

func csharpExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	if defNode.Type() != "method_declaration" && defNode.Type() != "constructor_declaration" && defNode.Type() != "local_function_statement" {
		return CollapseWhitespace(NodeText(defNode, source))
	}
	var parts []string
	for i := 0; i < int(defNode.ChildCount()); i++ {
		child := defNode.Child(i)
		if child.Type() == "block" {
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
