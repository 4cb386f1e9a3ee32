package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
)

func init() {
	Languages["php"] = &Language{
		Name:               "php",
		Extensions:         []string{".php"},
		CommentNodeTypes:   []string{"comment"},
		lang:               php.GetLanguage(),
		ExtractSignature:   phpExtractSignature,
		FindEnclosingClass: phpFindEnclosingClass,
	}
}

func phpFindEnclosingClass(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "class_declaration", "interface_declaration", "trait_declaration":
			for i := 0; i < int(current.ChildCount()); i++ {
				child := current.Child(i)
				if child.Type() == "name" {
					return NodeText(child, source)
				}
			}
			return ""
		}
		current = current.Parent()
	}
	return ""
}

func phpExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	if defNode.Type() != "function_definition" && defNode.Type() != "method_declaration" {
		return CollapseWhitespace(NodeText(defNode, source))
	}
	var parts []string
	for i := 0; i < int(defNode.ChildCount()); i++ {
		child := defNode.Child(i)
		if child.Type() == "compound_statement" {
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
