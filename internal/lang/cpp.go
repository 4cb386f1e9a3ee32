package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

func init() {
	Languages["cpp"] = &Language{
		Name:               "cpp",
		Extensions:         []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		CommentNodeTypes:   []string{"comment"},
		lang:               cpp.GetLanguage(),
		ExtractSignature:   cppExtractSignature,
		FindEnclosingClass: cppFindEnclosingClass,
	}
}

func cppFindEnclosingClass(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "class_specifier", "struct_specifier":
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

func cppExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	if defNode.Type() != "function_definition" {
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
