package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

func init() {
	Languages["c"] = &Language{
		Name:             "c",
		Extensions:       []string{".c", ".h"},
		CommentNodeTypes: []string{"comment"},
		lang:             c.GetLanguage(),
		ExtractSignature: cExtractSignature,
	}
}

// cExtractSignature renders everything up to (but excluding) the function
// body, e.g. "int add(int a, int b)".
func cExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
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
