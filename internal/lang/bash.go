package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
)

func init() {
	Languages["bash"] = &Language{
		Name:             "bash",
		Extensions:       []string{".sh", ".bash"},
		CommentNodeTypes: []string{"comment"},
		lang:             bash.GetLanguage(),
		ExtractSignature: bashExtractSignature,
	}
}

func bashExtractSignature(defNode *sitter.Node, kind SymbolKind, source []byte) string {
	for i := 0; i < int(defNode.ChildCount()); i++ {
		child := defNode.Child(i)
		if child.Type() == "word" {
			return NodeText(child, source) + "()"
		}
	}
	return CollapseWhitespace(NodeText(defNode, source))
}
