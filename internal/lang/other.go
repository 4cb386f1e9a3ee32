package lang

// The "other" entry has no tree-sitter grammar. Files with these extensions
// are recognized (their language name resolves via ForExtension) but carry
// no parser, so internal/syntax reports ErrParseUnavailable for them. The
// engine registers such a file but extracts, tokenizes and chunks nothing
// from it.
func init() {
	Languages["other"] = &Language{
		Name:       "other",
		Extensions: []string{".scala", ".lua", ".hs", ".elm", ".dart", ".zig", ".ex", ".exs", ".clj", ".erl"},
		lang:       nil,
	}
}
