// Package tokenize implements the single tokenizer shared by the Text Index
// (BM25) and the Similarity Index (TF-IDF), so a document and a query chunk
// always decompose into terms the same way.
package tokenize

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// boundaryRe finds camelCase/PascalCase humps and digit/letter transitions so
// identifiers split into their constituent words before the non-alphanumeric
// split runs. snake_case and kebab-case already fall out of the
// non-alphanumeric split below.
var boundaryRe = regexp.MustCompile(`([a-z0-9])([A-Z])|([A-Za-z])([0-9])|([0-9])([A-Za-z])`)

// splitRe tears the (now boundary-marked) text apart on anything that is not
// a letter or digit.
var splitRe = regexp.MustCompile(`[^\p{L}\p{M}\p{N}]+`)

// Tokens splits content into lowercase terms: non-alphanumeric runs and
// camelCase/snake_case/kebab-case boundaries both separate words; tokens
// shorter than 2 characters are dropped. Stop-words are retained, since
// domain vocabulary (e.g. "if", "do") carries signal in source code.
func Tokens(content []byte) []string {
	// Normalize to NFC first so a combining-mark identifier (e.g. an
	// accented Latin letter typed as base+combining-diacritic) tokenizes
	// the same way regardless of which Unicode form the source file used.
	normalized := norm.NFC.String(string(content))
	marked := boundaryRe.ReplaceAllString(normalized, "$1$3$5 $2$4$6")
	parts := splitRe.Split(marked, -1)

	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if utf8.RuneCountInString(p) < 2 {
			continue
		}
		tokens = append(tokens, lower.String(p))
	}
	return tokens
}

// TokensWithLines behaves like Tokens but also returns, for each token, the
// 1-based source line it came from. Used by the text index to anchor a
// search hit's excerpt on the matched term's actual line rather than its
// position in the flattened token stream.
func TokensWithLines(content []byte) (tokens []string, lines []int) {
	for i, lineBytes := range bytes.Split(content, []byte("\n")) {
		lineTokens := Tokens(lineBytes)
		for _, t := range lineTokens {
			tokens = append(tokens, t)
			lines = append(lines, i+1)
		}
	}
	return tokens, lines
}

// TermFreq builds a term→frequency map from a token stream.
func TermFreq(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// IsBlank reports whether s contains no tokenizable content, used by
// Search/FindSimilar to short-circuit an empty query straight to an empty
// result rather than an error.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
