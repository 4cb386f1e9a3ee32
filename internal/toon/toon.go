// Package toon implements TOON (Token-Oriented Object Notation) encoding
// for codescope's query results, so a caller that wants a smaller,
// grep-friendly payload than JSON (an agent piping output back into its own
// context window, say) can ask the CLI for it directly.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"codescope/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// EncodeStats renders a files/symbols/chunks triple as a single TOON row.
func EncodeStats(files, symbols, chunks int) string {
	return formatTabular("stats", []string{"files", "symbols", "chunks"}, [][]string{{
		fmt.Sprintf("%d", files),
		fmt.Sprintf("%d", symbols),
		fmt.Sprintf("%d", chunks),
	}})
}

// SearchHit is the subset of engine.SearchHit toon needs, kept decoupled so
// this package never imports internal/engine.
type SearchHit struct {
	FilePath  string
	StartLine int
	EndLine   int
	Score     float64
}

// EncodeSearchHits renders ranked text-search results as a "hits" table.
func EncodeSearchHits(hits []SearchHit) string {
	rows := make([][]string, len(hits))
	for i, h := range hits {
		rows[i] = []string{
			h.FilePath,
			fmt.Sprintf("%d", h.StartLine),
			fmt.Sprintf("%d", h.EndLine),
			fmt.Sprintf("%.4f", h.Score),
		}
	}
	return formatTabular("hits", []string{"file", "start_line", "end_line", "score"}, rows)
}

// SimilarHit is the subset of engine.SimilarHit toon needs.
type SimilarHit struct {
	ChunkID    string
	FilePath   string
	StartLine  int
	EndLine    int
	Similarity float64
}

// EncodeSimilarHits renders ranked similarity-search results as a
// "matches" table.
func EncodeSimilarHits(hits []SimilarHit) string {
	rows := make([][]string, len(hits))
	for i, h := range hits {
		rows[i] = []string{
			h.ChunkID,
			h.FilePath,
			fmt.Sprintf("%d", h.StartLine),
			fmt.Sprintf("%d", h.EndLine),
			fmt.Sprintf("%.4f", h.Similarity),
		}
	}
	return formatTabular("matches", []string{"chunk_id", "file", "start_line", "end_line", "similarity"}, rows)
}

// EncodeSymbols renders Symbols as a "symbols" table, one row per
// declaration.
func EncodeSymbols(symbols []model.Symbol) string {
	rows := make([][]string, len(symbols))
	for i, s := range symbols {
		rows[i] = []string{
			s.FilePath,
			s.QualifiedName,
			string(s.Kind),
			fmt.Sprintf("%d", s.StartLine),
			fmt.Sprintf("%d", s.EndLine),
			s.Signature,
		}
	}
	return formatTabular("symbols", []string{"file", "qualified_name", "kind", "start_line", "end_line", "signature"}, rows)
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}
	if value != strings.TrimSpace(value) {
		return quote(value)
	}
	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}
	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}
	if looksNumeric.MatchString(value) {
		return value
	}
	if needsQuoting.MatchString(value) {
		return quote(value)
	}
	if strings.HasPrefix(value, "-") {
		return quote(value)
	}
	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
