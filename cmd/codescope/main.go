// codescope indexes a repository and answers symbol, search and
// call-graph queries against it from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codescope"
	"codescope/internal/discover"
	"codescope/internal/toon"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

func main() {
	if len(os.Args) > 1 && os.Args[1] == "init" {
		if err := runInit(os.Args[2:], os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("codescope", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		langs       string
		maxFileSize int
		showVersion bool
		search      string
		similar     string
		symbolsFlag bool
		namePattern string
		kindFlag    string
		statsFlag   bool
		k           int
		format      string
	)

	fs.StringVar(&langs, "l", "", "comma-separated languages to include")
	fs.StringVar(&langs, "langs", "", "comma-separated languages to include")
	fs.IntVar(&maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")
	fs.StringVar(&search, "search", "", "BM25 text search query")
	fs.StringVar(&similar, "similar", "", "find chunks similar to this code snippet")
	fs.BoolVar(&symbolsFlag, "symbols", false, "list matching symbols")
	fs.StringVar(&namePattern, "name", "", "name pattern for --symbols (substring or glob)")
	fs.StringVar(&kindFlag, "kind", "", "symbol kind filter for --symbols")
	fs.BoolVar(&statsFlag, "stats", false, "print engine stats and exit")
	fs.IntVar(&k, "k", 10, "maximum number of results")
	fs.StringVar(&format, "format", "text", "output format: text or toon")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "codescope %s\n", version)
		return nil
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	var langFilter []string
	if langs != "" {
		for _, name := range strings.Split(langs, ",") {
			langFilter = append(langFilter, strings.TrimSpace(name))
		}
	}

	files, err := discover.Files(root, langFilter)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no parseable files found")
	}

	var opts []codescope.Option
	if len(langFilter) > 0 {
		opts = append(opts, codescope.WithLanguages(langFilter...))
	}
	engine := codescope.New(opts...)

	batch := make([]codescope.FileInput, 0, len(files))
	for _, f := range files {
		absPath := filepath.Join(root, f.Path)
		fi, err := os.Stat(absPath)
		if err == nil && fi.Size() > int64(maxFileSize) {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: skipped (>%d bytes)\n", f.Path, maxFileSize)
			continue
		}
		content, err := os.ReadFile(absPath)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: failed to read %s: %v\n", f.Path, err)
			continue
		}
		batch = append(batch, codescope.FileInput{Path: f.Path, Content: content})
	}

	ctx := context.Background()
	result := engine.IndexFiles(ctx, batch)
	if result.Count == 0 {
		return fmt.Errorf("no files could be indexed")
	}
	_, _ = fmt.Fprintf(stderr, "indexed %d files (batch %s)\n", result.Count, result.BatchID)

	toonOut := format == "toon"

	switch {
	case statsFlag:
		printStats(stdout, engine.Stats(), toonOut)
	case search != "":
		printSearchHits(stdout, engine.Search(search, k), toonOut)
	case similar != "":
		printSimilarHits(stdout, engine.FindSimilar(similar, k), toonOut)
	case symbolsFlag:
		printSymbols(stdout, engine.FindSymbols(namePattern, codescope.SymbolKind(kindFlag)), toonOut)
	default:
		printStats(stdout, engine.Stats(), toonOut)
	}

	return nil
}

func printStats(w io.Writer, s codescope.Stats, asToon bool) {
	if asToon {
		fmt.Fprintln(w, toon.EncodeStats(s.Files, s.Symbols, s.Chunks))
		return
	}
	fmt.Fprintf(w, "files: %d\nsymbols: %d\nchunks: %d\n", s.Files, s.Symbols, s.Chunks)
}

func printSearchHits(w io.Writer, hits []codescope.SearchHit, asToon bool) {
	if asToon {
		rows := make([]toon.SearchHit, len(hits))
		for i, h := range hits {
			rows[i] = toon.SearchHit{FilePath: h.File, StartLine: h.StartLine, EndLine: h.EndLine, Score: h.Score}
		}
		fmt.Fprintln(w, toon.EncodeSearchHits(rows))
		return
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%s:%d-%d  score=%.4f\n", h.File, h.StartLine, h.EndLine, h.Score)
	}
}

func printSimilarHits(w io.Writer, hits []codescope.SimilarHit, asToon bool) {
	if asToon {
		rows := make([]toon.SimilarHit, len(hits))
		for i, h := range hits {
			rows[i] = toon.SimilarHit{ChunkID: h.ID, FilePath: h.File, StartLine: h.StartLine, EndLine: h.EndLine, Similarity: h.Similarity}
		}
		fmt.Fprintln(w, toon.EncodeSimilarHits(rows))
		return
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%s:%d-%d  similarity=%.4f\n", h.File, h.StartLine, h.EndLine, h.Similarity)
	}
}

func printSymbols(w io.Writer, symbols []codescope.Symbol, asToon bool) {
	if asToon {
		fmt.Fprintln(w, toon.EncodeSymbols(symbols))
		return
	}
	for _, s := range symbols {
		fmt.Fprintf(w, "%s  %s  %s:%d-%d\n", s.Kind, s.QualifiedName, s.FilePath, s.StartLine, s.EndLine)
	}
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-l": true, "--l": true,
	"-langs": true, "--langs": true,
	"-max-file-size": true, "--max-file-size": true,
	"-search": true, "--search": true,
	"-similar": true, "--similar": true,
	"-name": true, "--name": true,
	"-kind": true, "--kind": true,
	"-k": true, "--k": true,
	"-format": true, "--format": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag
// package can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
