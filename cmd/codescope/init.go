package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	sentinelStart = "<!-- codescope:start -->"
	sentinelEnd   = "<!-- codescope:end -->"
)

// runInit implements the `codescope init` subcommand, which writes (or
// updates) a codescope usage section in a CLAUDE.md file.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("codescope init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dryRun bool
	fs.BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: codescope init [flags] [path-to-CLAUDE.md]

Write a codescope usage section to a CLAUDE.md file. The section is wrapped
in sentinel comments so it can be updated in place on subsequent runs
without touching surrounding content. Creates the file if it does not
exist.

path-to-CLAUDE.md defaults to ./CLAUDE.md.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	section := generateSection()

	if dryRun && fs.NArg() == 0 {
		_, _ = fmt.Fprintln(stdout, section)
		return nil
	}

	path := "CLAUDE.md"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote codescope section to %s\n", path)
	return nil
}

// generateSection returns the full sentinel-wrapped codescope documentation
// block.
func generateSection() string {
	body := `## codescope — Code Intelligence

Run ` + "`codescope`" + ` via the Bash tool to index a repository and answer symbol,
search and call-graph questions against it, instead of re-reading files to
rebuild that picture by hand.

**Availability:** Check with ` + "`codescope --version`" + ` first; skip gracefully if
not found.

**Run it:**
` + "```" + `bash
codescope --stats /path/to/repo                     # file/symbol/chunk counts
codescope --symbols --name Handler /path/to/repo     # find a declaration by name
codescope --search "retry backoff" /path/to/repo     # BM25 text search
codescope --similar "$(cat snippet.go)" /path/to/repo  # nearest-neighbor code search
codescope -l go,python /path/to/repo                 # restrict to specific languages
` + "```" + `

**How to use the output:**

1. **Use ` + "`--symbols`" + ` instead of Grep to find a declaration.** It matches by
   substring or glob and reports the file and line range directly.

2. **Use ` + "`--search`" + ` for a natural-language or keyword query** before
   falling back to Grep over the whole tree — it ranks by relevance rather
   than returning every literal match.

3. **Use ` + "`--similar`" + ` to find code that already does what you are about to
   write**, before writing a new implementation from scratch.

4. **Only fall back to Glob/Grep for things codescope cannot answer** — e.g.,
   non-code files, or queries outside the languages it was indexed with.`

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy
// testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
