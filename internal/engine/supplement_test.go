package engine

import (
	"context"
	"testing"
)

const pySample = `import json

def helper():
    return 1

def caller():
    return helper()
`

func TestGetSymbolSourceIncludesContext(t *testing.T) {
	t.Parallel()
	e := New()
	ctx := context.Background()
	e.IndexFile(ctx, "a.py", []byte(pySample))

	var helperID string
	for _, s := range e.FindSymbols("helper", "") {
		helperID = s.ID
	}
	if helperID == "" {
		t.Fatal("expected a helper symbol")
	}

	src, ok := e.GetSymbolSource(helperID, 1)
	if !ok {
		t.Fatal("expected GetSymbolSource to succeed")
	}
	if src == "" {
		t.Error("expected non-empty source")
	}
}

func TestGetSymbolSourceUnknownIDFails(t *testing.T) {
	t.Parallel()
	e := New()
	if _, ok := e.GetSymbolSource("nonexistent", 2); ok {
		t.Error("expected GetSymbolSource to fail for an unknown id")
	}
}

func TestFindSymbolUsagesClassifiesCallsAndImports(t *testing.T) {
	t.Parallel()
	e := New()
	ctx := context.Background()
	e.IndexFile(ctx, "a.py", []byte(pySample))

	usages := e.FindSymbolUsages("helper", true, false)
	var foundCall bool
	for _, u := range usages {
		if u.Kind == UsageCall {
			foundCall = true
		}
	}
	if !foundCall {
		t.Errorf("expected a Call usage among %+v", usages)
	}

	importUsages := e.FindSymbolUsages("json", true, false)
	if len(importUsages) != 1 || importUsages[0].Kind != UsageImport {
		t.Errorf("FindSymbolUsages(json) = %+v, want a single Import usage", importUsages)
	}

	noImports := e.FindSymbolUsages("json", false, false)
	if len(noImports) != 0 {
		t.Errorf("FindSymbolUsages(json, includeImports=false) = %+v, want empty", noImports)
	}
}

func TestFindSymbolUsagesExcludesTestFiles(t *testing.T) {
	t.Parallel()
	e := New()
	ctx := context.Background()
	e.IndexFile(ctx, "test_a.py", []byte(pySample))

	usages := e.FindSymbolUsages("helper", true, true)
	if len(usages) != 0 {
		t.Errorf("expected excludeTests to drop all usages in test_a.py, got %+v", usages)
	}
}

func TestDependenciesDirectionFiltering(t *testing.T) {
	t.Parallel()
	e := New()
	ctx := context.Background()
	e.IndexFile(ctx, "a.py", []byte(pySample))

	out := e.Dependencies("a.py", "out")
	if len(out) != 1 || out[0].ImportedModule != "json" {
		t.Errorf("Dependencies(a.py, out) = %+v, want one edge to json", out)
	}

	in := e.Dependencies("json", "in")
	if len(in) != 1 || in[0].SourceFilePath != "a.py" {
		t.Errorf("Dependencies(json, in) = %+v, want one edge from a.py", in)
	}
}
