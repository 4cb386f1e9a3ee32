package syntax

import (
	"context"
	"errors"
	"testing"
)

func TestParseGo(t *testing.T) {
	t.Parallel()
	d := NewDriver()

	tree, err := d.Parse(context.Background(), "go", []byte("package main\n\nfunc main() {}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	if tree.Root == nil {
		t.Fatal("Root is nil")
	}
	if tree.Root.Type() != "source_file" {
		t.Errorf("Root.Type() = %q, want source_file", tree.Root.Type())
	}
}

func TestParseMalformedStillYieldsTree(t *testing.T) {
	t.Parallel()
	d := NewDriver()

	tree, err := d.Parse(context.Background(), "go", []byte("package main\nfunc( {{{ broken"))
	if err != nil {
		t.Fatalf("Parse of malformed source should not error, got: %v", err)
	}
	defer tree.Close()

	if tree.Root == nil {
		t.Fatal("Root is nil for malformed source")
	}
	if !tree.Root.HasError() {
		t.Error("expected malformed source to produce a tree with error nodes")
	}
}

func TestParseUnknownLanguage(t *testing.T) {
	t.Parallel()
	d := NewDriver()

	_, err := d.Parse(context.Background(), "cobol", []byte("anything"))
	if !errors.Is(err, ErrParseUnavailable) {
		t.Fatalf("expected ErrParseUnavailable, got %v", err)
	}
}

func TestParseOtherLanguageHasNoParser(t *testing.T) {
	t.Parallel()
	d := NewDriver()

	_, err := d.Parse(context.Background(), "other", []byte("anything"))
	if !errors.Is(err, ErrParseUnavailable) {
		t.Fatalf("expected ErrParseUnavailable, got %v", err)
	}
}

func TestParserReusedAcrossCalls(t *testing.T) {
	t.Parallel()
	d := NewDriver()

	for i := 0; i < 5; i++ {
		tree, err := d.Parse(context.Background(), "python", []byte("def f(): pass\n"))
		if err != nil {
			t.Fatalf("Parse iteration %d: %v", i, err)
		}
		tree.Close()
	}
	if len(d.parsers["python"]) != 1 {
		t.Errorf("expected exactly 1 pooled python parser after sequential reuse, got %d", len(d.parsers["python"]))
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()
	d := NewDriver()

	q, err := d.Query("go")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if q == nil {
		t.Fatal("query is nil")
	}
}
