package extract

import (
	"context"
	"testing"

	"codescope/internal/lang"
	"codescope/internal/syntax"
)

func setup(t *testing.T, langName string) func(source string) Result {
	t.Helper()
	l := lang.Languages[langName]
	if l == nil {
		t.Fatalf("language %q not registered", langName)
	}
	q, err := l.GetTagQuery()
	if err != nil {
		t.Fatalf("GetTagQuery: %v", err)
	}
	d := syntax.NewDriver()
	ext := l.Extensions[0]
	return func(source string) Result {
		tree, err := d.Parse(context.Background(), langName, []byte(source))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		defer tree.Close()
		return Extract(langName, tree, q, "test"+ext)
	}
}

func TestGoExtractFunction(t *testing.T) {
	t.Parallel()
	extract := setup(t, "go")

	res := extract("package main\n\nfunc process_user(user string) bool {\n\treturn true\n}\n")
	if len(res.Symbols) != 1 {
		t.Fatalf("expected 1 symbol, got %d: %+v", len(res.Symbols), res.Symbols)
	}
	sym := res.Symbols[0]
	if sym.Name != "process_user" {
		t.Errorf("name = %q, want process_user", sym.Name)
	}
	if sym.Kind != lang.Function {
		t.Errorf("kind = %q, want function", sym.Kind)
	}
	if sym.StartLine != 3 {
		t.Errorf("start_line = %d, want 3", sym.StartLine)
	}
}

func TestGoExtractMethodWithReceiver(t *testing.T) {
	t.Parallel()
	extract := setup(t, "go")

	res := extract("package main\n\ntype Calc struct{}\n\nfunc (c *Calc) Add(a, b int) int {\n\treturn a + b\n}\n")
	var got bool
	for _, s := range res.Symbols {
		if s.Name == "Add" {
			got = true
			if s.Kind != lang.Method {
				t.Errorf("kind = %q, want method", s.Kind)
			}
			if s.QualifiedName != "Calc.Add" {
				t.Errorf("qualified_name = %q, want Calc.Add", s.QualifiedName)
			}
		}
	}
	if !got {
		t.Fatalf("Add method not found among %+v", res.Symbols)
	}
}

func TestPythonExtractClassAndMethod(t *testing.T) {
	t.Parallel()
	extract := setup(t, "python")

	res := extract("class Calculator:\n    def add(self, a, b):\n        return a + b\n")

	foundClass, foundMethod := false, false
	for _, s := range res.Symbols {
		switch s.Name {
		case "Calculator":
			foundClass = true
			if s.Kind != lang.Class {
				t.Errorf("Calculator kind = %q, want class", s.Kind)
			}
		case "add":
			foundMethod = true
			if s.Kind != lang.Method {
				t.Errorf("add kind = %q, want method", s.Kind)
			}
			if s.QualifiedName != "Calculator.add" {
				t.Errorf("add qualified_name = %q, want Calculator.add", s.QualifiedName)
			}
		}
	}
	if !foundClass {
		t.Error("Calculator symbol not found")
	}
	if !foundMethod {
		t.Error("add symbol not found")
	}
}

func TestPythonCallEdge(t *testing.T) {
	t.Parallel()
	extract := setup(t, "python")

	res := extract("def helper():\n    pass\n\ndef caller():\n    helper()\n")

	var callerID string
	for _, s := range res.Symbols {
		if s.Name == "caller" {
			callerID = s.ID
		}
	}
	if callerID == "" {
		t.Fatal("caller symbol not found")
	}

	found := false
	for _, c := range res.Calls {
		if c.CalleeName == "helper" {
			found = true
			if c.CallerSymbolID != callerID {
				t.Errorf("caller_symbol_id = %q, want %q", c.CallerSymbolID, callerID)
			}
		}
	}
	if !found {
		t.Error("expected a CallEdge to helper")
	}
}

func TestPythonImportEdge(t *testing.T) {
	t.Parallel()
	extract := setup(t, "python")

	res := extract("import json\n\ndef f():\n    pass\n")
	if len(res.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d: %+v", len(res.Imports), res.Imports)
	}
	if res.Imports[0].ImportedModule != "json" {
		t.Errorf("imported_module = %q, want json", res.Imports[0].ImportedModule)
	}
}

func TestRubyRequireBecomesImport(t *testing.T) {
	t.Parallel()
	extract := setup(t, "ruby")

	res := extract("require \"json\"\n\ndef f\nend\n")
	found := false
	for _, imp := range res.Imports {
		if imp.ImportedModule == "json" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an import of json, got %+v", res.Imports)
	}
}

func TestGoVariableReadProducesReferenceWithNoCallEdge(t *testing.T) {
	t.Parallel()
	extract := setup(t, "go")

	res := extract("package main\n\nvar total = 0\n\nfunc report() int {\n\treturn total\n}\n")

	var readLine int
	for _, r := range res.References {
		if r.Name == "total" && r.Line == 6 {
			readLine = r.Line
		}
	}
	if readLine == 0 {
		t.Fatalf("expected a Reference to total on line 6, got %+v", res.References)
	}

	for _, c := range res.Calls {
		if c.CalleeName == "total" {
			t.Errorf("total is a variable read, not a call; unexpected CallEdge %+v", c)
		}
	}
}

func TestCallOutsideFunctionDropsCallEdgeButKeepsReference(t *testing.T) {
	t.Parallel()
	extract := setup(t, "python")

	res := extract("helper()\n")
	if len(res.Calls) != 0 {
		t.Errorf("expected no CallEdges at file scope, got %+v", res.Calls)
	}
	found := false
	for _, r := range res.References {
		if r.Name == "helper" {
			found = true
		}
	}
	if !found {
		t.Error("expected a Reference to helper even without an enclosing function")
	}
}
