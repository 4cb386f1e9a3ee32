package graphstore

import (
	"testing"

	"codescope/internal/model"
)

func TestAddFileAndSymbol(t *testing.T) {
	t.Parallel()
	s := New()

	sym := model.Symbol{ID: "a.go:foo:1", Name: "foo", FilePath: "a.go", StartLine: 1, EndLine: 3}
	s.AddFile("a.go", []model.Symbol{sym}, nil, nil, nil)

	got, ok := s.Symbol(sym.ID)
	if !ok {
		t.Fatal("expected symbol to exist")
	}
	if got.Name != "foo" {
		t.Errorf("name = %q, want foo", got.Name)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestRemoveFileIsExactInverseOfAddFile(t *testing.T) {
	t.Parallel()
	s := New()

	caller := model.Symbol{ID: "a.go:caller:1", Name: "caller", FilePath: "a.go", StartLine: 1, EndLine: 2}
	refs := []model.Reference{{Name: "helper", FilePath: "a.go", Line: 2, ContainingSymbolID: caller.ID}}
	calls := []model.CallEdge{{CallerSymbolID: caller.ID, CalleeName: "helper", FilePath: "a.go", Line: 2}}
	imports := []model.ImportEdge{{SourceFilePath: "a.go", ImportedModule: "fmt"}}

	s.AddFile("a.go", []model.Symbol{caller}, refs, calls, imports)
	s.RemoveFile("a.go")

	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0 after RemoveFile", s.Count())
	}
	if _, ok := s.Symbol(caller.ID); ok {
		t.Error("caller symbol still resolvable after RemoveFile")
	}
	if got := s.ReferencesTo("helper"); len(got) != 0 {
		t.Errorf("ReferencesTo(helper) = %+v, want empty", got)
	}
	if got := s.Callers(caller.ID); len(got) != 0 {
		t.Errorf("Callers still resolve after RemoveFile: %+v", got)
	}
	if got := s.Imports("a.go"); len(got) != 0 {
		t.Errorf("Imports(a.go) = %+v, want empty", got)
	}
}

func TestCalleesPrefersSameFileOnNameCollision(t *testing.T) {
	t.Parallel()
	s := New()

	caller := model.Symbol{ID: "a.go:caller:1", Name: "caller", FilePath: "a.go", StartLine: 1, EndLine: 3}
	localHelper := model.Symbol{ID: "a.go:helper:5", Name: "helper", FilePath: "a.go", StartLine: 5, EndLine: 6}
	otherHelper := model.Symbol{ID: "b.go:helper:1", Name: "helper", FilePath: "b.go", StartLine: 1, EndLine: 2}
	calls := []model.CallEdge{{CallerSymbolID: caller.ID, CalleeName: "helper", FilePath: "a.go", Line: 2}}

	s.AddFile("a.go", []model.Symbol{caller, localHelper}, nil, calls, nil)
	s.AddFile("b.go", []model.Symbol{otherHelper}, nil, nil, nil)

	callees := s.Callees(caller.ID)
	if len(callees) != 1 {
		t.Fatalf("expected 1 callee, got %d: %+v", len(callees), callees)
	}
	if callees[0].FilePath != "a.go" {
		t.Errorf("callee file = %q, want a.go (same-file preference)", callees[0].FilePath)
	}
}

func TestCallersIsInverseOfCallees(t *testing.T) {
	t.Parallel()
	s := New()

	caller := model.Symbol{ID: "a.go:caller:1", Name: "caller", FilePath: "a.go", StartLine: 1, EndLine: 3}
	callee := model.Symbol{ID: "a.go:helper:5", Name: "helper", FilePath: "a.go", StartLine: 5, EndLine: 6}
	calls := []model.CallEdge{{CallerSymbolID: caller.ID, CalleeName: "helper", FilePath: "a.go", Line: 2}}

	s.AddFile("a.go", []model.Symbol{caller, callee}, nil, calls, nil)

	callers := s.Callers(callee.ID)
	if len(callers) != 1 || callers[0].ID != caller.ID {
		t.Errorf("Callers(helper) = %+v, want [caller]", callers)
	}
}

func TestImportersMatchesSuffixOfImportedModule(t *testing.T) {
	t.Parallel()
	s := New()

	s.AddFile("a.go", nil, nil, nil, []model.ImportEdge{{SourceFilePath: "a.go", ImportedModule: "pkg/sub"}})

	importers := s.Importers("sub")
	if len(importers) != 1 || importers[0] != "a.go" {
		t.Errorf("Importers(sub) = %+v, want [a.go]", importers)
	}
}

func TestAllSymbolsIsDeterministicallyOrdered(t *testing.T) {
	t.Parallel()
	s := New()

	s.AddFile("b.go", []model.Symbol{{ID: "b.go:z:1", Name: "z", FilePath: "b.go", StartLine: 1, EndLine: 1}}, nil, nil, nil)
	s.AddFile("a.go", []model.Symbol{
		{ID: "a.go:y:5", Name: "y", FilePath: "a.go", StartLine: 5, EndLine: 5},
		{ID: "a.go:x:1", Name: "x", FilePath: "a.go", StartLine: 1, EndLine: 1},
	}, nil, nil, nil)

	all := s.AllSymbols()
	if len(all) != 3 {
		t.Fatalf("expected 3 symbols, got %d", len(all))
	}
	wantOrder := []string{"x", "y", "z"}
	for i, w := range wantOrder {
		if all[i].Name != w {
			t.Errorf("AllSymbols()[%d].Name = %q, want %q", i, all[i].Name, w)
		}
	}
}

func TestClearResetsStoreToEmpty(t *testing.T) {
	t.Parallel()
	s := New()
	s.AddFile("a.go", []model.Symbol{{ID: "a.go:foo:1", Name: "foo", FilePath: "a.go", StartLine: 1, EndLine: 1}}, nil, nil, nil)
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", s.Count())
	}
}
