package textindex

import "testing"

func TestSearchReturnsOnlyDocsContainingTerm(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.Add("a.go", []byte("process user data\nprocess user data\nprocess user data\n"))
	idx.Add("b.go", []byte("unrelated content about nothing\n"))

	hits := idx.Search("process", 10)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d: %+v", len(hits), hits)
	}
	if hits[0].DocID != "a.go" {
		t.Errorf("DocID = %q, want a.go", hits[0].DocID)
	}
}

func TestSearchTieBrokenBySmallerDocID(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.Add("b.go", []byte("process user data\n"))
	idx.Add("a.go", []byte("process user data\n"))

	hits := idx.Search("process user data", 10)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].DocID != "a.go" {
		t.Errorf("first hit = %q, want a.go (tie-break by smaller DocID)", hits[0].DocID)
	}
}

func TestReaddingDocReplacesPriorPostings(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.Add("a.go", []byte("alpha beta\n"))
	idx.Add("a.go", []byte("gamma delta\n"))

	if hits := idx.Search("alpha", 10); len(hits) != 0 {
		t.Errorf("stale term still matches after re-Add: %+v", hits)
	}
	hits := idx.Search("gamma", 10)
	if len(hits) != 1 || hits[0].DocID != "a.go" {
		t.Errorf("Search(gamma) = %+v, want [a.go]", hits)
	}
}

func TestRemoveDeletesDocFromResults(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.Add("a.go", []byte("process user data\n"))
	idx.Remove("a.go")

	if hits := idx.Search("process", 10); len(hits) != 0 {
		t.Errorf("expected no hits after Remove, got %+v", hits)
	}
	if numDocs, _ := idx.Stats(); numDocs != 0 {
		t.Errorf("Stats() numDocs = %d, want 0", numDocs)
	}
}

func TestSearchMatchedLineIsFirstOccurrence(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.Add("a.go", []byte("package main\n\nfunc processUser() {\n\treturn\n}\n"))

	hits := idx.Search("process user", 10)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].MatchedLine != 3 {
		t.Errorf("MatchedLine = %d, want 3", hits[0].MatchedLine)
	}
}

func TestSearchBlankQueryReturnsEmpty(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.Add("a.go", []byte("process user data\n"))

	if hits := idx.Search("   ", 10); hits != nil {
		t.Errorf("Search(blank) = %+v, want nil", hits)
	}
}

func TestWithBM25ParamsChangesScore(t *testing.T) {
	t.Parallel()
	defaultIdx := New()
	customIdx := New(WithBM25Params(2.0, 0.0))

	for _, idx := range []*Index{defaultIdx, customIdx} {
		idx.Add("a.go", []byte("process process process user data\n"))
		idx.Add("b.go", []byte("process user data and a lot more filler text here\n"))
	}

	defHits := defaultIdx.Search("process", 10)
	customHits := customIdx.Search("process", 10)
	if len(defHits) == 0 || len(customHits) == 0 {
		t.Fatal("expected hits from both indexes")
	}
	if defHits[0].Score == customHits[0].Score {
		t.Errorf("expected WithBM25Params to change the score, both were %v", defHits[0].Score)
	}
}
