package simindex

import (
	"testing"

	"codescope/internal/tokenize"
)

func addText(idx *Index, id, file string, lines LineRange, text string) {
	idx.AddChunk(id, file, lines, tokenize.Tokens([]byte(text)))
}

func TestFindSimilarRanksIdenticalChunkHighest(t *testing.T) {
	t.Parallel()
	idx := New()
	addText(idx, "a#1", "a.go", LineRange{1, 3}, "process user data and validate input")
	addText(idx, "b#1", "b.go", LineRange{1, 3}, "render html template for the homepage")

	matches := idx.FindSimilar("process user data and validate input", 10)
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	if matches[0].ChunkID != "a#1" {
		t.Errorf("top match = %q, want a#1", matches[0].ChunkID)
	}
	if matches[0].Similarity < 0.99 {
		t.Errorf("similarity to an identical chunk = %v, want ~1.0", matches[0].Similarity)
	}
}

func TestFindSimilarIsSymmetric(t *testing.T) {
	t.Parallel()
	idx := New()
	addText(idx, "a#1", "a.go", LineRange{1, 2}, "alpha beta gamma")
	addText(idx, "b#1", "b.go", LineRange{1, 2}, "beta gamma delta")

	a := idx.FindSimilar("alpha beta gamma", 10)
	b := idx.FindSimilar("beta gamma delta", 10)

	var simAB, simBA float64
	for _, m := range a {
		if m.ChunkID == "b#1" {
			simAB = m.Similarity
		}
	}
	for _, m := range b {
		if m.ChunkID == "a#1" {
			simBA = m.Similarity
		}
	}
	diff := simAB - simBA
	if diff < -1e-9 || diff > 1e-9 {
		t.Errorf("cosine(a,b)=%v != cosine(b,a)=%v", simAB, simBA)
	}
}

func TestRemoveFileDropsItsChunks(t *testing.T) {
	t.Parallel()
	idx := New()
	addText(idx, "a#1", "a.go", LineRange{1, 2}, "process user data")
	idx.RemoveFile("a.go")

	if idx.ChunkCount() != 0 {
		t.Errorf("ChunkCount() = %d, want 0 after RemoveFile", idx.ChunkCount())
	}
	if matches := idx.FindSimilar("process user data", 10); len(matches) != 0 {
		t.Errorf("expected no matches after RemoveFile, got %+v", matches)
	}
}

func TestAddChunkReplacesExistingID(t *testing.T) {
	t.Parallel()
	idx := New()
	addText(idx, "a#1", "a.go", LineRange{1, 2}, "alpha beta")
	addText(idx, "a#1", "a.go", LineRange{1, 2}, "gamma delta")

	if idx.ChunkCount() != 1 {
		t.Errorf("ChunkCount() = %d, want 1 after re-adding the same id", idx.ChunkCount())
	}
	if matches := idx.FindSimilar("alpha beta", 10); len(matches) != 0 {
		t.Errorf("stale chunk content still matches: %+v", matches)
	}
}

func TestWithChunkWindowOverridesDefaults(t *testing.T) {
	t.Parallel()
	idx := New(WithChunkWindow(20, 5))
	if idx.WindowLines() != 20 || idx.WindowOverlap() != 5 {
		t.Errorf("WindowLines/WindowOverlap = %d/%d, want 20/5", idx.WindowLines(), idx.WindowOverlap())
	}
}

func TestFindSimilarEmptyQueryReturnsNil(t *testing.T) {
	t.Parallel()
	idx := New()
	addText(idx, "a#1", "a.go", LineRange{1, 2}, "alpha beta")
	if matches := idx.FindSimilar("   ", 10); matches != nil {
		t.Errorf("FindSimilar(blank) = %+v, want nil", matches)
	}
}
