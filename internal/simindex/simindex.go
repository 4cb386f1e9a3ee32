// Package simindex implements the similarity index: chunked TF-IDF vectors
// over code chunks (a Symbol's body, or fixed-line windows for files with
// no Symbols) with lazy L2-normalized cosine similarity retrieval. Per-term
// postings prune the candidate set before the exhaustive cosine comparison
// that defines correctness.
package simindex

import (
	"math"
	"sort"
	"sync"

	"codescope/internal/tokenize"
)

// DefaultWindowLines and DefaultWindowOverlap are the fixed-window chunk
// size used for files with no Symbols. WithChunkWindow makes them tunable,
// defaulting to these literals.
const (
	DefaultWindowLines   = 50
	DefaultWindowOverlap = 10
)

// LineRange is an inclusive 1-based [Start, End] line span.
type LineRange struct {
	Start, End int
}

// Match is one ranked similarity result.
type Match struct {
	ChunkID    string
	FilePath   string
	Lines      LineRange
	Similarity float64
}

type chunk struct {
	id       string
	filePath string
	lines    LineRange
	tf       map[string]int
	length   int // total token count
}

// Index is the TF-IDF similarity index. All exported methods are safe for
// concurrent use.
type Index struct {
	mu sync.RWMutex

	windowLines   int
	windowOverlap int

	chunks   map[string]*chunk
	byFile   map[string][]string // filePath -> chunk ids
	postings map[string][]string // term -> chunk ids containing it
	docFreq  map[string]int       // term -> number of chunks containing it
}

// Option configures an Index.
type Option func(*Index)

// WithChunkWindow overrides the default 50/10 fixed-window chunk size used
// for files with no Symbols.
func WithChunkWindow(lines, overlap int) Option {
	return func(idx *Index) {
		idx.windowLines = lines
		idx.windowOverlap = overlap
	}
}

// New returns an empty Index with the default 50/10 chunk window.
func New(opts ...Option) *Index {
	idx := &Index{
		windowLines:   DefaultWindowLines,
		windowOverlap: DefaultWindowOverlap,
		chunks:        make(map[string]*chunk),
		byFile:        make(map[string][]string),
		postings:      make(map[string][]string),
		docFreq:       make(map[string]int),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// ChunkCount returns the number of indexed chunks.
func (idx *Index) ChunkCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// WindowLines and WindowOverlap report the configured fixed-window size,
// used by the engine to chunk files with no Symbols.
func (idx *Index) WindowLines() int   { return idx.windowLines }
func (idx *Index) WindowOverlap() int { return idx.windowOverlap }

// AddChunk inserts one chunk's bag-of-tokens, built from the same tokenizer
// as the text index. Re-adding an existing chunkID replaces
// it.
func (idx *Index) AddChunk(chunkID, filePath string, lines LineRange, tokens []string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeChunkLocked(chunkID)

	c := &chunk{
		id:       chunkID,
		filePath: filePath,
		lines:    lines,
		tf:       tokenize.TermFreq(tokens),
		length:   len(tokens),
	}
	idx.chunks[chunkID] = c
	idx.byFile[filePath] = append(idx.byFile[filePath], chunkID)
	for term := range c.tf {
		idx.postings[term] = append(idx.postings[term], chunkID)
		idx.docFreq[term]++
	}
}

// RemoveFile deletes every chunk whose FilePath equals path.
func (idx *Index) RemoveFile(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, id := range idx.byFile[path] {
		idx.removeChunkLocked(id)
	}
	delete(idx.byFile, path)
}

func (idx *Index) removeChunkLocked(chunkID string) {
	c, ok := idx.chunks[chunkID]
	if !ok {
		return
	}
	for term := range c.tf {
		idx.postings[term] = removeStr(idx.postings[term], chunkID)
		if len(idx.postings[term]) == 0 {
			delete(idx.postings, term)
		}
		idx.docFreq[term]--
		if idx.docFreq[term] <= 0 {
			delete(idx.docFreq, term)
		}
	}
	idx.byFile[c.filePath] = removeStr(idx.byFile[c.filePath], chunkID)
	if len(idx.byFile[c.filePath]) == 0 {
		delete(idx.byFile, c.filePath)
	}
	delete(idx.chunks, chunkID)
}

// FindSimilar tokenizes codeText and scores it against every chunk sharing
// at least one term — an optimization over an exhaustive scan, not a
// behavior change, since chunks with zero shared terms always score 0.
// Returns the top k by cosine similarity descending, tie-broken by smaller
// ChunkID.
func (idx *Index) FindSimilar(codeText string, k int) []Match {
	if tokenize.IsBlank(codeText) || k <= 0 {
		return nil
	}
	tokens := tokenize.Tokens([]byte(codeText))
	if len(tokens) == 0 {
		return nil
	}
	queryTF := tokenize.TermFreq(tokens)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := len(idx.chunks)
	if n == 0 {
		return nil
	}

	candidates := make(map[string]bool)
	for term := range queryTF {
		for _, id := range idx.postings[term] {
			candidates[id] = true
		}
	}

	queryVec := idx.weightedVector(queryTF, n)
	queryNorm := norm(queryVec)

	matches := make([]Match, 0, len(candidates))
	for id := range candidates {
		c := idx.chunks[id]
		chunkVec := idx.weightedVector(c.tf, n)
		sim := cosine(queryVec, chunkVec, queryNorm, norm(chunkVec))
		matches = append(matches, Match{ChunkID: id, FilePath: c.filePath, Lines: c.lines, Similarity: sim})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ChunkID < matches[j].ChunkID
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// weightedVector builds an IDF-weighted term-frequency vector from tf,
// using this Index's current document frequencies and chunk count n.
func (idx *Index) weightedVector(tf map[string]int, n int) map[string]float64 {
	vec := make(map[string]float64, len(tf))
	for term, count := range tf {
		df := idx.docFreq[term]
		if df == 0 {
			// Term appears only in the query (or in no indexed chunk);
			// treat as maximally informative rather than dropping it,
			// so find_similar(code, k) can still rank same-vocabulary
			// chunks above unrelated ones.
			df = 1
		}
		idf := math.Log(float64(n)/float64(df) + 1)
		vec[term] = float64(count) * idf
	}
	return vec
}

func norm(vec map[string]float64) float64 {
	var sumSq float64
	for _, v := range vec {
		sumSq += v * v
	}
	return math.Sqrt(sumSq)
}

// cosine computes the cosine similarity of two sparse vectors given their
// precomputed L2 norms. Symmetric to floating-point tolerance, since it only sums over the shared key set either way.
func cosine(a, b map[string]float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	// Iterate the smaller map for efficiency; correctness doesn't depend on
	// which side we iterate since only shared terms contribute.
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	var dot float64
	for term, v := range small {
		if w, ok := large[term]; ok {
			dot += v * w
		}
	}
	return dot / (normA * normB)
}

func removeStr(xs []string, v string) []string {
	out := xs[:0]
	for _, x := range xs {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
