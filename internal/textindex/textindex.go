// Package textindex implements the Text Index: an inverted
// index over tokenized file contents with BM25 ranking, plus the
// document-length statistics BM25 needs (per-doc length, running average
// length, total doc count, per-term document frequency).
package textindex

import (
	"math"
	"sort"
	"sync"

	"codescope/internal/tokenize"
)

// Posting is one (document, term-frequency) pair in a term's postings list.
type Posting struct {
	DocID string
	TF    int
}

// Hit is one ranked search result.
type Hit struct {
	DocID       string
	Score       float64
	MatchedLine int // 1-based line of the first query-term match, 0 if unknown
}

// Index is the BM25 inverted index. All exported methods are safe for
// concurrent use: a single sync.RWMutex guards the corpus-level statistics
// (postings, document lengths, document frequencies) behind one writer
// lock, so a reader never observes a score computed against a partially
// updated corpus.
type Index struct {
	mu sync.RWMutex

	k1 float64
	b  float64

	postings  map[string][]Posting // term -> postings
	docLen    map[string]int       // docID -> token count
	docTokens map[string][]string  // docID -> token stream, for excerpt line lookup
	docLines  map[string][]int     // docID -> line number per token in docTokens
	docFreq   map[string]int       // term -> number of distinct docs containing it
	totalLen  int
	numDocs   int
}

// Option configures an Index.
type Option func(*Index)

// WithBM25Params overrides the default k1=1.2, b=0.75 constants.
func WithBM25Params(k1, b float64) Option {
	return func(idx *Index) {
		idx.k1 = k1
		idx.b = b
	}
}

// New returns an empty Index with BM25 defaults k1=1.2, b=0.75.
func New(opts ...Option) *Index {
	idx := &Index{
		k1:        1.2,
		b:         0.75,
		postings:  make(map[string][]Posting),
		docLen:    make(map[string]int),
		docTokens: make(map[string][]string),
		docLines:  make(map[string][]int),
		docFreq:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Add tokenizes content and inserts it as docID. If docID already exists it
// is removed first, so re-adding a document always reflects its latest
// content rather than accumulating stale postings.
func (idx *Index) Add(docID string, content []byte) {
	tokens, lines := tokenize.TokensWithLines(content)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(docID)

	tf := tokenize.TermFreq(tokens)
	for term, count := range tf {
		idx.postings[term] = append(idx.postings[term], Posting{DocID: docID, TF: count})
		idx.docFreq[term]++
	}
	idx.docLen[docID] = len(tokens)
	idx.docTokens[docID] = tokens
	idx.docLines[docID] = lines
	idx.totalLen += len(tokens)
	idx.numDocs++
}

// Remove deletes every posting for docID and updates corpus statistics.
func (idx *Index) Remove(docID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(docID)
}

func (idx *Index) removeLocked(docID string) {
	length, ok := idx.docLen[docID]
	if !ok {
		return
	}
	for term, postings := range idx.postings {
		kept := postings[:0]
		removed := false
		for _, p := range postings {
			if p.DocID == docID {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		if removed {
			idx.docFreq[term]--
			if idx.docFreq[term] <= 0 {
				delete(idx.docFreq, term)
			}
		}
		if len(kept) == 0 {
			delete(idx.postings, term)
		} else {
			idx.postings[term] = kept
		}
	}
	delete(idx.docLen, docID)
	delete(idx.docTokens, docID)
	delete(idx.docLines, docID)
	idx.totalLen -= length
	idx.numDocs--
}

// Search tokenizes query identically to documents and scores candidates by
// summed per-term BM25. Results are the top k by score descending,
// tie-broken by smaller DocID. An empty or blank query returns an empty
// result, never an error.
func (idx *Index) Search(query string, k int) []Hit {
	if tokenize.IsBlank(query) || k <= 0 {
		return nil
	}
	terms := tokenize.Tokens([]byte(query))
	if len(terms) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.numDocs == 0 {
		return nil
	}
	avgLen := float64(idx.totalLen) / float64(idx.numDocs)

	scores := make(map[string]float64)
	uniqueTerms := dedupe(terms)
	for _, term := range uniqueTerms {
		postings := idx.postings[term]
		if len(postings) == 0 {
			continue
		}
		df := idx.docFreq[term]
		idf := bm25IDF(idx.numDocs, df)
		for _, p := range postings {
			dl := float64(idx.docLen[p.DocID])
			score := idf * termScore(float64(p.TF), dl, avgLen, idx.k1, idx.b)
			scores[p.DocID] += score
		}
	}

	hits := make([]Hit, 0, len(scores))
	for docID, score := range scores {
		hits = append(hits, Hit{DocID: docID, Score: score, MatchedLine: firstMatchLine(idx.docTokens[docID], idx.docLines[docID], uniqueTerms)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocID < hits[j].DocID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// Stats returns the corpus-level document count and average document length.
func (idx *Index) Stats() (numDocs int, avgDocLen float64) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.numDocs == 0 {
		return 0, 0
	}
	return idx.numDocs, float64(idx.totalLen) / float64(idx.numDocs)
}

func bm25IDF(numDocs, df int) float64 {
	if df <= 0 {
		return 0
	}
	// Classic BM25 IDF, floored at a small positive epsilon so a term
	// present in every document still contributes rather than going
	// negative and inverting the ranking.
	v := math.Log(float64(numDocs)-float64(df)+0.5) - math.Log(float64(df)+0.5)
	if v < 1e-9 {
		v = 1e-9
	}
	return v
}

func termScore(tf, docLen, avgLen, k1, b float64) float64 {
	num := tf * (k1 + 1)
	den := tf + k1*(1-b+b*(docLen/avgLen))
	return num / den
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// firstMatchLine returns the 1-based line of the first token in docTokens
// that appears in queryTerms, or 0 if none match (shouldn't happen for a
// doc that scored, but kept defensive).
func firstMatchLine(docTokens []string, docLines []int, queryTerms []string) int {
	want := make(map[string]bool, len(queryTerms))
	for _, t := range queryTerms {
		want[t] = true
	}
	for i, tok := range docTokens {
		if want[tok] {
			if i < len(docLines) {
				return docLines[i]
			}
			return 0
		}
	}
	return 0
}
