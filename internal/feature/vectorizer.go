package feature

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Default vectorizer limits, fixed at training time.
const (
	DefaultMaxFeatures = 5000
	DefaultMinDocFreq  = 1
)

// Vectorizer is a tf-idf bag-of-terms transform over unigrams and bigrams.
// The vocabulary is learned once by Fit and frozen afterwards; terms not in
// the vocabulary are silently dropped at transform time. Fields are exported
// for gob serialization.
type Vectorizer struct {
	Vocabulary  map[string]int
	IDF         []float64
	MaxFeatures int
	MinDocFreq  int
}

// NewVectorizer creates an unfitted vectorizer with default limits.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		MaxFeatures: DefaultMaxFeatures,
		MinDocFreq:  DefaultMinDocFreq,
	}
}

// Fitted reports whether Fit has run.
func (v *Vectorizer) Fitted() bool {
	return len(v.Vocabulary) > 0
}

// NumTerms returns the fixed vocabulary size.
func (v *Vectorizer) NumTerms() int {
	return len(v.Vocabulary)
}

// Fit learns the vocabulary and inverse document frequencies from the
// training corpus. When the corpus yields more distinct terms than
// MaxFeatures, the most frequent terms across the corpus are kept, with
// lexicographic order breaking frequency ties so refits over the same data
// produce the same vocabulary.
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return fmt.Errorf("cannot fit vectorizer on empty corpus")
	}

	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range Terms(doc) {
			termFreq[term]++
			if !seen[term] {
				docFreq[term]++
				seen[term] = true
			}
		}
	}

	candidates := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= v.MinDocFreq {
			candidates = append(candidates, term)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("corpus produced no terms above document frequency %d", v.MinDocFreq)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if termFreq[candidates[i]] != termFreq[candidates[j]] {
			return termFreq[candidates[i]] > termFreq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if v.MaxFeatures > 0 && len(candidates) > v.MaxFeatures {
		candidates = candidates[:v.MaxFeatures]
	}

	// Index the retained terms alphabetically so vocabulary order does not
	// depend on corpus order.
	sort.Strings(candidates)
	v.Vocabulary = make(map[string]int, len(candidates))
	for i, term := range candidates {
		v.Vocabulary[term] = i
	}

	// Smoothed idf, as if one extra document contained every term.
	n := float64(len(docs))
	v.IDF = make([]float64, len(candidates))
	for term, idx := range v.Vocabulary {
		df := float64(docFreq[term])
		v.IDF[idx] = math.Log((1+n)/(1+df)) + 1
	}

	return nil
}

// Transform maps one text field to its tf-idf vector over the fitted
// vocabulary, l2-normalized. Unseen terms are dropped without error.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.Vocabulary))
	for _, term := range Terms(text) {
		if idx, ok := v.Vocabulary[term]; ok {
			vec[idx] += v.IDF[idx]
		}
	}
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}
