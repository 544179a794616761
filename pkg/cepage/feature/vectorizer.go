package feature

import (
	"math"

	"github.com/oenolab/cepage/pkg/cepage/ingest"
)

// Vectorizer maps description text onto a fitted tf-idf vocabulary.
// The vocabulary and per-term idf weights come from training and are
// read-only; terms outside the vocabulary contribute nothing.
type Vectorizer struct {
	vocab     map[string]int
	idf       []float64
	tokenizer *ingest.Tokenizer
}

// NewVectorizer creates a vectorizer from fitted vocabulary and idf
// weights. Vocabulary values index into idf; the artifact loader
// validates that they are in range.
func NewVectorizer(vocabulary map[string]int, idf []float64) *Vectorizer {
	vocab := make(map[string]int, len(vocabulary))
	for term, idx := range vocabulary {
		vocab[term] = idx
	}
	weights := make([]float64, len(idf))
	copy(weights, idf)
	return &Vectorizer{
		vocab:     vocab,
		idf:       weights,
		tokenizer: ingest.NewTokenizer(),
	}
}

// Width returns the fixed output length.
func (v *Vectorizer) Width() int {
	return len(v.idf)
}

// Vectorize returns the L2-normalized tf-idf row for text. The output
// length is constant for the life of the process and the call never
// fails: unseen terms are simply ignored.
func (v *Vectorizer) Vectorize(text string) []float64 {
	row := make([]float64, len(v.idf))

	for _, tok := range v.tokenizer.Tokenize(text) {
		if idx, ok := v.vocab[tok]; ok {
			// Accumulating idf per occurrence equals count * idf.
			row[idx] += v.idf[idx]
		}
	}

	var sumSq float64
	for _, val := range row {
		sumSq += val * val
	}
	if sumSq > 0 {
		norm := math.Sqrt(sumSq)
		for i := range row {
			row[i] /= norm
		}
	}

	return row
}
