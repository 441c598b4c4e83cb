// Package ranking scores documents against a job description in a TF-IDF
// vector space fitted on the batch itself. Scores therefore depend on the
// whole batch: the same resume can score differently next to other resumes.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/spigell/resume-screener/internal/text"
)

// DefaultMaxFeatures caps the vocabulary size of the vector space.
const DefaultMaxFeatures = 5000

type options struct {
	maxFeatures int
	stopWords   map[string]struct{}
}

type Option func(*options)

// WithMaxFeatures overrides the vocabulary cap. Non-positive values disable the cap.
func WithMaxFeatures(n int) Option {
	return func(o *options) { o.maxFeatures = n }
}

// WithStopWords replaces the stop-word set.
func WithStopWords(words map[string]struct{}) Option {
	return func(o *options) { o.stopWords = words }
}

// Rank returns the cosine similarity of every document to jd, parallel to documents.
func Rank(documents []string, jd string, opts ...Option) []float64 {
	cfg := options{maxFeatures: DefaultMaxFeatures, stopWords: EnglishStopWords()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(documents) == 0 {
		return []float64{}
	}

	corpus := make([]string, 0, len(documents)+1)
	corpus = append(corpus, documents...)
	corpus = append(corpus, jd)

	counts := make([]map[string]int, len(corpus))
	for i, doc := range corpus {
		counts[i] = countTerms(doc, cfg.stopWords)
	}

	vocabulary := selectVocabulary(counts, cfg.maxFeatures)
	idf := inverseDocumentFrequency(counts, vocabulary)

	vectors := make([]map[string]float64, len(corpus))
	for i, c := range counts {
		vectors[i] = weigh(c, idf)
	}

	target := vectors[len(vectors)-1]
	scores := make([]float64, len(documents))
	for i := range documents {
		scores[i] = clamp(dot(vectors[i], target))
	}
	return scores
}

// Tokenize splits s into lower-cased runs of at least two word characters.
func Tokenize(s string) []string {
	tokens := make([]string, 0)
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		token := b.String()
		b.Reset()
		if len([]rune(token)) >= 2 {
			tokens = append(tokens, token)
		}
	}

	for _, r := range strings.ToLower(s) {
		if text.IsWordRune(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

func countTerms(doc string, stopWords map[string]struct{}) map[string]int {
	counts := make(map[string]int)
	for _, token := range Tokenize(doc) {
		if _, stop := stopWords[token]; stop {
			continue
		}
		counts[token]++
	}
	return counts
}

// selectVocabulary keeps the most frequent terms across the corpus, ties broken alphabetically.
func selectVocabulary(counts []map[string]int, limit int) map[string]struct{} {
	totals := make(map[string]int)
	for _, c := range counts {
		for term, n := range c {
			totals[term] += n
		}
	}

	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}

	vocabulary := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		vocabulary[term] = struct{}{}
	}
	return vocabulary
}

// inverseDocumentFrequency uses the smoothed form ln((1+n)/(1+df)) + 1.
func inverseDocumentFrequency(counts []map[string]int, vocabulary map[string]struct{}) map[string]float64 {
	df := make(map[string]int, len(vocabulary))
	for _, c := range counts {
		for term := range c {
			if _, ok := vocabulary[term]; ok {
				df[term]++
			}
		}
	}

	n := float64(len(counts))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}
	return idf
}

// weigh builds an L2-normalized tf-idf vector. A document without known terms yields an empty vector.
func weigh(counts map[string]int, idf map[string]float64) map[string]float64 {
	vector := make(map[string]float64, len(counts))
	var norm float64
	for term, n := range counts {
		w, ok := idf[term]
		if !ok {
			continue
		}
		v := float64(n) * w
		vector[term] = v
		norm += v * v
	}

	if norm == 0 {
		return map[string]float64{}
	}

	norm = math.Sqrt(norm)
	for term := range vector {
		vector[term] /= norm
	}
	return vector
}

func dot(a, b map[string]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var sum float64
	for term, v := range a {
		sum += v * b[term]
	}
	return sum
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
