package ml

import (
	"math"
	"sort"
	"strings"
)

// Vectorizer turns short texts into TF-IDF feature vectors over word
// n-grams. Fit once on the training corpus; Transform is then a pure
// function of the input text and safe for concurrent use.
type Vectorizer struct {
	MaxFeatures int     `json:"maxFeatures"`
	NgramMin    int     `json:"ngramMin"`
	NgramMax    int     `json:"ngramMax"`
	MinDF       int     `json:"minDf"`
	MaxDF       float64 `json:"maxDf"`
	SublinearTF bool    `json:"sublinearTf"`

	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// NewVectorizer creates a vectorizer with the engine's standard settings:
// unigrams through trigrams, a 500-term vocabulary ceiling, sub-linear
// term-frequency scaling and document-frequency pruning at 90%.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		MaxFeatures: 500,
		NgramMin:    1,
		NgramMax:    3,
		MinDF:       1,
		MaxDF:       0.9,
		SublinearTF: true,
	}
}

// ngrams expands a token stream into the configured n-gram range.
func (v *Vectorizer) ngrams(tokens []string) []string {
	var out []string
	for n := v.NgramMin; n <= v.NgramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// Fit builds the vocabulary and IDF table from the training corpus.
func (v *Vectorizer) Fit(docs []string) {
	nDocs := len(docs)
	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)

	for _, doc := range docs {
		grams := v.ngrams(Tokenize(NormalizeText(doc)))
		seen := make(map[string]struct{}, len(grams))
		for _, g := range grams {
			totalFreq[g]++
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				docFreq[g]++
			}
		}
	}

	// Document-frequency pruning.
	maxDocs := int(v.MaxDF * float64(nDocs))
	var terms []string
	for term, df := range docFreq {
		if df < v.MinDF || df > maxDocs {
			continue
		}
		terms = append(terms, term)
	}

	// Vocabulary ceiling: keep the most frequent terms, ties broken
	// alphabetically for determinism.
	sort.Slice(terms, func(i, j int) bool {
		if totalFreq[terms[i]] != totalFreq[terms[j]] {
			return totalFreq[terms[i]] > totalFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		// Smoothed IDF: acts as if one extra document contained every term.
		v.IDF[i] = math.Log(float64(1+nDocs)/float64(1+docFreq[term])) + 1
	}
}

// Transform maps a text to its TF-IDF vector. Returns the zero vector
// for texts that share no terms with the vocabulary.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.IDF))
	if len(v.IDF) == 0 {
		return vec
	}

	counts := make(map[int]int)
	for _, g := range v.ngrams(Tokenize(NormalizeText(text))) {
		if idx, ok := v.Vocabulary[g]; ok {
			counts[idx]++
		}
	}

	for idx, c := range counts {
		tf := float64(c)
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		vec[idx] = tf * v.IDF[idx]
	}

	// L2 normalization keeps short and long messages comparable.
	var sumSq float64
	for _, x := range vec {
		sumSq += x * x
	}
	if sumSq > 0 {
		nrm := math.Sqrt(sumSq)
		for i := range vec {
			vec[i] /= nrm
		}
	}

	return vec
}

// Dim returns the fitted vocabulary size.
func (v *Vectorizer) Dim() int {
	return len(v.IDF)
}
