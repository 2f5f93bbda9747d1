package retrieval

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Vectorizer computes TF-IDF cosine similarity between a query and a batch
// of documents. It is stateless: the vector space is refit on every call,
// so concurrent requests with different corpora never share fitted state
// and similarity scores are reproducible per batch.
type Vectorizer struct {
	// MaxFeatures caps the vocabulary, keeping the terms that occur most
	// often across the batch.
	MaxFeatures int
}

// NewVectorizer returns a vectorizer with the standard 1000-term vocabulary cap.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{MaxFeatures: 1000}
}

// Similarities fits a unigram+bigram TF-IDF space over {query} ∪ docs and
// returns the cosine similarity of each document against the query, each
// in [0, 1]. The returned slice is aligned with docs.
func (v *Vectorizer) Similarities(query string, docs []string) []float64 {
	if len(docs) == 0 {
		return nil
	}

	texts := make([][]string, 0, len(docs)+1)
	texts = append(texts, ngrams(tokenize(query)))
	for _, d := range docs {
		texts = append(texts, ngrams(tokenize(d)))
	}

	vocab := v.buildVocabulary(texts)
	if len(vocab) == 0 {
		return make([]float64, len(docs))
	}

	idf := inverseDocumentFrequency(texts, vocab)
	queryVec := tfidfVector(texts[0], vocab, idf)

	scores := make([]float64, len(docs))
	if norm(queryVec) == 0 {
		return scores
	}

	for i := 1; i < len(texts); i++ {
		docVec := tfidfVector(texts[i], vocab, idf)
		scores[i-1] = cosine(queryVec, docVec)
	}
	return scores
}

// buildVocabulary selects up to MaxFeatures terms by total occurrence
// count across the batch, breaking ties alphabetically for determinism.
func (v *Vectorizer) buildVocabulary(texts [][]string) map[string]int {
	counts := make(map[string]int)
	for _, terms := range texts {
		for _, t := range terms {
			counts[t]++
		}
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	limit := v.MaxFeatures
	if limit <= 0 || limit > len(terms) {
		limit = len(terms)
	}

	vocab := make(map[string]int, limit)
	for i := 0; i < limit; i++ {
		vocab[terms[i]] = i
	}
	return vocab
}

func inverseDocumentFrequency(texts [][]string, vocab map[string]int) []float64 {
	df := make([]int, len(vocab))
	for _, terms := range texts {
		seen := make(map[int]struct{}, len(terms))
		for _, t := range terms {
			if idx, ok := vocab[t]; ok {
				seen[idx] = struct{}{}
			}
		}
		for idx := range seen {
			df[idx]++
		}
	}

	n := float64(len(texts))
	idf := make([]float64, len(vocab))
	for i, d := range df {
		// Smoothed idf keeps unseen terms finite and all weights positive.
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}
	return idf
}

func tfidfVector(terms []string, vocab map[string]int, idf []float64) map[int]float64 {
	vec := make(map[int]float64)
	for _, t := range terms {
		if idx, ok := vocab[t]; ok {
			vec[idx]++
		}
	}
	for idx, tf := range vec {
		vec[idx] = tf * idf[idx]
	}
	normalize(vec)
	return vec
}

func normalize(vec map[int]float64) {
	n := norm(vec)
	if n == 0 {
		return
	}
	for idx := range vec {
		vec[idx] /= n
	}
}

func norm(vec map[int]float64) float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// cosine of two l2-normalized sparse vectors is their dot product, clamped
// to [0, 1] against floating point drift.
func cosine(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, av := range a {
		if bv, ok := b[idx]; ok {
			dot += av * bv
		}
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}

// tokenize lowercases, splits on non-alphanumeric runes, and drops English
// stop-words and single-character tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// ngrams expands a token stream into unigrams plus adjacent bigrams.
func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens)*2-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

var englishStopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"all": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {},
	"at": {}, "be": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"below": {}, "between": {}, "both": {}, "but": {}, "by": {}, "can": {},
	"could": {}, "did": {}, "do": {}, "does": {}, "doing": {}, "down": {},
	"during": {}, "each": {}, "few": {}, "for": {}, "from": {}, "further": {},
	"had": {}, "has": {}, "have": {}, "having": {}, "he": {}, "her": {},
	"here": {}, "hers": {}, "him": {}, "his": {}, "how": {}, "i": {}, "if": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "me": {},
	"more": {}, "most": {}, "my": {}, "no": {}, "nor": {}, "not": {}, "now": {},
	"of": {}, "off": {}, "on": {}, "once": {}, "only": {}, "or": {}, "other": {},
	"our": {}, "ours": {}, "out": {}, "over": {}, "own": {}, "same": {},
	"she": {}, "should": {}, "so": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "theirs": {}, "them": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "those": {}, "through": {},
	"to": {}, "too": {}, "under": {}, "until": {}, "up": {}, "very": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "who": {}, "whom": {}, "why": {}, "will": {},
	"with": {}, "would": {}, "you": {}, "your": {}, "yours": {},
}
