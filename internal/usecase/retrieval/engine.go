package retrieval

import (
	"log/slog"
	"time"

	"forum-companion/internal/domain"
)

// DefaultMaxResults bounds how many ranked items the engine hands downstream.
const DefaultMaxResults = 10

// Engine scores candidate posts and comments against a processed query and
// returns the most relevant items, diversity-filtered and ranked.
// The engine holds no fitted state: every call is an independent pass.
type Engine struct {
	vectorizer *Vectorizer
	weights    ScoringWeights
	logger     *slog.Logger
}

// NewEngine creates a retrieval engine with the given blending weights.
func NewEngine(weights ScoringWeights, logger *slog.Logger) *Engine {
	return &Engine{
		vectorizer: NewVectorizer(),
		weights:    weights,
		logger:     logger,
	}
}

// Retrieve merges posts and comments into one candidate list, ranks it, and
// applies the diversity filter. Empty inputs yield an empty result; the
// caller must treat that as "no grounding available", not as success.
func (e *Engine) Retrieve(query domain.ProcessedQuery, posts, comments []domain.ContentItem, maxResults int) []RankedItem {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	candidates := make([]domain.ContentItem, 0, len(posts)+len(comments))
	candidates = append(candidates, posts...)
	candidates = append(candidates, comments...)
	if len(candidates) == 0 {
		return nil
	}

	docs := make([]string, len(candidates))
	for i, c := range candidates {
		docs[i] = c.SearchableText()
	}

	similarities := e.vectorizer.Similarities(query.Cleaned, docs)
	ranked := Rank(candidates, similarities, e.weights, time.Now())
	selected := DiversityFilter(ranked, maxResults)

	e.logger.Debug("content_ranked",
		slog.Int("candidates", len(candidates)),
		slog.Int("selected", len(selected)),
		slog.String("intent", string(query.Intent)))

	return selected
}
