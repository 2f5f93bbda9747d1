package retrieval

import "forum-companion/internal/domain"

// RankedItem is a content item enriched with the scores the ranking pass computed.
type RankedItem struct {
	domain.ContentItem

	Similarity float64
	Recency    float64
	Popularity float64
	FinalScore float64
}

// ScoringWeights blends the per-dimension scores into one ranking score.
// The defaults implement the 50/20/20/10 split; they are tunable, not
// hard-wired into the ranking pass.
type ScoringWeights struct {
	Similarity float64
	Recency    float64
	Popularity float64
	TypeBonus  float64

	PostBonus    float64
	CommentBonus float64
}

// DefaultWeights returns the standard blend favoring similarity, with a
// mild type bonus for posts over comments.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Similarity:   0.5,
		Recency:      0.2,
		Popularity:   0.2,
		TypeBonus:    0.1,
		PostBonus:    1.2,
		CommentBonus: 1.0,
	}
}

func (w ScoringWeights) bonusFor(kind domain.ContentKind) float64 {
	if kind == domain.KindPost {
		return w.PostBonus
	}
	return w.CommentBonus
}
