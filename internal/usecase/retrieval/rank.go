package retrieval

import (
	"math"
	"sort"
	"time"

	"forum-companion/internal/domain"
)

// RecencyScore buckets an item's age in whole days into a step score.
// A zero creation timestamp is tolerated and scores the neutral 0.5.
func RecencyScore(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0.5
	}

	days := int(now.Sub(createdAt).Hours() / 24)
	switch {
	case days <= 1:
		return 1.0
	case days <= 7:
		return 0.8
	case days <= 30:
		return 0.6
	case days <= 90:
		return 0.4
	default:
		return 0.2
	}
}

// PopularityScore maps a raw vote score onto (0, 1) with a logistic curve,
// so runaway threads do not drown everything else out.
func PopularityScore(score int) float64 {
	return 1 / (1 + math.Exp(-float64(score)/10))
}

// Rank blends per-item similarity with recency, popularity, and the content
// type bonus, then orders by final score descending. The sort is stable:
// ties keep the original corpus order.
func Rank(items []domain.ContentItem, similarities []float64, weights ScoringWeights, now time.Time) []RankedItem {
	ranked := make([]RankedItem, len(items))
	for i, item := range items {
		var sim float64
		if i < len(similarities) {
			sim = similarities[i]
		}
		rec := RecencyScore(item.CreatedAt, now)
		pop := PopularityScore(item.Score)

		ranked[i] = RankedItem{
			ContentItem: item,
			Similarity:  sim,
			Recency:     rec,
			Popularity:  pop,
			FinalScore: sim*weights.Similarity +
				rec*weights.Recency +
				pop*weights.Popularity +
				weights.bonusFor(item.Kind)*weights.TypeBonus,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})
	return ranked
}
