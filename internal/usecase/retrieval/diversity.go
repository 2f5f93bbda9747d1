package retrieval

import "forum-companion/internal/domain"

// DiversityFilter greedily walks a ranked list and limits how much a single
// author or a single thread can dominate the selection. It applies only
// when the list exceeds maxResults:
//
//   - an item is skipped when its author already contributed and the
//     selection is at least half full;
//   - a comment is skipped when its parent post already contributed a
//     selected item.
//
// Skipped items are not back-filled, so the output may legitimately be
// shorter than maxResults.
func DiversityFilter(ranked []RankedItem, maxResults int) []RankedItem {
	if len(ranked) <= maxResults {
		return ranked
	}

	selected := make([]RankedItem, 0, maxResults)
	usedAuthors := make(map[string]struct{})
	usedPosts := make(map[int64]struct{})

	for _, item := range ranked {
		if _, seen := usedAuthors[item.Author]; seen && len(selected) >= maxResults/2 {
			continue
		}
		if item.Kind == domain.KindComment {
			if _, seen := usedPosts[item.PostID]; seen {
				continue
			}
		}

		selected = append(selected, item)
		usedAuthors[item.Author] = struct{}{}
		if item.Kind == domain.KindPost {
			usedPosts[item.ID] = struct{}{}
		} else {
			usedPosts[item.PostID] = struct{}{}
		}

		if len(selected) >= maxResults {
			break
		}
	}
	return selected
}
