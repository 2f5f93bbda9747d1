package usecase

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"forum-companion/internal/domain"
	"forum-companion/internal/usecase/retrieval"
)

const (
	// DefaultMaxContextItems caps how many ranked items feed the prompt.
	DefaultMaxContextItems = 5
	// DefaultMaxContextChars bounds the assembled context block.
	DefaultMaxContextChars = 4000

	excerptMaxLength = 200
)

// Citation points a reader back at the exact content an answer drew from.
type Citation struct {
	SourceID  int64              `json:"source_id"`
	Title     string             `json:"title"`
	Relevance float64            `json:"relevance_score"`
	Excerpt   string             `json:"excerpt"`
	Author    string             `json:"author"`
	Score     int                `json:"score"`
	CreatedAt time.Time          `json:"created_at"`
	Kind      domain.ContentKind `json:"kind"`
}

// Source is a lightweight navigable reference for UI linking.
type Source struct {
	Kind  domain.ContentKind `json:"kind"`
	ID    int64              `json:"id"`
	Title string             `json:"title"`
	URL   string             `json:"url"`
}

// ContextBundle is the bounded context block plus the citation metadata
// that goes with it.
type ContextBundle struct {
	ContextText   string
	Citations     []Citation
	Sources       []Source
	ItemCount     int
	ContextLength int
}

// ContextBuilder turns ranked content into the prompt context and the
// authoritative citations list. Ranking order is trusted, never recomputed.
type ContextBuilder struct {
	maxItems        int
	maxContextChars int
	logger          *slog.Logger
}

// NewContextBuilder creates a builder with the given bounds; non-positive
// values fall back to the defaults.
func NewContextBuilder(maxItems, maxContextChars int, logger *slog.Logger) *ContextBuilder {
	if maxItems <= 0 {
		maxItems = DefaultMaxContextItems
	}
	if maxContextChars <= 0 {
		maxContextChars = DefaultMaxContextChars
	}
	return &ContextBuilder{
		maxItems:        maxItems,
		maxContextChars: maxContextChars,
		logger:          logger,
	}
}

// Build assembles the context bundle from the top ranked items. It never
// fails: with nothing to cite it returns an explanatory bundle with empty
// citation and source lists.
func (b *ContextBuilder) Build(query string, ranked []retrieval.RankedItem) ContextBundle {
	if len(ranked) == 0 {
		text := fmt.Sprintf("Query: %s\n\nNo relevant content found.", query)
		return ContextBundle{
			ContextText: text,
			Citations:   []Citation{},
			Sources:     []Source{},
		}
	}

	selected := ranked
	if len(selected) > b.maxItems {
		selected = selected[:b.maxItems]
	}

	contextText := b.buildContextText(query, selected)
	if utf8.RuneCountInString(contextText) > b.maxContextChars {
		contextText = truncateContext(contextText, b.maxContextChars)
		b.logger.Debug("context_truncated",
			slog.Int("max_chars", b.maxContextChars),
			slog.Int("final_length", utf8.RuneCountInString(contextText)))
	}

	return ContextBundle{
		ContextText:   contextText,
		Citations:     b.buildCitations(selected),
		Sources:       b.buildSources(selected),
		ItemCount:     len(selected),
		ContextLength: utf8.RuneCountInString(contextText),
	}
}

func (b *ContextBuilder) buildContextText(query string, items []retrieval.RankedItem) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User Query: %s\n", query))

	for i, item := range items {
		sb.WriteString("\n")
		if item.Kind == domain.KindPost {
			sb.WriteString(fmt.Sprintf("Post %d: %s\n", i+1, item.Title))
		} else {
			sb.WriteString(fmt.Sprintf("Comment %d:\n", i+1))
		}
		sb.WriteString(fmt.Sprintf("Author: %s | Score: %d\n", item.Author, item.Score))
		sb.WriteString(fmt.Sprintf("Content: %s\n", item.Body))
	}
	return sb.String()
}

func (b *ContextBuilder) buildCitations(items []retrieval.RankedItem) []Citation {
	citations := make([]Citation, 0, len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "Comment"
		}
		citations = append(citations, Citation{
			SourceID:  item.ID,
			Title:     title,
			Relevance: math.Round(item.Similarity*1000) / 1000,
			Excerpt:   ExtractExcerpt(item.Body),
			Author:    item.Author,
			Score:     item.Score,
			CreatedAt: item.CreatedAt,
			Kind:      item.Kind,
		})
	}
	return citations
}

func (b *ContextBuilder) buildSources(items []retrieval.RankedItem) []Source {
	sources := make([]Source, 0, len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "Comment"
		}
		sources = append(sources, Source{
			Kind:  item.Kind,
			ID:    item.ID,
			Title: title,
			URL:   sourceURL(item.ContentItem),
		})
	}
	return sources
}

func sourceURL(item domain.ContentItem) string {
	if item.Kind == domain.KindPost {
		return fmt.Sprintf("/posts/%d", item.ID)
	}
	return fmt.Sprintf("/posts/%d#comment-%d", item.PostID, item.ID)
}

// ExtractExcerpt returns a citation-worthy prefix of a body. Bodies within
// the limit pass through untouched; longer ones are cut at 200 characters,
// backing off to a sentence boundary in the last 50 characters if one
// exists, else a word boundary in the last 30, else the hard cut. "..." is
// appended whenever anything was removed. Limits count runes, never bytes,
// so multibyte text is never split mid-character.
func ExtractExcerpt(body string) string {
	cleaned := strings.TrimSpace(body)
	runes := []rune(cleaned)
	if len(runes) <= excerptMaxLength {
		return cleaned
	}

	truncated := runes[:excerptMaxLength]

	if idx := lastIndexRune(truncated, '.'); idx > excerptMaxLength-50 {
		return string(truncated[:idx+1]) + "..."
	}
	if idx := lastIndexRune(truncated, ' '); idx > excerptMaxLength-30 {
		return string(truncated[:idx]) + "..."
	}
	return string(truncated) + "..."
}

// truncateContext enforces the context character budget, preferring the
// last complete sentence within 100 characters of the limit. Like the
// excerpt cut, the limit is in runes.
func truncateContext(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	truncated := runes[:maxChars]
	if idx := lastIndexRune(truncated, '.'); idx > maxChars-100 {
		return string(truncated[:idx+1])
	}
	return string(truncated) + "..."
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
