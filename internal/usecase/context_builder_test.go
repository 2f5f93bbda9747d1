package usecase_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"forum-companion/internal/domain"
	"forum-companion/internal/usecase"
	"forum-companion/internal/usecase/retrieval"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rankedPost(id int64, title, body, author string, sim float64) retrieval.RankedItem {
	return retrieval.RankedItem{
		ContentItem: domain.ContentItem{
			ID: id, Kind: domain.KindPost, Title: title, Body: body,
			Author: author, Score: 5, CreatedAt: time.Now(),
		},
		Similarity: sim,
	}
}

func rankedComment(id, postID int64, body, author string, sim float64) retrieval.RankedItem {
	return retrieval.RankedItem{
		ContentItem: domain.ContentItem{
			ID: id, Kind: domain.KindComment, Body: body,
			Author: author, Score: 2, CreatedAt: time.Now(), PostID: postID,
		},
		Similarity: sim,
	}
}

func TestBuild_EmptyResults(t *testing.T) {
	b := usecase.NewContextBuilder(5, 4000, discardLogger())

	bundle := b.Build("lost query", nil)

	assert.Equal(t, "Query: lost query\n\nNo relevant content found.", bundle.ContextText)
	assert.NotNil(t, bundle.Citations)
	assert.NotNil(t, bundle.Sources)
	assert.Empty(t, bundle.Citations)
	assert.Empty(t, bundle.Sources)
	assert.Zero(t, bundle.ItemCount)
}

func TestBuild_ContextTextShape(t *testing.T) {
	b := usecase.NewContextBuilder(5, 4000, discardLogger())

	bundle := b.Build("how do channels work?", []retrieval.RankedItem{
		rankedPost(10, "Channels explained", "Channels synchronize goroutines.", "alice", 0.9),
		rankedComment(20, 10, "Buffered channels differ.", "bob", 0.5),
	})

	assert.True(t, strings.HasPrefix(bundle.ContextText, "User Query: how do channels work?\n"))
	assert.Contains(t, bundle.ContextText, "Post 1: Channels explained\n")
	assert.Contains(t, bundle.ContextText, "Comment 2:\n")
	assert.Contains(t, bundle.ContextText, "Author: alice | Score: 5\n")
	assert.Contains(t, bundle.ContextText, "Content: Channels synchronize goroutines.\n")
	assert.Equal(t, 2, bundle.ItemCount)
	assert.Equal(t, len(bundle.ContextText), bundle.ContextLength)
}

func TestBuild_CapsItems(t *testing.T) {
	b := usecase.NewContextBuilder(5, 4000, discardLogger())

	var ranked []retrieval.RankedItem
	for i := 0; i < 8; i++ {
		ranked = append(ranked, rankedPost(int64(i+1), "Title", "Body", "author", 0.5))
	}

	bundle := b.Build("query", ranked)

	assert.Equal(t, 5, bundle.ItemCount)
	assert.Len(t, bundle.Citations, 5)
	assert.Len(t, bundle.Sources, 5)
}

func TestBuild_CitationFields(t *testing.T) {
	b := usecase.NewContextBuilder(5, 4000, discardLogger())

	bundle := b.Build("query", []retrieval.RankedItem{
		rankedPost(42, "The answer", "Deep thought content.", "adams", 0.87654),
	})

	c := bundle.Citations[0]
	assert.Equal(t, int64(42), c.SourceID)
	assert.Equal(t, "The answer", c.Title)
	assert.Equal(t, 0.877, c.Relevance)
	assert.Equal(t, "Deep thought content.", c.Excerpt)
	assert.Equal(t, "adams", c.Author)
	assert.Equal(t, domain.KindPost, c.Kind)
}

func TestBuild_CommentCitationGetsPlaceholderTitle(t *testing.T) {
	b := usecase.NewContextBuilder(5, 4000, discardLogger())

	bundle := b.Build("query", []retrieval.RankedItem{
		rankedComment(7, 3, "A reply.", "carol", 0.4),
	})

	assert.Equal(t, "Comment", bundle.Citations[0].Title)
	assert.Equal(t, "Comment", bundle.Sources[0].Title)
}

func TestBuild_SourceURLs(t *testing.T) {
	b := usecase.NewContextBuilder(5, 4000, discardLogger())

	bundle := b.Build("query", []retrieval.RankedItem{
		rankedPost(11, "Post", "Body", "alice", 0.9),
		rankedComment(22, 11, "Reply", "bob", 0.5),
	})

	assert.Equal(t, "/posts/11", bundle.Sources[0].URL)
	assert.Equal(t, "/posts/11#comment-22", bundle.Sources[1].URL)
}

func TestBuild_TruncatesOversizedContext(t *testing.T) {
	b := usecase.NewContextBuilder(5, 500, discardLogger())

	long := strings.Repeat("This sentence pads the context block noticeably. ", 40)
	bundle := b.Build("query", []retrieval.RankedItem{
		rankedPost(1, "Long post", long, "alice", 0.9),
	})

	assert.LessOrEqual(t, bundle.ContextLength, 503)
	assert.Equal(t, len(bundle.ContextText), bundle.ContextLength)
	// Citations still cover the item even though its text was cut.
	assert.Len(t, bundle.Citations, 1)
}

func TestExtractExcerpt_ShortBodyUntouched(t *testing.T) {
	body := "Short and sweet."

	assert.Equal(t, body, usecase.ExtractExcerpt(body))
}

func TestExtractExcerpt_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, "Trimmed.", usecase.ExtractExcerpt("  Trimmed.  "))
}

func TestExtractExcerpt_SentenceBoundary(t *testing.T) {
	// A period lands inside the 150..200 window, so the cut ends a sentence.
	body := strings.Repeat("x", 160) + ". " + strings.Repeat("y", 100)

	excerpt := usecase.ExtractExcerpt(body)

	assert.Equal(t, strings.Repeat("x", 160)+"....", excerpt)
	assert.True(t, strings.HasSuffix(excerpt, "..."))
}

func TestExtractExcerpt_WordBoundary(t *testing.T) {
	// No period, but a space inside the 170..200 window.
	body := strings.Repeat("x", 180) + " " + strings.Repeat("y", 100)

	excerpt := usecase.ExtractExcerpt(body)

	assert.Equal(t, strings.Repeat("x", 180)+"...", excerpt)
}

func TestExtractExcerpt_HardCut(t *testing.T) {
	body := strings.Repeat("z", 400)

	excerpt := usecase.ExtractExcerpt(body)

	assert.Equal(t, strings.Repeat("z", 200)+"...", excerpt)
	assert.Len(t, excerpt, 203)
}

func TestExtractExcerpt_NeverExceedsLimit(t *testing.T) {
	bodies := []string{
		strings.Repeat("word ", 100),
		strings.Repeat("a", 250),
		strings.Repeat("Sentence one. ", 30),
	}
	for _, body := range bodies {
		excerpt := usecase.ExtractExcerpt(body)
		assert.LessOrEqual(t, len(excerpt), 203)
	}
}

func TestExtractExcerpt_MultibyteHardCut(t *testing.T) {
	body := strings.Repeat("日", 300)

	excerpt := usecase.ExtractExcerpt(body)

	assert.True(t, utf8.ValidString(excerpt))
	assert.Equal(t, strings.Repeat("日", 200)+"...", excerpt)
	assert.Equal(t, 203, utf8.RuneCountInString(excerpt))
}

func TestExtractExcerpt_MultibyteSentenceBoundary(t *testing.T) {
	// A period lands in the 150..200 rune window of a multibyte body.
	body := strings.Repeat("é", 160) + ". " + strings.Repeat("ü", 100)

	excerpt := usecase.ExtractExcerpt(body)

	assert.True(t, utf8.ValidString(excerpt))
	assert.Equal(t, strings.Repeat("é", 160)+"....", excerpt)
}

func TestExtractExcerpt_MultibyteCountsRunesNotBytes(t *testing.T) {
	// 150 runes but 450 bytes; within the rune limit, so untouched.
	body := strings.Repeat("日", 150)

	assert.Equal(t, body, usecase.ExtractExcerpt(body))
}

func TestBuild_MultibyteContextTruncation(t *testing.T) {
	b := usecase.NewContextBuilder(5, 300, discardLogger())

	bundle := b.Build("質問", []retrieval.RankedItem{
		rankedPost(1, "投稿", strings.Repeat("本文です。", 200), "alice", 0.9),
	})

	assert.True(t, utf8.ValidString(bundle.ContextText))
	assert.LessOrEqual(t, utf8.RuneCountInString(bundle.ContextText), 303)
	assert.Equal(t, utf8.RuneCountInString(bundle.ContextText), bundle.ContextLength)
}
