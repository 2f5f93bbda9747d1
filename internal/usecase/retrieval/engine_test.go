package retrieval_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"forum-companion/internal/domain"
	"forum-companion/internal/usecase/retrieval"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetrieve_EmptyCorpus(t *testing.T) {
	engine := retrieval.NewEngine(retrieval.DefaultWeights(), discardLogger())
	query := domain.NewQueryProcessor().Process("anything at all")

	result := engine.Retrieve(query, nil, nil, 10)

	assert.Empty(t, result)
}

func TestRetrieve_RelevantPostOutranksIrrelevantComment(t *testing.T) {
	engine := retrieval.NewEngine(retrieval.DefaultWeights(), discardLogger())
	query := domain.NewQueryProcessor().Process("golang generics tutorial")

	now := time.Now()
	posts := []domain.ContentItem{
		{ID: 1, Kind: domain.KindPost, Title: "Golang generics tutorial", Body: "A walkthrough of golang generics", Author: "alice", Score: 10, CreatedAt: now},
	}
	comments := []domain.ContentItem{
		{ID: 2, Kind: domain.KindComment, Body: "I prefer tea over coffee", Author: "bob", Score: 10, CreatedAt: now, PostID: 99},
	}

	result := engine.Retrieve(query, posts, comments, 10)

	assert.Len(t, result, 2)
	assert.Equal(t, int64(1), result[0].ID)
	assert.Greater(t, result[0].Similarity, result[1].Similarity)
}

func TestRetrieve_RespectsMaxResults(t *testing.T) {
	engine := retrieval.NewEngine(retrieval.DefaultWeights(), discardLogger())
	query := domain.NewQueryProcessor().Process("databases")

	now := time.Now()
	var posts []domain.ContentItem
	for i := 0; i < 15; i++ {
		posts = append(posts, domain.ContentItem{
			ID: int64(i + 1), Kind: domain.KindPost,
			Title: "databases discussion", Body: "all about databases",
			Author: string(rune('a' + i)), Score: i, CreatedAt: now,
		})
	}

	result := engine.Retrieve(query, posts, nil, 5)

	assert.LessOrEqual(t, len(result), 5)
	assert.NotEmpty(t, result)
}

func TestRetrieve_DefaultsMaxResultsWhenNonPositive(t *testing.T) {
	engine := retrieval.NewEngine(retrieval.DefaultWeights(), discardLogger())
	query := domain.NewQueryProcessor().Process("golang")

	now := time.Now()
	var posts []domain.ContentItem
	for i := 0; i < 20; i++ {
		posts = append(posts, domain.ContentItem{
			ID: int64(i + 1), Kind: domain.KindPost,
			Title: "golang", Body: "golang content",
			Author: string(rune('a' + i)), Score: 1, CreatedAt: now,
		})
	}

	result := engine.Retrieve(query, posts, nil, 0)

	assert.Len(t, result, retrieval.DefaultMaxResults)
}

func TestRetrieve_TitleContributesToMatching(t *testing.T) {
	engine := retrieval.NewEngine(retrieval.DefaultWeights(), discardLogger())
	query := domain.NewQueryProcessor().Process("kubernetes networking")

	now := time.Now()
	posts := []domain.ContentItem{
		{ID: 1, Kind: domain.KindPost, Title: "Kubernetes networking deep dive", Body: "details inside", Author: "alice", Score: 1, CreatedAt: now},
		{ID: 2, Kind: domain.KindPost, Title: "Weekend photography thread", Body: "share your shots", Author: "bob", Score: 1, CreatedAt: now},
	}

	result := engine.Retrieve(query, posts, nil, 10)

	assert.Equal(t, int64(1), result[0].ID)
}
