package domain

import (
	"context"
	"time"
)

// Subreddit is the community metadata the assistant features read.
type Subreddit struct {
	ID          int64
	Name        string
	DisplayName string
	Description string
	Rules       string
}

// ListPostsQuery narrows the candidate post set pulled from the corpus.
type ListPostsQuery struct {
	SubredditID *int64
	Since       *time.Time
	Limit       int

	// RecentFirst orders by creation time instead of score. The FAQ and
	// trending analyses want the newest posts, not the highest voted.
	RecentFirst bool
}

// CorpusStore exposes the forum content this service retrieves over.
// The backing CRUD platform owns persistence; this service only reads.
type CorpusStore interface {
	// ListPosts returns posts ordered by score descending, newest first on
	// ties; with RecentFirst set, newest first outright.
	ListPosts(ctx context.Context, q ListPostsQuery) ([]ContentItem, error)

	// ListComments returns the top comments of a post ordered by score descending.
	ListComments(ctx context.Context, postID int64, limit int) ([]ContentItem, error)

	// GetPost returns a single post. Returns nil, nil when not found.
	GetPost(ctx context.Context, id int64) (*ContentItem, error)

	// GetSubreddit returns a community's metadata. Returns nil, nil when not found.
	GetSubreddit(ctx context.Context, id int64) (*Subreddit, error)
}
