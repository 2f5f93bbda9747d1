package domain

import "time"

// ContentKind distinguishes posts from comments in the unified corpus view.
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindComment ContentKind = "comment"
)

// ContentItem is the unifying view over a post or a comment handed to the
// retrieval pipeline. It is sourced from the corpus store at request time
// and never persisted by this service.
type ContentItem struct {
	ID          int64
	Kind        ContentKind
	Title       string // empty for comments
	Body        string
	Author      string
	Score       int // upvotes minus downvotes
	CreatedAt   time.Time
	SubredditID int64 // set for posts
	PostID      int64 // parent post, set for comments
}

// SearchableText returns the text the similarity scorer operates on.
func (c ContentItem) SearchableText() string {
	if c.Title == "" {
		return c.Body
	}
	return c.Title + " " + c.Body
}
