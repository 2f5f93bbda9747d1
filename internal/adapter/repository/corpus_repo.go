package repository

import (
	"context"
	"errors"
	"fmt"

	"forum-companion/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type corpusRepository struct {
	pool *pgxpool.Pool
}

// NewCorpusRepository creates a CorpusStore backed by the forum's
// PostgreSQL database. It is read-only: the CRUD platform owns the schema.
func NewCorpusRepository(pool *pgxpool.Pool) domain.CorpusStore {
	return &corpusRepository{pool: pool}
}

func (r *corpusRepository) ListPosts(ctx context.Context, q domain.ListPostsQuery) ([]domain.ContentItem, error) {
	orderBy := "p.score DESC, p.created_at DESC"
	if q.RecentFirst {
		orderBy = "p.created_at DESC"
	}
	query := `
		SELECT p.id, p.title, p.content, u.username, p.score, p.created_at, p.subreddit_id
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE ($1::bigint IS NULL OR p.subreddit_id = $1)
		  AND ($2::timestamptz IS NULL OR p.created_at >= $2)
		ORDER BY ` + orderBy + `
		LIMIT $3
	`
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, query, q.SubredditID, q.Since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.ContentItem
	for rows.Next() {
		item := domain.ContentItem{Kind: domain.KindPost}
		if err := rows.Scan(&item.ID, &item.Title, &item.Body, &item.Author, &item.Score, &item.CreatedAt, &item.SubredditID); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}
	return posts, nil
}

func (r *corpusRepository) ListComments(ctx context.Context, postID int64, limit int) ([]domain.ContentItem, error) {
	query := `
		SELECT c.id, c.content, u.username, c.score, c.created_at, c.post_id
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.score DESC, c.created_at DESC
		LIMIT $2
	`
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, query, postID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.ContentItem
	for rows.Next() {
		item := domain.ContentItem{Kind: domain.KindComment}
		if err := rows.Scan(&item.ID, &item.Body, &item.Author, &item.Score, &item.CreatedAt, &item.PostID); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return comments, nil
}

func (r *corpusRepository) GetPost(ctx context.Context, id int64) (*domain.ContentItem, error) {
	query := `
		SELECT p.id, p.title, p.content, u.username, p.score, p.created_at, p.subreddit_id
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`
	item := domain.ContentItem{Kind: domain.KindPost}
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&item.ID, &item.Title, &item.Body, &item.Author, &item.Score, &item.CreatedAt, &item.SubredditID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post %d: %w", id, err)
	}
	return &item, nil
}

func (r *corpusRepository) GetSubreddit(ctx context.Context, id int64) (*domain.Subreddit, error) {
	query := `
		SELECT s.id, s.name, s.display_name, COALESCE(s.description, ''), COALESCE(s.rules, '')
		FROM subreddits s
		WHERE s.id = $1
	`
	var sub domain.Subreddit
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&sub.ID, &sub.Name, &sub.DisplayName, &sub.Description, &sub.Rules)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subreddit %d: %w", id, err)
	}
	return &sub, nil
}
