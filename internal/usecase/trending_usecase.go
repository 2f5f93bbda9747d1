package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"forum-companion/internal/domain"
)

const (
	trendingMaxTokens     = 800
	trendingPostLimit     = 50
	trendingContentSample = 10
	trendingFallbackPosts = 3
)

// TrendingTopic is one theme the model identified in recent posts.
type TrendingTopic struct {
	Topic        string   `json:"topic"`
	Frequency    int      `json:"frequency"`
	Description  string   `json:"description"`
	RelatedPosts []string `json:"related_posts"`
}

// TrendingInput names the community to analyze.
type TrendingInput struct {
	SubredditID int64
}

// TrendingOutput carries the identified topics.
type TrendingOutput struct {
	Subreddit string          `json:"subreddit"`
	Topics    []TrendingTopic `json:"trending_topics"`
}

// TrendingUsecase identifies trending topics in a community's recent posts.
type TrendingUsecase interface {
	Execute(ctx context.Context, input TrendingInput) (*TrendingOutput, error)
}

type trendingUsecase struct {
	corpus    domain.CorpusStore
	llmClient domain.LLMClient
	validator OutputValidator
	timeout   time.Duration
	logger    *slog.Logger
}

// NewTrendingUsecase wires the trending-topic analyzer.
func NewTrendingUsecase(corpus domain.CorpusStore, llmClient domain.LLMClient, validator OutputValidator, timeout time.Duration, logger *slog.Logger) TrendingUsecase {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &trendingUsecase{
		corpus:    corpus,
		llmClient: llmClient,
		validator: validator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Execute asks the model to theme the community's recent posts.
// Unparseable output degrades to a single catch-all topic; generation
// failure degrades to an empty list. Only a missing community is an error.
func (u *trendingUsecase) Execute(ctx context.Context, input TrendingInput) (*TrendingOutput, error) {
	sub, err := u.corpus.GetSubreddit(ctx, input.SubredditID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subreddit %d: %w", input.SubredditID, err)
	}
	if sub == nil {
		return nil, fmt.Errorf("subreddit %d not found", input.SubredditID)
	}

	posts, err := u.corpus.ListPosts(ctx, domain.ListPostsQuery{
		SubredditID: &sub.ID,
		Limit:       trendingPostLimit,
		RecentFirst: true,
	})
	if err != nil {
		u.logger.Warn("trending_post_load_failed",
			slog.Int64("subreddit_id", sub.ID),
			slog.String("error", err.Error()))
		posts = nil
	}
	if len(posts) == 0 {
		return &TrendingOutput{Subreddit: sub.Name, Topics: []TrendingTopic{}}, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	resp, err := u.llmClient.Generate(genCtx, u.buildPrompt(sub, posts), trendingMaxTokens)
	if err != nil {
		u.logger.Warn("trending_generation_failed",
			slog.Int64("subreddit_id", sub.ID),
			slog.String("error", err.Error()))
		return &TrendingOutput{Subreddit: sub.Name, Topics: []TrendingTopic{}}, nil
	}

	var topics []TrendingTopic
	if !u.validator.ParseJSON(resp.Text, &topics) {
		u.logger.Debug("trending_output_unstructured", slog.Int64("subreddit_id", sub.ID))
		return &TrendingOutput{Subreddit: sub.Name, Topics: fallbackTopics(posts)}, nil
	}

	return &TrendingOutput{Subreddit: sub.Name, Topics: topics}, nil
}

func (u *trendingUsecase) buildPrompt(sub *domain.Subreddit, posts []domain.ContentItem) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following posts to identify trending topics and themes:\n\n")
	sb.WriteString(fmt.Sprintf("Subreddit: %s\n\n", sub.DisplayName))

	sb.WriteString("Recent post titles:\n")
	for _, p := range posts {
		sb.WriteString(p.Title + "\n")
	}

	sb.WriteString("\nRecent post contents (first 200 chars each):\n")
	for i, p := range posts {
		if i >= trendingContentSample {
			break
		}
		sb.WriteString(ExtractExcerpt(p.Body) + "\n")
	}

	sb.WriteString("\nPlease provide a JSON response with an array of trending topic objects, each containing:\n")
	sb.WriteString("- \"topic\": string (the trending topic)\n")
	sb.WriteString("- \"frequency\": number (how often it appears, 1-10)\n")
	sb.WriteString("- \"description\": string (brief description of why it's trending)\n")
	sb.WriteString("- \"related_posts\": array of post titles that relate to this topic\n")
	return sb.String()
}

// fallbackTopics is the deterministic catch-all when the model output
// cannot be parsed.
func fallbackTopics(posts []domain.ContentItem) []TrendingTopic {
	related := make([]string, 0, trendingFallbackPosts)
	for i, p := range posts {
		if i >= trendingFallbackPosts {
			break
		}
		related = append(related, p.Title)
	}
	return []TrendingTopic{
		{
			Topic:        "General Discussion",
			Frequency:    5,
			Description:  "General posts and discussions",
			RelatedPosts: related,
		},
	}
}
