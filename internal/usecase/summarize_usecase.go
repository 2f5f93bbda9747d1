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
	summaryMaxTokens   = 200
	summaryCommentCap  = 20
	noCommentsSummary  = "No comments to summarize."
	summaryPromptShape = "Summarize the following %s in 2-3 sentences:\n\n%s"
)

// SummarizeInput names the post whose thread gets summarized.
type SummarizeInput struct {
	PostID int64
}

// SummarizeOutput carries the three summary views of a thread.
type SummarizeOutput struct {
	PostSummary     string `json:"post_summary"`
	CommentsSummary string `json:"comments_summary"`
	FullSummary     string `json:"full_summary"`
}

// SummarizeUsecase condenses a post and its top comments via the LLM.
type SummarizeUsecase interface {
	Execute(ctx context.Context, input SummarizeInput) (*SummarizeOutput, error)
}

type summarizeUsecase struct {
	corpus    domain.CorpusStore
	llmClient domain.LLMClient
	timeout   time.Duration
	logger    *slog.Logger
}

// NewSummarizeUsecase wires the thread summarizer. Each generation call is
// bounded by the given timeout; non-positive means 60 seconds.
func NewSummarizeUsecase(corpus domain.CorpusStore, llmClient domain.LLMClient, timeout time.Duration, logger *slog.Logger) SummarizeUsecase {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &summarizeUsecase{
		corpus:    corpus,
		llmClient: llmClient,
		timeout:   timeout,
		logger:    logger,
	}
}

func (u *summarizeUsecase) Execute(ctx context.Context, input SummarizeInput) (*SummarizeOutput, error) {
	post, err := u.corpus.GetPost(ctx, input.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post %d: %w", input.PostID, err)
	}
	if post == nil {
		return nil, fmt.Errorf("post %d not found", input.PostID)
	}

	comments, err := u.corpus.ListComments(ctx, input.PostID, summaryCommentCap)
	if err != nil {
		u.logger.Warn("comment_load_failed_for_summary",
			slog.Int64("post_id", input.PostID),
			slog.String("error", err.Error()))
		comments = nil
	}

	postText := fmt.Sprintf("Title: %s\nContent: %s", post.Title, post.Body)
	postSummary, err := u.summarize(ctx, "post", postText)
	if err != nil {
		return nil, err
	}

	commentsSummary := noCommentsSummary
	commentsText := "No comments"
	if len(comments) > 0 {
		lines := make([]string, 0, len(comments))
		for _, c := range comments {
			lines = append(lines, fmt.Sprintf("%s: %s", c.Author, c.Body))
		}
		commentsText = strings.Join(lines, "\n")
		commentsSummary, err = u.summarize(ctx, "comments", commentsText)
		if err != nil {
			return nil, err
		}
	}

	fullText := fmt.Sprintf("Post: %s\n%s\n\nComments:\n%s", post.Title, post.Body, commentsText)
	fullSummary, err := u.summarize(ctx, "discussion", fullText)
	if err != nil {
		return nil, err
	}

	return &SummarizeOutput{
		PostSummary:     postSummary,
		CommentsSummary: commentsSummary,
		FullSummary:     fullSummary,
	}, nil
}

func (u *summarizeUsecase) summarize(ctx context.Context, kind, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return fmt.Sprintf("No %s to summarize.", kind), nil
	}

	genCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	prompt := fmt.Sprintf(summaryPromptShape, kind, text)
	resp, err := u.llmClient.Generate(genCtx, prompt, summaryMaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to summarize %s: %w", kind, err)
	}
	return strings.TrimSpace(resp.Text), nil
}
