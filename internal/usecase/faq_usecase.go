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
	faqMaxTokens     = 1000
	faqPostLimit     = 20
	faqTitleSample   = 10
	faqContentSample = 5
)

// FAQEntry is one generated question/answer pair for a community.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// FAQInput names the community to generate an FAQ for.
type FAQInput struct {
	SubredditID int64
}

// FAQOutput carries the generated FAQ list.
type FAQOutput struct {
	Subreddit string     `json:"subreddit"`
	FAQs      []FAQEntry `json:"faqs"`
}

// FAQUsecase generates a frequently-asked-questions list for a community
// from its recent posts.
type FAQUsecase interface {
	Execute(ctx context.Context, input FAQInput) (*FAQOutput, error)
}

type faqUsecase struct {
	corpus    domain.CorpusStore
	llmClient domain.LLMClient
	validator OutputValidator
	timeout   time.Duration
	logger    *slog.Logger
}

// NewFAQUsecase wires the FAQ generator.
func NewFAQUsecase(corpus domain.CorpusStore, llmClient domain.LLMClient, validator OutputValidator, timeout time.Duration, logger *slog.Logger) FAQUsecase {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &faqUsecase{
		corpus:    corpus,
		llmClient: llmClient,
		validator: validator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Execute samples the community's recent posts and asks the model for a
// structured FAQ. Unparseable model output degrades to a static FAQ built
// from the community metadata; generation failure degrades to an empty
// list. Only a missing community is an error.
func (u *faqUsecase) Execute(ctx context.Context, input FAQInput) (*FAQOutput, error) {
	sub, err := u.corpus.GetSubreddit(ctx, input.SubredditID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subreddit %d: %w", input.SubredditID, err)
	}
	if sub == nil {
		return nil, fmt.Errorf("subreddit %d not found", input.SubredditID)
	}

	posts, err := u.corpus.ListPosts(ctx, domain.ListPostsQuery{
		SubredditID: &sub.ID,
		Limit:       faqPostLimit,
		RecentFirst: true,
	})
	if err != nil {
		u.logger.Warn("faq_post_load_failed",
			slog.Int64("subreddit_id", sub.ID),
			slog.String("error", err.Error()))
		posts = nil
	}
	if len(posts) == 0 {
		return &FAQOutput{Subreddit: sub.Name, FAQs: []FAQEntry{}}, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	resp, err := u.llmClient.Generate(genCtx, u.buildPrompt(sub, posts), faqMaxTokens)
	if err != nil {
		u.logger.Warn("faq_generation_failed",
			slog.Int64("subreddit_id", sub.ID),
			slog.String("error", err.Error()))
		return &FAQOutput{Subreddit: sub.Name, FAQs: []FAQEntry{}}, nil
	}

	var faqs []FAQEntry
	if !u.validator.ParseJSON(resp.Text, &faqs) {
		u.logger.Debug("faq_output_unstructured", slog.Int64("subreddit_id", sub.ID))
		return &FAQOutput{Subreddit: sub.Name, FAQs: staticFAQ(sub)}, nil
	}

	return &FAQOutput{Subreddit: sub.Name, FAQs: faqs}, nil
}

func (u *faqUsecase) buildPrompt(sub *domain.Subreddit, posts []domain.ContentItem) string {
	description := sub.Description
	if description == "" {
		description = "No description"
	}

	var sb strings.Builder
	sb.WriteString("Based on the following subreddit context, generate 5-10 frequently asked questions that would be helpful for new users:\n\n")
	sb.WriteString(fmt.Sprintf("Subreddit: %s\n", sub.DisplayName))
	sb.WriteString(fmt.Sprintf("Description: %s\n\n", description))

	sb.WriteString("Recent post titles:\n")
	for i, p := range posts {
		if i >= faqTitleSample {
			break
		}
		sb.WriteString(p.Title + "\n")
	}

	sb.WriteString("\nRecent post contents:\n")
	for i, p := range posts {
		if i >= faqContentSample {
			break
		}
		sb.WriteString(ExtractExcerpt(p.Body) + "\n")
	}

	sb.WriteString("\nPlease provide a JSON response with an array of FAQ objects, each containing:\n")
	sb.WriteString("- \"question\": string\n")
	sb.WriteString("- \"answer\": string (brief, helpful answer)\n")
	sb.WriteString("- \"category\": string (e.g., \"Getting Started\", \"Technical\", \"Community\")\n")
	return sb.String()
}

// staticFAQ is the deterministic fallback built from community metadata.
func staticFAQ(sub *domain.Subreddit) []FAQEntry {
	about := sub.Description
	if about == "" {
		about = fmt.Sprintf("Discussion about %s", sub.DisplayName)
	}
	rules := sub.Rules
	if rules == "" {
		rules = "Please be respectful and follow reddiquette"
	}
	return []FAQEntry{
		{
			Question: fmt.Sprintf("What is r/%s about?", sub.Name),
			Answer:   about,
			Category: "Getting Started",
		},
		{
			Question: "What are the community rules?",
			Answer:   rules,
			Category: "Community",
		},
	}
}
