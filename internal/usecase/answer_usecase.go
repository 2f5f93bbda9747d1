package usecase

import (
	"context"
	"log/slog"
	"time"

	"forum-companion/internal/domain"
	"forum-companion/internal/usecase/retrieval"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Fixed degraded-mode responses. Callers always get a well-formed output;
// reduced quality shows up only as these texts and empty citation lists.
const (
	fallbackPipelineResponse   = "I'm sorry, I'm having trouble processing your request right now."
	fallbackGenerationResponse = "I'm sorry, I couldn't generate a proper response."
)

const (
	defaultCandidatePosts   = 50
	defaultCommentScanPosts = 20
	defaultCommentsPerPost  = 10
	commentFetchConcurrency = 4
)

// AnswerInput carries one assistant question, optionally scoped to a community.
type AnswerInput struct {
	Query        string
	SubredditID  *int64
	ExtraContext string
}

// AnswerOutput is the terminal artifact returned to callers: the generated
// answer plus the independently computed citations and sources.
type AnswerOutput struct {
	Response  string     `json:"response"`
	Citations []Citation `json:"citations"`
	Sources   []Source   `json:"sources"`
}

// AnswerUsecase is the single operation the core exposes. It never returns
// an error: every failure path resolves to a safe fallback output.
type AnswerUsecase interface {
	Execute(ctx context.Context, input AnswerInput) *AnswerOutput
}

// AnswerConfig bounds the candidate set and the generation call.
type AnswerConfig struct {
	CandidatePosts    int
	CommentScanPosts  int
	CommentsPerPost   int
	MaxResults        int
	MaxTokens         int
	GenerationTimeout time.Duration
	RecentWindow      time.Duration
}

func (c AnswerConfig) withDefaults() AnswerConfig {
	if c.CandidatePosts <= 0 {
		c.CandidatePosts = defaultCandidatePosts
	}
	if c.CommentScanPosts <= 0 {
		c.CommentScanPosts = defaultCommentScanPosts
	}
	if c.CommentsPerPost <= 0 {
		c.CommentsPerPost = defaultCommentsPerPost
	}
	if c.MaxResults <= 0 {
		c.MaxResults = retrieval.DefaultMaxResults
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1200
	}
	if c.GenerationTimeout <= 0 {
		c.GenerationTimeout = 60 * time.Second
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = 7 * 24 * time.Hour
	}
	return c
}

type answerUsecase struct {
	processor      *domain.QueryProcessor
	corpus         domain.CorpusStore
	engine         *retrieval.Engine
	contextBuilder *ContextBuilder
	promptBuilder  PromptBuilder
	llmClient      domain.LLMClient
	validator      OutputValidator
	cfg            AnswerConfig
	logger         *slog.Logger
}

// NewAnswerUsecase wires the pipeline components into the orchestrator.
func NewAnswerUsecase(
	processor *domain.QueryProcessor,
	corpus domain.CorpusStore,
	engine *retrieval.Engine,
	contextBuilder *ContextBuilder,
	promptBuilder PromptBuilder,
	llmClient domain.LLMClient,
	validator OutputValidator,
	cfg AnswerConfig,
	logger *slog.Logger,
) AnswerUsecase {
	return &answerUsecase{
		processor:      processor,
		corpus:         corpus,
		engine:         engine,
		contextBuilder: contextBuilder,
		promptBuilder:  promptBuilder,
		llmClient:      llmClient,
		validator:      validator,
		cfg:            cfg.withDefaults(),
		logger:         logger,
	}
}

// Execute runs one linear pipeline pass: process the query, pull
// candidates, rank, build context, generate, parse. There is no partial
// success: callers get either a full answer or a fallback.
func (u *answerUsecase) Execute(ctx context.Context, input AnswerInput) (output *AnswerOutput) {
	requestID := uuid.NewString()
	log := u.logger.With(slog.String("request_id", requestID))

	// Top-level safety net: the public contract is "never raises".
	defer func() {
		if r := recover(); r != nil {
			log.Error("answer_pipeline_panicked", slog.Any("panic", r))
			output = fallbackOutput(fallbackPipelineResponse)
		}
	}()

	processed := u.processor.Process(input.Query)
	log.Info("query_processed",
		slog.String("intent", string(processed.Intent)),
		slog.Any("keywords", processed.Keywords))

	posts, comments := u.fetchCandidates(ctx, input.SubredditID, processed, log)
	log.Info("candidates_fetched",
		slog.Int("posts", len(posts)),
		slog.Int("comments", len(comments)))

	ranked := u.engine.Retrieve(processed, posts, comments, u.cfg.MaxResults)
	bundle := u.contextBuilder.Build(input.Query, ranked)
	log.Info("context_built",
		slog.Int("item_count", bundle.ItemCount),
		slog.Int("context_length", bundle.ContextLength))

	prompt, err := u.promptBuilder.Build(PromptInput{
		Query:        input.Query,
		Context:      bundle,
		ExtraContext: input.ExtraContext,
	})
	if err != nil {
		log.Error("prompt_build_failed", slog.String("error", err.Error()))
		return fallbackOutput(fallbackPipelineResponse)
	}

	answerText, ok := u.generate(ctx, prompt, log)
	if !ok {
		// Generation failed, but the citations were computed against the
		// real corpus and stay useful to the caller.
		return &AnswerOutput{
			Response:  fallbackGenerationResponse,
			Citations: bundle.Citations,
			Sources:   bundle.Sources,
		}
	}

	return &AnswerOutput{
		Response:  answerText,
		Citations: bundle.Citations,
		Sources:   bundle.Sources,
	}
}

// fetchCandidates pulls the bounded candidate set from the corpus store.
// Corpus failures degrade to an empty candidate set rather than aborting.
func (u *answerUsecase) fetchCandidates(
	ctx context.Context,
	subredditID *int64,
	processed domain.ProcessedQuery,
	log *slog.Logger,
) ([]domain.ContentItem, []domain.ContentItem) {
	query := domain.ListPostsQuery{
		SubredditID: subredditID,
		Limit:       u.cfg.CandidatePosts,
	}
	if processed.HasHint(domain.HintTimeSensitive) {
		since := time.Now().Add(-u.cfg.RecentWindow)
		query.Since = &since
	}

	posts, err := u.corpus.ListPosts(ctx, query)
	if err != nil {
		log.Warn("post_retrieval_failed", slog.String("error", err.Error()))
		return nil, nil
	}
	if len(posts) == 0 {
		return nil, nil
	}

	scan := u.cfg.CommentScanPosts
	if scan > len(posts) {
		scan = len(posts)
	}

	perPost := make([][]domain.ContentItem, scan)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(commentFetchConcurrency)
	for i := 0; i < scan; i++ {
		g.Go(func() error {
			items, err := u.corpus.ListComments(gctx, posts[i].ID, u.cfg.CommentsPerPost)
			if err != nil {
				log.Warn("comment_retrieval_failed",
					slog.Int64("post_id", posts[i].ID),
					slog.String("error", err.Error()))
				return nil // non-fatal
			}
			perPost[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var comments []domain.ContentItem
	for _, items := range perPost {
		comments = append(comments, items...)
	}
	return posts, comments
}

// generate calls the LLM under the configured timeout and applies the
// parse-or-fallback contract to its output.
func (u *answerUsecase) generate(ctx context.Context, prompt string, log *slog.Logger) (string, bool) {
	genCtx, cancel := context.WithTimeout(ctx, u.cfg.GenerationTimeout)
	defer cancel()

	resp, err := u.llmClient.Generate(genCtx, prompt, u.cfg.MaxTokens)
	if err != nil {
		log.Warn("generation_failed", slog.String("error", err.Error()))
		return "", false
	}
	if resp == nil || resp.Text == "" {
		log.Warn("generation_returned_empty_response")
		return "", false
	}

	if parsed, ok := u.validator.Parse(resp.Text); ok {
		return parsed.Response, true
	}

	// Unparseable output is still an answer: use the raw text verbatim.
	log.Debug("generation_output_unstructured", slog.Int("length", len(resp.Text)))
	return resp.Text, true
}

func fallbackOutput(response string) *AnswerOutput {
	return &AnswerOutput{
		Response:  response,
		Citations: []Citation{},
		Sources:   []Source{},
	}
}
