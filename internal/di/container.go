package di

import (
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"forum-companion/internal/adapter/cache"
	"forum-companion/internal/adapter/companion_http"
	"forum-companion/internal/adapter/llm"
	"forum-companion/internal/adapter/repository"
	"forum-companion/internal/domain"
	"forum-companion/internal/infra/config"
	"forum-companion/internal/infra/httpclient"
	"forum-companion/internal/usecase"
	"forum-companion/internal/usecase/retrieval"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	CorpusStore domain.CorpusStore
	LLMClient   domain.LLMClient

	AnswerUsecase    usecase.AnswerUsecase
	SummarizeUsecase usecase.SummarizeUsecase
	FAQUsecase       usecase.FAQUsecase
	TrendingUsecase  usecase.TrendingUsecase

	Handler *companion_http.Handler
}

// NewApplicationComponents wires all dependencies from config and database pool.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) *ApplicationComponents {
	corpusStore := repository.NewCorpusRepository(pool)
	llmClient := newLLMClient(cfg, log)

	processor := domain.NewQueryProcessor()
	engine := retrieval.NewEngine(retrieval.DefaultWeights(), log)
	contextBuilder := usecase.NewContextBuilder(cfg.ContextMaxItems, cfg.ContextMaxChars, log)
	promptBuilder := usecase.NewCitationPromptBuilder()
	validator := usecase.NewOutputValidator()

	answerUsecase := usecase.NewAnswerUsecase(
		processor, corpusStore, engine, contextBuilder, promptBuilder,
		llmClient, validator,
		usecase.AnswerConfig{
			CandidatePosts:    cfg.CandidatePosts,
			CommentScanPosts:  cfg.CommentScanPosts,
			CommentsPerPost:   cfg.CommentsPerPost,
			MaxResults:        cfg.MaxResults,
			MaxTokens:         cfg.AnswerMaxTokens,
			GenerationTimeout: time.Duration(cfg.LLMTimeout) * time.Second,
		},
		log,
	)
	if cfg.CacheEnabled {
		answerUsecase = cache.NewCachingAnswerUsecase(
			answerUsecase, cfg.CacheSize, time.Duration(cfg.CacheTTLMinutes)*time.Minute, log)
		log.Info("answer_cache_enabled",
			slog.Int("size", cfg.CacheSize),
			slog.Int("ttl_minutes", cfg.CacheTTLMinutes))
	}

	llmTimeout := time.Duration(cfg.LLMTimeout) * time.Second
	summarizeUsecase := usecase.NewSummarizeUsecase(corpusStore, llmClient, llmTimeout, log)
	faqUsecase := usecase.NewFAQUsecase(corpusStore, llmClient, validator, llmTimeout, log)
	trendingUsecase := usecase.NewTrendingUsecase(corpusStore, llmClient, validator, llmTimeout, log)

	return &ApplicationComponents{
		CorpusStore:      corpusStore,
		LLMClient:        llmClient,
		AnswerUsecase:    answerUsecase,
		SummarizeUsecase: summarizeUsecase,
		FAQUsecase:       faqUsecase,
		TrendingUsecase:  trendingUsecase,
		Handler:          companion_http.NewHandler(answerUsecase, summarizeUsecase, faqUsecase, trendingUsecase),
	}
}

func newLLMClient(cfg *config.Config, log *slog.Logger) domain.LLMClient {
	switch cfg.LLMProvider {
	case "ollama":
		client := httpclient.NewPooledClient(time.Duration(cfg.LLMTimeout) * time.Second)
		log.Info("llm_provider_selected",
			slog.String("provider", "ollama"),
			slog.String("model", cfg.OllamaModel))
		return llm.NewOllamaGenerator(cfg.OllamaURL, cfg.OllamaModel, cfg.LLMRatePerSec, client)
	default:
		log.Info("llm_provider_selected",
			slog.String("provider", "anthropic"),
			slog.String("model", cfg.AnthropicModel))
		return llm.NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
}
