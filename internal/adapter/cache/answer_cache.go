package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"forum-companion/internal/usecase"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachingAnswerUsecase decorates the answer pipeline with a TTL-bounded LRU
// of recent answers. The core pipeline itself stays stateless per request;
// caching lives here, outside it, so it can be dropped or replaced without
// touching the pipeline.
type CachingAnswerUsecase struct {
	inner  usecase.AnswerUsecase
	cache  *expirable.LRU[string, *usecase.AnswerOutput]
	logger *slog.Logger
}

// NewCachingAnswerUsecase wraps an answer usecase with an LRU of the given
// size and entry TTL.
func NewCachingAnswerUsecase(inner usecase.AnswerUsecase, size int, ttl time.Duration, logger *slog.Logger) *CachingAnswerUsecase {
	return &CachingAnswerUsecase{
		inner:  inner,
		cache:  expirable.NewLRU[string, *usecase.AnswerOutput](size, nil, ttl),
		logger: logger,
	}
}

// Execute serves repeated questions from the cache. Only scoped inputs
// participate in the key; extra free-form context bypasses the cache since
// it is effectively unique per request.
func (c *CachingAnswerUsecase) Execute(ctx context.Context, input usecase.AnswerInput) *usecase.AnswerOutput {
	if input.ExtraContext != "" {
		return c.inner.Execute(ctx, input)
	}

	key := cacheKey(input)
	if cached, ok := c.cache.Get(key); ok {
		c.logger.Debug("answer_cache_hit", slog.String("key", key))
		return cached
	}

	output := c.inner.Execute(ctx, input)
	c.cache.Add(key, output)
	return output
}

func cacheKey(input usecase.AnswerInput) string {
	scope := int64(0)
	if input.SubredditID != nil {
		scope = *input.SubredditID
	}
	return fmt.Sprintf("%d|%s", scope, input.Query)
}

var _ usecase.AnswerUsecase = (*CachingAnswerUsecase)(nil)
