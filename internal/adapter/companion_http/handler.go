package companion_http

import (
	"net/http"
	"strconv"
	"strings"

	"forum-companion/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Handler exposes the assistant over HTTP.
type Handler struct {
	answerUsecase    usecase.AnswerUsecase
	summarizeUsecase usecase.SummarizeUsecase
	faqUsecase       usecase.FAQUsecase
	trendingUsecase  usecase.TrendingUsecase
}

func NewHandler(
	answerUsecase usecase.AnswerUsecase,
	summarizeUsecase usecase.SummarizeUsecase,
	faqUsecase usecase.FAQUsecase,
	trendingUsecase usecase.TrendingUsecase,
) *Handler {
	return &Handler{
		answerUsecase:    answerUsecase,
		summarizeUsecase: summarizeUsecase,
		faqUsecase:       faqUsecase,
		trendingUsecase:  trendingUsecase,
	}
}

// RegisterRoutes mounts the assistant endpoints on the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/v1/health", h.Health)
	e.POST("/v1/assistant/answer", h.Answer)
	e.POST("/v1/posts/:id/summary", h.SummarizePost)
	e.GET("/v1/subreddits/:id/faq", h.SubredditFAQ)
	e.GET("/v1/subreddits/:id/trending", h.SubredditTrending)
}

// AnswerRequest is the body of POST /v1/assistant/answer.
type AnswerRequest struct {
	Query        string `json:"query"`
	SubredditID  *int64 `json:"subreddit_id,omitempty"`
	ExtraContext string `json:"extra_context,omitempty"`
}

func (h *Handler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Answer runs the full assistant pipeline for one question.
// (POST /v1/assistant/answer)
func (h *Handler) Answer(ctx echo.Context) error {
	var req AnswerRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if strings.TrimSpace(req.Query) == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "missing query"})
	}

	output := h.answerUsecase.Execute(ctx.Request().Context(), usecase.AnswerInput{
		Query:        req.Query,
		SubredditID:  req.SubredditID,
		ExtraContext: req.ExtraContext,
	})

	return ctx.JSON(http.StatusOK, output)
}

// SubredditFAQ generates a frequently-asked-questions list for a community.
// (GET /v1/subreddits/:id/faq)
func (h *Handler) SubredditFAQ(ctx echo.Context) error {
	subredditID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid subreddit id"})
	}

	output, err := h.faqUsecase.Execute(ctx.Request().Context(), usecase.FAQInput{SubredditID: subredditID})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return ctx.JSON(http.StatusOK, output)
}

// SubredditTrending reports trending topics in a community's recent posts.
// (GET /v1/subreddits/:id/trending)
func (h *Handler) SubredditTrending(ctx echo.Context) error {
	subredditID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid subreddit id"})
	}

	output, err := h.trendingUsecase.Execute(ctx.Request().Context(), usecase.TrendingInput{SubredditID: subredditID})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return ctx.JSON(http.StatusOK, output)
}

// SummarizePost condenses a post and its top comments.
// (POST /v1/posts/:id/summary)
func (h *Handler) SummarizePost(ctx echo.Context) error {
	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid post id"})
	}

	output, err := h.summarizeUsecase.Execute(ctx.Request().Context(), usecase.SummarizeInput{PostID: postID})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return ctx.JSON(http.StatusOK, output)
}
