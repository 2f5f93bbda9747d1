package companion_http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"forum-companion/internal/adapter/companion_http"
	"forum-companion/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAnswerUsecase struct {
	mock.Mock
}

func (m *mockAnswerUsecase) Execute(ctx context.Context, input usecase.AnswerInput) *usecase.AnswerOutput {
	args := m.Called(ctx, input)
	return args.Get(0).(*usecase.AnswerOutput)
}

type mockSummarizeUsecase struct {
	mock.Mock
}

func (m *mockSummarizeUsecase) Execute(ctx context.Context, input usecase.SummarizeInput) (*usecase.SummarizeOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SummarizeOutput), args.Error(1)
}

type mockFAQUsecase struct {
	mock.Mock
}

func (m *mockFAQUsecase) Execute(ctx context.Context, input usecase.FAQInput) (*usecase.FAQOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.FAQOutput), args.Error(1)
}

type mockTrendingUsecase struct {
	mock.Mock
}

func (m *mockTrendingUsecase) Execute(ctx context.Context, input usecase.TrendingInput) (*usecase.TrendingOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TrendingOutput), args.Error(1)
}

func setup(answerUC usecase.AnswerUsecase, summarizeUC usecase.SummarizeUsecase) *echo.Echo {
	return setupAll(answerUC, summarizeUC, new(mockFAQUsecase), new(mockTrendingUsecase))
}

func setupAll(answerUC usecase.AnswerUsecase, summarizeUC usecase.SummarizeUsecase, faqUC usecase.FAQUsecase, trendingUC usecase.TrendingUsecase) *echo.Echo {
	e := echo.New()
	companion_http.NewHandler(answerUC, summarizeUC, faqUC, trendingUC).RegisterRoutes(e)
	return e
}

func TestAnswerEndpoint_Success(t *testing.T) {
	answerUC := new(mockAnswerUsecase)
	summarizeUC := new(mockSummarizeUsecase)
	e := setup(answerUC, summarizeUC)

	answerUC.On("Execute", mock.Anything, usecase.AnswerInput{Query: "what is new?"}).Return(&usecase.AnswerOutput{
		Response:  "Plenty.",
		Citations: []usecase.Citation{},
		Sources:   []usecase.Source{},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/answer",
		strings.NewReader(`{"query": "what is new?"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Plenty.", body["response"])
	assert.NotNil(t, body["citations"])
	assert.NotNil(t, body["sources"])
}

func TestAnswerEndpoint_ScopedRequest(t *testing.T) {
	answerUC := new(mockAnswerUsecase)
	summarizeUC := new(mockSummarizeUsecase)
	e := setup(answerUC, summarizeUC)

	answerUC.On("Execute", mock.Anything, mock.MatchedBy(func(input usecase.AnswerInput) bool {
		return input.SubredditID != nil && *input.SubredditID == 9 && input.ExtraContext == "on mobile"
	})).Return(&usecase.AnswerOutput{Response: "Scoped."})

	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/answer",
		strings.NewReader(`{"query": "anything", "subreddit_id": 9, "extra_context": "on mobile"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	answerUC.AssertExpectations(t)
}

func TestAnswerEndpoint_MissingQuery(t *testing.T) {
	answerUC := new(mockAnswerUsecase)
	summarizeUC := new(mockSummarizeUsecase)
	e := setup(answerUC, summarizeUC)

	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/answer",
		strings.NewReader(`{"query": "   "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	answerUC.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestAnswerEndpoint_InvalidJSON(t *testing.T) {
	answerUC := new(mockAnswerUsecase)
	summarizeUC := new(mockSummarizeUsecase)
	e := setup(answerUC, summarizeUC)

	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/answer", strings.NewReader(`{broken`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryEndpoint_Success(t *testing.T) {
	answerUC := new(mockAnswerUsecase)
	summarizeUC := new(mockSummarizeUsecase)
	e := setup(answerUC, summarizeUC)

	summarizeUC.On("Execute", mock.Anything, usecase.SummarizeInput{PostID: 7}).Return(&usecase.SummarizeOutput{
		PostSummary:     "Post summary.",
		CommentsSummary: "Comment summary.",
		FullSummary:     "Full summary.",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/posts/7/summary", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Post summary.", body["post_summary"])
	assert.Equal(t, "Full summary.", body["full_summary"])
}

func TestSummaryEndpoint_InvalidID(t *testing.T) {
	answerUC := new(mockAnswerUsecase)
	summarizeUC := new(mockSummarizeUsecase)
	e := setup(answerUC, summarizeUC)

	req := httptest.NewRequest(http.MethodPost, "/v1/posts/notanumber/summary", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryEndpoint_NotFound(t *testing.T) {
	answerUC := new(mockAnswerUsecase)
	summarizeUC := new(mockSummarizeUsecase)
	e := setup(answerUC, summarizeUC)

	summarizeUC.On("Execute", mock.Anything, usecase.SummarizeInput{PostID: 404}).
		Return(nil, errors.New("post 404 not found"))

	req := httptest.NewRequest(http.MethodPost, "/v1/posts/404/summary", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryEndpoint_InternalError(t *testing.T) {
	answerUC := new(mockAnswerUsecase)
	summarizeUC := new(mockSummarizeUsecase)
	e := setup(answerUC, summarizeUC)

	summarizeUC.On("Execute", mock.Anything, mock.Anything).
		Return(nil, errors.New("db down"))

	req := httptest.NewRequest(http.MethodPost, "/v1/posts/7/summary", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFAQEndpoint_Success(t *testing.T) {
	faqUC := new(mockFAQUsecase)
	e := setupAll(new(mockAnswerUsecase), new(mockSummarizeUsecase), faqUC, new(mockTrendingUsecase))

	faqUC.On("Execute", mock.Anything, usecase.FAQInput{SubredditID: 3}).Return(&usecase.FAQOutput{
		Subreddit: "golang",
		FAQs: []usecase.FAQEntry{
			{Question: "What is r/golang about?", Answer: "Go.", Category: "Getting Started"},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/subreddits/3/faq", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "golang", body["subreddit"])
	assert.Len(t, body["faqs"], 1)
}

func TestFAQEndpoint_InvalidID(t *testing.T) {
	e := setup(new(mockAnswerUsecase), new(mockSummarizeUsecase))

	req := httptest.NewRequest(http.MethodGet, "/v1/subreddits/notanumber/faq", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFAQEndpoint_NotFound(t *testing.T) {
	faqUC := new(mockFAQUsecase)
	e := setupAll(new(mockAnswerUsecase), new(mockSummarizeUsecase), faqUC, new(mockTrendingUsecase))

	faqUC.On("Execute", mock.Anything, usecase.FAQInput{SubredditID: 404}).
		Return(nil, errors.New("subreddit 404 not found"))

	req := httptest.NewRequest(http.MethodGet, "/v1/subreddits/404/faq", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrendingEndpoint_Success(t *testing.T) {
	trendingUC := new(mockTrendingUsecase)
	e := setupAll(new(mockAnswerUsecase), new(mockSummarizeUsecase), new(mockFAQUsecase), trendingUC)

	trendingUC.On("Execute", mock.Anything, usecase.TrendingInput{SubredditID: 3}).Return(&usecase.TrendingOutput{
		Subreddit: "golang",
		Topics: []usecase.TrendingTopic{
			{Topic: "Generics", Frequency: 7, Description: "Migration questions", RelatedPosts: []string{"Guide"}},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/subreddits/3/trending", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "golang", body["subreddit"])
	assert.Len(t, body["trending_topics"], 1)
}

func TestTrendingEndpoint_InternalError(t *testing.T) {
	trendingUC := new(mockTrendingUsecase)
	e := setupAll(new(mockAnswerUsecase), new(mockSummarizeUsecase), new(mockFAQUsecase), trendingUC)

	trendingUC.On("Execute", mock.Anything, mock.Anything).
		Return(nil, errors.New("failed to load subreddit 3: db down"))

	req := httptest.NewRequest(http.MethodGet, "/v1/subreddits/3/trending", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	e := setup(new(mockAnswerUsecase), new(mockSummarizeUsecase))

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
