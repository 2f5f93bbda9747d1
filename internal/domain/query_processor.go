package domain

import (
	"regexp"
	"strings"
)

// Intent classifies what a query is asking the assistant to do.
type Intent string

const (
	IntentQuestion Intent = "question"
	IntentSearch   Intent = "search"
	IntentHelp     Intent = "help"
)

// Context hints derived from the query text.
const (
	HintTimeSensitive       = "time_sensitive"
	HintContentTypePosts    = "content_type_posts"
	HintContentTypeComments = "content_type_comments"
	HintContentTypeUsers    = "content_type_users"
)

// ProcessedQuery is the read-only result of query understanding.
// It is created once per request and handed down the pipeline.
type ProcessedQuery struct {
	Original     string
	Cleaned      string
	Keywords     []string
	Intent       Intent
	SearchTerms  []string
	ContextHints []string
	TokenCount   int
}

// HasHint reports whether a context hint was derived from the query.
func (q ProcessedQuery) HasHint(hint string) bool {
	for _, h := range q.ContextHints {
		if h == hint {
			return true
		}
	}
	return false
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {}, "will": {},
	"would": {}, "could": {}, "should": {}, "may": {}, "might": {}, "can": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "i": {}, "you": {},
	"he": {}, "she": {}, "it": {}, "we": {}, "they": {}, "me": {}, "him": {},
	"her": {}, "us": {}, "them": {},
}

// Intent categories are tested in order; the first match wins.
var intentPatterns = []struct {
	intent  Intent
	pattern *regexp.Regexp
}{
	{IntentQuestion, regexp.MustCompile(`\?|what|how|why|when|where|who|which|can|could|should|would`)},
	{IntentSearch, regexp.MustCompile(`find|search|look|show|get|need|want`)},
	{IntentHelp, regexp.MustCompile(`help|assist|support|guide|explain|tell`)},
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	timeRecentRe  = regexp.MustCompile(`recent|latest|new|today|yesterday|this week|this month`)
	timePastRe    = regexp.MustCompile(`old|previous|past|earlier|before`)
	postsHintRe   = regexp.MustCompile(`post|posts|submission|submissions`)
	commentHintRe = regexp.MustCompile(`comment|comments|reply|replies`)
	usersHintRe   = regexp.MustCompile(`user|users|author|authors|person|people`)
)

// QueryProcessor normalizes raw queries and derives retrieval hints.
// Processing is deterministic: the same input always yields the same output.
type QueryProcessor struct{}

// NewQueryProcessor creates a processor instance (stateless).
func NewQueryProcessor() *QueryProcessor {
	return &QueryProcessor{}
}

// Process turns a raw query into its processed form. It never fails: a
// query that defeats analysis degrades to a lowercased pass-through with
// whitespace-split keywords and the default "search" intent.
func (p *QueryProcessor) Process(raw string) ProcessedQuery {
	cleaned := cleanQuery(raw)
	if cleaned == "" {
		return ProcessedQuery{
			Original:    raw,
			Cleaned:     strings.ToLower(strings.TrimSpace(raw)),
			Keywords:    []string{},
			Intent:      IntentSearch,
			SearchTerms: []string{},
		}
	}

	keywords := extractKeywords(cleaned)
	intent := classifyIntent(cleaned)

	return ProcessedQuery{
		Original:     raw,
		Cleaned:      cleaned,
		Keywords:     keywords,
		Intent:       intent,
		SearchTerms:  buildSearchTerms(keywords, intent),
		ContextHints: extractContextHints(cleaned),
		TokenCount:   len(strings.Fields(cleaned)),
	}
}

func cleanQuery(raw string) string {
	cleaned := whitespaceRe.ReplaceAllString(strings.TrimSpace(raw), " ")
	return strings.ToLower(cleaned)
}

func extractKeywords(cleaned string) []string {
	words := strings.Fields(cleaned)
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if len(w) <= 2 {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

func classifyIntent(cleaned string) Intent {
	for _, c := range intentPatterns {
		if c.pattern.MatchString(cleaned) {
			return c.intent
		}
	}
	return IntentSearch
}

// buildSearchTerms copies the keywords; question-intent queries also keep
// the joined keyword phrase so exact-phrase matching stays possible downstream.
func buildSearchTerms(keywords []string, intent Intent) []string {
	terms := make([]string, len(keywords), len(keywords)+1)
	copy(terms, keywords)
	if intent == IntentQuestion && len(keywords) > 0 {
		terms = append(terms, strings.Join(keywords, " "))
	}
	return terms
}

func extractContextHints(cleaned string) []string {
	var hints []string
	if timeRecentRe.MatchString(cleaned) || timePastRe.MatchString(cleaned) {
		hints = append(hints, HintTimeSensitive)
	}
	if postsHintRe.MatchString(cleaned) {
		hints = append(hints, HintContentTypePosts)
	}
	if commentHintRe.MatchString(cleaned) {
		hints = append(hints, HintContentTypeComments)
	}
	if usersHintRe.MatchString(cleaned) {
		hints = append(hints, HintContentTypeUsers)
	}
	return hints
}
