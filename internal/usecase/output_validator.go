package usecase

import (
	"encoding/json"
	"strings"
)

// LLMAnswer models the structured JSON the prompt asks the model to emit.
// The citations and sources the model re-emits are only used for
// cross-checking; the context builder's lists stay authoritative.
type LLMAnswer struct {
	Response  string            `json:"response"`
	Citations []json.RawMessage `json:"citations"`
	Sources   []json.RawMessage `json:"sources"`
}

// OutputValidator applies the explicit parse-or-fallback contract for the
// unreliable generative output.
type OutputValidator struct{}

// NewOutputValidator creates a validator instance (stateless).
func NewOutputValidator() OutputValidator {
	return OutputValidator{}
}

// Parse attempts the structured interpretation of the raw model output.
// On success it returns the parsed answer and true; otherwise the caller
// must use the raw text verbatim.
func (v OutputValidator) Parse(raw string) (*LLMAnswer, bool) {
	var answer LLMAnswer
	if !v.ParseJSON(raw, &answer) {
		return nil, false
	}
	if strings.TrimSpace(answer.Response) == "" {
		return nil, false
	}
	return &answer, true
}

// ParseJSON unmarshals raw model output into dst, tolerating a markdown
// fence around the JSON. Reports whether parsing succeeded.
func (v OutputValidator) ParseJSON(raw string, dst any) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}

	// Models occasionally wrap JSON in a markdown fence.
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	return json.Unmarshal([]byte(trimmed), dst) == nil
}
