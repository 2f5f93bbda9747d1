package usecase

import (
	"fmt"
	"strings"
)

// PromptInput contains the pieces that feed into the prompt builder.
type PromptInput struct {
	Query        string
	Context      ContextBundle
	ExtraContext string
}

// PromptBuilder builds the generation prompt sent to the LLM.
type PromptBuilder interface {
	Build(input PromptInput) (string, error)
}

// CitationPromptBuilder frames the generation around the retrieved context
// and a [Source N] citation contract, and asks for structured JSON output
// so the model's citation numbering can be cross-checked against the
// context builder's list.
type CitationPromptBuilder struct {
	additionalInstructions []string
}

// NewCitationPromptBuilder creates a prompt builder with optional extra
// instructions appended.
func NewCitationPromptBuilder(additionalInstructions ...string) PromptBuilder {
	return &CitationPromptBuilder{
		additionalInstructions: additionalInstructions,
	}
}

// Build renders the single-turn prompt.
func (b *CitationPromptBuilder) Build(input PromptInput) (string, error) {
	if strings.TrimSpace(input.Query) == "" {
		return "", fmt.Errorf("query is required")
	}

	var sb strings.Builder
	sb.WriteString("You are an AI assistant helping users find information in an online community.\n")
	sb.WriteString("Based on the following context, answer the user's question clearly and helpfully.\n\n")

	sb.WriteString(fmt.Sprintf("User Question: %s\n\n", input.Query))
	if input.ExtraContext != "" {
		sb.WriteString(fmt.Sprintf("Additional context from the user: %s\n\n", input.ExtraContext))
	}

	sb.WriteString("Context from community posts and comments:\n")
	sb.WriteString(input.Context.ContextText)
	sb.WriteString("\n\nInstructions:\n")

	instructions := []string{
		"Answer the question based only on the provided context.",
		"Cite specific posts or comments using the citation information.",
		"If the context doesn't contain enough information, say so.",
		"Be helpful and conversational.",
		"Include relevant excerpts from the sources.",
	}
	instructions = append(instructions, b.additionalInstructions...)
	for i, inst := range instructions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, inst))
	}

	sb.WriteString("\nCitation format: [Source N] where N is the citation number.\n\n")
	sb.WriteString("Respond with a JSON object containing:\n")
	sb.WriteString("- \"response\": your answer to the question\n")
	sb.WriteString("- \"citations\": array of citation objects with source_id, title, relevance_score, excerpt\n")
	sb.WriteString("- \"sources\": array of source objects with kind, id, title, url\n")

	if len(input.Context.Citations) > 0 {
		sb.WriteString("\nAvailable citations:\n")
		for i, c := range input.Context.Citations {
			sb.WriteString(fmt.Sprintf("\nCitation %d:\n", i+1))
			sb.WriteString(fmt.Sprintf("- Source ID: %d\n", c.SourceID))
			sb.WriteString(fmt.Sprintf("- Title: %s\n", c.Title))
			sb.WriteString(fmt.Sprintf("- Author: %s\n", c.Author))
			sb.WriteString(fmt.Sprintf("- Score: %d\n", c.Score))
			sb.WriteString(fmt.Sprintf("- Excerpt: %s\n", c.Excerpt))
			sb.WriteString(fmt.Sprintf("- Relevance: %.3f\n", c.Relevance))
		}
	}

	return sb.String(), nil
}
