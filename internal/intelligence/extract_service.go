package intelligence

import (
	"context"
	"fmt"

	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/llm"
	"github.com/moneymentor/advisor/internal/schema"
)

// ExtractService turns natural language into a structured extraction.
type ExtractService interface {
	// ClassifyAndExtract parses one user message, with the previous
	// system response as context for reference resolution.
	ClassifyAndExtract(ctx context.Context, userText, previousResponse string) (*Extraction, error)

	// ExtractVariable pulls a single slot value out of a short answer
	// given while the machine is blocked on that slot.
	ExtractVariable(ctx context.Context, name domain.VarName, userText string) (any, error)
}

type extractService struct {
	client llm.Client
}

// NewExtractService creates an ExtractService. A nil client degrades
// to deterministic keyword classification and pattern extraction, so
// the assistant stays usable without a model.
func NewExtractService(client llm.Client) ExtractService {
	return &extractService{client: client}
}

func (s *extractService) ClassifyAndExtract(ctx context.Context, userText, previousResponse string) (*Extraction, error) {
	if s.client == nil {
		return fallbackExtract(userText), nil
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskParse,
		SystemPrompt: buildExtractSystemPrompt(),
		UserPrompt:   buildExtractUserPrompt(userText, previousResponse),
	})
	if err != nil {
		return fallbackExtract(userText), nil
	}

	extraction, err := llm.ExtractJSON[Extraction](resp.Text, nil)
	if err != nil {
		return fallbackExtract(userText), nil
	}

	extraction.Normalize()
	return &extraction, nil
}

// scopedValue is the one-key contract for single-variable extraction.
type scopedValue struct {
	Value any `json:"value"`
}

func (s *extractService) ExtractVariable(ctx context.Context, name domain.VarName, userText string) (any, error) {
	value, directErr := schema.Convert(name, userText)
	if directErr == nil {
		return value, nil
	}

	if s.client == nil {
		return nil, directErr
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskExtract,
		SystemPrompt: buildScopedExtractPrompt(name),
		UserPrompt:   userText,
	})
	if err != nil {
		return nil, directErr
	}

	scoped, err := llm.ExtractJSON[scopedValue](resp.Text, nil)
	if err != nil || scoped.Value == nil {
		return nil, directErr
	}

	value, err = schema.Convert(name, scoped.Value)
	if err != nil {
		return nil, fmt.Errorf("converting extracted %s: %w", name, err)
	}
	return value, nil
}
