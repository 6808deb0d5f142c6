package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/batchlens/batchlens/internal/providers"
)

// LLMClassifier is the AI-assisted classification strategy. Any failure of
// the backend call — network, timeout, malformed or schema-invalid response —
// resolves by silently falling back to the deterministic rule classifier, so
// ClassifyPage is total.
type LLMClassifier struct {
	client   providers.LLMClient
	model    string
	fallback *RuleClassifier
	logger   *slog.Logger
}

// NewLLMClassifier creates an AI-assisted classifier. fallback must be
// non-nil; model may be empty to use the client's default.
func NewLLMClassifier(client providers.LLMClient, model string, fallback *RuleClassifier) *LLMClassifier {
	return &LLMClassifier{
		client:   client,
		model:    model,
		fallback: fallback,
	}
}

// SetLogger sets the logger used for fallback diagnostics.
func (c *LLMClassifier) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// classifyResponse is the wire shape of the backend's JSON object.
type classifyResponse struct {
	Classification string   `json:"classification"`
	Confidence     *float64 `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
}

// ClassifyPage classifies via the AI backend, falling back to rules on any
// failure.
func (c *LLMClassifier) ClassifyPage(ctx context.Context, text string, pageNumber int) Result {
	result, err := c.classifyLLM(ctx, text, pageNumber)
	if err != nil {
		if c.logger != nil {
			c.logger.Debug("AI classification fell back to rules",
				"page", pageNumber, "error", err)
		}
		return c.fallback.ClassifyPage(ctx, text, pageNumber)
	}
	return result
}

func (c *LLMClassifier) classifyLLM(ctx context.Context, text string, pageNumber int) (Result, error) {
	schemaBytes, err := json.Marshal(classifyJSONSchema())
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal classification schema: %w", err)
	}

	request := &providers.ChatRequest{
		Model: c.model,
		Messages: []providers.Message{
			{Role: "system", Content: classifySystemPrompt},
			{Role: "user", Content: buildClassifyPrompt(text, pageNumber)},
		},
		ResponseFormat: &providers.ResponseFormat{
			Type:       "json_schema",
			Name:       "page_classification",
			JSONSchema: schemaBytes,
		},
		RequestID: uuid.New().String(),
	}

	chatResult, err := c.client.Chat(ctx, request)
	if err != nil {
		return Result{}, err
	}

	content := chatResult.ParsedJSON
	if len(content) == 0 {
		if chatResult.Content == "" {
			return Result{}, fmt.Errorf("empty response")
		}
		content, err = providers.ValidateStructuredResponse(schemaBytes, chatResult.Content)
		if err != nil {
			return Result{}, err
		}
	}

	var resp classifyResponse
	if err := json.Unmarshal(content, &resp); err != nil {
		return Result{}, fmt.Errorf("failed to parse classification response: %w", err)
	}

	result := Result{
		Classification: PageUnknown,
		Confidence:     50,
		Reasoning:      resp.Reasoning,
	}
	if resp.Classification != "" && ValidPageType(resp.Classification) {
		result.Classification = PageType(resp.Classification)
	}
	if resp.Confidence != nil {
		result.Confidence = clampConfidence(*resp.Confidence)
	}
	return result, nil
}
