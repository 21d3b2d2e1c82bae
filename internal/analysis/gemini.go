package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Request is one generation call.
type Request struct {
	Mode   Mode
	Prompt string
	// PDF, when set, is attached as an inline application/pdf part.
	PDF []byte
}

// GeminiClient calls the Gemini API through the GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
	stats  *GenerationStats
	log    *slog.Logger
}

// NewGeminiClient creates a client for the Gemini developer API.
func NewGeminiClient(ctx context.Context, apiKey, model string, stats *GenerationStats, log *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if stats == nil {
		stats = NewGenerationStats(time.Hour)
	}
	return &GeminiClient{client: client, model: model, stats: stats, log: log}, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string { return c.model }

// Stats returns the call tracker fed by Generate.
func (c *GeminiClient) Stats() *GenerationStats { return c.stats }

// Generate sends the request and returns the response text.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	tmpl, err := TemplateFor(req.Mode)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.2)),
	}
	if tmpl.ResponseMIMEType != "" {
		config.ResponseMIMEType = tmpl.ResponseMIMEType
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if len(req.PDF) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.PDF, "application/pdf"))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	text, err := c.generate(ctx, contents, config)
	elapsed := time.Since(start)
	c.stats.Record(Call{Mode: req.Mode, Duration: elapsed, Outcome: OutcomeOf(err), Chars: len(text)})
	if err != nil {
		return "", err
	}

	if c.log != nil {
		c.log.Debug("gemini response", "model", c.model, "mode", req.Mode, "chars", len(text),
			"duration_ms", elapsed.Milliseconds())
	}
	return text, nil
}

func (c *GeminiClient) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", classifyError(err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		reason := "no candidates"
		if len(result.Candidates) > 0 {
			reason = string(result.Candidates[0].FinishReason)
		}
		return "", fmt.Errorf("empty response from gemini (%s)", reason)
	}
	return text, nil
}

// classifyError marks rate limits and server errors as retryable.
func classifyError(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	if code == http.StatusTooManyRequests || code >= 500 {
		return &RetryableError{StatusCode: code, Message: err.Error()}
	}
	return fmt.Errorf("gemini generate: %w", err)
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
