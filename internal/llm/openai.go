package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bazaar-it/bazaar-sub004/internal/config"
	"github.com/bazaar-it/bazaar-sub004/internal/logging"
	"github.com/bazaar-it/bazaar-sub004/internal/metrics"
)

// OpenAIClient implements Client on the OpenAI chat completions API.
type OpenAIClient struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	temp       float32
	maxTokens  int
}

// NewOpenAIClient builds a client from configuration. BaseURL may point
// at any OpenAI-compatible endpoint.
func NewOpenAIClient(cfg config.LLMConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: API key not configured")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		temp:       cfg.Temperature,
		maxTokens:  cfg.MaxTokens,
	}, nil
}

// Complete sends a system and user prompt and returns the completion text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.complete(ctx, "complete", systemPrompt, userPrompt, nil)
}

// CompleteJSON requests a JSON object response and returns the first
// top-level JSON object found in the completion.
func (c *OpenAIClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	format := &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	text, err := c.complete(ctx, "complete_json", systemPrompt, userPrompt, format)
	if err != nil {
		return "", err
	}

	obj, ok := FirstJSONObject(text)
	if !ok {
		return "", fmt.Errorf("%w: no JSON object in completion", ErrCompletionFailed)
	}
	return obj, nil
}

func (c *OpenAIClient) complete(ctx context.Context, operation, systemPrompt, userPrompt string, format *openai.ChatCompletionResponseFormat) (string, error) {
	log := logging.LLM()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	req := openai.ChatCompletionRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    c.temp,
		MaxTokens:      c.maxTokens,
		ResponseFormat: format,
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		text, err := c.doRequest(ctx, operation, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Warn("completion attempt failed",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return "", lastErr
}

// doRequest performs one bounded API call.
func (c *OpenAIClient) doRequest(ctx context.Context, operation string, req openai.ChatCompletionRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(callCtx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.LLMRequestsTotal.WithLabelValues(operation, "empty").Inc()
		return "", fmt.Errorf("%w: empty response", ErrCompletionFailed)
	}

	metrics.LLMRequestsTotal.WithLabelValues(operation, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMPromptTokens.WithLabelValues(operation).Observe(float64(resp.Usage.PromptTokens))
		metrics.LLMCompletionTokens.WithLabelValues(operation).Observe(float64(resp.Usage.CompletionTokens))
	}

	logging.LLM().Debug("completion succeeded",
		zap.String("operation", operation),
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
