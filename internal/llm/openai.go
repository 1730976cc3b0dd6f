package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI completes requests with the chat completions API.
type OpenAI struct {
	client *openai.Client
	cfg    Config
}

func NewOpenAI(cfg Config) *OpenAI {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(oc), cfg: cfg}
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	if o.cfg.APIKey == "" {
		return "", &ProviderError{Provider: ProviderOpenAI, Status: 401, Err: errors.New("OpenAI API key not configured")}
	}

	ctx, cancel := withTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	temp := req.Temperature
	if temp == 0 {
		temp = o.cfg.Temperature
	}

	var msgs []openai.ChatCompletionMessage
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.User})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.cfg.Model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: temp,
	})
	if err != nil {
		return "", classifyOpenAI(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", wrap(ProviderOpenAI, 0, ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAI(err error) *ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return wrap(ProviderOpenAI, apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return wrap(ProviderOpenAI, reqErr.HTTPStatusCode, err)
	}
	return wrap(ProviderOpenAI, 0, fmt.Errorf("chat completion: %w", err))
}
