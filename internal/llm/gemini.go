package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini completes requests with Google's generative language API. The
// system prompt is sent ahead of the user text in the same turn.
type Gemini struct {
	client *genai.Client
	cfg    Config
}

func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Gemini API key not configured")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.cfg.Model)
	temp := req.Temperature
	if temp == 0 {
		temp = g.cfg.Temperature
	}
	model.SetTemperature(temp)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	prompt := req.User
	if req.System != "" {
		prompt = req.System + "\n\n" + req.User
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGemini(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", wrap(ProviderGemini, 0, ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", wrap(ProviderGemini, 0, ErrEmptyResponse)
	}
	return sb.String(), nil
}

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// httpCoder is implemented by the gRPC-backed API errors genai returns.
type httpCoder interface {
	HTTPCode() int
}

func classifyGemini(err error) *ProviderError {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return wrap(ProviderGemini, gErr.Code, err)
	}
	var hc httpCoder
	if errors.As(err, &hc) && hc.HTTPCode() > 0 {
		return wrap(ProviderGemini, hc.HTTPCode(), err)
	}
	return wrap(ProviderGemini, 0, err)
}
