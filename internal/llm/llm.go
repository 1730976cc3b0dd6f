// Package llm wraps the chat-completion providers behind a single Completer
// interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Request is one system+user exchange.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Completer returns the model's text reply to a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Config selects and configures a provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ErrEmptyResponse is returned when the provider answers with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// New builds the Completer named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// ProviderError is a failed provider call with whatever status information
// the provider exposed.
type ProviderError struct {
	Provider string
	Status   int
	Timeout  bool
	Err      error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: timed out: %v", e.Provider, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }

// wrap builds a ProviderError, marking context deadlines and network
// timeouts.
func wrap(provider string, status int, err error) *ProviderError {
	pe := &ProviderError{Provider: provider, Status: status, Err: err}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		pe.Timeout = true
	}
	return pe
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
