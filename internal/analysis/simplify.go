package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"contractlens-backend/internal/llm"
)

const (
	minSimplifyChars      = 20
	simplifierConcurrency = 4
)

// Simplifier rewrites text in plain English. Failures are logged and the
// original text is returned, so callers always get something to show.
type Simplifier struct {
	c      llm.Completer
	logger *zap.Logger
}

func NewSimplifier(c llm.Completer, logger *zap.Logger) *Simplifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simplifier{c: c, logger: logger}
}

// Simplify rewrites one text. Very short texts are returned unchanged
// without a model call.
func (s *Simplifier) Simplify(ctx context.Context, text string) string {
	if len(strings.TrimSpace(text)) <= minSimplifyChars {
		return text
	}
	out, err := s.c.Complete(ctx, llm.Request{
		System:    simplifySystemPrompt,
		User:      simplifyPrompt(text),
		MaxTokens: simplifierTokens,
	})
	if err != nil {
		s.logger.Warn("text simplification failed", zap.String("code", string(ClassifyError(err))), zap.Error(err))
		return text
	}
	if out = strings.TrimSpace(out); out == "" {
		return text
	}
	return out
}

// SimplifyAll rewrites texts concurrently, a few at a time, and returns them
// in input order.
func (s *Simplifier) SimplifyAll(ctx context.Context, texts []string) []string {
	out := make([]string, len(texts))
	var g errgroup.Group
	g.SetLimit(simplifierConcurrency)
	for i, t := range texts {
		g.Go(func() error {
			out[i] = s.Simplify(ctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
