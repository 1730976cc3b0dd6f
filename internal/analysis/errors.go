package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"contractlens-backend/internal/apperr"
	"contractlens-backend/internal/llm"
)

type failureKind int

const (
	parseFailure failureKind = iota + 1
	schemaFailure
)

func (k failureKind) String() string {
	switch k {
	case parseFailure:
		return "parse"
	case schemaFailure:
		return "schema"
	}
	return "unknown"
}

// attemptError marks a model reply that was received but unusable. It is the
// only condition that earns the stricter retry.
type attemptError struct {
	kind     failureKind
	problems []string
	err      error
}

func (e *attemptError) Error() string {
	if e.kind == schemaFailure {
		return fmt.Sprintf("invalid reply (%s): %s", e.kind, strings.Join(e.problems, "; "))
	}
	return fmt.Sprintf("invalid reply (%s): %v", e.kind, e.err)
}

func (e *attemptError) Unwrap() error { return e.err }

func isAttemptError(err error, kind failureKind) bool {
	var ae *attemptError
	return errors.As(err, &ae) && ae.kind == kind
}

// ClassifyError maps a provider failure onto an app error code.
func ClassifyError(err error) apperr.Code {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout
	}
	var pe *llm.ProviderError
	if !errors.As(err, &pe) {
		return apperr.Unknown
	}
	if pe.Timeout {
		return apperr.Timeout
	}
	switch pe.Status {
	case http.StatusTooManyRequests:
		return apperr.RateLimit
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.Auth
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return apperr.Timeout
	}
	return apperr.Unknown
}

// providerFailure logs a failed model call without any document content and
// returns the user-facing error for it.
func (a *Analyzer) providerFailure(scope string, err error, chars int) error {
	code := ClassifyError(err)
	status := "unknown"
	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		switch {
		case pe.Status != 0:
			status = fmt.Sprint(pe.Status)
		case pe.Timeout:
			status = "timeout"
		}
	}
	a.logger.Warn("model call failed",
		zap.String("scope", scope),
		zap.String("code", string(code)),
		zap.String("httpStatus", status),
		zap.Int("tokenCount", chars),
		zap.Error(err),
	)
	return apperr.New(code)
}

// replyFailure logs a reply that stayed unusable after the retry.
func (a *Analyzer) replyFailure(scope string, err error, chars int) error {
	a.logger.Warn("model reply unusable after retry",
		zap.String("scope", scope),
		zap.String("code", "JSON_PARSE_FAILED"),
		zap.String("httpStatus", "parse_error"),
		zap.Int("tokenCount", chars),
		zap.Error(err),
	)
	return apperr.New(apperr.Unknown)
}
