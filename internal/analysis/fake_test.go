package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"contractlens-backend/internal/llm"
	"contractlens-backend/internal/taxonomy"
)

type reply struct {
	text string
	err  error
}

// scripted answers calls with canned replies in order and records requests.
type scripted struct {
	mu      sync.Mutex
	replies []reply
	calls   []llm.Request
}

func script(replies ...reply) *scripted {
	return &scripted{replies: replies}
}

func ok(text string) reply     { return reply{text: text} }
func fail(err error) reply     { return reply{err: err} }
func (s *scripted) count() int { s.mu.Lock(); defer s.mu.Unlock(); return len(s.calls) }

func (s *scripted) Complete(_ context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if len(s.replies) == 0 {
		return "", errors.New("unexpected model call")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.text, r.err
}

// fullReply renders a schema-valid reply for contractType with every category
// not mentioned. edit may change rows before rendering; returning false from
// keep drops a row.
func fullReply(t *testing.T, contractType string, edit func(row map[string]any) (keep bool)) string {
	t.Helper()
	var rows []any
	for _, c := range taxonomy.LoadCategories(contractType) {
		row := map[string]any{
			"category":     c.Label,
			"status":       "not_mentioned",
			"severity":     string(c.DefaultSeverity),
			"evidence":     NotSpecified,
			"whyItMatters": c.WhyItMatters,
		}
		if edit != nil && !edit(row) {
			continue
		}
		rows = append(rows, row)
	}
	b, err := json.Marshal(map[string]any{
		"extendedSummary":    "A residential tenancy for a flat.",
		"partiesAndPurpose":  "Landlord and tenant; letting of a flat.",
		"riskCoverageMatrix": rows,
		"keyDetails": map[string]any{
			"amountsMentioned": []any{"£1,200"},
			"datesMentioned":   []any{"1 March 2025"},
		},
	})
	require.NoError(t, err)
	return string(b)
}
