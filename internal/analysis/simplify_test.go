package analysis

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"contractlens-backend/internal/llm"
)

const longText = "The Lessee shall indemnify and hold harmless the Lessor from all claims."

func TestSimplify(t *testing.T) {
	model := script(ok("  You must cover the landlord's losses.  "))
	s := NewSimplifier(model, nil)

	assert.Equal(t, "You must cover the landlord's losses.", s.Simplify(context.Background(), longText))
	assert.Equal(t, simplifierTokens, model.calls[0].MaxTokens)
	assert.Contains(t, model.calls[0].User, longText)
}

func TestSimplify_ShortTextSkipsModel(t *testing.T) {
	model := script()
	s := NewSimplifier(model, nil)
	assert.Equal(t, "Rent is due.", s.Simplify(context.Background(), "Rent is due."))
	assert.Zero(t, model.count())
}

func TestSimplify_FailureReturnsOriginal(t *testing.T) {
	s := NewSimplifier(script(fail(errors.New("boom"))), nil)
	assert.Equal(t, longText, s.Simplify(context.Background(), longText))

	s = NewSimplifier(script(ok("   ")), nil)
	assert.Equal(t, longText, s.Simplify(context.Background(), longText))
}

func TestSimplifyAll_KeepsOrderAndLimitsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	c := llm.CompleterFunc(func(_ context.Context, req llm.Request) (string, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		if strings.Contains(req.User, "fail") {
			return "", errors.New("boom")
		}
		return "plain", nil
	})

	texts := make([]string, 12)
	for i := range texts {
		texts[i] = longText
	}
	texts[3] = "short"
	texts[7] = longText + " fail"

	got := NewSimplifier(c, nil).SimplifyAll(context.Background(), texts)
	for i, g := range got {
		switch i {
		case 3:
			assert.Equal(t, "short", g)
		case 7:
			assert.Equal(t, texts[7], g)
		default:
			assert.Equal(t, "plain", g)
		}
	}
	assert.LessOrEqual(t, peak.Load(), int32(simplifierConcurrency))
}
