// Package backoff retries operations that fail with a transient error code,
// waiting exponentially longer between attempts.
package backoff

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"contractlens-backend/internal/apperr"
)

// Options controls Do. A zero Base or Factor takes the default; Retries is
// used as given.
type Options struct {
	Retries int           // extra attempts after the first
	Base    time.Duration // delay before the first retry; default 600ms
	Factor  float64       // growth per attempt; default 2
	Jitter  bool          // spread each delay by up to ±25%

	// Retryable decides whether err is worth another attempt. By default only
	// RATE_LIMIT and TIMEOUT app errors are.
	Retryable func(err error) bool

	Logger *zap.Logger
}

// DefaultOptions matches what the client uses around each API call.
func DefaultOptions() Options {
	return Options{Retries: 2, Base: 600 * time.Millisecond, Factor: 2, Jitter: true}
}

func (o Options) withDefaults() Options {
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Base <= 0 {
		o.Base = 600 * time.Millisecond
	}
	if o.Factor <= 0 {
		o.Factor = 2
	}
	if o.Retryable == nil {
		o.Retryable = IsRetryable
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// IsRetryable reports whether err carries a RATE_LIMIT or TIMEOUT code.
func IsRetryable(err error) bool {
	var ae *apperr.Error
	return errors.As(err, &ae) && ae.Code.Retryable()
}

// Do calls op until it succeeds, fails with a non-retryable error, or has
// been called Retries+1 times. The last error is returned unchanged. Waiting
// between attempts stops early if ctx is done.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts Options) (T, error) {
	o := opts.withDefaults()
	var zero T

	for attempt := 0; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= o.Retries {
			o.Logger.Warn("final attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
			return zero, err
		}
		if !o.Retryable(err) {
			o.Logger.Debug("non-retryable error", zap.Int("attempt", attempt+1), zap.Error(err))
			return zero, err
		}

		d := Delay(attempt, o.Base, o.Factor, o.Jitter)
		o.Logger.Info("retrying after transient error",
			zap.Int("attempt", attempt+1),
			zap.Int("of", o.Retries+1),
			zap.Duration("delay", d),
			zap.String("code", string(apperr.CodeOf(err))),
		)

		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, err
		case <-t.C:
		}
	}
}

// Delay is base*factor^attempt, jittered by up to ±25% when jitter is set and
// never negative.
func Delay(attempt int, base time.Duration, factor float64, jitter bool) time.Duration {
	d := float64(base) * math.Pow(factor, float64(attempt))
	if jitter {
		d += (rand.Float64()*2 - 1) * d * 0.25
	}
	return time.Duration(math.Max(0, d))
}
