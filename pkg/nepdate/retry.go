package nepdate

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/nepdate/pkg/errors"
	"github.com/matzehuels/nepdate/pkg/observability"
)

const (
	// DefaultMaxRetries is the attempt budget used by [Retry].
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the wait after the first failed attempt. Each
	// following wait doubles it: 2s, 4s, 8s, ...
	DefaultBaseDelay = 2 * time.Second
)

// Retrier re-invokes a conversion until it succeeds or MaxRetries attempts
// have been made. Every failure kind is retried.
//
// The zero value is usable: it makes one attempt with no delay configured,
// since MaxRetries below one still guarantees a single call.
type Retrier struct {
	// MaxRetries is the total number of attempts. Values below 1 mean 1.
	MaxRetries int

	// BaseDelay is the wait after the first failed attempt; it doubles
	// after each further failure.
	BaseDelay time.Duration

	// Sleep waits d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error

	Logger *log.Logger
}

// NewRetrier returns a Retrier with the default base delay.
func NewRetrier(maxRetries int) *Retrier {
	return &Retrier{MaxRetries: maxRetries, BaseDelay: DefaultBaseDelay}
}

// Do calls fn until it succeeds or the budget runs out. When every attempt
// fails the returned Result carries a RETRIES_EXHAUSTED error wrapping the
// last failure. If ctx is done while waiting, the Result carries a CANCELED
// error wrapping ctx.Err(). The delay stops doubling before it overflows.
func (r *Retrier) Do(ctx context.Context, fn func(context.Context) Result) Result {
	attempts := max(r.MaxRetries, 1)
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := loggerOr(r.Logger)
	hooks := observability.Retry()

	delay := r.BaseDelay
	var last error
	for i := 1; i <= attempts; i++ {
		res := fn(ctx)
		if res.Err() == nil {
			return res
		}
		last = res.Err()

		if i == attempts {
			break
		}
		logger.Debug("attempt failed", "attempt", i, "of", attempts, "retry_in", delay, "err", last)
		hooks.OnRetry(ctx, i, last, delay)
		if err := sleep(ctx, delay); err != nil {
			return Fail(canceled(err))
		}
		if delay <= math.MaxInt64/2 {
			delay *= 2
		}
	}

	hooks.OnExhausted(ctx, attempts, last)
	logger.Warn("all retry attempts failed", "attempts", attempts, "err", last)
	return Fail(errs.Wrap(errs.ErrCodeRetriesExhausted, last, "all %d attempts failed", attempts))
}

// Retry calls fn up to maxRetries times with the default backoff.
func Retry(ctx context.Context, maxRetries int, fn func(context.Context) Result) Result {
	return NewRetrier(maxRetries).Do(ctx, fn)
}

// RetryingDoer retries every conversion made through Next.
type RetryingDoer struct {
	Next    Doer
	Retrier *Retrier
}

// Do runs one conversion through Next under the retry policy.
func (r RetryingDoer) Do(ctx context.Context, dir Direction, date Date) Result {
	return r.Retrier.Do(ctx, func(ctx context.Context) Result {
		return r.Next.Do(ctx, dir, date)
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// canceled codes a context error so callers can branch on CANCELED while
// errors.Is(err, context.Canceled) still holds.
func canceled(err error) error {
	return errs.Wrap(errs.ErrCodeCanceled, err, "conversion stopped")
}
