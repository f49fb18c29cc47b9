package nepdate

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nepdate/pkg/observability"
)

// DefaultBatchDelay is the pause between consecutive batch requests.
const DefaultBatchDelay = 100 * time.Millisecond

// Outcome is the result of one batch item.
type Outcome struct {
	Input   Date   `json:"input"`
	Output  *Date  `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`

	// Err is the typed failure behind Error.
	Err error `json:"-"`
}

// Batcher converts a list of dates one at a time, pausing Delay between
// consecutive requests. A failed item never stops the batch.
type Batcher struct {
	Delay time.Duration

	// Sleep waits d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error

	Logger *log.Logger
}

// Run converts dates in order through d and returns one Outcome per input,
// in input order. The delay is applied only between calls. Once ctx is
// done no further calls are made and the remaining items are reported as
// failed with a CANCELED error wrapping ctx.Err().
func (b *Batcher) Run(ctx context.Context, d Doer, dir Direction, dates []Date) []Outcome {
	sleep := b.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := loggerOr(b.Logger)
	hooks := observability.Batch()

	start := time.Now()
	out := make([]Outcome, 0, len(dates))
	failed := 0
	for i, date := range dates {
		err := ctx.Err()
		if err == nil && i > 0 && b.Delay > 0 {
			err = sleep(ctx, b.Delay)
		}
		if err != nil {
			err = canceled(err)
			for _, rest := range dates[i:] {
				out = append(out, failure(rest, err))
			}
			failed += len(dates) - i
			logger.Debug("batch stopped", "remaining", len(dates)-i, "err", err)
			break
		}

		itemStart := time.Now()
		got, err := d.Do(ctx, dir, date).Unwrap()
		if err != nil {
			failed++
			out = append(out, failure(date, err))
			logger.Debug("batch item failed", "index", i, "date", date, "err", err)
		} else {
			out = append(out, Outcome{Input: date, Output: &got, Success: true})
			logger.Debug("batch item converted", "index", i, "date", date, "result", got)
		}
		hooks.OnBatchItem(ctx, i, err == nil, time.Since(itemStart))
	}

	hooks.OnBatchComplete(ctx, len(dates), failed, time.Since(start))
	return out
}

// Batch converts dates through d with the given delay between calls.
func Batch(ctx context.Context, d Doer, dir Direction, dates []Date, delay time.Duration) []Outcome {
	b := &Batcher{Delay: delay}
	return b.Run(ctx, d, dir, dates)
}

func failure(date Date, err error) Outcome {
	return Outcome{Input: date, Error: err.Error(), Err: err}
}
