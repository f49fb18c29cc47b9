package nepdate

import (
	"context"
	"time"
)

// stubDoer returns results in order, repeating the last one once exhausted.
type stubDoer struct {
	results []Result
	calls   int
	seen    []Date
}

func (s *stubDoer) Do(_ context.Context, _ Direction, date Date) Result {
	s.seen = append(s.seen, date)
	i := min(s.calls, len(s.results)-1)
	s.calls++
	return s.results[i]
}

// recordingSleep records requested delays without waiting.
type recordingSleep struct {
	delays []time.Duration
	err    error
}

func (r *recordingSleep) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return r.err
}
