package nepdate

import "context"

// Result carries either a converted [Date] or the failure that prevented
// the conversion. It is the single return type behind both the
// error-returning and the ok-returning entry points.
type Result struct {
	date Date
	err  error
}

// OK returns a successful Result.
func OK(d Date) Result { return Result{date: d} }

// Fail returns a failed Result. A nil err is treated as success of the
// zero Date, so callers should always pass a non-nil error.
func Fail(err error) Result { return Result{err: err} }

// Value returns the converted date and true on success, or the zero Date
// and false on failure.
func (r Result) Value() (Date, bool) {
	if r.err != nil {
		return Date{}, false
	}
	return r.date, true
}

// Unwrap returns the converted date or the failure.
func (r Result) Unwrap() (Date, error) {
	if r.err != nil {
		return Date{}, r.err
	}
	return r.date, nil
}

// Err returns the failure, or nil on success.
func (r Result) Err() error { return r.err }

// Doer performs one conversion. [Client], [Cache], [RetryingDoer] and
// [ValidatingDoer] all implement it, so they stack in any order.
type Doer interface {
	Do(ctx context.Context, dir Direction, date Date) Result
}

// Convert runs one conversion through d and returns the date or the error.
func Convert(ctx context.Context, d Doer, dir Direction, date Date) (Date, error) {
	return d.Do(ctx, dir, date).Unwrap()
}

// Lookup runs one conversion through d and reports success instead of
// returning the error.
func Lookup(ctx context.Context, d Doer, dir Direction, date Date) (Date, bool) {
	return d.Do(ctx, dir, date).Value()
}
