// Package nepdate is a client for the public Gregorian (AD) to Bikram
// Sambat (BS) date conversion API.
//
// # Overview
//
// The calendar arithmetic lives on the remote server. This package builds
// the request, classifies the response and layers optional behaviors on
// top of a single request primitive:
//
//   - [Client]: one GET per conversion, bounded by a timeout
//   - [RetryingDoer]: re-invokes on failure with exponential backoff
//   - [Cache]: memoizes successful conversions in memory
//   - [ValidatingDoer]: rejects out-of-range dates before dispatch
//   - [Batcher]: converts a list sequentially with a delay between calls
//
// All of them implement [Doer], so they stack in any order:
//
//	client := nepdate.NewClient(nepdate.WithTimeout(5 * time.Second))
//	cache := nepdate.NewCache(nepdate.RetryingDoer{
//	    Next:    nepdate.ValidatingDoer{Next: client},
//	    Retrier: nepdate.NewRetrier(3),
//	})
//	bs, err := cache.Convert(ctx, nepdate.ADToBS, nepdate.Date{Year: 2024, Month: 10, Day: 15})
//
// # Endpoint
//
// Requests go to {base}/{direction}/{year}/{month}/{day}, where direction
// is "ad-to-bs" or "bs-to-ad". The body is always
//
//	{"success": true, "result": {"year": 2081, "month": 6, "day": 29}}
//	{"success": false, "error": "Invalid date"}
//
// # Errors
//
// Every failure is a *[errors.Error] whose code is one of TIMEOUT,
// NETWORK_ERROR, INVALID_INPUT (HTTP 400 or local validation),
// ENDPOINT_NOT_FOUND (404), SERVER_ERROR (5xx), API_ERROR (200 with
// success=false), RETRIES_EXHAUSTED or CANCELED (the context ended
// while waiting; errors.Is(err, context.Canceled) still holds). Callers that prefer a missing value
// over an error use [Lookup] or [Result.Value] instead of [Convert].
//
// [errors.Error]: github.com/matzehuels/nepdate/pkg/errors.Error
package nepdate
