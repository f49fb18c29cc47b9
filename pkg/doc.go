// Package pkg provides the libraries behind the nepdate converter.
//
// # Overview
//
// nepdate converts dates between the Gregorian (AD) and Bikram Sambat (BS)
// calendars by calling a remote conversion API. The calendar arithmetic
// lives on the server; these packages wrap the call:
//
//  1. [nepdate] - Client, retry policy, result cache, batch driver,
//     validation and formatting
//  2. [errors] - Coded errors shared by every layer
//  3. [observability] - Hooks for request, cache, retry and batch events
//  4. [buildinfo] - Version information and the default User-Agent
//
// # Architecture
//
// A conversion passes through composable layers, each a [nepdate.Doer]:
//
//	ValidatingDoer (local range check)
//	         ↓
//	    Cache (in-process, successes only)
//	         ↓
//	    RetryingDoer (exponential backoff)
//	         ↓
//	    Client (one HTTP GET)
//
// # Quick Start
//
//	client := nepdate.NewClient()
//	chain := nepdate.ValidatingDoer{Next: nepdate.NewCache(nepdate.RetryingDoer{
//	    Next:    client,
//	    Retrier: nepdate.NewRetrier(nepdate.DefaultMaxRetries),
//	})}
//
//	bs, err := nepdate.Convert(ctx, chain, nepdate.ADToBS, nepdate.Date{Year: 2024, Month: 10, Day: 15})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(nepdate.FormatBS(bs, "DD-MM-YYYY"))
//
// [nepdate]: github.com/matzehuels/nepdate/pkg/nepdate
// [errors]: github.com/matzehuels/nepdate/pkg/errors
// [observability]: github.com/matzehuels/nepdate/pkg/observability
// [buildinfo]: github.com/matzehuels/nepdate/pkg/buildinfo
package pkg
