package nepdate

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/nepdate/internal/apitest"
	errs "github.com/matzehuels/nepdate/pkg/errors"
)

func TestBatchOrderingAndIsolation(t *testing.T) {
	s := apitest.New(func(r apitest.Request) apitest.Response {
		if r.Date.Month == 6 {
			return apitest.Response{Error: "Invalid date"}
		}
		d := apitest.Date{Year: r.Date.Year + 56, Month: r.Date.Month, Day: r.Date.Day}
		return apitest.Response{Result: &d}
	})
	defer s.Close()

	rec := &recordingSleep{}
	b := &Batcher{Delay: 100 * time.Millisecond, Sleep: rec.sleep}
	dates := []Date{{2024, 1, 1}, {2024, 6, 15}, {2024, 12, 31}}

	out := b.Run(context.Background(), NewClient(WithBaseURL(s.BaseURL())), ADToBS, dates)

	if len(out) != 3 {
		t.Fatalf("len(outcomes) = %d, want 3", len(out))
	}
	for i, o := range out {
		if o.Input != dates[i] {
			t.Errorf("outcome[%d].Input = %v, want %v", i, o.Input, dates[i])
		}
	}
	if !out[0].Success || out[1].Success || !out[2].Success {
		t.Errorf("success flags = %v %v %v, want true false true", out[0].Success, out[1].Success, out[2].Success)
	}
	if *out[0].Output != (Date{2080, 1, 1}) || *out[2].Output != (Date{2080, 12, 31}) {
		t.Errorf("outputs = %v, %v", *out[0].Output, *out[2].Output)
	}
	if out[1].Output != nil || out[1].Error == "" {
		t.Errorf("failed outcome = %+v", out[1])
	}
	if !errs.Is(out[1].Err, errs.ErrCodeAPI) {
		t.Errorf("failed outcome code = %v, want API_ERROR", errs.GetCode(out[1].Err))
	}

	// Delay only between consecutive calls.
	if want := []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}; !reflect.DeepEqual(rec.delays, want) {
		t.Errorf("delays = %v, want %v", rec.delays, want)
	}
	if s.Calls() != 3 {
		t.Errorf("server calls = %d, want 3", s.Calls())
	}
}

func TestBatchDelayPlacement(t *testing.T) {
	tests := []struct {
		n          int
		wantSleeps int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{5, 4},
	}
	for _, tt := range tests {
		rec := &recordingSleep{}
		b := &Batcher{Delay: time.Second, Sleep: rec.sleep}
		dates := make([]Date, tt.n)
		out := b.Run(context.Background(), &stubDoer{results: []Result{OK(Date{2081, 1, 1})}}, ADToBS, dates)
		if len(out) != tt.n {
			t.Errorf("n=%d: len(outcomes) = %d", tt.n, len(out))
		}
		if len(rec.delays) != tt.wantSleeps {
			t.Errorf("n=%d: sleeps = %d, want %d", tt.n, len(rec.delays), tt.wantSleeps)
		}
	}
}

func TestBatchZeroDelayNeverSleeps(t *testing.T) {
	rec := &recordingSleep{}
	b := &Batcher{Sleep: rec.sleep}
	b.Run(context.Background(), &stubDoer{results: []Result{OK(Date{2081, 1, 1})}}, ADToBS, make([]Date, 3))
	if len(rec.delays) != 0 {
		t.Errorf("sleeps = %d, want 0", len(rec.delays))
	}
}

func TestBatchContinuesAfterEveryFailure(t *testing.T) {
	next := &stubDoer{results: []Result{Fail(errs.New(errs.ErrCodeNetwork, "down"))}}
	b := &Batcher{Sleep: (&recordingSleep{}).sleep}
	out := b.Run(context.Background(), next, BSToAD, make([]Date, 4))

	if next.calls != 4 {
		t.Errorf("calls = %d, want 4", next.calls)
	}
	for i, o := range out {
		if o.Success {
			t.Errorf("outcome[%d] should fail", i)
		}
	}
}

func TestBatchCanceledDuringDelay(t *testing.T) {
	rec := &recordingSleep{err: context.Canceled}
	b := &Batcher{Delay: time.Second, Sleep: rec.sleep}
	next := &stubDoer{results: []Result{OK(Date{2081, 1, 1})}}

	dates := []Date{{2024, 1, 1}, {2024, 1, 2}, {2024, 1, 3}}
	out := b.Run(context.Background(), next, ADToBS, dates)

	if len(out) != 3 {
		t.Fatalf("len(outcomes) = %d, want 3", len(out))
	}
	if !out[0].Success {
		t.Error("first item should have been converted")
	}
	for i := 1; i < 3; i++ {
		if out[i].Success || !errors.Is(out[i].Err, context.Canceled) {
			t.Errorf("outcome[%d] = %+v, want canceled failure", i, out[i])
		}
		if !errs.Is(out[i].Err, errs.ErrCodeCanceled) {
			t.Errorf("outcome[%d] code = %v, want CANCELED", i, errs.GetCode(out[i].Err))
		}
		if out[i].Input != dates[i] {
			t.Errorf("outcome[%d].Input = %v", i, out[i].Input)
		}
	}
	if next.calls != 1 {
		t.Errorf("calls = %d, want 1", next.calls)
	}
}

func TestBatchCanceledWithoutDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recordingSleep{}
	b := &Batcher{Sleep: rec.sleep}
	next := &stubDoer{results: []Result{OK(Date{2081, 1, 1})}}

	dates := []Date{{2024, 1, 1}, {2024, 1, 2}, {2024, 1, 3}, {2024, 1, 4}, {2024, 1, 5}}
	out := b.Run(ctx, next, ADToBS, dates)

	if next.calls != 0 {
		t.Errorf("calls = %d after cancel, want 0", next.calls)
	}
	if len(rec.delays) != 0 {
		t.Errorf("delays = %v, want none", rec.delays)
	}
	if len(out) != len(dates) {
		t.Fatalf("len(outcomes) = %d, want %d", len(out), len(dates))
	}
	for i, o := range out {
		if o.Success || !errors.Is(o.Err, context.Canceled) || !errs.Is(o.Err, errs.ErrCodeCanceled) {
			t.Errorf("outcome[%d] = %+v, want CANCELED failure", i, o)
		}
		if o.Input != dates[i] {
			t.Errorf("outcome[%d].Input = %v", i, o.Input)
		}
	}
}

func TestOutcomeJSON(t *testing.T) {
	out := []Outcome{
		{Input: Date{2024, 1, 1}, Output: &Date{2080, 9, 17}, Success: true},
		failure(Date{2024, 6, 15}, errs.New(errs.ErrCodeAPI, "Invalid date")),
	}
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := `[{"input":{"year":2024,"month":1,"day":1},"output":{"year":2080,"month":9,"day":17},"success":true},` +
		`{"input":{"year":2024,"month":6,"day":15},"error":"API_ERROR: Invalid date","success":false}]`
	if string(data) != want {
		t.Errorf("JSON = %s\nwant  %s", data, want)
	}
}
