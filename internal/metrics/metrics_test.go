package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/nepdate/internal/apitest"
	errs "github.com/matzehuels/nepdate/pkg/errors"
	"github.com/matzehuels/nepdate/pkg/nepdate"
	"github.com/matzehuels/nepdate/pkg/observability"
)

func TestRecorderCountsEvents(t *testing.T) {
	r := New()
	ctx := context.Background()

	r.OnResponse(ctx, "GET", "host", "/api/ad-to-bs/2024/10/15", 200, 10*time.Millisecond)
	r.OnResponse(ctx, "GET", "host", "/api/ad-to-bs/2024/10/16", 500, 10*time.Millisecond)
	r.OnError(ctx, "GET", "host", "/api/ad-to-bs/2024/10/17", errs.New(errs.ErrCodeTimeout, "slow"))
	r.OnError(ctx, "GET", "host", "/api/ad-to-bs/2024/10/17", errors.New("plain"))
	r.OnCacheHit(ctx, "ad-to-bs")
	r.OnCacheMiss(ctx, "ad-to-bs")
	r.OnCacheSet(ctx, "ad-to-bs", 4)
	r.OnRetry(ctx, 1, nil, time.Second)
	r.OnExhausted(ctx, 3, nil)
	r.OnBatchItem(ctx, 0, true, 0)
	r.OnBatchItem(ctx, 1, false, 0)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"requests 200", testutil.ToFloat64(r.RequestsTotal.WithLabelValues("200")), 1},
		{"requests 500", testutil.ToFloat64(r.RequestsTotal.WithLabelValues("500")), 1},
		{"errors timeout", testutil.ToFloat64(r.RequestErrors.WithLabelValues("TIMEOUT")), 1},
		{"errors transport", testutil.ToFloat64(r.RequestErrors.WithLabelValues("transport")), 1},
		{"cache hit", testutil.ToFloat64(r.CacheLookups.WithLabelValues("ad-to-bs", "hit")), 1},
		{"cache miss", testutil.ToFloat64(r.CacheLookups.WithLabelValues("ad-to-bs", "miss")), 1},
		{"cache entries", testutil.ToFloat64(r.CacheEntries), 4},
		{"retries", testutil.ToFloat64(r.RetriesTotal), 1},
		{"exhausted", testutil.ToFloat64(r.RetryExhausted), 1},
		{"batch success", testutil.ToFloat64(r.BatchItems.WithLabelValues("success")), 1},
		{"batch failure", testutil.ToFloat64(r.BatchItems.WithLabelValues("failure")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestRecorderInstalledOnClient(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	r := New()
	r.Install()

	api := apitest.New(apitest.Fixed(apitest.Date{Year: 2081, Month: 6, Day: 29}))
	defer api.Close()

	cache := nepdate.NewCache(nepdate.NewClient(nepdate.WithBaseURL(api.BaseURL())))
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := cache.Convert(ctx, nepdate.ADToBS, nepdate.Date{Year: 2024, Month: 10, Day: 15}); err != nil {
			t.Fatalf("Convert() error: %v", err)
		}
	}

	if got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues("200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.CacheLookups.WithLabelValues("ad-to-bs", "hit")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}

	lines, err := r.Summary()
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	joined := strings.Join(lines, "\n")
	for _, want := range []string{
		`nepdate_requests_total{code="200"} 1`,
		`nepdate_cache_lookups_total{direction="ad-to-bs",result="hit"} 1`,
		`nepdate_request_duration_seconds{path="/api/ad-to-bs"} 1`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("Summary() missing %q in:\n%s", want, joined)
		}
	}
}

func TestEndpoint(t *testing.T) {
	tests := map[string]string{
		"/api/ad-to-bs/2024/10/15": "/api/ad-to-bs",
		"/bs-to-ad/2081/6/29":      "/bs-to-ad",
		"/short":                   "/short",
	}
	for in, want := range tests {
		if got := endpoint(in); got != want {
			t.Errorf("endpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
