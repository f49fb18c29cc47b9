// Package metrics records conversion activity as Prometheus metrics.
//
// A [Recorder] implements every hook interface from pkg/observability and
// registers its collectors on a private registry, so several recorders
// (one per test, say) never collide on the default registerer.
package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	errs "github.com/matzehuels/nepdate/pkg/errors"
	"github.com/matzehuels/nepdate/pkg/observability"
)

// Recorder holds the nepdate collectors.
type Recorder struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestErrors   *prometheus.CounterVec

	CacheLookups *prometheus.CounterVec
	CacheEntries prometheus.Gauge

	RetriesTotal   prometheus.Counter
	RetryExhausted prometheus.Counter

	BatchItems *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,

		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nepdate_requests_total",
				Help: "Conversion requests by HTTP status code",
			},
			[]string{"code"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nepdate_request_duration_seconds",
				Help:    "Round-trip time of conversion requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		RequestErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nepdate_request_errors_total",
				Help: "Conversion requests that failed before a response, by error code",
			},
			[]string{"code"},
		),

		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nepdate_cache_lookups_total",
				Help: "Result cache lookups by direction and outcome",
			},
			[]string{"direction", "result"},
		),
		CacheEntries: f.NewGauge(prometheus.GaugeOpts{
			Name: "nepdate_cache_entries",
			Help: "Entries in the result cache",
		}),

		RetriesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "nepdate_retries_total",
			Help: "Retry attempts after a failed conversion",
		}),
		RetryExhausted: f.NewCounter(prometheus.CounterOpts{
			Name: "nepdate_retries_exhausted_total",
			Help: "Conversions that failed every retry attempt",
		}),

		BatchItems: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nepdate_batch_items_total",
				Help: "Batch items by outcome",
			},
			[]string{"result"},
		),
	}
}

// Registry exposes the private registry, e.g. for promhttp.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Install registers r as the global hook implementation.
func (r *Recorder) Install() {
	observability.SetHTTPHooks(r)
	observability.SetCacheHooks(r)
	observability.SetRetryHooks(r)
	observability.SetBatchHooks(r)
}

func (r *Recorder) OnRequest(context.Context, string, string, string) {}

func (r *Recorder) OnResponse(_ context.Context, _, _, path string, status int, d time.Duration) {
	r.RequestsTotal.WithLabelValues(fmt.Sprint(status)).Inc()
	r.RequestDuration.WithLabelValues(endpoint(path)).Observe(d.Seconds())
}

func (r *Recorder) OnError(_ context.Context, _, _, _ string, err error) {
	code := string(errs.GetCode(err))
	if code == "" {
		code = "transport"
	}
	r.RequestErrors.WithLabelValues(code).Inc()
}

func (r *Recorder) OnCacheHit(_ context.Context, dir string) {
	r.CacheLookups.WithLabelValues(dir, "hit").Inc()
}

func (r *Recorder) OnCacheMiss(_ context.Context, dir string) {
	r.CacheLookups.WithLabelValues(dir, "miss").Inc()
}

func (r *Recorder) OnCacheSet(_ context.Context, _ string, size int) {
	r.CacheEntries.Set(float64(size))
}

func (r *Recorder) OnRetry(context.Context, int, error, time.Duration) {
	r.RetriesTotal.Inc()
}

func (r *Recorder) OnExhausted(context.Context, int, error) {
	r.RetryExhausted.Inc()
}

func (r *Recorder) OnBatchItem(_ context.Context, _ int, success bool, _ time.Duration) {
	if success {
		r.BatchItems.WithLabelValues("success").Inc()
		return
	}
	r.BatchItems.WithLabelValues("failure").Inc()
}

func (r *Recorder) OnBatchComplete(context.Context, int, int, time.Duration) {}

// Summary returns "name{labels} value" lines for every counter and gauge
// with a non-zero value, sorted by name.
func (r *Recorder) Summary() ([]string, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				v = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			if v == 0 {
				continue
			}

			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, v))
		}
	}
	sort.Strings(lines)
	return lines, nil
}

// endpoint collapses /api/ad-to-bs/2024/10/15 to /api/ad-to-bs so the
// duration histogram has bounded cardinality.
func endpoint(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 3 {
		parts = parts[:len(parts)-3]
	}
	return "/" + strings.Join(parts, "/")
}

var (
	_ observability.HTTPHooks  = (*Recorder)(nil)
	_ observability.CacheHooks = (*Recorder)(nil)
	_ observability.RetryHooks = (*Recorder)(nil)
	_ observability.BatchHooks = (*Recorder)(nil)
)
