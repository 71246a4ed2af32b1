package handler

import (
	"expvar"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"tailscale.com/tsweb"
)

var httpRequestsInFlight = expvar.NewInt("gauge_http_requests_in_flight")
var httpRequestDurationSeconds = NewRequestHistogram()

var durationBuckets = []time.Duration{
	time.Millisecond,
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
	time.Second,
}

func init() {
	expvar.Publish("http_request_duration_seconds", httpRequestDurationSeconds)
}

// VarzHandler serves the published expvars in the prometheus text format
func VarzHandler(w http.ResponseWriter, r *http.Request) {
	tsweb.VarzHandler(w, r)
}

// Metrics is a handler that collects performance metrics
func Metrics(h http.Handler, routeMatcher RouteMatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeMatcher.Match(r)

		httpRequestsInFlight.Add(1)
		defer httpRequestsInFlight.Add(-1)

		respMetrics := httpsnoop.CaptureMetricsFn(w, func(ww http.ResponseWriter) {
			h.ServeHTTP(ww, r)
		})

		httpRequestDurationSeconds.Add(route, respMetrics.Code, respMetrics.Duration)
	})
}

type bucket struct {
	counts        []int64
	count         int64
	totalDuration float64
}

// RequestHistogram is a request duration histogram partitioned by route and status code
type RequestHistogram struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewRequestHistogram creates an empty histogram
func NewRequestHistogram() *RequestHistogram {
	return &RequestHistogram{
		buckets: make(map[string]*bucket),
	}
}

// Add records a request duration
func (r *RequestHistogram) Add(path string, code int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%d;%s", code, path)

	b, exists := r.buckets[key]
	if !exists {
		b = &bucket{counts: make([]int64, len(durationBuckets))}
		r.buckets[key] = b
	}

	b.count++
	b.totalDuration += duration.Seconds()

	for i, db := range durationBuckets {
		if duration <= db {
			b.counts[i]++
		}
	}
}

// WritePrometheus writes the histogram in the prometheus text format
func (r *RequestHistogram) WritePrometheus(w io.Writer, prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(w, "# TYPE %s histogram\n", prefix)

	for key, b := range r.buckets {
		code, path, ok := strings.Cut(key, ";")
		if !ok {
			continue
		}

		for i, db := range durationBuckets {
			le := strconv.FormatFloat(db.Seconds(), 'f', -1, 64)
			fmt.Fprintf(w, "%s_bucket{path=%q,code=%q,le=%q} %d\n", prefix, path, code, le, b.counts[i])
		}
		fmt.Fprintf(w, "%s_bucket{path=%q,code=%q,le=\"+Inf\"} %d\n", prefix, path, code, b.count)
		fmt.Fprintf(w, "%s_count{path=%q,code=%q} %d\n", prefix, path, code, b.count)
		fmt.Fprintf(w, "%s_sum{path=%q,code=%q} %v\n", prefix, path, code, b.totalDuration)
	}
}

func (r *RequestHistogram) String() string {
	return "{}"
}
