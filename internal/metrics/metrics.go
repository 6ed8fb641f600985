// Package metrics exports terrain engine counters to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "planet_terrain"
	faceLabel = "face"
)

var (
	generationRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_requests_total",
		Help:      "The total number of patch mesh generations submitted.",
	})

	generationCancellations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_cancellations_total",
		Help:      "The total number of in-flight generations cancelled before publishing.",
	})

	generationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_failures_total",
		Help:      "The total number of generations that failed in the sampler.",
	})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Time spent building one patch mesh on a worker.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	uploads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "The total number of patch meshes uploaded to the renderer.",
	})

	uploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_failures_total",
		Help:      "The total number of failed patch uploads.",
	})

	splits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "splits_total",
		Help:      "The total number of node splits.",
	}, []string{faceLabel})

	merges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "merges_total",
		Help:      "The total number of node unsplits.",
	}, []string{faceLabel})

	liveNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_nodes",
		Help:      "The number of quadtree nodes currently alive.",
	})

	patchesDrawn = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "patches_drawn",
		Help:      "The number of patches drawn in the last frame.",
	})

	patchesCulled = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "patches_culled",
		Help:      "The number of patches rejected by the horizon test in the last frame.",
	})
)

func GenerationRequested() {
	generationRequests.Inc()
}

func GenerationCancelled() {
	generationCancellations.Inc()
}

func GenerationFailed() {
	generationFailures.Inc()
}

// GenerationCompleted records how long a successful build took.
func GenerationCompleted(d time.Duration) {
	generationDuration.Observe(d.Seconds())
}

func UploadCompleted() {
	uploads.Inc()
}

func UploadFailed() {
	uploadFailures.Inc()
}

func Split(face string) {
	splits.With(prometheus.Labels{faceLabel: face}).Inc()
}

func Merge(face string) {
	merges.With(prometheus.Labels{faceLabel: face}).Inc()
}

func SetLiveNodes(n int) {
	liveNodes.Set(float64(n))
}

// SetFrame publishes the draw counters of the last frame.
func SetFrame(drawn, culled int) {
	patchesDrawn.Set(float64(drawn))
	patchesCulled.Set(float64(culled))
}

// RegisterGaugeFunc exports a value polled at scrape time. Registering the
// same name twice is not an error.
func RegisterGaugeFunc(name, help string, fn func() float64) error {
	g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn)
	if err := prometheus.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// Serve exposes /metrics on addr in the background. The caller shuts the
// returned server down.
func Serve(addr string, onError func(error)) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && onError != nil {
			onError(err)
		}
	}()
	return srv
}
