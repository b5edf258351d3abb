// Package metrics provides Prometheus metrics for the ftptube server.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftptube_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ftptube_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// FTP metrics
	ftpOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftptube_ftp_operations_total",
			Help: "Total FTP operations by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	ftpBytesTransferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftptube_ftp_bytes_total",
			Help: "Bytes transferred to and from FTP servers",
		},
		[]string{"direction"},
	)

	ftpUploadsByType = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftptube_ftp_uploads_by_type_total",
			Help: "Uploaded files by detected MIME type",
		},
		[]string{"mime"},
	)

	// YouTube Data API metrics
	youtubeCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftptube_youtube_api_calls_total",
			Help: "Total YouTube Data API calls by endpoint and outcome",
		},
		[]string{"endpoint", "status"},
	)

	youtubeShortsFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ftptube_youtube_shorts_dropped_total",
			Help: "Channels dropped from short-comments results",
		},
	)

	sessionsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ftptube_sessions_swept_total",
			Help: "Expired sessions removed by the sweeper",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordFTPOperation records the outcome of one FTP operation.
func RecordFTPOperation(operation string, err error) {
	ftpOperationsTotal.WithLabelValues(operation, status(err)).Inc()
}

// RecordFTPDownload records bytes read from an FTP server.
func RecordFTPDownload(bytes int) {
	ftpBytesTransferred.WithLabelValues("download").Add(float64(bytes))
}

// RecordFTPUpload records bytes written to an FTP server.
func RecordFTPUpload(mime string, bytes int) {
	ftpBytesTransferred.WithLabelValues("upload").Add(float64(bytes))
	ftpUploadsByType.WithLabelValues(mime).Inc()
}

// RecordYouTubeCall records one YouTube Data API call.
func RecordYouTubeCall(endpoint string, err error) {
	youtubeCallsTotal.WithLabelValues(endpoint, status(err)).Inc()
}

// RecordShortDropped records a channel removed from a short-comments batch.
func RecordShortDropped() {
	youtubeShortsFiltered.Inc()
}

// RecordSessionsSwept records sessions removed by a sweep.
func RecordSessionsSwept(n int) {
	sessionsSwept.Add(float64(n))
}

// RegisterSessionGauge makes fn the source of the ftptube_sessions gauge.
// The gauge is registered once; later calls replace the function it reads.
func RegisterSessionGauge(fn func() float64) {
	sessionCount.Lock()
	sessionCount.fn = fn
	sessionCount.Unlock()

	sessionGaugeOnce.Do(func() {
		promauto.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ftptube_sessions",
				Help: "Number of FTP sessions held by the store",
			},
			readSessionCount,
		)
	})
}

var (
	sessionGaugeOnce sync.Once
	sessionCount     struct {
		sync.Mutex
		fn func() float64
	}
)

func readSessionCount() float64 {
	sessionCount.Lock()
	fn := sessionCount.fn
	sessionCount.Unlock()
	if fn == nil {
		return 0
	}
	return fn()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
