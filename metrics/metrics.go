// Package metrics exposes counters and gauges for GPMF decoding activity
// via promauto, the pattern natesales-gpsd-exporter uses to register its
// gpsd_last_poll gauge and friends at package init and serve them with
// promhttp.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecordsDecoded counts every KLV record the scanner yields, labeled by
	// fourcc key.
	RecordsDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpmf_records_decoded_total",
		Help: "Number of KLV records decoded, by fourcc key",
	}, []string{"key"})

	// DecodeErrors counts fatal decode errors, labeled by sentinel error
	// name (e.g. "ErrTruncatedRecord", "ErrUnknownType").
	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpmf_decode_errors_total",
		Help: "Number of fatal decode errors, by error kind",
	}, []string{"kind"})

	// Warnings counts non-fatal decode warnings (e.g. out-of-range GPS
	// fixes), labeled by warning kind.
	Warnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpmf_warnings_total",
		Help: "Number of non-fatal decode warnings, by warning kind",
	}, []string{"kind"})

	// StreamBlocksJoined counts STRM blocks joined into a GPS or IMU
	// record, labeled by stream kind.
	StreamBlocksJoined = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpmf_stream_blocks_joined_total",
		Help: "Number of STRM blocks materialized into a record, by stream kind",
	}, []string{"kind"})

	// SessionsProcessed counts completed ParseSession calls.
	SessionsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gpmf_sessions_processed_total",
		Help: "Number of sessions successfully parsed",
	})

	// LastSessionGPSPoints reports the GPS point count of the most
	// recently parsed session.
	LastSessionGPSPoints = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gpmf_last_session_gps_points",
		Help: "Total GPS points in the most recently parsed session",
	})

	// LastSessionIMUPoints reports the IMU point count of the most
	// recently parsed session.
	LastSessionIMUPoints = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gpmf_last_session_imu_points",
		Help: "Total IMU points in the most recently parsed session",
	})
)

// Serve starts an HTTP server exposing the registered metrics at /metrics
// on addr. It blocks until the server stops or errors.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
