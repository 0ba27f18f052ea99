package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordsDecoded_IncrementsPerKey(t *testing.T) {
	RecordsDecoded.Reset()
	RecordsDecoded.WithLabelValues("GPS5").Inc()
	RecordsDecoded.WithLabelValues("GPS5").Inc()
	RecordsDecoded.WithLabelValues("GYRO").Inc()

	require.Equal(t, 2.0, testutil.ToFloat64(RecordsDecoded.WithLabelValues("GPS5")))
	require.Equal(t, 1.0, testutil.ToFloat64(RecordsDecoded.WithLabelValues("GYRO")))
}

func TestLastSessionGPSPoints_ReflectsMostRecentSet(t *testing.T) {
	LastSessionGPSPoints.Set(42)
	require.Equal(t, 42.0, testutil.ToFloat64(LastSessionGPSPoints))
	LastSessionGPSPoints.Set(7)
	require.Equal(t, 7.0, testutil.ToFloat64(LastSessionGPSPoints))
}

func TestSessionsProcessed_Counts(t *testing.T) {
	before := testutil.ToFloat64(SessionsProcessed)
	SessionsProcessed.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(SessionsProcessed))
}
