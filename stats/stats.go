// Package stats computes summary statistics over a session's GPS track,
// the Go-native equivalent of example_gps_stats.py's min/max/avg report,
// extended with standard deviation and median the way banshee's
// aggregation pipeline reports speed percentiles.
package stats

import (
	"sort"

	"github.com/gpmf-go/gpmf/gpmf"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds min/max/mean/stddev for one measured quantity.
type Summary struct {
	Min, Max, Mean, StdDev, Median float64
	N                              int
}

func summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mean, stddev := stat.MeanStdDev(values, nil)
	return Summary{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: stddev,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		N:      len(values),
	}
}

// TrackStats is the summary over an entire GPS track: every sample from
// every GPSRecord passed to Summarize, pooled together.
type TrackStats struct {
	TotalPoints int
	Latitude    Summary
	Longitude   Summary
	Altitude    Summary
	Speed2D     Summary
	Speed3D     Summary
}

// Summarize pools the samples across all records and computes TrackStats.
// It returns gpmf.ErrNoGPS if records is empty.
func Summarize(records []gpmf.GPSRecord) (TrackStats, error) {
	if len(records) == 0 {
		return TrackStats{}, gpmf.ErrNoGPS
	}

	var lat, lon, alt, s2, s3 []float64
	total := 0
	for _, r := range records {
		lat = append(lat, r.Latitude...)
		lon = append(lon, r.Longitude...)
		alt = append(alt, r.Altitude...)
		s2 = append(s2, r.Speed2D...)
		s3 = append(s3, r.Speed3D...)
		total += r.NPoints
	}

	return TrackStats{
		TotalPoints: total,
		Latitude:    summarize(lat),
		Longitude:   summarize(lon),
		Altitude:    summarize(alt),
		Speed2D:     summarize(s2),
		Speed3D:     summarize(s3),
	}, nil
}
