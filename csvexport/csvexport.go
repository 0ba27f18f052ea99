// Package csvexport overlays a session's GPS and IMU streams into one
// interpolated CSV, the way rkd/export.go's ExportCSV overlays GPS fixes
// onto IMU frames at the IMU's native rate. GPMF has no shared per-sample
// frame counter across streams the way RKD does, so this package
// interpolates GPS across the IMU's sample index proportionally instead of
// by frame number.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gpmf-go/gpmf/gpmf"
)

// Lerp performs linear interpolation between a and b at parameter t in
// [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

type gpsSample struct {
	lat, lon, alt, speed2d, speed3d float64
}

type imuSample struct {
	x, y, z float64
}

func flattenGPS(records []gpmf.GPSRecord) []gpsSample {
	var out []gpsSample
	for _, r := range records {
		for i := 0; i < r.NPoints; i++ {
			out = append(out, gpsSample{r.Latitude[i], r.Longitude[i], r.Altitude[i], r.Speed2D[i], r.Speed3D[i]})
		}
	}
	return out
}

func flattenIMU(records []gpmf.IMURecord) []imuSample {
	var out []imuSample
	for _, r := range records {
		for i := 0; i < r.NPoints; i++ {
			out = append(out, imuSample{r.X[i], r.Y[i], r.Z[i]})
		}
	}
	return out
}

func interpolateGPS(gps []gpsSample, t float64) gpsSample {
	if len(gps) == 1 {
		return gps[0]
	}
	pos := t * float64(len(gps)-1)
	i0 := int(pos)
	if i0 >= len(gps)-1 {
		return gps[len(gps)-1]
	}
	frac := pos - float64(i0)
	a, b := gps[i0], gps[i0+1]
	return gpsSample{
		lat:     Lerp(a.lat, b.lat, frac),
		lon:     Lerp(a.lon, b.lon, frac),
		alt:     Lerp(a.alt, b.alt, frac),
		speed2d: Lerp(a.speed2d, b.speed2d, frac),
		speed3d: Lerp(a.speed3d, b.speed3d, frac),
	}
}

// Write overlays gps onto imu's sample rate and writes the joined rows as
// CSV to w. It returns the number of data rows written. If either stream is
// empty, it writes nothing and returns 0 rows, mirroring rkd/export.go's
// early-return-with-no-file behavior for an empty session — here expressed
// as "write nothing" since the caller owns the destination file.
func Write(w io.Writer, gps []gpmf.GPSRecord, imu []gpmf.IMURecord) (int, error) {
	flatGPS := flattenGPS(gps)
	flatIMU := flattenIMU(imu)
	if len(flatGPS) == 0 || len(flatIMU) == 0 {
		return 0, nil
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	columns := []string{
		"lat (deg)", "lon (deg)", "alt (m)",
		"speed_2d (m/s)", "speed_3d (m/s)",
		"x", "y", "z",
	}
	if err := cw.Write(columns); err != nil {
		return 0, err
	}

	rows := 0
	for i, sample := range flatIMU {
		t := 0.0
		if len(flatIMU) > 1 {
			t = float64(i) / float64(len(flatIMU)-1)
		}
		g := interpolateGPS(flatGPS, t)
		row := []string{
			fmt.Sprintf("%.7f", g.lat),
			fmt.Sprintf("%.7f", g.lon),
			fmt.Sprintf("%.3f", g.alt),
			fmt.Sprintf("%.3f", g.speed2d),
			fmt.Sprintf("%.3f", g.speed3d),
			fmt.Sprintf("%.4f", sample.x),
			fmt.Sprintf("%.4f", sample.y),
			fmt.Sprintf("%.4f", sample.z),
		}
		if err := cw.Write(row); err != nil {
			return rows, err
		}
		rows++
	}

	cw.Flush()
	return rows, cw.Error()
}
