package gpmf

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PrintSessionInfo writes a human-readable summary of a parsed session to w.
func PrintSessionInfo(w io.Writer, session Session) {
	sep := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  GPMF Session: %s\n", session.ID)
	fmt.Fprintf(w, "%s\n", sep)
	fmt.Fprintf(w, "  Devices:        %d\n", len(session.Devices))

	fmt.Fprintf(w, "\n  Record counts:\n")
	keys := make([]string, 0, len(session.RecordCounts))
	keyByLabel := make(map[string]Key, len(session.RecordCounts))
	for k := range session.RecordCounts {
		label := k.Name()
		keys = append(keys, label)
		keyByLabel[label] = k
	}
	sort.Strings(keys)
	for _, label := range keys {
		k := keyByLabel[label]
		fmt.Fprintf(w, "    %-22s (%s): %s\n", label, string(k), formatInt(session.RecordCounts[k]))
	}

	for i, d := range session.Devices {
		fmt.Fprintf(w, "\n  Device %d: %s\n", i, deviceLabel(d))
		if len(d.GPS) > 0 {
			printGPSSummary(w, d.GPS)
		}
		if len(d.IMU) > 0 {
			printIMUSummary(w, d.IMU)
		}
	}

	fmt.Fprintf(w, "%s\n\n", sep)
}

func deviceLabel(d Device) string {
	if d.Name == "" {
		return fmt.Sprintf("(unnamed, id=%d)", d.ID)
	}
	return fmt.Sprintf("%s (id=%d)", d.Name, d.ID)
}

func printGPSSummary(w io.Writer, records []GPSRecord) {
	n := 0
	for _, g := range records {
		n += g.NPoints
	}
	fmt.Fprintf(w, "    GPS data:\n")
	fmt.Fprintf(w, "      Streams:    %s\n", formatInt(len(records)))
	fmt.Fprintf(w, "      Points:     %s\n", formatInt(n))

	first := true
	var minLat, maxLat, minLon, maxLon, minAlt, maxAlt float64
	for _, g := range records {
		for i := range g.Latitude {
			lat, lon, alt := g.Latitude[i], g.Longitude[i], g.Altitude[i]
			if first {
				minLat, maxLat = lat, lat
				minLon, maxLon = lon, lon
				minAlt, maxAlt = alt, alt
				first = false
				continue
			}
			minLat, maxLat = minFloat(minLat, lat), maxFloat(maxLat, lat)
			minLon, maxLon = minFloat(minLon, lon), maxFloat(maxLon, lon)
			minAlt, maxAlt = minFloat(minAlt, alt), maxFloat(maxAlt, alt)
		}
	}
	if !first {
		fmt.Fprintf(w, "      Lat range:  %.7f .. %.7f\n", minLat, maxLat)
		fmt.Fprintf(w, "      Lon range:  %.7f .. %.7f\n", minLon, maxLon)
		fmt.Fprintf(w, "      Alt range:  %.1f .. %.1f m\n", minAlt, maxAlt)
	}

	warnings := 0
	for _, g := range records {
		warnings += len(g.Warnings)
	}
	if warnings > 0 {
		fmt.Fprintf(w, "      Warnings:   %d out-of-range fixes\n", warnings)
	}
}

func printIMUSummary(w io.Writer, records []IMURecord) {
	n := 0
	for _, m := range records {
		n += m.NPoints
	}
	fmt.Fprintf(w, "    IMU data:\n")
	fmt.Fprintf(w, "      Streams:    %s\n", formatInt(len(records)))
	fmt.Fprintf(w, "      Samples:    %s\n", formatInt(n))
	if len(records) > 0 {
		fmt.Fprintf(w, "      Units:      %s\n", records[0].Units)
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func formatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
