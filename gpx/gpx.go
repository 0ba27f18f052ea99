// Package gpx renders materialized GPS records as GPX 1.1 track files. It
// is kept deliberately outside the gpmf package so the core never imports
// an XML writer. The writer itself is a manual Fprintf-based implementation
// in the style of rkd's writeGPXContent, not a generic XML marshaler.
package gpx

import (
	"fmt"
	"io"
	"strings"

	"github.com/gpmf-go/gpmf/gpmf"
)

// Point is one trackpoint accepted by Segment.AddPoint.
type Point struct {
	Lat, Lon  float64
	Alt       float64
	Time      string
	Speed2D   float64
	Speed3D   float64
	Precision float64
	Fix       int
}

// Segment accumulates points and renders them as a GPX 1.1 <trkseg> on
// Finalize.
type Segment struct {
	Name   string
	Desc   string
	Points []Point

	// SpeedsAsExtensions controls whether Finalize places speed_2d/speed_3d
	// in the GPX <extensions> slot (true) or in native <speed> elements
	// (false) — make_segment's speeds_as_extensions parameter.
	SpeedsAsExtensions bool
}

// AddPoint appends one point to the segment.
func (s *Segment) AddPoint(p Point) {
	s.Points = append(s.Points, p)
}

// MakeSegment composes materialized GPS records into a segment. With
// firstOnly, only the first sample of each record is emitted — useful when
// a single representative point per stream is wanted.
func MakeSegment(records []gpmf.GPSRecord, firstOnly, speedsAsExtensions bool) Segment {
	seg := Segment{SpeedsAsExtensions: speedsAsExtensions}
	for _, r := range records {
		if seg.Name == "" {
			seg.Name = r.Description
		}
		n := r.NPoints
		if firstOnly && n > 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			seg.AddPoint(Point{
				Lat:       r.Latitude[i],
				Lon:       r.Longitude[i],
				Alt:       r.Altitude[i],
				Time:      r.Timestamp,
				Speed2D:   r.Speed2D[i],
				Speed3D:   r.Speed3D[i],
				Precision: r.Precision,
				Fix:       r.Fix,
			})
		}
	}
	return seg
}

// Finalize writes the segment as a complete GPX 1.1 document to w.
func (s Segment) Finalize(w io.Writer, creator string) error {
	name := s.Name
	if name == "" {
		name = "GPMF Track"
	}

	fmt.Fprint(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(w, "<gpx version=\"1.1\" creator=%q\n", creator)
	fmt.Fprint(w, "     xmlns=\"http://www.topografix.com/GPX/1/1\"\n")
	fmt.Fprint(w, "     xmlns:xsi=\"http://www.w3.org/2001/XMLSchema-instance\"\n")
	fmt.Fprint(w, "     xsi:schemaLocation=\"http://www.topografix.com/GPX/1/1 ")
	fmt.Fprint(w, "http://www.topografix.com/GPX/1/1/gpx.xsd\">\n")
	fmt.Fprintf(w, "  <metadata>\n    <name>%s</name>\n", xmlEscape(name))
	if s.Desc != "" {
		fmt.Fprintf(w, "    <desc>%s</desc>\n", xmlEscape(s.Desc))
	}
	fmt.Fprint(w, "  </metadata>\n")
	fmt.Fprint(w, "  <trk>\n")
	fmt.Fprintf(w, "    <name>%s</name>\n", xmlEscape(name))
	fmt.Fprint(w, "    <trkseg>\n")

	for _, p := range s.Points {
		fmt.Fprintf(w, "      <trkpt lat=\"%.7f\" lon=\"%.7f\">\n", p.Lat, p.Lon)
		fmt.Fprintf(w, "        <ele>%.3f</ele>\n", p.Alt)
		if p.Time != "" {
			fmt.Fprintf(w, "        <time>%s</time>\n", xmlEscape(p.Time))
		}
		fmt.Fprintf(w, "        <fix>%s</fix>\n", fixLabel(p.Fix))
		if !s.SpeedsAsExtensions {
			fmt.Fprintf(w, "        <speed>%.3f</speed>\n", p.Speed2D)
		} else {
			fmt.Fprint(w, "        <extensions>\n")
			fmt.Fprintf(w, "          <speed_2d>%.3f</speed_2d>\n", p.Speed2D)
			fmt.Fprintf(w, "          <speed_3d>%.3f</speed_3d>\n", p.Speed3D)
			fmt.Fprintf(w, "          <precision>%.2f</precision>\n", p.Precision)
			fmt.Fprint(w, "        </extensions>\n")
		}
		fmt.Fprint(w, "      </trkpt>\n")
	}

	fmt.Fprint(w, "    </trkseg>\n  </trk>\n</gpx>\n")
	return nil
}

func fixLabel(fix int) string {
	switch fix {
	case 2:
		return "2d"
	case 3:
		return "3d"
	default:
		return "none"
	}
}

func xmlEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
