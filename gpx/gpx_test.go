package gpx

import (
	"strings"
	"testing"

	"github.com/gpmf-go/gpmf/gpmf"
	"github.com/stretchr/testify/require"
)

func TestMakeSegment_FirstOnlyEmitsOnePointPerRecord(t *testing.T) {
	records := []gpmf.GPSRecord{
		{
			Description: "GPS",
			NPoints:     3,
			Latitude:    []float64{1, 2, 3},
			Longitude:   []float64{1, 2, 3},
			Altitude:    []float64{1, 2, 3},
			Speed2D:     []float64{1, 2, 3},
			Speed3D:     []float64{1, 2, 3},
		},
	}
	seg := MakeSegment(records, true, false)
	require.Len(t, seg.Points, 1)
	require.Equal(t, 1.0, seg.Points[0].Lat)
}

func TestMakeSegment_AllPointsWhenNotFirstOnly(t *testing.T) {
	records := []gpmf.GPSRecord{
		{NPoints: 2, Latitude: []float64{1, 2}, Longitude: []float64{1, 2}, Altitude: []float64{0, 0}, Speed2D: []float64{0, 0}, Speed3D: []float64{0, 0}},
	}
	seg := MakeSegment(records, false, false)
	require.Len(t, seg.Points, 2)
}

func TestFinalize_WritesValidXMLDeclarationAndTrkpt(t *testing.T) {
	seg := Segment{Name: "Track"}
	seg.AddPoint(Point{Lat: 44.1, Lon: 5.4, Alt: 800, Fix: 3})
	var buf strings.Builder
	require.NoError(t, seg.Finalize(&buf, "gpmf-go"))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\""))
	require.Contains(t, out, "<trkpt lat=\"44.1000000\" lon=\"5.4000000\">")
	require.Contains(t, out, "<fix>3d</fix>")
}

func TestFinalize_SpeedsAsExtensions(t *testing.T) {
	seg := Segment{SpeedsAsExtensions: true}
	seg.AddPoint(Point{Speed2D: 9.2, Speed3D: 10.1})
	var buf strings.Builder
	require.NoError(t, seg.Finalize(&buf, "gpmf-go"))
	out := buf.String()
	require.Contains(t, out, "<extensions>")
	require.Contains(t, out, "<speed_2d>9.200</speed_2d>")
	require.NotContains(t, out, "<speed>")
}

func TestXMLEscape_AllSpecialChars(t *testing.T) {
	require.Equal(t, "A &amp; B &lt;C&gt; &quot;D&quot;", xmlEscape(`A & B <C> "D"`))
}
