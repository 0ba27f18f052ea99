package gpmf

import (
	"fmt"
	"math"
)

// GPSRecord is the typed, scaled record produced by MaterializeGPS.
type GPSRecord struct {
	Description string
	Timestamp   string
	Precision   float64
	Fix         int

	Latitude  []float64
	Longitude []float64
	Altitude  []float64
	Speed2D   []float64
	Speed3D   []float64

	Units   string
	NPoints int

	// Warnings accumulates non-fatal ErrOutOfRange findings: a bad fix
	// does not fail materialization, it is surfaced alongside the data.
	Warnings []error
}

// gpsColumns is the legacy GPS5/GPS9 column layout this materializer
// surfaces: lat, lon, alt, speed_2d, speed_3d, in that order, always the
// first five columns of either tuple width.
const gpsColumns = 5

// MaterializeGPS prefers GPS9 over GPS5 when a block contains both, and
// surfaces only the first five columns regardless of source width — the
// GPS9 extension columns (days-since-2000, seconds-since-midnight, DOP,
// per-sample fix) are intentionally dropped here for compatibility with
// the GPS5 contract; see MaterializeGPS9Extended for the fuller view.
func MaterializeGPS(block Block) (GPSRecord, error) {
	src, ok := Key(""), false
	if _, present := block[KeyGPS9]; present {
		src, ok = KeyGPS9, true
	} else if _, present := block[KeyGPS5]; present {
		src, ok = KeyGPS5, true
	}
	if !ok {
		return GPSRecord{}, ErrNoGPS
	}

	rawVal, err := block[src].Decode()
	if err != nil {
		return GPSRecord{}, fmt.Errorf("gpmf: decoding %s: %w", src, err)
	}
	raw, err := toMatrix(rawVal)
	if err != nil {
		return GPSRecord{}, err
	}

	scalRec, ok := block[KeySCAL]
	if !ok {
		return GPSRecord{}, ErrMissingScale
	}
	scalVal, err := scalRec.Decode()
	if err != nil {
		return GPSRecord{}, fmt.Errorf("gpmf: decoding SCAL: %w", err)
	}
	scal, ok := scalVal.([]float64)
	if !ok {
		return GPSRecord{}, fmt.Errorf("%w: SCAL decoded as %T, not a flat vector", ErrShapeMismatch, scalVal)
	}

	n := len(raw)
	if n > 0 && len(raw[0]) != len(scal) {
		return GPSRecord{}, fmt.Errorf("%w: %s width %d != SCAL length %d", ErrShapeMismatch, src, len(raw[0]), len(scal))
	}
	if len(scal) < gpsColumns {
		return GPSRecord{}, fmt.Errorf("%w: SCAL length %d smaller than %d required GPS columns", ErrShapeMismatch, len(scal), gpsColumns)
	}

	precision := math.NaN()
	if _, present := block[KeyGPSP]; present {
		precision = optionalFloat(block, KeyGPSP, 0) / 100
	}

	rec := GPSRecord{
		Description: optionalString(block, KeySTNM, "GPS"),
		Timestamp:   optionalString(block, KeyGPSU, ""),
		Precision:   precision,
		Fix:         optionalInt(block, KeyGPSF, 0),
		Units:       optionalString(block, KeyUNIT, ""),
		NPoints:     n,
		Latitude:    make([]float64, n),
		Longitude:   make([]float64, n),
		Altitude:    make([]float64, n),
		Speed2D:     make([]float64, n),
		Speed3D:     make([]float64, n),
	}

	for i, row := range raw {
		lat := row[0] / scal[0]
		lon := row[1] / scal[1]
		rec.Latitude[i] = lat
		rec.Longitude[i] = lon
		rec.Altitude[i] = row[2] / scal[2]
		rec.Speed2D[i] = row[3] / scal[3]
		rec.Speed3D[i] = row[4] / scal[4]

		if rec.Fix >= 2 {
			if lat < -90 || lat > 90 {
				rec.Warnings = append(rec.Warnings, fmt.Errorf("%w: latitude %f at sample %d", ErrOutOfRange, lat, i))
			}
			if lon < -180 || lon > 180 {
				rec.Warnings = append(rec.Warnings, fmt.Errorf("%w: longitude %f at sample %d", ErrOutOfRange, lon, i))
			}
		}
	}

	return rec, nil
}

// GPS9ExtendedRecord exposes the per-sample fields GPS9 carries beyond the
// GPS5 contract, alongside the legacy materializer's output. It is not the
// default materialization and nothing in this package calls it implicitly.
type GPS9ExtendedRecord struct {
	GPSRecord

	// DaysSince2000 and SecondsSinceMidnight give a per-sample timestamp,
	// one entry per point, present only when the source was GPS9.
	DaysSince2000        []float64
	SecondsSinceMidnight []float64
	DOP                  []float64
	SampleFix            []int
}

// MaterializeGPS9Extended is MaterializeGPS plus columns 5–8 of a GPS9
// block. It fails with ErrNoGPS if the block has no GPS9 record — unlike
// MaterializeGPS it does not fall back to GPS5, since GPS5 has no extended
// columns to report.
func MaterializeGPS9Extended(block Block) (GPS9ExtendedRecord, error) {
	if _, ok := block[KeyGPS9]; !ok {
		return GPS9ExtendedRecord{}, ErrNoGPS
	}
	base, err := MaterializeGPS(block)
	if err != nil {
		return GPS9ExtendedRecord{}, err
	}

	rawVal, err := block[KeyGPS9].Decode()
	if err != nil {
		return GPS9ExtendedRecord{}, fmt.Errorf("gpmf: decoding GPS9: %w", err)
	}
	raw, err := toMatrix(rawVal)
	if err != nil {
		return GPS9ExtendedRecord{}, err
	}
	scalVal, err := block[KeySCAL].Decode()
	if err != nil {
		return GPS9ExtendedRecord{}, fmt.Errorf("gpmf: decoding SCAL: %w", err)
	}
	scal, ok := scalVal.([]float64)
	if !ok || len(scal) < 9 {
		return GPS9ExtendedRecord{}, fmt.Errorf("%w: GPS9 requires a 9-entry SCAL, got %v", ErrShapeMismatch, scalVal)
	}

	ext := GPS9ExtendedRecord{GPSRecord: base}
	n := len(raw)
	ext.DaysSince2000 = make([]float64, n)
	ext.SecondsSinceMidnight = make([]float64, n)
	ext.DOP = make([]float64, n)
	ext.SampleFix = make([]int, n)
	for i, row := range raw {
		ext.DaysSince2000[i] = row[5] / scal[5]
		ext.SecondsSinceMidnight[i] = row[6] / scal[6]
		ext.DOP[i] = row[7] / scal[7]
		ext.SampleFix[i] = int(row[8] / scal[8])
	}
	return ext, nil
}
