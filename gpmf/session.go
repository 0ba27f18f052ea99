package gpmf

import (
	"fmt"

	"github.com/google/uuid"
)

// imuDataKeys and gpsDataKeys partition the stream data keys MaterializeGPS
// and MaterializeIMU each claim, so ParseSession knows which materializer
// to run against a given joined block.
var (
	gpsDataKeys = []Key{KeyGPS5, KeyGPS9}
	imuDataKeys = []Key{KeyGYRO, KeyACCL}
	allDataKeys = append(append([]Key{}, gpsDataKeys...), imuDataKeys...)
)

// Device is one DEVC container's worth of materialized telemetry: a camera
// or other GPMF source identified by DVNM/DVID, with its GPS and IMU
// streams joined and materialized.
type Device struct {
	Name string
	ID   uint32
	GPS  []GPSRecord
	IMU  []IMURecord
}

// Session is the result of running the full pipeline — scan, join,
// materialize — over one concatenated GPMF byte stream. ID correlates a
// session across log lines and, when persisted, store rows; it carries no
// meaning inside the GPMF wire format itself.
type Session struct {
	ID      uuid.UUID
	Devices []Device

	// RecordCounts tallies every fourcc key encountered anywhere in the
	// stream, container or leaf, for the session summary printer.
	RecordCounts map[Key]int
}

// ParseSession scans buf end to end: every top-level DEVC container becomes
// one Device, every STRM inside it is joined and materialized into GPS
// and/or IMU records. Non-DEVC top-level records (padding aside) are
// counted but otherwise ignored.
func ParseSession(buf []byte, opts Options) (Session, error) {
	session := Session{
		ID:           uuid.New(),
		RecordCounts: make(map[Key]int),
	}

	for rec, err := range Records(buf, opts) {
		if err != nil {
			return session, err
		}
		session.RecordCounts[rec.Key]++
		if rec.IsContainer() {
			if err := countRecords(rec.Payload, opts, session.RecordCounts); err != nil {
				return session, err
			}
		}
		if rec.Key != KeyDEVC || !rec.IsContainer() {
			continue
		}

		device, err := parseDevice(rec.Payload, opts)
		if err != nil {
			return session, err
		}
		session.Devices = append(session.Devices, device)
	}

	return session, nil
}

func countRecords(buf []byte, opts Options, counts map[Key]int) error {
	for rec, err := range Records(buf, opts) {
		if err != nil {
			return err
		}
		counts[rec.Key]++
		if rec.IsContainer() {
			if err := countRecords(rec.Payload, opts, counts); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseDevice(buf []byte, opts Options) (Device, error) {
	device := Device{Name: optionalStringAt(buf, opts, KeyDVNM, "")}
	if idRec, ok := findDirect(buf, opts, KeyDVID); ok {
		if v, err := idRec.Decode(); err == nil {
			device.ID = uint32(scalarOf(v))
		}
	}

	for block, err := range IterStreamBlocks(buf, allDataKeys, opts) {
		if err != nil {
			return device, err
		}
		if block.HasAny(gpsDataKeys) {
			g, err := MaterializeGPS(block)
			if err != nil {
				return device, fmt.Errorf("gpmf: materializing GPS stream: %w", err)
			}
			device.GPS = append(device.GPS, g)
		}
		if block.HasAny(imuDataKeys) {
			m, err := MaterializeIMU(block)
			if err != nil {
				return device, fmt.Errorf("gpmf: materializing IMU stream: %w", err)
			}
			device.IMU = append(device.IMU, m)
		}
	}
	return device, nil
}

// findDirect returns the first direct child of buf matching key, without
// descending into containers.
func findDirect(buf []byte, opts Options, key Key) (Record, bool) {
	for rec, err := range Records(buf, opts) {
		if err != nil {
			return Record{}, false
		}
		if rec.Key == key {
			return rec, true
		}
	}
	return Record{}, false
}

func optionalStringAt(buf []byte, opts Options, key Key, fallback string) string {
	rec, ok := findDirect(buf, opts, key)
	if !ok {
		return fallback
	}
	v, err := rec.Decode()
	if err != nil {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

// TotalGPSPoints sums NPoints across every GPS record on every device.
func (s Session) TotalGPSPoints() int {
	n := 0
	for _, d := range s.Devices {
		for _, g := range d.GPS {
			n += g.NPoints
		}
	}
	return n
}

// TotalIMUPoints sums NPoints across every IMU record on every device.
func (s Session) TotalIMUPoints() int {
	n := 0
	for _, d := range s.Devices {
		for _, m := range d.IMU {
			n += m.NPoints
		}
	}
	return n
}
