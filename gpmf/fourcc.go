package gpmf

import "github.com/samber/lo"

// Key is a 4-byte ASCII fourcc identifier used as a KLV record key, e.g.
// "GPS5", "STRM", "SCAL".
type Key string

// Structural and metadata keys referenced throughout the scanner, joiner,
// and materializers. Camera-generation-specific data keys (GPS5, GPS9,
// GYRO, ACCL, ...) are not enumerated exhaustively — any fourcc can appear
// as a data key, the joiner only special-cases the ones below.
const (
	KeyDEVC Key = "DEVC"
	KeySTRM Key = "STRM"
	KeyTYPE Key = "TYPE"

	KeyGPS5 Key = "GPS5"
	KeyGPS9 Key = "GPS9"
	KeyGYRO Key = "GYRO"
	KeyACCL Key = "ACCL"

	KeySCAL Key = "SCAL"
	KeySTNM Key = "STNM"
	KeyUNIT Key = "UNIT"
	KeyGPSU Key = "GPSU"
	KeyGPSP Key = "GPSP"
	KeyGPSF Key = "GPSF"
	KeyTMPC Key = "TMPC"
	KeyDVNM Key = "DVNM"
	KeyDVID Key = "DVID"
)

// names maps the well-known structural/metadata keys to a human-readable
// label, used by the session summary printer. labelsByKey inverts it for
// reverse lookups (mirrors InvSubRecordNames in sixy6e/go-gsf's decode.go).
var names = map[Key]string{
	KeyDEVC: "Device",
	KeySTRM: "Stream",
	KeyTYPE: "Type Descriptor",
	KeyGPS5: "GPS (5-tuple)",
	KeyGPS9: "GPS (9-tuple)",
	KeyGYRO: "Gyroscope",
	KeyACCL: "Accelerometer",
	KeySCAL: "Scale",
	KeySTNM: "Stream Name",
	KeyUNIT: "Units",
	KeyGPSU: "GPS Time",
	KeyGPSP: "GPS Precision (DOP)",
	KeyGPSF: "GPS Fix",
	KeyTMPC: "Temperature",
	KeyDVNM: "Device Name",
	KeyDVID: "Device ID",
}

var labelsByKey = lo.Invert(names)

// Name returns a human-readable label for a well-known key, or the raw
// fourcc string if the key isn't one the scanner treats specially.
func (k Key) Name() string {
	if n, ok := names[k]; ok {
		return n
	}
	return string(k)
}

// KeyByName looks up a fourcc from its human-readable label, the reverse
// of Key.Name for the well-known keys.
func KeyByName(label string) (Key, bool) {
	k, ok := labelsByKey[label]
	return k, ok
}

// isZeroKey reports whether b looks like a zero-padding fourcc: its first byte
// is 0x00. Spec §3: "a key whose first byte is zero marks end-of-stream
// padding".
func isZeroKey(b []byte) bool {
	return len(b) > 0 && b[0] == 0
}
