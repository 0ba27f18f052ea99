package gpmf

import (
	"encoding/binary"
	"fmt"
)

// CreateSample truncates buf to the first maxDevices top-level DEVC
// containers (inclusive), returning a byte-exact prefix that is itself a
// valid GPMF stream. This mirrors a sample RKD file truncated to its first
// N GPS fixes — trimming a large telemetry capture down to a small fixture
// without re-encoding any record.
func CreateSample(buf []byte, maxDevices int) ([]byte, int, error) {
	if maxDevices <= 0 {
		return nil, 0, fmt.Errorf("gpmf: maxDevices must be positive, got %d", maxDevices)
	}

	cursor := 0
	devices := 0
	for {
		if len(buf)-cursor < 8 || isZeroKey(buf[cursor:cursor+4]) {
			break
		}
		key := Key(buf[cursor : cursor+4])
		elemSize := buf[cursor+5]
		repeat := binary.BigEndian.Uint16(buf[cursor+6 : cursor+8])
		total := 8 + padTo4(int(elemSize)*int(repeat))
		if cursor+total > len(buf) {
			break
		}
		cursor += total
		if key == KeyDEVC {
			devices++
			if devices >= maxDevices {
				break
			}
		}
	}

	return buf[:cursor], devices, nil
}
