package gpmf

import (
	"encoding/binary"
)

// buildRecord wire-encodes one KLV record: 4-byte key, type, element_size,
// big-endian repeat, payload padded to a multiple of 4.
func buildRecord(key string, code TypeCode, elementSize uint8, repeat uint16, payload []byte) []byte {
	header := make([]byte, 8)
	copy(header[0:4], key)
	header[4] = byte(code)
	header[5] = elementSize
	binary.BigEndian.PutUint16(header[6:8], repeat)

	out := append(header, payload...)
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out
}

func buildContainer(key string, children ...[]byte) []byte {
	var payload []byte
	for _, c := range children {
		payload = append(payload, c...)
	}
	return buildRecord(key, TypeNest, 1, uint16(len(payload)), payload)
}

func int32be(vals ...int32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(out[i*4:i*4+4], uint32(v))
	}
	return out
}

// gps5Row lays out one GPS5 sample row (5 int32 columns, big-endian).
func gps5Row(cols ...int32) []byte {
	return int32be(cols...)
}

func scalRecord(key string, divisors ...int32) []byte {
	return buildRecord(key, TypeInt32, 4, uint16(len(divisors)), int32be(divisors...))
}
