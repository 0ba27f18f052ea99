package gpmf

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodePayload decodes a single typed payload into a Go value given the
// record's (type, element_size, repeat) header fields.
//
// Returned value shapes:
//
//	'c'            -> string (trailing NULs trimmed, lossy UTF-8)
//	'U'            -> string (ISO-8601) if repeat == 1, else []string
//	'F'            -> string if repeat == 1, else []string
//	'G'            -> GUID if repeat == 1, else []GUID
//	'?'            -> []Tuple, length repeat
//	numeric 1-col  -> []float64, length repeat
//	numeric N-col  -> [][]float64, shape (repeat, element_size/primitiveSize)
//
// schema is the current complex-type schema, used only when code is
// TypeComplex; it is nil/ignored otherwise. It is always a parameter, never
// read from package state.
func DecodePayload(payload []byte, code TypeCode, elementSize uint8, repeat uint16, schema []TypeCode) (any, error) {
	switch code {
	case TypeString:
		return decodeString(payload, elementSize, repeat)
	case TypeUTCDate:
		return decodeUTC(payload, elementSize, repeat)
	case TypeFourCC:
		return decodeFourCC(payload, elementSize, repeat)
	case TypeGUID:
		return decodeGUID(payload, elementSize, repeat)
	case TypeComplex:
		return decodeComplex(payload, elementSize, repeat, schema)
	case TypeInt8, TypeUint8, TypeInt16, TypeUint16, TypeInt32, TypeUint32,
		TypeInt64, TypeUint64, TypeFloat, TypeDouble, TypeQ1516, TypeQ3132:
		return decodeNumeric(payload, code, elementSize, repeat)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, byte(code))
	}
}

func requirePayloadLen(payload []byte, elementSize uint8, repeat uint16) error {
	need := int(elementSize) * int(repeat)
	if need > len(payload) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedPayload, need, len(payload))
	}
	return nil
}

func decodeString(payload []byte, elementSize uint8, repeat uint16) (any, error) {
	if err := requirePayloadLen(payload, elementSize, repeat); err != nil {
		return nil, err
	}
	n := int(elementSize) * int(repeat)
	b := payload[:n]
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	b = b[:end]
	if !utf8.Valid(b) {
		return strings.ToValidUTF8(string(b), "�"), nil
	}
	return string(b), nil
}

// decodeUTC decodes a 16-byte ASCII "yymmddhhmmss.sss" payload into an
// ISO-8601 string "20yy-mm-ddThh:mm:ss.sss". Two-digit years are interpreted
// as 2000+yy, valid through 2099.
func decodeUTC(payload []byte, elementSize uint8, repeat uint16) (any, error) {
	if err := requirePayloadLen(payload, elementSize, repeat); err != nil {
		return nil, err
	}
	if int(elementSize) < 15 {
		return nil, fmt.Errorf("%w: U record element_size %d too small", ErrMisalignedSize, elementSize)
	}
	out := make([]string, 0, repeat)
	for i := 0; i < int(repeat); i++ {
		raw := payload[i*int(elementSize) : i*int(elementSize)+int(elementSize)]
		s, err := decodeOneUTC(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if repeat == 1 {
		return out[0], nil
	}
	return out, nil
}

func decodeOneUTC(raw []byte) (string, error) {
	s := strings.TrimRight(string(raw), "\x00")
	// yymmddhhmmss.sss — 16 ASCII bytes.
	if len(s) < 13 {
		return "", fmt.Errorf("%w: UTC field too short: %q", ErrTruncatedPayload, s)
	}
	yy, err := strconv.Atoi(s[0:2])
	if err != nil {
		return "", fmt.Errorf("gpmf: invalid UTC year %q: %w", s[0:2], err)
	}
	year := 2000 + yy
	month, day, hh, mm, ss := s[2:4], s[4:6], s[6:8], s[8:10], s[10:12]
	frac := ".000"
	if len(s) > 12 && s[12] == '.' {
		frac = s[12:]
	}
	return fmt.Sprintf("%04d-%s-%sT%s:%s:%s%s", year, month, day, hh, mm, ss, frac), nil
}

func decodeFourCC(payload []byte, elementSize uint8, repeat uint16) (any, error) {
	if err := requirePayloadLen(payload, elementSize, repeat); err != nil {
		return nil, err
	}
	sz := int(elementSize)
	if sz == 0 {
		sz = 4
	}
	out := make([]string, 0, repeat)
	for i := 0; i < int(repeat); i++ {
		out = append(out, string(payload[i*sz:i*sz+sz]))
	}
	if repeat == 1 {
		return out[0], nil
	}
	return out, nil
}

func decodeGUID(payload []byte, elementSize uint8, repeat uint16) (any, error) {
	if err := requirePayloadLen(payload, elementSize, repeat); err != nil {
		return nil, err
	}
	if elementSize%16 != 0 {
		return nil, fmt.Errorf("%w: GUID element_size %d not a multiple of 16", ErrMisalignedSize, elementSize)
	}
	out := make([]GUID, 0, repeat)
	for i := 0; i < int(repeat); i++ {
		var g GUID
		copy(g[:], payload[i*int(elementSize):i*int(elementSize)+16])
		out = append(out, g)
	}
	if repeat == 1 {
		return out[0], nil
	}
	return out, nil
}

// decodeNumeric applies the reshape rule: when element_size is a multiple
// of the primitive size and larger than it, the result is reshaped to
// (repeat, element_size/primitiveSize); otherwise it is a flat
// length-repeat sequence.
func decodeNumeric(payload []byte, code TypeCode, elementSize uint8, repeat uint16) (any, error) {
	prim, ok := primitiveSize[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, byte(code))
	}
	if repeat == 0 {
		if int(elementSize) > prim {
			return [][]float64{}, nil
		}
		return []float64{}, nil
	}
	if int(elementSize)%prim != 0 || elementSize == 0 {
		return nil, fmt.Errorf("%w: element_size %d not a multiple of primitive size %d for %q",
			ErrMisalignedSize, elementSize, prim, byte(code))
	}
	if err := requirePayloadLen(payload, elementSize, repeat); err != nil {
		return nil, err
	}
	cols := int(elementSize) / prim

	readOne := func(b []byte) float64 {
		switch code {
		case TypeInt8:
			return float64(int8(b[0]))
		case TypeUint8:
			return float64(b[0])
		case TypeInt16:
			return float64(int16(binary.BigEndian.Uint16(b)))
		case TypeUint16:
			return float64(binary.BigEndian.Uint16(b))
		case TypeInt32:
			return float64(int32(binary.BigEndian.Uint32(b)))
		case TypeUint32:
			return float64(binary.BigEndian.Uint32(b))
		case TypeInt64:
			return float64(int64(binary.BigEndian.Uint64(b)))
		case TypeUint64:
			return float64(binary.BigEndian.Uint64(b))
		case TypeFloat:
			bits := binary.BigEndian.Uint32(b)
			return float64(math.Float32frombits(bits))
		case TypeDouble:
			bits := binary.BigEndian.Uint64(b)
			return math.Float64frombits(bits)
		case TypeQ1516:
			return float64(int32(binary.BigEndian.Uint32(b))) / 65536.0
		case TypeQ3132:
			return float64(int64(binary.BigEndian.Uint64(b))) / 4294967296.0
		}
		return 0
	}

	if cols == 1 {
		out := make([]float64, repeat)
		for i := 0; i < int(repeat); i++ {
			out[i] = readOne(payload[i*prim : i*prim+prim])
		}
		return out, nil
	}

	out := make([][]float64, repeat)
	for i := 0; i < int(repeat); i++ {
		row := make([]float64, cols)
		base := i * int(elementSize)
		for c := 0; c < cols; c++ {
			off := base + c*prim
			row[c] = readOne(payload[off : off+prim])
		}
		out[i] = row
	}
	return out, nil
}

// decodeComplex decodes a '?'-typed record's payload into `repeat` tuples,
// each with one field per code in schema, decoded independently at its own
// primitive width.
func decodeComplex(payload []byte, elementSize uint8, repeat uint16, schema []TypeCode) (any, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("gpmf: complex-typed record with no preceding TYPE schema")
	}
	fieldWidth := 0
	for _, code := range schema {
		prim, ok := primitiveSize[code]
		if !ok {
			return nil, fmt.Errorf("%w: schema code %q", ErrUnknownType, byte(code))
		}
		fieldWidth += prim
	}
	if fieldWidth != int(elementSize) {
		return nil, fmt.Errorf("%w: schema width %d != element_size %d", ErrShapeMismatch, fieldWidth, elementSize)
	}
	if err := requirePayloadLen(payload, elementSize, repeat); err != nil {
		return nil, err
	}

	out := make([]Tuple, repeat)
	for i := 0; i < int(repeat); i++ {
		row := payload[i*fieldWidth : (i+1)*fieldWidth]
		tuple := make(Tuple, len(schema))
		off := 0
		for j, code := range schema {
			prim := primitiveSize[code]
			field := row[off : off+prim]
			val, err := DecodePayload(field, code, uint8(prim), 1, nil)
			if err != nil {
				return nil, err
			}
			// Scalar fields come back wrapped ([]float64{x} etc.) from the
			// repeat=1 numeric path in decodeNumeric; unwrap to a bare
			// scalar for tuple ergonomics.
			tuple[j] = unwrapScalar(val)
			off += prim
		}
		out[i] = tuple
	}
	return out, nil
}

func unwrapScalar(v any) any {
	switch x := v.(type) {
	case []float64:
		if len(x) == 1 {
			return x[0]
		}
	case []string:
		if len(x) == 1 {
			return x[0]
		}
	case []GUID:
		if len(x) == 1 {
			return x[0]
		}
	}
	return v
}
