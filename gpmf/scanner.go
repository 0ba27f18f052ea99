package gpmf

import (
	"encoding/binary"
	"fmt"
	"iter"
)

// Record is an immutable KLV triple: a fourcc key, a (type, element_size,
// repeat) length triple, and the raw (unpadded) payload bytes. Payload is a
// borrowed sub-slice of the buffer passed to Records/Expand/Find — its
// validity is scoped to that buffer's lifetime.
type Record struct {
	Key         Key
	Type        TypeCode
	ElementSize uint8
	Repeat      uint16
	Payload     []byte

	// schema is the complex-type schema active at the moment this
	// record was scanned, captured by value so later TYPE records at the
	// same level don't retroactively change how an earlier '?' record
	// decodes. Only meaningful when Type == TypeComplex.
	schema []TypeCode
}

// IsContainer reports whether the record's payload is itself a sequence of
// KLV records (type code is the nest sentinel).
func (r Record) IsContainer() bool {
	return r.Type == TypeNest
}

// Decode interprets the record's payload using its header fields and
// captured schema, returning the decoded Go value.
func (r Record) Decode() (any, error) {
	if r.IsContainer() {
		return nil, fmt.Errorf("gpmf: cannot Decode a container record %q, use Expand or recurse with Records", r.Key)
	}
	return DecodePayload(r.Payload, r.Type, r.ElementSize, r.Repeat, r.schema)
}

func padTo4(n int) int {
	if rem := n % 4; rem != 0 {
		return n + (4 - rem)
	}
	return n
}

// parseSchema turns a TYPE record's decoded byte string into the ordered
// list of primitive type codes later '?'-typed records at the same scope
// decode against.
func parseSchema(s string) []TypeCode {
	codes := make([]TypeCode, 0, len(s))
	for i := 0; i < len(s); i++ {
		codes = append(codes, TypeCode(s[i]))
	}
	return codes
}

// Records is a lazy, single-level scan of buf as a sequence of KLV
// records. It does not recurse into containers — a caller that wants to
// descend into a container calls Records again on that record's Payload.
// This is the primary, hot-path API; Expand below is an eager convenience
// for inspection/debugging.
//
// The complex-type schema is a local variable scoped to this single call —
// it resets whenever a new call to Records begins, which is exactly how
// container scoping resets it: scopes nest with the KLV container nesting.
func Records(buf []byte, opts Options) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		cursor := 0
		var schema []TypeCode

		for {
			remaining := len(buf) - cursor
			if remaining < 8 {
				return
			}
			if isZeroKey(buf[cursor : cursor+4]) {
				return
			}

			key := Key(buf[cursor : cursor+4])
			typeByte := buf[cursor+4]
			elemSize := buf[cursor+5]
			repeat := binary.BigEndian.Uint16(buf[cursor+6 : cursor+8])
			payloadLen := int(elemSize) * int(repeat)
			paddedLen := padTo4(payloadLen)

			if cursor+8+paddedLen > len(buf) {
				if opts.Lenient {
					return
				}
				yield(Record{}, fmt.Errorf("%w: record %q at offset %d needs %d bytes, %d available",
					ErrTruncatedRecord, key, cursor, paddedLen, len(buf)-cursor-8))
				return
			}

			code := TypeCode(typeByte)
			if code != TypeNest && code != TypeComplex && !code.IsKnown() {
				if opts.Lenient {
					cursor += 8 + paddedLen
					continue
				}
				yield(Record{}, fmt.Errorf("%w: %q in record %q at offset %d", ErrUnknownType, typeByte, key, cursor))
				return
			}

			payload := buf[cursor+8 : cursor+8+payloadLen]
			rec := Record{Key: key, Type: code, ElementSize: elemSize, Repeat: repeat, Payload: payload}
			if code == TypeComplex {
				rec.schema = schema
			}

			if key == KeyTYPE && code == TypeString {
				if v, err := decodeString(payload, elemSize, repeat); err == nil {
					if str, ok := v.(string); ok {
						schema = parseSchema(str)
					}
				}
			}

			if !yield(rec, nil) {
				return
			}
			cursor += 8 + paddedLen
		}
	}
}

// Node is one entry of the eager tree produced by Expand: a record plus,
// for a container, its recursively expanded children, or, for a leaf, its
// decoded value.
type Node struct {
	Record   Record
	Children []Node
	Value    any
}

// Expand eagerly walks buf into a full tree, decoding every leaf payload.
// It is a debugging/inspection convenience — tree depth is bounded by the
// stream's container depth, but because container payloads can be large
// (entire GPS streams), this must not sit on a hot path.
func Expand(buf []byte, opts Options) ([]Node, error) {
	var nodes []Node
	for rec, err := range Records(buf, opts) {
		if err != nil {
			return nodes, err
		}
		node := Node{Record: rec}
		if rec.IsContainer() {
			children, err := Expand(rec.Payload, opts)
			if err != nil {
				return nodes, err
			}
			node.Children = children
		} else {
			val, err := rec.Decode()
			if err != nil {
				return nodes, err
			}
			node.Value = val
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Find yields every record matching an ordered path of fourcc keys,
// interpreted as a path from any root. For example,
// Find(buf, []Key{KeySTRM, KeyGPS5}, opts) yields every GPS5 record found
// as a direct child of any STRM container anywhere in buf.
func Find(buf []byte, path []Key, opts Options) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		findWalk(buf, path, opts, yield)
	}
}

func findWalk(buf []byte, path []Key, opts Options, yield func(Record, error) bool) bool {
	for rec, err := range Records(buf, opts) {
		if err != nil {
			return yield(Record{}, err)
		}
		if len(path) > 0 && rec.Key == path[0] {
			if len(path) == 1 {
				if !yield(rec, nil) {
					return false
				}
			} else if rec.IsContainer() {
				if !findWalk(rec.Payload, path[1:], opts, yield) {
					return false
				}
			}
		}
		if rec.IsContainer() {
			if !findWalk(rec.Payload, path, opts, yield) {
				return false
			}
		}
	}
	return true
}
