package gpmf

// TypeCode is the single ASCII byte that identifies a record's payload
// encoding.
type TypeCode byte

// Primitive type codes. TypeNest ('\x00') marks a container record whose
// payload is itself a sequence of KLV records; TypeComplex ('?') marks a
// record whose payload is decoded as a tuple stream using the schema
// installed by the most recent sibling TYPE record.
const (
	TypeInt8     TypeCode = 'b'
	TypeUint8    TypeCode = 'B'
	TypeString   TypeCode = 'c'
	TypeDouble   TypeCode = 'd'
	TypeFloat    TypeCode = 'f'
	TypeFourCC   TypeCode = 'F'
	TypeGUID     TypeCode = 'G'
	TypeInt64    TypeCode = 'j'
	TypeUint64   TypeCode = 'J'
	TypeInt32    TypeCode = 'l'
	TypeUint32   TypeCode = 'L'
	TypeQ1516    TypeCode = 'q'
	TypeQ3132    TypeCode = 'Q'
	TypeInt16    TypeCode = 's'
	TypeUint16   TypeCode = 'S'
	TypeUTCDate  TypeCode = 'U'
	TypeComplex  TypeCode = '?'
	TypeNest     TypeCode = 0
)

// primitiveSize is the per-element byte size for each primitive type code.
var primitiveSize = map[TypeCode]int{
	TypeInt8:    1,
	TypeUint8:   1,
	TypeString:  1,
	TypeDouble:  8,
	TypeFloat:   4,
	TypeFourCC:  4,
	TypeGUID:    16,
	TypeInt64:   8,
	TypeUint64:  8,
	TypeInt32:   4,
	TypeUint32:  4,
	TypeQ1516:   4,
	TypeQ3132:   8,
	TypeInt16:   2,
	TypeUint16:  2,
	TypeUTCDate: 16,
}

// IsKnown reports whether t is one of the 16 primitive type codes (not the
// nest sentinel or the complex/user-defined code).
func (t TypeCode) IsKnown() bool {
	_, ok := primitiveSize[t]
	return ok
}

// Options configures scanner and joiner behavior. It is a plain value
// threaded through every entry point rather than package-level state, so
// callers can decode concurrently with different settings.
type Options struct {
	// Lenient, when true, makes TruncatedRecord at stream end and
	// UnknownType non-fatal: the scanner stops iteration (truncation) or
	// skips to the next padded boundary (unknown type) instead of
	// surfacing an error.
	Lenient bool
}

// Tuple is one decoded element of a '?'-typed (complex/user-defined)
// record's payload: one value per type code in the schema installed by the
// preceding TYPE record, decoded independently.
type Tuple []any

// GUID is a 128-bit opaque identifier decoded from a 'G'-typed field.
type GUID [16]byte
