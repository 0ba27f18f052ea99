package gpmf

import "errors"

// Error kinds the decoder returns. Each is a sentinel that callers compare
// with errors.Is; concrete errors wrap these with context via
// fmt.Errorf("...: %w").
var (
	// ErrTruncatedRecord is returned when a record's header or payload
	// extends past the end of the buffer.
	ErrTruncatedRecord = errors.New("gpmf: truncated record")

	// ErrUnknownType is returned when a type code is not one of the 16
	// primitives and not '?' or the nest sentinel.
	ErrUnknownType = errors.New("gpmf: unknown type code")

	// ErrMisalignedSize is returned when element_size is not a multiple of
	// the primitive size for the given type code.
	ErrMisalignedSize = errors.New("gpmf: misaligned element size")

	// ErrTruncatedPayload is returned when element_size * repeat exceeds
	// the bytes actually available in the payload.
	ErrTruncatedPayload = errors.New("gpmf: truncated payload")

	// ErrShapeMismatch is returned when a SCAL vector's length doesn't
	// match the data record's tuple width.
	ErrShapeMismatch = errors.New("gpmf: shape mismatch")

	// ErrNoGPS is returned when a stream block has neither GPS5 nor GPS9.
	ErrNoGPS = errors.New("gpmf: no GPS data in block")

	// ErrMissingScale is returned when a data record has no sibling SCAL.
	ErrMissingScale = errors.New("gpmf: missing SCAL sibling")

	// ErrNoIMU is the GYRO/ACCL analog of ErrNoGPS.
	ErrNoIMU = errors.New("gpmf: no IMU data in block")

	// ErrOutOfRange flags a latitude/longitude outside the valid geodetic
	// range when fix >= 2. It is never returned as a fatal error — it is
	// accumulated into a record's Warnings so the data is still returned.
	ErrOutOfRange = errors.New("gpmf: value out of range")
)
