package dagcbor

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// ReadU8 reads one big-endian byte.
func ReadU8(r *ByteCursor) (uint8, error) {
	var buf [1]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadU16 reads a big-endian uint16.
func ReadU16(r *ByteCursor) (uint16, error) {
	var buf [2]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadU32 reads a big-endian uint32.
func ReadU32(r *ByteCursor) (uint32, error) {
	var buf [4]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadU64 reads a big-endian uint64.
func ReadU64(r *ByteCursor) (uint64, error) {
	var buf [8]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// ReadF32 reads a big-endian IEEE-754 single.
func ReadF32(r *ByteCursor) (float32, error) {
	bits, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadF64 reads a big-endian IEEE-754 double.
func ReadF64(r *ByteCursor) (float64, error) {
	bits, err := ReadU64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// ReadBytes reads exactly n opaque octets.
func ReadBytes(r *ByteCursor, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadString reads exactly n octets and validates them as UTF-8.
func ReadString(r *ByteCursor, n int) (string, error) {
	buf, err := ReadBytes(r, n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidUTF8
	}
	return string(buf), nil
}

// WriteU8 writes a single big-endian byte.
func WriteU8(w *ByteCursor, v uint8) error {
	return w.WriteAll([]byte{v})
}

// WriteU16 writes a big-endian uint16.
func WriteU16(w *ByteCursor, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return w.WriteAll(buf[:])
}

// WriteU32 writes a big-endian uint32.
func WriteU32(w *ByteCursor, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return w.WriteAll(buf[:])
}

// WriteU64 writes a big-endian uint64.
func WriteU64(w *ByteCursor, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return w.WriteAll(buf[:])
}

// WriteF32 writes a big-endian IEEE-754 single.
func WriteF32(w *ByteCursor, v float32) error {
	return WriteU32(w, math.Float32bits(v))
}

// WriteF64 writes a big-endian IEEE-754 double.
func WriteF64(w *ByteCursor, v float64) error {
	return WriteU64(w, math.Float64bits(v))
}

// mustFit fails with ErrLengthOverflow if n cannot be represented as a
// non-negative int on this host.
func mustFit(n uint64) (int, error) {
	if n > uint64(^uint(0)>>1) {
		return 0, fmt.Errorf("%w: %d", ErrLengthOverflow, n)
	}
	return int(n), nil
}
