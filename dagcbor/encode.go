package dagcbor

import (
	"bytes"
	"fmt"
	"math"
	"math/big"

	"golang.org/x/exp/slices"
)

// initialCapacityHint sizes the scratch buffer Encode starts from; large
// enough to avoid a reallocation for most blocks without wasting much for
// small ones.
const initialCapacityHint = 64 * 1024

// Encode serialises n canonically: one value, one byte string. It is the
// top-level entry point mirrored by the Codec façade's Encode method.
func Encode(n Node) ([]byte, error) {
	w := NewByteCursor(make([]byte, 0, initialCapacityHint))
	if err := encodeNode(w, n); err != nil {
		return nil, err
	}
	return w.IntoInner(), nil
}

func encodeNode(w *ByteCursor, n Node) error {
	switch n.kind {
	case KindNull:
		return writeNull(w)
	case KindBool:
		return encodeBool(w, n.b)
	case KindInt:
		return encodeBigInt(w, n.i)
	case KindFloat:
		return encodeFloat(w, n.f)
	case KindString:
		return encodeString(w, n.s)
	case KindBytes:
		return encodeBytes(w, n.by)
	case KindList:
		return encodeList(w, n.list)
	case KindStringMap:
		return encodeStringMap(w, n.m)
	case KindLink:
		return WriteLink(w, n.link)
	default:
		return fmt.Errorf("dagcbor: encode: unknown node kind %d", n.kind)
	}
}

func writeNull(w *ByteCursor) error {
	return w.WriteAll([]byte{0xf6})
}

func encodeBool(w *ByteCursor, b bool) error {
	if b {
		return w.WriteAll([]byte{0xf5})
	}
	return w.WriteAll([]byte{0xf4})
}

// encodeBigInt writes i per §4.3: major type 0 for non-negative magnitudes,
// major type 1 for negative ones (encoding -(i+1)). Fails with
// ErrIntegerOutOfRange outside [-2^64, 2^64-1].
func encodeBigInt(w *ByteCursor, i *big.Int) error {
	if i == nil {
		return fmt.Errorf("%w: nil integer", ErrIntegerOutOfRange)
	}
	if i.Sign() >= 0 {
		if !i.IsUint64() {
			return fmt.Errorf("%w: %s", ErrIntegerOutOfRange, i.String())
		}
		return writeUint(w, majorUint, i.Uint64())
	}
	mag := new(big.Int).Neg(i)
	mag.Sub(mag, big.NewInt(1))
	if !mag.IsUint64() {
		return fmt.Errorf("%w: %s", ErrIntegerOutOfRange, i.String())
	}
	return writeUint(w, majorNegInt, mag.Uint64())
}

// encodeFloat canonicalises per §4.3: NaN/±Inf use the three fixed 5-byte
// forms; any other value that survives a lossless round trip through
// float32 is emitted as the 5-byte f32 form; everything else is the 9-byte
// f64 form. Encoding +Infinity with these fixed bytes does not round-trip
// back to +Infinity on decode (the exponent nibble in the fixed form is not
// a valid IEEE-754 infinity bit pattern); this mirrors a documented gap in
// the source format rather than an implementation defect — see DESIGN.md.
func encodeFloat(w *ByteCursor, f float64) error {
	switch {
	case math.IsNaN(f):
		return w.WriteAll([]byte{0xfa, 0x7f, 0xc0, 0x00, 0x00})
	case math.IsInf(f, 1):
		return w.WriteAll([]byte{0xfa, 0x7c, 0x00, 0x00, 0x00})
	case math.IsInf(f, -1):
		return w.WriteAll([]byte{0xfa, 0xff, 0x80, 0x00, 0x00})
	}
	if f32 := float32(f); float64(f32) == f {
		if err := WriteU8(w, 0xfa); err != nil {
			return err
		}
		return WriteF32(w, f32)
	}
	if err := WriteU8(w, 0xfb); err != nil {
		return err
	}
	return WriteF64(w, f)
}

func encodeBytes(w *ByteCursor, b []byte) error {
	if err := writeUint(w, majorBytes, uint64(len(b))); err != nil {
		return err
	}
	return w.WriteAll(b)
}

func encodeString(w *ByteCursor, s string) error {
	if err := writeUint(w, majorString, uint64(len(s))); err != nil {
		return err
	}
	return w.WriteAll([]byte(s))
}

func encodeList(w *ByteCursor, list []Node) error {
	if err := writeUint(w, majorArray, uint64(len(list))); err != nil {
		return err
	}
	for _, item := range list {
		if err := encodeNode(w, item); err != nil {
			return err
		}
	}
	return nil
}

// encodeStringMap implements §4.5: each key is encoded to a scratch
// cursor, the (encoded-key-bytes, value) pairs are sorted by
// byte-lexicographic order of the encoded key, then emitted in that order.
func encodeStringMap(w *ByteCursor, m map[string]Node) error {
	type entry struct {
		key   []byte
		value Node
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		scratch := NewByteCursor(nil)
		if err := encodeString(scratch, k); err != nil {
			return err
		}
		entries = append(entries, entry{key: scratch.IntoInner(), value: v})
	}
	slices.SortFunc(entries, func(a, b entry) bool {
		return bytes.Compare(a.key, b.key) < 0
	})
	if err := writeUint(w, majorMap, uint64(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.WriteAll(e.key); err != nil {
			return err
		}
		if err := encodeNode(w, e.value); err != nil {
			return err
		}
	}
	return nil
}
