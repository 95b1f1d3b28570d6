package dagcbor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	"golang.org/x/exp/slices"
)

// sortEntriesByKey sorts entries in place by the byte-lexicographic order
// of the key each keyOf extracts, the generic form of the sort §4.5
// mandates for StringMap canonicalisation.
func sortEntriesByKey[E any](entries []E, keyOf func(E) []byte) {
	slices.SortFunc(entries, func(a, b E) bool {
		return bytes.Compare(keyOf(a), keyOf(b)) < 0
	})
}

// Coder is the "per-type function resolved by ordinary polymorphism"
// design note calls for in place of a trait-object Encode<C>/Decode<C>
// pair: a small, explicit vtable for one Go type T. The typed façade
// (Tuple1..Tuple4, Option, List, Map below) is generic over Coder[T]
// rather than requiring T itself to carry encode/decode methods, so
// built-in types like bool, uint64 and string can be used directly.
type Coder[T any] interface {
	Encode(w *ByteCursor, v T) error
	Decode(r *ByteCursor) (T, error)
}

// BoolCoder encodes/decodes the bool leaf type.
type BoolCoder struct{}

func (BoolCoder) Encode(w *ByteCursor, v bool) error { return encodeBool(w, v) }

func (BoolCoder) Decode(r *ByteCursor) (bool, error) {
	b, err := ReadU8(r)
	if err != nil {
		return false, err
	}
	switch b {
	case 0xf4:
		return false, nil
	case 0xf5:
		return true, nil
	default:
		return false, fmt.Errorf("%w: 0x%02x decoding bool", ErrUnexpectedInitialByte, b)
	}
}

// Uint64Coder encodes/decodes an unsigned integer leaf.
type Uint64Coder struct{}

func (Uint64Coder) Encode(w *ByteCursor, v uint64) error { return writeUint(w, majorUint, v) }

func (Uint64Coder) Decode(r *ByteCursor) (uint64, error) {
	major, err := ReadU8(r)
	if err != nil {
		return 0, err
	}
	if major > 0x1b {
		return 0, fmt.Errorf("%w: 0x%02x decoding uint64", ErrUnexpectedInitialByte, major)
	}
	return readLen(r, major)
}

// Int64Coder encodes/decodes a signed integer leaf within int64 range.
type Int64Coder struct{}

func (Int64Coder) Encode(w *ByteCursor, v int64) error {
	if v < 0 {
		return writeUint(w, majorNegInt, uint64(-(v+1)))
	}
	return writeUint(w, majorUint, uint64(v))
}

func (Int64Coder) Decode(r *ByteCursor) (int64, error) {
	major, err := ReadU8(r)
	if err != nil {
		return 0, err
	}
	switch {
	case major <= 0x1b:
		mag, err := readLen(r, major)
		return int64(mag), err
	case major >= 0x20 && major <= 0x3b:
		mag, err := readLen(r, major-0x20)
		if err != nil {
			return 0, err
		}
		return -1 - int64(mag), nil
	default:
		return 0, fmt.Errorf("%w: 0x%02x decoding int64", ErrUnexpectedInitialByte, major)
	}
}

// StringCoder encodes/decodes the text-string leaf.
type StringCoder struct{}

func (StringCoder) Encode(w *ByteCursor, v string) error { return encodeString(w, v) }

func (StringCoder) Decode(r *ByteCursor) (string, error) {
	major, err := ReadU8(r)
	if err != nil {
		return "", err
	}
	if major < 0x60 || major > 0x7b {
		return "", fmt.Errorf("%w: 0x%02x decoding string", ErrUnexpectedInitialByte, major)
	}
	n, err := readLenInt(r, major-0x60)
	if err != nil {
		return "", err
	}
	return ReadString(r, n)
}

// BytesCoder encodes/decodes the byte-string leaf.
type BytesCoder struct{}

func (BytesCoder) Encode(w *ByteCursor, v []byte) error { return encodeBytes(w, v) }

func (BytesCoder) Decode(r *ByteCursor) ([]byte, error) {
	major, err := ReadU8(r)
	if err != nil {
		return nil, err
	}
	if major < 0x40 || major > 0x5b {
		return nil, fmt.Errorf("%w: 0x%02x decoding bytes", ErrUnexpectedInitialByte, major)
	}
	n, err := readLenInt(r, major-0x40)
	if err != nil {
		return nil, err
	}
	return ReadBytes(r, n)
}

// CidCoder encodes/decodes a bare Link leaf (tag 42).
type CidCoder struct{}

func (CidCoder) Encode(w *ByteCursor, v cid.Cid) error { return WriteLink(w, v) }

func (CidCoder) Decode(r *ByteCursor) (cid.Cid, error) {
	major, err := ReadU8(r)
	if err != nil {
		return cid.Undef, err
	}
	if major != 0xd8 {
		return cid.Undef, fmt.Errorf("%w: 0x%02x decoding link", ErrUnexpectedInitialByte, major)
	}
	tag, err := ReadU8(r)
	if err != nil {
		return cid.Undef, err
	}
	if tag != linkTag {
		return cid.Undef, fmt.Errorf("%w: 0x%02x", ErrUnexpectedTag, tag)
	}
	return ReadLink(r)
}

// NodeCoder adapts the full value-sum Encode/Decode pair to Coder[Node],
// so List[Node]/Map[Node] reduce to the ordinary untyped List/StringMap
// variants.
type NodeCoder struct{}

func (NodeCoder) Encode(w *ByteCursor, v Node) error { return encodeNode(w, v) }

func (NodeCoder) Decode(r *ByteCursor) (Node, error) { return decodeNode(r, 0) }

// Unit is the empty tuple; it encodes as a zero-length array (0x80),
// mirroring the Rust source's Encode/Decode impls for `()` — a feature
// supplemented from original_source/ (see DESIGN.md).
type Unit struct{}

func EncodeUnit(w *ByteCursor, _ Unit) error { return writeUint(w, majorArray, 0) }

func DecodeUnit(r *ByteCursor) (Unit, error) {
	b, err := ReadU8(r)
	if err != nil {
		return Unit{}, err
	}
	if b != 0x80 {
		return Unit{}, fmt.Errorf("%w: 0x%02x decoding unit", ErrUnexpectedInitialByte, b)
	}
	return Unit{}, nil
}

// Tuple1 is an arity-1 tuple, encoded as a 1-element definite-length array.
type Tuple1[A any] struct{ A A }

func EncodeTuple1[A any](w *ByteCursor, t Tuple1[A], ca Coder[A]) error {
	if err := writeUint(w, majorArray, 1); err != nil {
		return err
	}
	return ca.Encode(w, t.A)
}

func DecodeTuple1[A any](r *ByteCursor, ca Coder[A]) (Tuple1[A], error) {
	if err := expectArrayLen(r, 1); err != nil {
		return Tuple1[A]{}, err
	}
	a, err := ca.Decode(r)
	return Tuple1[A]{A: a}, err
}

// Tuple2 is an arity-2 tuple, encoded as a 2-element definite-length array.
type Tuple2[A, B any] struct {
	A A
	B B
}

func EncodeTuple2[A, B any](w *ByteCursor, t Tuple2[A, B], ca Coder[A], cb Coder[B]) error {
	if err := writeUint(w, majorArray, 2); err != nil {
		return err
	}
	if err := ca.Encode(w, t.A); err != nil {
		return err
	}
	return cb.Encode(w, t.B)
}

func DecodeTuple2[A, B any](r *ByteCursor, ca Coder[A], cb Coder[B]) (Tuple2[A, B], error) {
	if err := expectArrayLen(r, 2); err != nil {
		return Tuple2[A, B]{}, err
	}
	a, err := ca.Decode(r)
	if err != nil {
		return Tuple2[A, B]{}, err
	}
	b, err := cb.Decode(r)
	return Tuple2[A, B]{A: a, B: b}, err
}

// Tuple3 is an arity-3 tuple, encoded as a 3-element definite-length array.
type Tuple3[A, B, C any] struct {
	A A
	B B
	C C
}

func EncodeTuple3[A, B, C any](w *ByteCursor, t Tuple3[A, B, C], ca Coder[A], cb Coder[B], cc Coder[C]) error {
	if err := writeUint(w, majorArray, 3); err != nil {
		return err
	}
	if err := ca.Encode(w, t.A); err != nil {
		return err
	}
	if err := cb.Encode(w, t.B); err != nil {
		return err
	}
	return cc.Encode(w, t.C)
}

func DecodeTuple3[A, B, C any](r *ByteCursor, ca Coder[A], cb Coder[B], cc Coder[C]) (Tuple3[A, B, C], error) {
	if err := expectArrayLen(r, 3); err != nil {
		return Tuple3[A, B, C]{}, err
	}
	a, err := ca.Decode(r)
	if err != nil {
		return Tuple3[A, B, C]{}, err
	}
	b, err := cb.Decode(r)
	if err != nil {
		return Tuple3[A, B, C]{}, err
	}
	c, err := cc.Decode(r)
	return Tuple3[A, B, C]{A: a, B: b, C: c}, err
}

// Tuple4 is an arity-4 tuple, encoded as a 4-element definite-length array.
type Tuple4[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}

func EncodeTuple4[A, B, C, D any](w *ByteCursor, t Tuple4[A, B, C, D], ca Coder[A], cb Coder[B], cc Coder[C], cd Coder[D]) error {
	if err := writeUint(w, majorArray, 4); err != nil {
		return err
	}
	if err := ca.Encode(w, t.A); err != nil {
		return err
	}
	if err := cb.Encode(w, t.B); err != nil {
		return err
	}
	if err := cc.Encode(w, t.C); err != nil {
		return err
	}
	return cd.Encode(w, t.D)
}

func DecodeTuple4[A, B, C, D any](r *ByteCursor, ca Coder[A], cb Coder[B], cc Coder[C], cd Coder[D]) (Tuple4[A, B, C, D], error) {
	if err := expectArrayLen(r, 4); err != nil {
		return Tuple4[A, B, C, D]{}, err
	}
	a, err := ca.Decode(r)
	if err != nil {
		return Tuple4[A, B, C, D]{}, err
	}
	b, err := cb.Decode(r)
	if err != nil {
		return Tuple4[A, B, C, D]{}, err
	}
	c, err := cc.Decode(r)
	if err != nil {
		return Tuple4[A, B, C, D]{}, err
	}
	d, err := cd.Decode(r)
	return Tuple4[A, B, C, D]{A: a, B: b, C: c, D: d}, err
}

func expectArrayLen(r *ByteCursor, n int) error {
	b, err := ReadU8(r)
	if err != nil {
		return err
	}
	want := 0x80 | byte(n)
	if b != want {
		return fmt.Errorf("%w: 0x%02x, want 0x%02x", ErrUnexpectedInitialByte, b, want)
	}
	return nil
}

// EncodeOption encodes v: present as its inner value, absent (nil) as
// Null (0xf6).
func EncodeOption[T any](w *ByteCursor, v *T, c Coder[T]) error {
	if v == nil {
		return writeNull(w)
	}
	return c.Encode(w, *v)
}

// DecodeOption decodes an Option[T]; both 0xf6 and 0xf7 decode to nil.
func DecodeOption[T any](r *ByteCursor, c Coder[T]) (*T, error) {
	b, err := ReadU8(r)
	if err != nil {
		return nil, err
	}
	if b == 0xf6 || b == 0xf7 {
		return nil, nil
	}
	if _, err := r.Seek(-1, io.SeekCurrent); err != nil {
		return nil, err
	}
	v, err := c.Decode(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// EncodeList encodes list as a definite-length array using c for each
// element, the typed analogue of encodeList.
func EncodeList[T any](w *ByteCursor, list []T, c Coder[T]) error {
	if err := writeUint(w, majorArray, uint64(len(list))); err != nil {
		return err
	}
	for _, v := range list {
		if err := c.Encode(w, v); err != nil {
			return err
		}
	}
	return nil
}

// DecodeList decodes a definite- or indefinite-length array of T.
func DecodeList[T any](r *ByteCursor, c Coder[T]) ([]T, error) {
	major, err := ReadU8(r)
	if err != nil {
		return nil, err
	}
	switch {
	case major >= 0x80 && major <= 0x9b:
		n, err := readLenInt(r, major-0x80)
		if err != nil {
			return nil, err
		}
		list := make([]T, 0, n)
		for i := 0; i < n; i++ {
			v, err := c.Decode(r)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case major == 0x9f:
		var list []T
		for {
			b, err := ReadU8(r)
			if err != nil {
				return nil, err
			}
			if b == 0xff {
				return list, nil
			}
			if _, err := r.Seek(-1, io.SeekCurrent); err != nil {
				return nil, err
			}
			v, err := c.Decode(r)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
	default:
		return nil, fmt.Errorf("%w: 0x%02x decoding list", ErrUnexpectedInitialByte, major)
	}
}

// EncodeMap encodes m as a canonical StringMap (§4.5) whose values are
// encoded with c.
func EncodeMap[T any](w *ByteCursor, m map[string]T, c Coder[T]) error {
	type entry struct {
		key   []byte
		value T
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		scratch := NewByteCursor(nil)
		if err := encodeString(scratch, k); err != nil {
			return err
		}
		entries = append(entries, entry{key: scratch.IntoInner(), value: v})
	}
	sortEntriesByKey(entries, func(e entry) []byte { return e.key })
	if err := writeUint(w, majorMap, uint64(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.WriteAll(e.key); err != nil {
			return err
		}
		if err := c.Encode(w, e.value); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMap decodes a definite- or indefinite-length map into a
// map[string]T using c for values.
func DecodeMap[T any](r *ByteCursor, c Coder[T]) (map[string]T, error) {
	major, err := ReadU8(r)
	if err != nil {
		return nil, err
	}
	switch {
	case major >= 0xa0 && major <= 0xbb:
		n, err := readLenInt(r, major-0xa0)
		if err != nil {
			return nil, err
		}
		m := make(map[string]T, n)
		for i := 0; i < n; i++ {
			k, err := (StringCoder{}).Decode(r)
			if err != nil {
				return nil, err
			}
			v, err := c.Decode(r)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil
	case major == 0xbf:
		m := make(map[string]T)
		for {
			b, err := ReadU8(r)
			if err != nil {
				return nil, err
			}
			if b == 0xff {
				return m, nil
			}
			if _, err := r.Seek(-1, io.SeekCurrent); err != nil {
				return nil, err
			}
			k, err := (StringCoder{}).Decode(r)
			if err != nil {
				return nil, err
			}
			v, err := c.Decode(r)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
	default:
		return nil, fmt.Errorf("%w: 0x%02x decoding map", ErrUnexpectedInitialByte, major)
	}
}
