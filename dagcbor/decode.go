package dagcbor

import (
	"fmt"
	"io"
	"math/big"
)

// MaxDepth bounds decoder/scanner recursion so adversarially nested input
// fails with ErrMaxDepthExceeded instead of exhausting the goroutine stack.
// This resolves the open robustness question noted in the design: the
// source format imposes no limit at all.
const MaxDepth = 1024

// Decode parses exactly one canonical-or-tolerated DAG-CBOR value from b.
func Decode(b []byte) (Node, error) {
	r := NewByteCursor(b)
	return decodeNode(r, 0)
}

func decodeNode(r *ByteCursor, depth int) (Node, error) {
	if depth > MaxDepth {
		return Node{}, ErrMaxDepthExceeded
	}
	major, err := ReadU8(r)
	if err != nil {
		return Node{}, err
	}
	switch {
	case major <= 0x17:
		return Uint64Node(uint64(major)), nil
	case major == 0x18:
		v, err := ReadU8(r)
		return Uint64Node(uint64(v)), err
	case major == 0x19:
		v, err := ReadU16(r)
		return Uint64Node(uint64(v)), err
	case major == 0x1a:
		v, err := ReadU32(r)
		return Uint64Node(uint64(v)), err
	case major == 0x1b:
		v, err := ReadU64(r)
		return Uint64Node(v), err

	case major >= 0x20 && major <= 0x37:
		return negIntNode(uint64(major - 0x20)), nil
	case major == 0x38:
		v, err := ReadU8(r)
		return negIntNode(uint64(v)), err
	case major == 0x39:
		v, err := ReadU16(r)
		return negIntNode(uint64(v)), err
	case major == 0x3a:
		v, err := ReadU32(r)
		return negIntNode(uint64(v)), err
	case major == 0x3b:
		v, err := ReadU64(r)
		return negIntNode(v), err

	case major >= 0x40 && major <= 0x5b:
		n, err := readLenInt(r, major-0x40)
		if err != nil {
			return Node{}, err
		}
		buf, err := ReadBytes(r, n)
		return BytesNode(buf), err

	case major >= 0x60 && major <= 0x7b:
		n, err := readLenInt(r, major-0x60)
		if err != nil {
			return Node{}, err
		}
		s, err := ReadString(r, n)
		return StringNode(s), err

	case major >= 0x80 && major <= 0x9b:
		n, err := readLenInt(r, major-0x80)
		if err != nil {
			return Node{}, err
		}
		list, err := decodeListN(r, n, depth)
		return ListNode(list), err
	case major == 0x9f:
		list, err := decodeListIndefinite(r, depth)
		return ListNode(list), err

	case major >= 0xa0 && major <= 0xbb:
		n, err := readLenInt(r, major-0xa0)
		if err != nil {
			return Node{}, err
		}
		m, err := decodeMapN(r, n, depth)
		return MapNode(m), err
	case major == 0xbf:
		m, err := decodeMapIndefinite(r, depth)
		return MapNode(m), err

	case major == 0xd8:
		tag, err := ReadU8(r)
		if err != nil {
			return Node{}, err
		}
		if tag != linkTag {
			return Node{}, fmt.Errorf("%w: 0x%02x", ErrUnexpectedTag, tag)
		}
		c, err := ReadLink(r)
		return LinkNode(c), err

	case major == 0xf4:
		return BoolNode(false), nil
	case major == 0xf5:
		return BoolNode(true), nil
	case major == 0xf6, major == 0xf7:
		return Null, nil
	case major == 0xfa:
		f, err := ReadF32(r)
		return FloatNode(float64(f)), err
	case major == 0xfb:
		f, err := ReadF64(r)
		return FloatNode(f), err

	default:
		return Node{}, fmt.Errorf("%w: 0x%02x", ErrUnexpectedInitialByte, major)
	}
}

// negIntNode builds Integer(-1 - mag), the decode-side inverse of
// encodeBigInt's negative branch.
func negIntNode(mag uint64) Node {
	i := new(big.Int).SetUint64(mag)
	i.Neg(i)
	i.Sub(i, big.NewInt(1))
	return IntNode(i)
}

func decodeListN(r *ByteCursor, n int, depth int) ([]Node, error) {
	list := make([]Node, 0, n)
	for i := 0; i < n; i++ {
		item, err := decodeNode(r, depth+1)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, nil
}

// decodeListIndefinite implements §4.7: peek a byte, terminate on 0xff,
// otherwise seek back one byte and decode the next element.
func decodeListIndefinite(r *ByteCursor, depth int) ([]Node, error) {
	var list []Node
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
		item, err := decodeNode(r, depth+1)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
}

func decodeMapN(r *ByteCursor, n int, depth int) (map[string]Node, error) {
	m := make(map[string]Node, n)
	for i := 0; i < n; i++ {
		key, err := decodeMapKey(r, depth)
		if err != nil {
			return nil, err
		}
		value, err := decodeNode(r, depth+1)
		if err != nil {
			return nil, err
		}
		m[key] = value
	}
	return m, nil
}

func decodeMapIndefinite(r *ByteCursor, depth int) (map[string]Node, error) {
	m := make(map[string]Node)
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
		key, err := decodeMapKey(r, depth)
		if err != nil {
			return nil, err
		}
		value, err := decodeNode(r, depth+1)
		if err != nil {
			return nil, err
		}
		m[key] = value
	}
}

// decodeMapKey decodes a StringMap key. DAG-CBOR map keys are always text
// strings; a non-string key is rejected the same way the dispatch table
// rejects any other unsupported initial byte.
func decodeMapKey(r *ByteCursor, depth int) (string, error) {
	node, err := decodeNode(r, depth+1)
	if err != nil {
		return "", err
	}
	s, ok := node.AsString()
	if !ok {
		return "", fmt.Errorf("%w: map key is not a string (kind %s)", ErrUnexpectedInitialByte, node.Kind())
	}
	return s, nil
}
