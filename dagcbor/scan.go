package dagcbor

import (
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
)

// Skip advances r past exactly one well-formed encoded value without
// allocating a Node for it. Skip and References share the same dispatch
// table; References additionally reports links to a sink.
func Skip(r *ByteCursor) error {
	return skip(r, nil, 0)
}

// References walks the encoded value at r's current position and calls
// sink once for every Link it encounters, in structural-descent order,
// without materialising the decoded value tree.
func References(r *ByteCursor, sink func(cid.Cid)) error {
	return skip(r, sink, 0)
}

func skip(r *ByteCursor, sink func(cid.Cid), depth int) error {
	if depth > MaxDepth {
		return ErrMaxDepthExceeded
	}
	major, err := ReadU8(r)
	if err != nil {
		return err
	}
	switch {
	case major <= 0x17, major >= 0x20 && major <= 0x37, major >= 0xf4 && major <= 0xf7:
		return nil
	case major == 0x18, major == 0x38:
		_, err := r.Seek(1, io.SeekCurrent)
		return err
	case major == 0x19, major == 0x39:
		_, err := r.Seek(2, io.SeekCurrent)
		return err
	case major == 0x1a, major == 0x3a, major == 0xfa:
		_, err := r.Seek(4, io.SeekCurrent)
		return err
	case major == 0x1b, major == 0x3b, major == 0xfb:
		_, err := r.Seek(8, io.SeekCurrent)
		return err

	case major >= 0x40 && major <= 0x5b:
		n, err := readLenInt(r, major-0x40)
		if err != nil {
			return err
		}
		_, err = r.Seek(int64(n), io.SeekCurrent)
		return err

	case major >= 0x60 && major <= 0x7b:
		n, err := readLenInt(r, major-0x60)
		if err != nil {
			return err
		}
		_, err = r.Seek(int64(n), io.SeekCurrent)
		return err

	case major >= 0x80 && major <= 0x9b:
		n, err := readLenInt(r, major-0x80)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := skip(r, sink, depth+1); err != nil {
				return err
			}
		}
		return nil
	case major == 0x9f:
		return skipIndefinite(r, sink, depth, 1)

	case major >= 0xa0 && major <= 0xbb:
		n, err := readLenInt(r, major-0xa0)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := skip(r, sink, depth+1); err != nil {
				return err
			}
			if err := skip(r, sink, depth+1); err != nil {
				return err
			}
		}
		return nil
	case major == 0xbf:
		return skipIndefinite(r, sink, depth, 2)

	case major == 0xd8:
		tag, err := ReadU8(r)
		if err != nil {
			return err
		}
		if tag != linkTag {
			return fmt.Errorf("%w: 0x%02x", ErrUnexpectedTag, tag)
		}
		c, err := ReadLink(r)
		if err != nil {
			return err
		}
		if sink != nil {
			sink(c)
		}
		return nil

	default:
		return fmt.Errorf("%w: 0x%02x", ErrUnexpectedInitialByte, major)
	}
}

// skipIndefinite walks an indefinite-length array (itemsPerEntry=1) or map
// (itemsPerEntry=2) until the 0xff break sentinel.
func skipIndefinite(r *ByteCursor, sink func(cid.Cid), depth int, itemsPerEntry int) error {
	for {
		b, err := ReadU8(r)
		if err != nil {
			return err
		}
		if b == 0xff {
			return nil
		}
		if _, err := r.Seek(-1, io.SeekCurrent); err != nil {
			return err
		}
		for i := 0; i < itemsPerEntry; i++ {
			if err := skip(r, sink, depth+1); err != nil {
				return err
			}
		}
	}
}
