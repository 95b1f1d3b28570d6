package dagcbor

import (
	"fmt"

	"github.com/ipfs/go-cid"
)

// multibaseIdentityPrefix is the leading zero byte DAG-CBOR requires inside
// the tag-42 byte string, signalling "multibase identity" per the IPLD
// dag-cbor link spec: the remaining bytes are the raw CID, not a
// textual multibase-prefixed string.
const multibaseIdentityPrefix = 0x00

const linkTag = 42

// WriteLink encodes c as CBOR tag 42 wrapping a byte string whose first
// byte is the multibase-identity marker, followed by the raw CID bytes.
func WriteLink(w *ByteCursor, c cid.Cid) error {
	if err := writeUint(w, majorTag, linkTag); err != nil {
		return err
	}
	raw := c.Bytes()
	if err := writeUint(w, majorBytes, uint64(len(raw))+1); err != nil {
		return err
	}
	if err := WriteU8(w, multibaseIdentityPrefix); err != nil {
		return err
	}
	return w.WriteAll(raw)
}

// ReadLink decodes a tag-42 link payload. The cursor must be positioned
// just after the tag byte(s); it reads the byte-string initial byte itself
// and requires it to be exactly 0x58 (one-byte length), matching the
// reference DAG-CBOR encoder's output for any realistic CID.
func ReadLink(r *ByteCursor) (cid.Cid, error) {
	ty, err := ReadU8(r)
	if err != nil {
		return cid.Undef, err
	}
	if ty != 0x58 {
		return cid.Undef, fmt.Errorf("%w: link byte-string initial byte 0x%02x", ErrInvalidLink, ty)
	}
	length, err := ReadU8(r)
	if err != nil {
		return cid.Undef, err
	}
	if length == 0 {
		return cid.Undef, fmt.Errorf("%w: zero length", ErrInvalidLink)
	}
	buf, err := ReadBytes(r, int(length))
	if err != nil {
		return cid.Undef, err
	}
	if buf[0] != multibaseIdentityPrefix {
		return cid.Undef, fmt.Errorf("%w: prefix byte 0x%02x", ErrInvalidLink, buf[0])
	}
	c, err := cid.Cast(buf[1:])
	if err != nil {
		return cid.Undef, fmt.Errorf("%w: %s", ErrInvalidLink, err)
	}
	return c, nil
}
