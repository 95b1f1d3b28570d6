package dagcbor

import (
	"testing"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

func TestLinkRoundTrip(t *testing.T) {
	sum, err := mh.Sum([]byte("round trip me"), mh.SHA2_256, -1)
	if err != nil {
		t.Fatalf("multihash sum: %v", err)
	}
	c := cid.NewCidV1(cid.Raw, sum)

	encoded, err := Encode(LinkNode(c))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := decoded.AsLink()
	if !ok {
		t.Fatalf("decoded node is not a Link: %#v", decoded)
	}
	if !got.Equals(c) {
		t.Fatalf("got %v, want %v", got, c)
	}
}

func TestReadLinkRejectsBadPrefix(t *testing.T) {
	// 0x58 0x02 <non-zero prefix> <byte>: prefix must be 0x00.
	r := NewByteCursor([]byte{0x58, 0x02, 0x01, 0x02})
	if _, err := ReadLink(r); err == nil {
		t.Fatalf("expected ErrInvalidLink for non-zero prefix")
	}
}

func TestReadLinkRejectsZeroLength(t *testing.T) {
	r := NewByteCursor([]byte{0x58, 0x00})
	if _, err := ReadLink(r); err == nil {
		t.Fatalf("expected ErrInvalidLink for zero length")
	}
}

func TestReadLinkRejectsWrongFraming(t *testing.T) {
	// 0x40 is a zero-length byte string, not the required 0x58 framing.
	r := NewByteCursor([]byte{0x40})
	if _, err := ReadLink(r); err == nil {
		t.Fatalf("expected ErrInvalidLink for non-0x58 framing")
	}
}
