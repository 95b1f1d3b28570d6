package dagcbor

import (
	"bytes"
	"math"
	"math/big"
	"testing"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

func testCid(t *testing.T, data string) cid.Cid {
	t.Helper()
	sum, err := mh.Sum([]byte(data), mh.SHA2_256, -1)
	if err != nil {
		t.Fatalf("multihash sum: %v", err)
	}
	return cid.NewCidV1(cid.Raw, sum)
}

func hexBytes(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hextable[c>>4]
		out[i*2+1] = hextable[c&0xf]
	}
	return string(out)
}

// TestEncodeSeedScenarios exercises the concrete examples given in the
// spec's testable-properties section verbatim.
func TestEncodeSeedScenarios(t *testing.T) {
	cases := []struct {
		name string
		node Node
		want []byte
	}{
		{"null", Null, []byte{0xf6}},
		{"true", BoolNode(true), []byte{0xf5}},
		{"false", BoolNode(false), []byte{0xf4}},
		{"int 0", Int64Node(0), []byte{0x00}},
		{"int 23", Int64Node(23), []byte{0x17}},
		{"int 24", Int64Node(24), []byte{0x18, 0x18}},
		{"int -1", Int64Node(-1), []byte{0x20}},
		{"int -24", Int64Node(-24), []byte{0x37}},
		{"int -25", Int64Node(-25), []byte{0x38, 0x18}},
		{"string IETF", StringNode("IETF"), []byte{0x64, 0x49, 0x45, 0x54, 0x46}},
		{
			"list 1 2 3",
			ListNode([]Node{Int64Node(1), Int64Node(2), Int64Node(3)}),
			[]byte{0x83, 0x01, 0x02, 0x03},
		},
		{
			"map sorted by encoded key",
			MapNode(map[string]Node{"b": Int64Node(2), "a": Int64Node(1)}),
			[]byte{0xa2, 0x61, 0x61, 0x01, 0x61, 0x62, 0x02},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Encode(c.node)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(got, c.want) {
				t.Fatalf("Encode(%s) = %s, want %s", c.name, hexBytes(got), hexBytes(c.want))
			}
		})
	}
}

func TestEncodeLinkAndReferences(t *testing.T) {
	c := testCid(t, "hello world")
	node := LinkNode(c)
	encoded, err := Encode(node)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) < 2 || encoded[0] != 0xd8 || encoded[1] != 0x2a {
		t.Fatalf("Encode(Link) does not begin with tag 42: %s", hexBytes(encoded))
	}
	if encoded[2] != 0x58 {
		t.Fatalf("Encode(Link) byte-string framing = 0x%02x, want 0x58", encoded[2])
	}

	var links []cid.Cid
	if err := References(NewByteCursor(encoded), func(got cid.Cid) { links = append(links, got) }); err != nil {
		t.Fatalf("References: %v", err)
	}
	if len(links) != 1 || !links[0].Equals(c) {
		t.Fatalf("References = %v, want [%v]", links, c)
	}
}

func TestEncodeIntegerOutOfRange(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 65) // 2^65, outside [-2^64, 2^64-1]
	if _, err := Encode(IntNode(huge)); err == nil {
		t.Fatalf("expected ErrIntegerOutOfRange")
	}
	negHuge := new(big.Int).Neg(huge)
	if _, err := Encode(IntNode(negHuge)); err == nil {
		t.Fatalf("expected ErrIntegerOutOfRange for negative magnitude")
	}

	maxU64 := new(big.Int).SetUint64(^uint64(0))
	if _, err := Encode(IntNode(maxU64)); err != nil {
		t.Fatalf("2^64-1 should encode: %v", err)
	}
	minI := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 64))
	if _, err := Encode(IntNode(minI)); err != nil {
		t.Fatalf("-2^64 should encode: %v", err)
	}
}

// TestEncodeFloatCanonical checks P7: finite values that survive a
// lossless round trip through float32 get the 5-byte form, others the
// 9-byte form.
func TestEncodeFloatCanonical(t *testing.T) {
	cases := []struct {
		name   string
		f      float64
		wantN  int
		wantB0 byte
	}{
		{"zero", 0.0, 5, 0xfa},
		{"one", 1.0, 5, 0xfa},
		{"f32-exact", float64(float32(3.25)), 5, 0xfa},
		{"needs-f64", 0.1, 9, 0xfb},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Encode(FloatNode(c.f))
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if len(got) != c.wantN || got[0] != c.wantB0 {
				t.Fatalf("Encode(%v) = %s, want len %d starting 0x%02x", c.f, hexBytes(got), c.wantN, c.wantB0)
			}
		})
	}
}

func TestEncodeFloatSpecials(t *testing.T) {
	posInf, _ := Encode(FloatNode(math.Inf(1)))
	negInf, _ := Encode(FloatNode(math.Inf(-1)))
	nan, _ := Encode(FloatNode(math.NaN()))

	wantPos := []byte{0xfa, 0x7c, 0x00, 0x00, 0x00}
	wantNeg := []byte{0xfa, 0xff, 0x80, 0x00, 0x00}
	wantNaN := []byte{0xfa, 0x7f, 0xc0, 0x00, 0x00}

	if !bytes.Equal(posInf, wantPos) {
		t.Fatalf("Encode(+Inf) = %s, want %s", hexBytes(posInf), hexBytes(wantPos))
	}
	if !bytes.Equal(negInf, wantNeg) {
		t.Fatalf("Encode(-Inf) = %s, want %s", hexBytes(negInf), hexBytes(wantNeg))
	}
	if !bytes.Equal(nan, wantNaN) {
		t.Fatalf("Encode(NaN) = %s, want %s", hexBytes(nan), hexBytes(wantNaN))
	}
}
