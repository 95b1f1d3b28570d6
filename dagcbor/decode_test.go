package dagcbor

import (
	"testing"
)

func TestDecodeSeedScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want Node
	}{
		{"null f6", []byte{0xf6}, Null},
		{"null f7 (undefined collapses)", []byte{0xf7}, Null},
		{"true", []byte{0xf5}, BoolNode(true)},
		{"false", []byte{0xf4}, BoolNode(false)},
		{
			"indefinite list",
			[]byte{0x9f, 0x01, 0x02, 0x03, 0xff},
			ListNode([]Node{Int64Node(1), Int64Node(2), Int64Node(3)}),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Decode(c.in)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !got.Equal(c.want) {
				t.Fatalf("Decode(%s) = %#v, want %#v", c.name, got, c.want)
			}
		})
	}
}

func TestDecodeUnexpectedInitialByte(t *testing.T) {
	// 0x1c is not a defined CBOR initial byte for major type 0.
	if _, err := Decode([]byte{0x1c}); err == nil {
		t.Fatalf("expected ErrUnexpectedInitialByte")
	}
}

func TestDecodeShortRead(t *testing.T) {
	// 0x18 demands one trailing byte that isn't present.
	if _, err := Decode([]byte{0x18}); err == nil {
		t.Fatalf("expected short-read error")
	}
}

func TestDecodeMapNonStringKeyRejected(t *testing.T) {
	// a1 (map, 1 entry) 01 (int key) 01 (int value) — DAG-CBOR map keys
	// must be strings.
	if _, err := Decode([]byte{0xa1, 0x01, 0x01}); err == nil {
		t.Fatalf("expected error decoding non-string map key")
	}
}

func TestDecodeMaxDepthExceeded(t *testing.T) {
	in := make([]byte, 0, MaxDepth+2)
	for i := 0; i < MaxDepth+2; i++ {
		in = append(in, 0x81) // array of length 1, nested
	}
	in = append(in, 0x00)
	if _, err := Decode(in); err == nil {
		t.Fatalf("expected ErrMaxDepthExceeded")
	}
}
