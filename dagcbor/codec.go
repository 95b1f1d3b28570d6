package dagcbor

import "github.com/ipfs/go-cid"

// Tag is the multicodec identifier for DAG-CBOR.
const Tag uint64 = 0x71

// Codec is a thin, stateless dispatcher over the package-level encode,
// decode, and reference-scanning functions. It holds no fields; CodecTag
// always reports Tag, since only DAG-CBOR (0x71) is implemented.
type Codec struct{}

// DagCBOR is the package's single Codec value.
var DagCBOR = Codec{}

// CodecTag reports the numeric multicodec identifier this Codec implements.
func (Codec) CodecTag() uint64 { return Tag }

// Encode canonically serialises n.
func (Codec) Encode(n Node) ([]byte, error) { return Encode(n) }

// Decode parses exactly one value from b.
func (Codec) Decode(b []byte) (Node, error) { return Decode(b) }

// References scans b for outgoing links without materialising it.
func (Codec) References(b []byte, sink func(cid.Cid)) error {
	return References(NewByteCursor(b), sink)
}

// Skip advances past one encoded value at r's current position.
func (Codec) Skip(r *ByteCursor) error { return Skip(r) }
