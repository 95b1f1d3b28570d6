package dagcbor

import (
	"math"
	"math/big"

	"github.com/ipfs/go-cid"
)

// Kind identifies which of the nine variants a Node holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindList
	KindStringMap
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindList:
		return "List"
	case KindStringMap:
		return "StringMap"
	case KindLink:
		return "Link"
	default:
		return "Unknown"
	}
}

// Node is the closed, nine-variant IPLD data model: Null, Bool, Integer,
// Float, String, Bytes, List, StringMap, Link. There is no tenth variant;
// every constructor below returns one of the nine listed above.
//
// Integer is carried in a *big.Int rather than int64 because DAG-CBOR's
// encodable range, [-2^64, 2^64-1], is wider than any fixed-width Go
// integer.
type Node struct {
	kind Kind
	b    bool
	i    *big.Int
	f    float64
	s    string
	by   []byte
	list []Node
	m    map[string]Node
	link cid.Cid
}

// Null is the zero value of Node.
var Null = Node{kind: KindNull}

func BoolNode(b bool) Node { return Node{kind: KindBool, b: b} }

// IntNode wraps a signed magnitude of any size; Encode fails later if it
// falls outside [-2^64, 2^64-1].
func IntNode(i *big.Int) Node { return Node{kind: KindInt, i: i} }

// Int64Node is a convenience constructor for the common case of a value
// that fits in an int64.
func Int64Node(i int64) Node { return Node{kind: KindInt, i: big.NewInt(i)} }

// Uint64Node is a convenience constructor for the common case of a value
// that fits in a uint64.
func Uint64Node(u uint64) Node { return Node{kind: KindInt, i: new(big.Int).SetUint64(u)} }

func FloatNode(f float64) Node { return Node{kind: KindFloat, f: f} }

func StringNode(s string) Node { return Node{kind: KindString, s: s} }

func BytesNode(b []byte) Node { return Node{kind: KindBytes, by: b} }

func ListNode(l []Node) Node { return Node{kind: KindList, list: l} }

func MapNode(m map[string]Node) Node { return Node{kind: KindStringMap, m: m} }

func LinkNode(c cid.Cid) Node { return Node{kind: KindLink, link: c} }

func (n Node) Kind() Kind { return n.kind }

func (n Node) IsNull() bool { return n.kind == KindNull }

func (n Node) AsBool() (bool, bool) {
	return n.b, n.kind == KindBool
}

func (n Node) AsInt() (*big.Int, bool) {
	return n.i, n.kind == KindInt
}

func (n Node) AsFloat() (float64, bool) {
	return n.f, n.kind == KindFloat
}

func (n Node) AsString() (string, bool) {
	return n.s, n.kind == KindString
}

func (n Node) AsBytes() ([]byte, bool) {
	return n.by, n.kind == KindBytes
}

func (n Node) AsList() ([]Node, bool) {
	return n.list, n.kind == KindList
}

func (n Node) AsStringMap() (map[string]Node, bool) {
	return n.m, n.kind == KindStringMap
}

func (n Node) AsLink() (cid.Cid, bool) {
	return n.link, n.kind == KindLink
}

// Equal reports structural equality. Per the documented scope of P1,
// Float(NaN) is never equal to itself nor to any other Float, including
// another NaN; callers comparing round-tripped values containing floats
// should special-case NaN rather than rely on Equal.
func (n Node) Equal(o Node) bool {
	if n.kind != o.kind {
		return false
	}
	switch n.kind {
	case KindNull:
		return true
	case KindBool:
		return n.b == o.b
	case KindInt:
		return n.i.Cmp(o.i) == 0
	case KindFloat:
		if math.IsNaN(n.f) || math.IsNaN(o.f) {
			return false
		}
		return n.f == o.f
	case KindString:
		return n.s == o.s
	case KindBytes:
		return string(n.by) == string(o.by)
	case KindList:
		if len(n.list) != len(o.list) {
			return false
		}
		for i := range n.list {
			if !n.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindStringMap:
		if len(n.m) != len(o.m) {
			return false
		}
		for k, v := range n.m {
			ov, ok := o.m[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	case KindLink:
		return n.link.Equals(o.link)
	default:
		return false
	}
}
