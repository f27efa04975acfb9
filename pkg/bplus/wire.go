// pkg/bplus/wire.go
package bplus

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// OndiskVersion is the only on-disk format version this build understands.
const OndiskVersion = 1

// DefaultFanout and DefaultPrefixMinLen are the defaults a Tree falls
// back to when constructed with a zero value.
const (
	DefaultFanout       = 100
	DefaultPrefixMinLen = 2
)

// wireBody is the three-segment record a node serializes to: header,
// kv-data, update-log. The `,as_array` tag (vmihailenco/msgpack's
// struct-as-array mode) makes the three fields serialize as a positional
// sequence rather than a name-keyed map, so the record stays an ordered,
// self-describing triple instead of growing field names into every
// stored byte string.
type wireBody struct {
	_msgpack struct{} `msgpack:",as_array"`

	// Header is [ondisk_version, node_type, fanout, prefix_min_len].
	Header []uint64

	// KVData alternates materialized logical key, value, in sorted
	// order, one pair per entry.
	KVData [][]byte

	// UpdateLog is reserved; currently a single placeholder string.
	UpdateLog []string
}

// wireRecord is the top-level record: a map with exactly one entry,
// "rgw-bplus-leaf", kept under that name for both leaf- and
// branch-flavored nodes.
type wireRecord struct {
	Body wireBody `msgpack:"rgw-bplus-leaf"`
}

// Serialize walks the node's entries into the flat wire format above. It
// locks the node for its full duration, via List's FlagLocked re-entry
// path, so no writer can observe torn state mid-scan.
func (n *Node[K]) Serialize() ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	kv := make([][]byte, 0, 2*len(n.data))
	n.List(nil, func(key, val []byte) uint32 {
		kv = append(kv, append([]byte(nil), key...), append([]byte(nil), val...))
		return FlagNone
	}, nil, FlagLocked)

	rec := wireRecord{
		Body: wireBody{
			Header:    []uint64{uint64(OndiskVersion), uint64(n.kind), uint64(n.fanout), uint64(n.prefixMinLen)},
			KVData:    kv,
			UpdateLog: []string{"update log records"},
		},
	}
	buf, err := msgpack.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("bplus: marshal node: %w", err)
	}
	return buf, nil
}

// NodeFromBytes reads the header, dispatches on the declared node type,
// builds an empty node with the declared fanout and prefix_min_len and
// unbounded fence bounds, then repopulates entries from the kv-data pairs
// in the order they were written (Serialize emits sorted order; this
// does not re-sort).
func NodeFromBytes(buf []byte) (NodePtr, error) {
	var rec wireRecord
	if err := msgpack.Unmarshal(buf, &rec); err != nil {
		return NodePtr{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	h := rec.Body.Header
	if len(h) != 4 {
		return NodePtr{}, ErrCorrupt
	}
	version := h[0]
	nodeType := NodeType(h[1])
	fanout := uint32(h[2])
	prefixMinLen := uint16(h[3])

	if version != OndiskVersion {
		return NodePtr{}, ErrUnsupportedVersion
	}

	kv := rec.Body.KVData
	if len(kv)%2 != 0 {
		return NodePtr{}, ErrCorrupt
	}

	switch nodeType {
	case KindLeaf:
		n := NewLeafNode(fanout, prefixMinLen)
		n.data = make([]kvEntry[LeafKey], 0, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			n.data = append(n.data, kvEntry[LeafKey]{key: NewLeafKey(kv[i]), val: append([]byte(nil), kv[i+1]...)})
		}
		return LeafNodePtr(n), nil
	case KindBranch:
		n := NewBranchNode(fanout, prefixMinLen)
		n.data = make([]kvEntry[FenceKey], 0, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			n.data = append(n.data, kvEntry[FenceKey]{key: Bounded(NewLeafKey(kv[i])), val: append([]byte(nil), kv[i+1]...)})
		}
		return BranchNodePtr(n), nil
	default:
		return NodePtr{}, ErrUnknownNodeType
	}
}
