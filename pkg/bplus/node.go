// pkg/bplus/node.go
package bplus

import "sync"

// NodeType tags a node as terminal (Leaf) or interior routing (Branch).
// It is immutable after construction.
type NodeType uint8

const (
	KindLeaf NodeType = iota
	KindBranch
)

func (t NodeType) String() string {
	if t == KindBranch {
		return "Branch"
	}
	return "Leaf"
}

// Flag bits for Clear and List, and the List callback's return value.
const (
	FlagNone          uint32 = 0x0
	FlagRequirePrefix uint32 = 0x1
	FlagLocked        uint32 = 0x2
	FlagStop          uint32 = 0x4
)

// Key is the constraint the node engine's two flavors satisfy: LeafKey for
// leaf nodes, FenceKey for branch nodes. All ordering flows through these
// methods; no routine outside this interface may rely on a key's physical
// form except to materialize the logical sequence.
type Key[K any] interface {
	Logical(pv PrefixTable) []byte
	Less(pv PrefixTable, other K) bool
	Equal(pv PrefixTable, other K) bool
	// WithPrefix offers the key a chance to rewrite itself to share or
	// extend a prefix against the immediate predecessor prev. Keys that
	// are never prefix compressed (FenceKey) return (k, false)
	// unconditionally.
	WithPrefix(pv *PrefixTable, prev K, minLen int) (K, bool)
	// FromBytes builds a search key with no shared prefix from raw bytes,
	// used by List to seek to a scan's starting position. The receiver's
	// own state is irrelevant; call it on a zero K value.
	FromBytes(b []byte) K
}

type kvEntry[K Key[K]] struct {
	key K
	val []byte
}

// Node is a fixed-fanout, sorted-entry container: one structural core
// shared by the leaf and branch flavors via the Key[K] type parameter.
// kind, fanout, and prefixMinLen are immutable after construction;
// entries and the prefix table are the only mutable state, and both are
// guarded by mu.
type Node[K Key[K]] struct {
	kind         NodeType
	fanout       uint32
	prefixMinLen uint16

	mu sync.Mutex

	lowerBound FenceKey
	upperBound FenceKey

	data []kvEntry[K]
	pv   PrefixTable
}

// NewNode constructs an empty node of the given flavor with unbounded
// fence bounds.
func NewNode[K Key[K]](kind NodeType, fanout uint32, prefixMinLen uint16) *Node[K] {
	return &Node[K]{
		kind:         kind,
		fanout:       fanout,
		prefixMinLen: prefixMinLen,
		lowerBound:   Unbounded(),
		upperBound:   Unbounded(),
	}
}

// NewNodeBounded constructs an empty node with explicit fence bounds,
// for branch children that govern a known keyspace interval.
func NewNodeBounded[K Key[K]](kind NodeType, fanout uint32, prefixMinLen uint16, lower, upper FenceKey) *Node[K] {
	n := NewNode[K](kind, fanout, prefixMinLen)
	n.lowerBound = lower
	n.upperBound = upper
	return n
}

// Kind reports whether this is a Leaf or Branch node.
func (n *Node[K]) Kind() NodeType { return n.kind }

// Fanout is the maximum entry count.
func (n *Node[K]) Fanout() uint32 { return n.fanout }

// PrefixMinLen is the minimum shared length that justifies introducing a
// new prefix table entry.
func (n *Node[K]) PrefixMinLen() uint16 { return n.prefixMinLen }

// Bounds returns the node's governing fence-key interval.
func (n *Node[K]) Bounds() (lower, upper FenceKey) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lowerBound, n.upperBound
}

// Size returns the current number of entries.
func (n *Node[K]) Size() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.data)
}

// Clear removes all entries. The prefix table is left in place; future
// scans never observe the cleared entries.
func (n *Node[K]) Clear(flags uint32) {
	if flags&FlagLocked == 0 {
		n.mu.Lock()
		defer n.mu.Unlock()
	}
	n.data = nil
}

// lowerBoundPos returns the smallest index i such that data[i].key is not
// logically less than key (a standard lower_bound search). Caller must
// hold n.mu.
func (n *Node[K]) lowerBoundPos(key K) int {
	lo, hi := 0, len(n.data)
	for lo < hi {
		mid := (lo + hi) / 2
		if n.data[mid].key.Less(n.pv, key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Insert adds (key, value) in sorted position, consulting the key model
// for ordering and prefix introduction. The node is not mutated on any
// error path.
func (n *Node[K]) Insert(key K, value []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.data) == int(n.fanout) {
		return ErrTooBig
	}

	pos := n.lowerBoundPos(key)
	if pos < len(n.data) && n.data[pos].key.Equal(n.pv, key) {
		return ErrAlreadyExists
	}

	refKey := key
	if pos > 0 {
		if rewritten, ok := key.WithPrefix(&n.pv, n.data[pos-1].key, int(n.prefixMinLen)); ok {
			refKey = rewritten
		}
	}

	n.data = append(n.data, kvEntry[K]{})
	copy(n.data[pos+1:], n.data[pos:])
	n.data[pos] = kvEntry[K]{key: refKey, val: append([]byte(nil), value...)}
	return nil
}

// Remove deletes the entry logically equal to key, if present. It is a
// no-op, and always returns nil, when the key is absent: removal stays
// idempotent rather than reporting "not found" as a distinct error.
func (n *Node[K]) Remove(key K) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	pos := n.lowerBoundPos(key)
	if pos < len(n.data) && n.data[pos].key.Equal(n.pv, key) {
		n.data = append(n.data[:pos], n.data[pos+1:]...)
	}
	return nil
}

// ListCallback receives each visited (logical key, value) pair during a
// scan. Setting FlagStop in the return value terminates iteration
// promptly, after this entry, without side effects on the node.
type ListCallback func(key, value []byte) uint32

// List performs a range scan: seek to prefix (or the first entry), visit
// in order, materializing each logical key, stopping on limit, FlagStop,
// prefix exhaustion under FlagRequirePrefix, or data exhaustion. It
// returns the number of entries visited.
func (n *Node[K]) List(prefix []byte, cb ListCallback, limit *uint32, flags uint32) int {
	if flags&FlagLocked == 0 {
		n.mu.Lock()
		defer n.mu.Unlock()
	}

	lim := ^uint32(0)
	if limit != nil {
		lim = *limit
	}

	start := 0
	if prefix != nil {
		var zero K
		start = n.lowerBoundPos(zero.FromBytes(prefix))
	}

	count := 0
	for i := start; i < len(n.data) && uint32(count) < lim; i++ {
		logical := n.data[i].key.Logical(n.pv)
		if prefix != nil && flags&FlagRequirePrefix != 0 && !hasPrefix(logical, prefix) {
			break
		}
		ret := cb(logical, n.data[i].val)
		count++
		if ret&FlagStop != 0 {
			break
		}
	}
	return count
}
