// pkg/bplus/key.go
package bplus

// PrefixTable is the per-node, append-only list of shared-prefix byte
// strings referenced by index from leaf keys. Entries are never reordered
// or removed while a node is live.
type PrefixTable [][]byte

// clone returns a deep copy of the table and of every entry's bytes.
func (pv PrefixTable) clone() PrefixTable {
	out := make(PrefixTable, len(pv))
	for i, p := range pv {
		out[i] = append([]byte(nil), p...)
	}
	return out
}

// prefixKind tags the sum type a LeafKey's prefix reference carries: none,
// an inline byte string, or an index into the owning node's prefix table.
type prefixKind uint8

const (
	prefixNone prefixKind = iota
	prefixInline
	prefixIndex
)

// PrefixRef is a leaf key's optional shared prefix: either absent, an
// inline byte string, or a stable 16-bit offset into the owning node's
// prefix table.
type PrefixRef struct {
	kind   prefixKind
	inline []byte
	index  uint16
}

// NoPrefix returns a reference with no shared prefix; the key's stem is
// the whole logical key.
func NoPrefix() PrefixRef { return PrefixRef{kind: prefixNone} }

// InlinePrefix returns a reference carrying the prefix bytes directly,
// without involving the owning node's prefix table.
func InlinePrefix(b []byte) PrefixRef {
	return PrefixRef{kind: prefixInline, inline: append([]byte(nil), b...)}
}

// IndexPrefix returns a reference to prefix table entry i.
func IndexPrefix(i uint16) PrefixRef {
	return PrefixRef{kind: prefixIndex, index: i}
}

// resolve returns the prefix bytes this reference denotes against pv, or
// nil if the reference is absent. An out-of-range index resolves to nil;
// callers that must distinguish that from an empty prefix should validate
// against len(pv) first.
func (r PrefixRef) resolve(pv PrefixTable) []byte {
	switch r.kind {
	case prefixInline:
		return r.inline
	case prefixIndex:
		if int(r.index) < len(pv) {
			return pv[r.index]
		}
		return nil
	default:
		return nil
	}
}

// LeafKey is a prefix-compressed byte key: an optional shared prefix plus
// a trailing stem. The logical key is prefix⧺stem.
type LeafKey struct {
	Prefix PrefixRef
	Stem   []byte
}

// NewLeafKey builds a LeafKey with no shared prefix; its logical value is
// exactly k.
func NewLeafKey(k []byte) LeafKey {
	return LeafKey{Prefix: NoPrefix(), Stem: append([]byte(nil), k...)}
}

// Logical returns the fully materialized logical key: the resolved prefix
// concatenated with the stem.
func (k LeafKey) Logical(pv PrefixTable) []byte {
	p := k.Prefix.resolve(pv)
	if len(p) == 0 {
		return append([]byte(nil), k.Stem...)
	}
	out := make([]byte, 0, len(p)+len(k.Stem))
	out = append(out, p...)
	out = append(out, k.Stem...)
	return out
}

// Less orders two leaf keys by their logical value via a two-view
// comparison that never materializes either operand's joined string.
func (k LeafKey) Less(pv PrefixTable, other LeafKey) bool {
	return lessTwoView(k.Prefix.resolve(pv), k.Stem, other.Prefix.resolve(pv), other.Stem)
}

// Equal reports logical equality of two leaf keys over the same prefix
// table, regardless of whether they happen to share a physical
// representation.
func (k LeafKey) Equal(pv PrefixTable, other LeafKey) bool {
	return equalTwoView(k.Prefix.resolve(pv), k.Stem, other.Prefix.resolve(pv), other.Stem)
}

// WithPrefix decides, given the immediate predecessor prev already present
// in sorted order, whether k should be rewritten to carry forward prev's
// prefix, introduce a new shared prefix, or stay unchanged. It never
// mutates prev; it may append to *pv. The returned key's logical value
// always equals k's.
func (k LeafKey) WithPrefix(pv *PrefixTable, prev LeafKey, minLen int) (LeafKey, bool) {
	logicalK := k.Logical(*pv)
	logicalPrev := prev.Logical(*pv)

	var (
		carried    bool
		carriedLen int
	)
	if prev.Prefix.kind == prefixIndex && int(prev.Prefix.index) < len(*pv) {
		prevPref := (*pv)[prev.Prefix.index]
		if hasPrefix(logicalK, prevPref) {
			carried = true
			carriedLen = len(prevPref)
		}
	}

	cp := commonPrefix(logicalK, logicalPrev, minLen)
	if len(cp) > 0 && (!carried || len(cp) > carriedLen) {
		idx := uint16(len(*pv))
		*pv = append(*pv, append([]byte(nil), cp...))
		return LeafKey{Prefix: IndexPrefix(idx), Stem: append([]byte(nil), logicalK[len(cp):]...)}, true
	}

	if carried {
		return LeafKey{Prefix: prev.Prefix, Stem: append([]byte(nil), logicalK[carriedLen:]...)}, true
	}

	return k, false
}

// FromBytes builds a search key with no shared prefix, used by Node.List
// to seek to a scan's starting position.
func (k LeafKey) FromBytes(b []byte) LeafKey { return NewLeafKey(b) }

// FenceKey is the sum of {leaf key, unbounded sentinel} used to express
// open-ended interval endpoints. A future revision may split unbounded
// into +∞/−∞.
type FenceKey struct {
	unbounded bool
	leaf      LeafKey
}

// Unbounded returns the single unbounded fence sentinel.
func Unbounded() FenceKey { return FenceKey{unbounded: true} }

// Bounded wraps a leaf key as a finite fence key.
func Bounded(k LeafKey) FenceKey { return FenceKey{leaf: k} }

// IsUnbounded reports whether this fence is the unbounded sentinel.
func (f FenceKey) IsUnbounded() bool { return f.unbounded }

// Leaf returns the wrapped leaf key; only meaningful when !IsUnbounded().
func (f FenceKey) Leaf() LeafKey { return f.leaf }

// Logical returns the materialized leaf key, or nil for the unbounded
// sentinel (there is no finite logical representation for it).
func (f FenceKey) Logical(pv PrefixTable) []byte {
	if f.unbounded {
		return nil
	}
	return f.leaf.Logical(pv)
}

// Less orders fence keys: unbounded is neither less than itself nor less
// than any leaf key, and every leaf key is less than unbounded.
func (f FenceKey) Less(pv PrefixTable, other FenceKey) bool {
	switch {
	case f.unbounded && other.unbounded:
		return false
	case f.unbounded:
		return false
	case other.unbounded:
		return true
	default:
		return f.leaf.Less(pv, other.leaf)
	}
}

// Equal is symmetric with Less: both unbounded, or both finite and
// logically equal leaf keys.
func (f FenceKey) Equal(pv PrefixTable, other FenceKey) bool {
	if f.unbounded || other.unbounded {
		return f.unbounded == other.unbounded
	}
	return f.leaf.Equal(pv, other.leaf)
}

// WithPrefix never compresses fence keys: branch-node separators are not
// prefix-compressed by this design.
func (f FenceKey) WithPrefix(pv *PrefixTable, prev FenceKey, minLen int) (FenceKey, bool) {
	return f, false
}

// FromBytes builds a finite, no-shared-prefix fence key, used by Node.List
// to seek to a scan's starting position in a branch node.
func (f FenceKey) FromBytes(b []byte) FenceKey { return Bounded(NewLeafKey(b)) }

// commonPrefix returns the longest shared byte prefix of a and b if, and
// only if, it is longer than minLen; otherwise it returns nil. It is
// symmetric: commonPrefix(a,b,m) == commonPrefix(b,a,m).
func commonPrefix(a, b []byte, minLen int) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	l := 0
	for l < n && a[l] == b[l] {
		l++
	}
	if l > minLen {
		return a[:l]
	}
	return nil
}

// hasPrefix reports whether s begins with p.
func hasPrefix(s, p []byte) bool {
	if len(p) > len(s) {
		return false
	}
	for i := range p {
		if s[i] != p[i] {
			return false
		}
	}
	return true
}

// byteAt returns the logical byte at position i of the concatenation p⧺s,
// and whether that position exists, without materializing the join.
func byteAt(p, s []byte, i int) (byte, bool) {
	if i < len(p) {
		return p[i], true
	}
	j := i - len(p)
	if j < len(s) {
		return s[j], true
	}
	return 0, false
}

// lessTwoView compares concatenation(ap,as) against concatenation(bp,bs)
// lexicographically, byte by byte, without materializing either join. A
// proper prefix is less than its extension.
func lessTwoView(ap, as, bp, bs []byte) bool {
	for i := 0; ; i++ {
		ca, aok := byteAt(ap, as, i)
		cb, bok := byteAt(bp, bs, i)
		switch {
		case !aok && !bok:
			return false
		case !aok:
			return true
		case !bok:
			return false
		case ca != cb:
			return ca < cb
		}
	}
}

// equalTwoView reports logical equality of the two (prefix,stem) views.
func equalTwoView(ap, as, bp, bs []byte) bool {
	if len(ap)+len(as) != len(bp)+len(bs) {
		return false
	}
	for i := 0; i < len(ap)+len(as); i++ {
		ca, _ := byteAt(ap, as, i)
		cb, _ := byteAt(bp, bs, i)
		if ca != cb {
			return false
		}
	}
	return true
}
