// pkg/bplus/tree.go
package bplus

import (
	"encoding/base64"
	"fmt"
	"sync"
)

// nameStem prefixes every object name a Tree generates.
const nameStem = "rgw-bplus"

// Tree is the façade over a single named tree: name, fanout and
// prefix_min_len are fixed at construction, root resolution and node
// naming are owned here, and every node read/write goes through the
// injected ObjectStore and RandomSource collaborators.
//
// Operations are leaf-resident only: there is no multi-level traversal or
// splitting yet. A key that would require a branch node and a split
// surfaces ErrTooBig unchanged, exactly as a direct Node.Insert on a full
// node would. Multi-level traversal is future work.
type Tree struct {
	name         string
	fanout       uint32
	prefixMinLen uint16

	store ObjectStore
	rng   RandomSource

	mu   sync.Mutex
	root *LeafNode
}

// NewTree constructs a Tree bound to store for persistence and rng for
// node-name generation. fanout and prefixMinLen default to
// DefaultFanout/DefaultPrefixMinLen when zero.
func NewTree(name string, fanout uint32, prefixMinLen uint16, store ObjectStore, rng RandomSource) *Tree {
	if fanout == 0 {
		fanout = DefaultFanout
	}
	if prefixMinLen == 0 {
		prefixMinLen = DefaultPrefixMinLen
	}
	if rng == nil {
		rng = DefaultRandomSource
	}
	return &Tree{name: name, fanout: fanout, prefixMinLen: prefixMinLen, store: store, rng: rng}
}

// RootName returns the well-known object name for this tree's root node.
func (t *Tree) RootName() string {
	return fmt.Sprintf("%s-%s-root", nameStem, t.name)
}

// GenNodeName returns a freshly generated, practically-unique object name
// for a non-root node: the name stem, the tree name, and a printable
// URL-safe base64 encoding of 16 random bytes.
func (t *Tree) GenNodeName() (string, error) {
	b, err := t.rng.RandomBytes(16)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return fmt.Sprintf("%s-%s-%s", nameStem, t.name, base64.RawURLEncoding.EncodeToString(b)), nil
}

// getRoot returns the tree's root leaf, loading it from the store or
// creating an empty one on first use. Caller must hold t.mu.
func (t *Tree) getRoot() (*LeafNode, error) {
	if t.root != nil {
		return t.root, nil
	}

	data, ok, err := t.store.Get(t.RootName())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	if !ok {
		t.root = NewLeafNode(t.fanout, t.prefixMinLen)
		return t.root, nil
	}

	ptr, err := NodeFromBytes(data)
	if err != nil {
		return nil, err
	}
	leaf, isLeaf := ptr.Leaf()
	if !isLeaf {
		return nil, ErrUnknownNodeType
	}
	t.root = leaf
	return t.root, nil
}

// saveRoot serializes and persists the tree's root leaf under RootName.
// Caller must hold t.mu.
func (t *Tree) saveRoot() error {
	buf, err := t.root.Serialize()
	if err != nil {
		return err
	}
	if err := t.store.Put(t.RootName(), buf); err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return nil
}

// Insert adds key/value to the tree. It returns ErrAlreadyExists if key is
// already present, or ErrTooBig if the root leaf is already at fanout and
// the tree would need to split into a branch node.
func (t *Tree) Insert(key, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	root, err := t.getRoot()
	if err != nil {
		return err
	}
	if err := root.Insert(NewLeafKey(key), value); err != nil {
		return err
	}
	return t.saveRoot()
}

// Remove deletes key from the tree if present. It is idempotent: removing
// an absent key is not an error.
func (t *Tree) Remove(key []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	root, err := t.getRoot()
	if err != nil {
		return err
	}
	if err := root.Remove(NewLeafKey(key)); err != nil {
		return err
	}
	return t.saveRoot()
}

// List walks entries in sorted order starting at prefix (or from the
// beginning, if prefix is nil), invoking cb for each until cb returns
// FlagStop, limit entries have been visited, or entries are exhausted. It
// returns the number of entries visited.
func (t *Tree) List(prefix []byte, cb ListCallback, limit *uint32, flags uint32) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	root, err := t.getRoot()
	if err != nil {
		return 0, err
	}
	return root.List(prefix, cb, limit, flags), nil
}

// Get is a convenience wrapper over List that returns the value stored
// for key, if any.
func (t *Tree) Get(key []byte) ([]byte, bool, error) {
	var (
		found bool
		value []byte
	)
	one := uint32(1)
	_, err := t.List(key, func(k, v []byte) uint32 {
		if string(k) != string(key) {
			return FlagStop
		}
		found = true
		value = v
		return FlagStop
	}, &one, FlagRequirePrefix)
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}
