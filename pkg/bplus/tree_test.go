package bplus

import "testing"

func newTestTree(name string) *Tree {
	return NewTree(name, 10, 2, NewMemoryObjectStore(), NewFixedRandomSource(1))
}

func TestTreeInsertGetRemove(t *testing.T) {
	tr := newTestTree("t1")

	if err := tr.Insert([]byte("key-a"), []byte("value-a")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	value, ok, err := tr.Get([]byte("key-a"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || string(value) != "value-a" {
		t.Fatalf("Get(key-a) = (%q, %v), want (value-a, true)", value, ok)
	}

	if err := tr.Remove([]byte("key-a")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, err := tr.Get([]byte("key-a")); err != nil || ok {
		t.Errorf("Get after Remove: ok=%v err=%v, want ok=false", ok, err)
	}
}

func TestTreeInsertDuplicateKey(t *testing.T) {
	tr := newTestTree("t2")
	if err := tr.Insert([]byte("k"), []byte("v1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tr.Insert([]byte("k"), []byte("v2")); err != ErrAlreadyExists {
		t.Errorf("Insert duplicate: got %v, want ErrAlreadyExists", err)
	}
}

func TestTreePersistsAcrossFreshHandle(t *testing.T) {
	store := NewMemoryObjectStore()
	rng := NewFixedRandomSource(1)

	tr1 := NewTree("shared", 10, 2, store, rng)
	if err := tr1.Insert([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	tr2 := NewTree("shared", 10, 2, store, rng)
	value, ok, err := tr2.Get([]byte("a"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || string(value) != "1" {
		t.Fatalf("Get from fresh handle = (%q, %v), want (1, true)", value, ok)
	}
}

func TestTreeListPrefix(t *testing.T) {
	tr := newTestTree("t3")
	for _, kv := range [][2]string{{"com.a", "1"}, {"com.b", "2"}, {"net.a", "3"}} {
		if err := tr.Insert([]byte(kv[0]), []byte(kv[1])); err != nil {
			t.Fatalf("Insert(%q): %v", kv[0], err)
		}
	}
	count, err := tr.List([]byte("com."), func(k, v []byte) uint32 {
		return FlagNone
	}, nil, FlagRequirePrefix)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if count != 2 {
		t.Errorf("List(prefix=com.) visited %d entries, want 2", count)
	}
}

func TestTreeInsertPastFanoutReturnsTooBig(t *testing.T) {
	tr := NewTree("t4", 2, 2, NewMemoryObjectStore(), NewFixedRandomSource(1))
	if err := tr.Insert([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tr.Insert([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tr.Insert([]byte("c"), []byte("3")); err != ErrTooBig {
		t.Errorf("Insert past fanout: got %v, want ErrTooBig", err)
	}
}

func TestTreeRootNameAndGenNodeName(t *testing.T) {
	tr := newTestTree("mytree")
	if got, want := tr.RootName(), "rgw-bplus-mytree-root"; got != want {
		t.Errorf("RootName() = %q, want %q", got, want)
	}
	name, err := tr.GenNodeName()
	if err != nil {
		t.Fatalf("GenNodeName: %v", err)
	}
	if len(name) == 0 {
		t.Errorf("GenNodeName returned empty string")
	}
}
