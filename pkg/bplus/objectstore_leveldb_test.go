package bplus

import "testing"

func TestLevelDBObjectStoreGetPut(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLevelDBObjectStore(dir)
	if err != nil {
		t.Fatalf("NewLevelDBObjectStore: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = (ok=%v, err=%v), want ok=false", ok, err)
	}

	if err := s.Put("a", []byte("hello")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, ok, err := s.Get("a")
	if err != nil || !ok || string(data) != "hello" {
		t.Fatalf("Get(a) = (%q, %v, %v), want (hello, true, nil)", data, ok, err)
	}
}

func TestLevelDBObjectStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewLevelDBObjectStore(dir)
	if err != nil {
		t.Fatalf("NewLevelDBObjectStore: %v", err)
	}
	if err := s1.Put("a", []byte("hello")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := NewLevelDBObjectStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	data, ok, err := s2.Get("a")
	if err != nil || !ok || string(data) != "hello" {
		t.Fatalf("Get(a) after reopen = (%q, %v, %v), want (hello, true, nil)", data, ok, err)
	}
}
