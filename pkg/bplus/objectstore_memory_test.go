package bplus

import "testing"

func TestMemoryObjectStoreGetPut(t *testing.T) {
	s := NewMemoryObjectStore()

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

func TestMemoryObjectStorePutOverwrites(t *testing.T) {
	s := NewMemoryObjectStore()
	if err := s.Put("a", []byte("first")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("a", []byte("second")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, _, _ := s.Get("a")
	if string(data) != "second" {
		t.Errorf("Get(a) = %q, want second", data)
	}
	if got := s.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestMemoryObjectStoreGetReturnsCopy(t *testing.T) {
	s := NewMemoryObjectStore()
	if err := s.Put("a", []byte("hello")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, _, _ := s.Get("a")
	data[0] = 'H'
	again, _, _ := s.Get("a")
	if string(again) != "hello" {
		t.Errorf("mutating a returned slice must not affect stored data, got %q", again)
	}
}
