// pkg/bplus/io.go
package bplus

import (
	"crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"unsafe"
)

// RandomSource is a source of uniformly random bytes, used for node-name
// generation. The default implementation draws from a deterministic PRNG
// seeded from a nondeterministic entropy source at startup.
type RandomSource interface {
	RandomBytes(n int) ([]byte, error)
}

// systemRandomSource is the process-wide default: one seed at startup,
// reused for every Tree that does not inject its own source.
type systemRandomSource struct {
	mu  sync.Mutex
	gen *rand.ChaCha8
}

func newSystemRandomSource() *systemRandomSource {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand failing is a fatal environment error everywhere in
		// Go; fall back to a timestamp-independent but still varying
		// seed derived from the address of a fresh allocation so startup
		// never panics on a starved entropy pool.
		var fallback [8]byte
		fresh := new([8]byte)
		binary.LittleEndian.PutUint64(fallback[:], uint64(uintptr(unsafe.Pointer(fresh))))
		copy(seed[:], fallback[:])
	}
	return &systemRandomSource{gen: rand.NewChaCha8(seed)}
}

func (s *systemRandomSource) RandomBytes(n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, n)
	_, _ = s.gen.Read(buf)
	return buf, nil
}

// DefaultRandomSource is the process-wide RandomSource used by trees that
// do not inject their own, seeded once at package init.
var DefaultRandomSource RandomSource = newSystemRandomSource()

// FixedRandomSource is a deterministic RandomSource for tests: successive
// calls continue one stream derived from a fixed seed, so node names are
// reproducible across runs.
type FixedRandomSource struct {
	mu  sync.Mutex
	gen *rand.ChaCha8
}

// NewFixedRandomSource returns a RandomSource seeded deterministically
// from seed.
func NewFixedRandomSource(seed uint64) *FixedRandomSource {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:8], seed)
	return &FixedRandomSource{gen: rand.NewChaCha8(s)}
}

func (f *FixedRandomSource) RandomBytes(n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, n)
	_, _ = f.gen.Read(buf)
	return buf, nil
}

// ObjectStore is the persistence contract for serialized nodes: an opaque
// name→bytes mapping. The engine never assumes atomic cross-object
// operations.
type ObjectStore interface {
	// Get returns the bytes stored under name, and whether it was
	// present at all.
	Get(name string) ([]byte, bool, error)
	// Put stores data under name, replacing any previous value.
	Put(name string, data []byte) error
}
