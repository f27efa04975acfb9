package bplus

import "testing"

func TestFixedRandomSourceDeterministic(t *testing.T) {
	a := NewFixedRandomSource(42)
	b := NewFixedRandomSource(42)

	ba, err := a.RandomBytes(16)
	if err != nil {
		t.Fatalf("RandomBytes: %v", err)
	}
	bb, err := b.RandomBytes(16)
	if err != nil {
		t.Fatalf("RandomBytes: %v", err)
	}
	if string(ba) != string(bb) {
		t.Errorf("two FixedRandomSource instances with the same seed diverged")
	}
}

func TestFixedRandomSourceDifferentSeeds(t *testing.T) {
	a := NewFixedRandomSource(1)
	b := NewFixedRandomSource(2)

	ba, _ := a.RandomBytes(16)
	bb, _ := b.RandomBytes(16)
	if string(ba) == string(bb) {
		t.Errorf("different seeds produced identical output")
	}
}

func TestFixedRandomSourceSuccessiveCallsDiffer(t *testing.T) {
	a := NewFixedRandomSource(7)
	first, _ := a.RandomBytes(16)
	second, _ := a.RandomBytes(16)
	if string(first) == string(second) {
		t.Errorf("successive draws from the same source must not repeat")
	}
}

func TestRandomBytesDistribution(t *testing.T) {
	rng := NewFixedRandomSource(99)
	buckets := make(map[byte]int)
	const samples = 1000

	for i := 0; i < samples; i++ {
		b, err := rng.RandomBytes(16)
		if err != nil {
			t.Fatalf("RandomBytes: %v", err)
		}
		buckets[b[0]>>3]++
	}

	if len(buckets) < 16 {
		t.Errorf("expected random bytes to spread across most of the byte space, only hit %d of 32 buckets", len(buckets))
	}
}
