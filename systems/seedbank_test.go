package systems

import (
	"testing"

	"github.com/pthm-cable/grove/genome"
)

func TestSeedBankAddCount(t *testing.T) {
	b := NewSeedBank()
	if b.Count() != 0 {
		t.Errorf("fresh bank count = %d, want 0", b.Count())
	}

	b.Add(Seed{X: 1, Y: 2, Countdown: 5})
	b.Add(Seed{X: 3, Y: 4, Countdown: 5})
	if b.Count() != 2 {
		t.Errorf("count = %d, want 2", b.Count())
	}
}

func TestSeedBankReady(t *testing.T) {
	b := NewSeedBank()
	b.Add(Seed{X: 1, Y: 1, Countdown: 2})
	b.Add(Seed{X: 2, Y: 2, Countdown: 5})

	var ready []Seed
	onExpire := func(s *Seed) { t.Errorf("unexpected expiry at (%d,%d)", s.X, s.Y) }
	onReady := func(s *Seed) { ready = append(ready, *s) }

	b.Update(100, onExpire, onReady)
	if len(ready) != 0 {
		t.Fatalf("no seed should be ready after one tick, got %d", len(ready))
	}

	b.Update(100, onExpire, onReady)
	if len(ready) != 1 || ready[0].X != 1 {
		t.Fatalf("seed (1,1) should be ready after two ticks, got %v", ready)
	}
	// Consumed seeds are compacted out.
	if b.Count() != 1 {
		t.Errorf("count after consumption = %d, want 1", b.Count())
	}
}

func TestSeedBankExpiry(t *testing.T) {
	b := NewSeedBank()
	b.Add(Seed{X: 7, Y: 8, Countdown: 50})

	var expired []Seed
	onExpire := func(s *Seed) { expired = append(expired, *s) }
	onReady := func(s *Seed) { t.Errorf("unexpected ready at (%d,%d)", s.X, s.Y) }

	// Viability of 3 ticks: the fourth update expires it.
	for i := 0; i < 3; i++ {
		b.Update(3, onExpire, onReady)
	}
	if len(expired) != 0 {
		t.Fatalf("seed expired early: %v", expired)
	}

	b.Update(3, onExpire, onReady)
	if len(expired) != 1 || expired[0].X != 7 {
		t.Fatalf("seed should expire past viability, got %v", expired)
	}
	if b.Count() != 0 {
		t.Errorf("count after expiry = %d, want 0", b.Count())
	}
}

func TestSeedBankCarriesGenesAndGeneration(t *testing.T) {
	b := NewSeedBank()
	var g genome.Genes
	for i := range g {
		g[i] = 0.42
	}
	b.Add(Seed{X: 1, Y: 1, Genes: g, Energy: 40, Generation: 3, Countdown: 1})

	var got *Seed
	b.Update(100, func(*Seed) {}, func(s *Seed) { c := *s; got = &c })

	if got == nil {
		t.Fatal("seed with countdown 1 should be ready on first update")
	}
	if got.Genes != g || got.Energy != 40 || got.Generation != 3 {
		t.Errorf("seed payload mangled: %+v", got)
	}
}

func TestSeedBankCompaction(t *testing.T) {
	b := NewSeedBank()
	// Interleave seeds that come due with seeds that stay pending.
	b.Add(Seed{X: 0, Countdown: 1})
	b.Add(Seed{X: 1, Countdown: 10})
	b.Add(Seed{X: 2, Countdown: 1})
	b.Add(Seed{X: 3, Countdown: 10})

	b.Update(100, func(*Seed) {}, func(*Seed) {})

	if b.Count() != 2 {
		t.Fatalf("count = %d, want 2 survivors", b.Count())
	}
	// Survivors keep their relative order.
	if b.seeds[0].X != 1 || b.seeds[1].X != 3 {
		t.Errorf("survivors = (%d, %d), want (1, 3)", b.seeds[0].X, b.seeds[1].X)
	}
}
