package systems

import "github.com/pthm-cable/grove/genome"

// Seed is a transient reproduction record: not a full plant, just what
// germination needs to build one. Created by reproduction, consumed by
// germination or expiry.
type Seed struct {
	X, Y       int
	Genes      genome.Genes
	Energy     float64
	Generation int32
	Countdown  int32 // ticks until germination attempt
	Age        int32 // ticks since creation, bounded by viability
}

// SeedBank manages pending seeds between the reproduction and
// germination phases. Seeds age in place and are compacted out once
// they expire or come due.
type SeedBank struct {
	seeds []Seed
}

// NewSeedBank creates an empty seed bank.
func NewSeedBank() *SeedBank {
	return &SeedBank{seeds: make([]Seed, 0, 64)}
}

// Add queues a seed. The caller has already reserved its grid cell.
func (b *SeedBank) Add(s Seed) {
	b.seeds = append(b.seeds, s)
}

// Count returns the number of pending seeds.
func (b *SeedBank) Count() int {
	return len(b.seeds)
}

// Update ages every pending seed by one tick. Seeds past maxViableAge
// are handed to onExpire and discarded; seeds whose countdown reaches
// zero are handed to onReady (which attempts the spawn) and discarded
// either way; a failed attempt is a lost seed, never requeued.
func (b *SeedBank) Update(maxViableAge int32, onExpire, onReady func(*Seed)) {
	alive := 0
	for i := range b.seeds {
		s := &b.seeds[i]
		s.Age++
		s.Countdown--

		if s.Age > maxViableAge {
			onExpire(s)
			continue
		}
		if s.Countdown <= 0 {
			onReady(s)
			continue
		}

		b.seeds[alive] = b.seeds[i]
		alive++
	}
	b.seeds = b.seeds[:alive]
}
