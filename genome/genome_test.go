package genome

import (
	"math"
	"math/rand"
	"testing"
)

func TestDecodeMidpoint(t *testing.T) {
	// A gene of 0.5 has logit zero, so every exponential trait decodes
	// to exactly its base value.
	var g Genes
	for i := range g {
		g[i] = 0.5
	}
	tr := Decode(g)

	for i := TraitID(0); i < NumTraits; i++ {
		def := Defs[i]
		want := def.Base
		if def.Linear {
			want = 0.5 * def.Base
		}
		if def.Integer {
			want = math.Floor(want)
		}
		if math.Abs(tr[i]-want) > 1e-9 {
			t.Errorf("Decode mid %s = %v, want %v", def.Name, tr[i], want)
		}
	}
}

func TestDecodeLinearEndpoints(t *testing.T) {
	var g Genes
	for i := range g {
		g[i] = 0.5
	}

	g[LeafOpacity] = 0
	if got := Decode(g)[LeafOpacity]; got != 0 {
		t.Errorf("linear trait at gene 0 = %v, want 0", got)
	}

	g[LeafOpacity] = 1
	if got := Decode(g)[LeafOpacity]; got != Defs[LeafOpacity].Base {
		t.Errorf("linear trait at gene 1 = %v, want %v", got, Defs[LeafOpacity].Base)
	}
}

func TestDecodeMonotonic(t *testing.T) {
	// Larger genes always decode to larger values, for both mappings.
	for i := TraitID(0); i < NumTraits; i++ {
		if Defs[i].Integer {
			continue // flooring flattens small differences
		}
		var lo, hi Genes
		for j := range lo {
			lo[j], hi[j] = 0.5, 0.5
		}
		lo[i], hi[i] = 0.3, 0.7
		if Decode(lo)[i] >= Decode(hi)[i] {
			t.Errorf("%s: decode not monotonic, %v >= %v", Defs[i].Name, Decode(lo)[i], Decode(hi)[i])
		}
	}
}

func TestDecodeIntegerFloor(t *testing.T) {
	var g Genes
	for i := range g {
		g[i] = 0.5
	}

	// Tiny leaf_count gene: floor would reach 0, minimum is 1.
	g[LeafCount] = 0.001
	tr := Decode(g)
	if tr[LeafCount] != 1 {
		t.Errorf("integer floor minimum: leaf_count = %v, want 1", tr[LeafCount])
	}
	if tr[LeafCount] != math.Floor(tr[LeafCount]) {
		t.Errorf("integer trait not whole: %v", tr[LeafCount])
	}
}

func TestDecodeClampExtreme(t *testing.T) {
	var g Genes
	for i := range g {
		g[i] = 0.5
	}
	// Genes at the open-interval edges hit the logit clamp; decoded
	// values stay inside the global sane range.
	g[MaxHeight] = 1e-12
	g[SeedEnergy] = 1 - 1e-12
	tr := Decode(g)
	if tr[MaxHeight] < 1e-4 {
		t.Errorf("decoded trait below sane range: %v", tr[MaxHeight])
	}
	if tr[SeedEnergy] > 1e4 {
		t.Errorf("decoded trait above sane range: %v", tr[SeedEnergy])
	}
}

func TestDecodeDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := Random(rng)
	a, b := Decode(g), Decode(g)
	if a != b {
		t.Error("Decode is not deterministic for identical genes")
	}
}

func TestRandomFounderBand(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		g := Random(rng)
		for i, v := range g {
			if v < 0.35 || v > 0.65 {
				t.Fatalf("founder gene %d = %v, outside [0.35, 0.65]", i, v)
			}
		}
	}
}

func TestMutateStaysInOpenInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Extreme parents plus a huge mutation rate: children must still be
	// strictly inside (0,1).
	var parent Genes
	for i := range parent {
		if i%2 == 0 {
			parent[i] = 0.0001
		} else {
			parent[i] = 0.9999
		}
	}
	for trial := 0; trial < 1000; trial++ {
		child := Mutate(parent, 10.0, rng)
		for i, v := range child {
			if v <= 0 || v >= 1 {
				t.Fatalf("child gene %d = %v, escaped (0,1)", i, v)
			}
		}
	}
}

func TestMutateZeroRate(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	parent := Random(rng)
	child := Mutate(parent, 0, rng)

	// Zero rate round-trips through logit/sigmoid; traits must match to
	// within float tolerance.
	pt, ct := Decode(parent), Decode(child)
	for i := range pt {
		if math.Abs(pt[i]-ct[i]) > 1e-9 {
			t.Errorf("trait %s changed under zero-rate mutation: %v -> %v", Defs[i].Name, pt[i], ct[i])
		}
	}
}

func TestMutateSpread(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	var parent Genes
	for i := range parent {
		parent[i] = 0.5
	}

	// A positive rate must actually move genes.
	moved := false
	child := Mutate(parent, 0.25, rng)
	for i := range child {
		if child[i] != parent[i] {
			moved = true
		}
	}
	if !moved {
		t.Error("positive mutation rate produced an identical child")
	}
}
