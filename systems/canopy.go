package systems

import (
	"math"
	"sort"

	"github.com/pthm-cable/grove/genome"
)

// Leaf canopy geometry constants.
const (
	// Leaves occupy the top band of the trunk, from 60% of current
	// height up to the tip.
	leafBandBottom = 0.6

	// Branch length tapers from full length at the base of the band to
	// 30% at the tip, narrowing the canopy with height.
	leafTipTaper = 0.3

	// Golden angle in radians; spreads per-plant canopy rotation so
	// orientation is stable across ticks without being stored.
	goldenAngle = 2.399963229728653
)

// LeafPoint is one leaf's horizontal position and its height above
// ground. Used identically by the energy pass and by renderers.
type LeafPoint struct {
	X, Y   float64
	Height float64
}

// Leaf is one canopy leaf flattened into the global light sweep.
type Leaf struct {
	OrgID      uint32
	Index      int
	X, Y       float64
	Height     float64
	Radius     float64
	Opacity    float64
	Efficiency float64 // owner's photo_efficiency, for HarvestPerLeaf
}

// canopyRotation derives a stable per-plant angular offset from its id.
func canopyRotation(id uint32) float64 {
	return math.Mod(float64(id)*goldenAngle, 2*math.Pi)
}

// LeafPositions derives a plant's leaf layout from its anchor cell,
// current height, leaf count, and traits. Pure function of plant state:
// leaves sit at equal angular steps around the trunk, rotated by an
// id-derived offset, climbing the top 40% of the trunk while the
// branch radius tapers toward the tip.
func LeafPositions(id uint32, px, py int, leaves int32, height float64, tr genome.Traits) []LeafPoint {
	if leaves <= 0 {
		return nil
	}
	n := int(leaves)
	points := make([]LeafPoint, n)
	base := canopyRotation(id)
	step := 2 * math.Pi / float64(n)
	branch := tr[genome.BranchLength]
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		angle := base + float64(i)*step
		dist := branch * (1 - (1-leafTipTaper)*t)
		points[i] = LeafPoint{
			X:      float64(px) + math.Cos(angle)*dist,
			Y:      float64(py) + math.Sin(angle)*dist,
			Height: height * (leafBandBottom + (1-leafBandBottom)*t),
		}
	}
	return points
}

// SortLeaves orders the global leaf list for the light sweep: height
// descending, ties broken by organism id then leaf index so the pass
// is deterministic regardless of gather order.
func SortLeaves(leaves []Leaf) {
	sort.Slice(leaves, func(i, j int) bool {
		a, b := leaves[i], leaves[j]
		if a.Height != b.Height {
			return a.Height > b.Height
		}
		if a.OrgID != b.OrgID {
			return a.OrgID < b.OrgID
		}
		return a.Index < b.Index
	})
}

// HarvestPerLeaf converts a leaf's lit area into gathered energy using
// a saturating efficiency curve: diminishing returns on the raw
// efficiency trait, never exceeding the lit area itself.
func HarvestPerLeaf(litArea, photoEfficiency float64) float64 {
	return litArea * (1 - math.Exp(-photoEfficiency))
}
