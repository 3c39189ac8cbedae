// Package systems holds the spatial light model and the per-plant
// life-cycle logic that the simulation orchestrates.
package systems

import "math"

// Owner values for LightGrid occupancy.
const (
	// NoOwner marks a free cell.
	NoOwner int32 = 0
	// SeedReservation marks a cell held by a germinating seed.
	SeedReservation int32 = -1
)

// LightGrid is a rectangular raster tracking accumulated shadow opacity
// and cell occupancy. Shadow is an unbounded additive accumulator; the
// caller is responsible for stamping leaves top-down so that LitArea
// only sees occlusion from strictly higher leaves.
type LightGrid struct {
	width, height int
	shadow        []float64
	occupied      []int32
}

// NewLightGrid creates a grid with all cells lit and free. Dimensions
// must be validated by the caller; see config.Validate.
func NewLightGrid(width, height int) *LightGrid {
	return &LightGrid{
		width:    width,
		height:   height,
		shadow:   make([]float64, width*height),
		occupied: make([]int32, width*height),
	}
}

// Width returns the grid width in cells.
func (g *LightGrid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *LightGrid) Height() int { return g.height }

// InBounds reports whether (x,y) is a real cell.
func (g *LightGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// ClearShadow resets the shadow accumulator for a new light pass.
func (g *LightGrid) ClearShadow() {
	for i := range g.shadow {
		g.shadow[i] = 0
	}
}

// forFootprint visits every cell whose center lies within radius of
// (cx,cy), boundary inclusive, clipped to the grid.
func (g *LightGrid) forFootprint(cx, cy, radius float64, fn func(x, y int)) {
	x0 := int(math.Ceil(cx - radius))
	x1 := int(math.Floor(cx + radius))
	y0 := int(math.Ceil(cy - radius))
	y1 := int(math.Floor(cy + radius))
	r2 := radius * radius
	for y := y0; y <= y1; y++ {
		if y < 0 || y >= g.height {
			continue
		}
		dy := float64(y) - cy
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= g.width {
				continue
			}
			dx := float64(x) - cx
			if dx*dx+dy*dy <= r2 {
				fn(x, y)
			}
		}
	}
}

// StampLeafShadow adds opacity to every cell under a circular leaf
// footprint centered at (cx,cy).
func (g *LightGrid) StampLeafShadow(cx, cy, radius, opacity float64) {
	g.forFootprint(cx, cy, radius, func(x, y int) {
		g.shadow[y*g.width+x] += opacity
	})
}

// Light returns the remaining light at a cell in [0,1]. Cells outside
// the grid report zero light.
func (g *LightGrid) Light(x, y int) float64 {
	if !g.InBounds(x, y) {
		return 0
	}
	l := 1 - g.shadow[y*g.width+x]
	if l < 0 {
		return 0
	}
	return l
}

// LitArea sums light*opacity over a circular leaf footprint: the
// harvestable energy of a leaf placed at (cx,cy) given the shadow
// accumulated so far.
func (g *LightGrid) LitArea(cx, cy, radius, opacity float64) float64 {
	var sum float64
	g.forFootprint(cx, cy, radius, func(x, y int) {
		sum += g.Light(x, y) * opacity
	})
	return sum
}

// IsOccupied reports whether a cell is taken. Out-of-bounds cells are
// always occupied, which keeps placement and dispersal inside the grid
// without bounds special cases at every call site.
func (g *LightGrid) IsOccupied(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.occupied[y*g.width+x] != NoOwner
}

// OwnerAt returns the occupancy marker at a cell, NoOwner if free or
// out of bounds.
func (g *LightGrid) OwnerAt(x, y int) int32 {
	if !g.InBounds(x, y) {
		return NoOwner
	}
	return g.occupied[y*g.width+x]
}

// Occupy marks a cell as owned by a plant id.
func (g *LightGrid) Occupy(x, y int, id uint32) {
	if g.InBounds(x, y) {
		g.occupied[y*g.width+x] = int32(id)
	}
}

// Reserve marks a cell as held by a germinating seed.
func (g *LightGrid) Reserve(x, y int) {
	if g.InBounds(x, y) {
		g.occupied[y*g.width+x] = SeedReservation
	}
}

// Vacate frees a cell.
func (g *LightGrid) Vacate(x, y int) {
	if g.InBounds(x, y) {
		g.occupied[y*g.width+x] = NoOwner
	}
}
