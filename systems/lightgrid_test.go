package systems

import (
	"math"
	"testing"
)

func TestLightGridOutOfBounds(t *testing.T) {
	g := NewLightGrid(10, 10)

	cells := [][2]int{{-1, 0}, {10, 0}, {0, -1}, {0, 10}, {-5, -5}, {100, 100}}
	for _, c := range cells {
		if got := g.Light(c[0], c[1]); got != 0 {
			t.Errorf("Light(%d,%d) = %v, want 0 out of bounds", c[0], c[1], got)
		}
		// Out-of-bounds cells read as occupied so placement never
		// escapes the grid.
		if !g.IsOccupied(c[0], c[1]) {
			t.Errorf("IsOccupied(%d,%d) = false, want true out of bounds", c[0], c[1])
		}
		if g.OwnerAt(c[0], c[1]) != NoOwner {
			t.Errorf("OwnerAt(%d,%d) != NoOwner out of bounds", c[0], c[1])
		}
	}
}

func TestLightGridFullLightWhenClear(t *testing.T) {
	g := NewLightGrid(20, 20)
	if got := g.Light(5, 5); got != 1 {
		t.Errorf("fresh grid Light = %v, want 1", got)
	}
}

func TestLitAreaCountsFootprintCells(t *testing.T) {
	g := NewLightGrid(40, 40)

	// Radius 1.5 around a far-from-edge center covers the 3x3 block of
	// cell centers: 9 cells, all fully lit.
	const opacity = 0.5
	got := g.LitArea(20, 20, 1.5, opacity)
	want := 9 * opacity
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("LitArea = %v, want %v", got, want)
	}
}

func TestLitAreaClippedAtEdge(t *testing.T) {
	g := NewLightGrid(40, 40)

	// Centered on a corner, only the in-bounds quadrant contributes:
	// cells (0,0), (1,0), (0,1) of the 3x3 block.
	got := g.LitArea(0, 0, 1.5, 1.0)
	if math.Abs(got-3) > 1e-9 {
		t.Errorf("corner LitArea = %v, want 3", got)
	}
}

func TestStampLeafShadowAccumulates(t *testing.T) {
	g := NewLightGrid(20, 20)

	g.StampLeafShadow(10, 10, 0.5, 0.4)
	if got := g.Light(10, 10); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("after one stamp Light = %v, want 0.6", got)
	}

	g.StampLeafShadow(10, 10, 0.5, 0.4)
	if got := g.Light(10, 10); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("after two stamps Light = %v, want 0.2", got)
	}

	// Accumulated opacity above 1 floors light at zero, never negative.
	g.StampLeafShadow(10, 10, 0.5, 0.4)
	if got := g.Light(10, 10); got != 0 {
		t.Errorf("over-shadowed Light = %v, want 0", got)
	}
}

func TestStampThenLitArea(t *testing.T) {
	g := NewLightGrid(40, 40)

	base := g.LitArea(20, 20, 1.5, 1.0)
	g.StampLeafShadow(20, 20, 1.5, 0.3)
	shaded := g.LitArea(20, 20, 1.5, 1.0)

	want := base * 0.7
	if math.Abs(shaded-want) > 1e-9 {
		t.Errorf("shaded LitArea = %v, want %v", shaded, want)
	}
}

func TestClearShadowResetsLight(t *testing.T) {
	g := NewLightGrid(20, 20)
	g.StampLeafShadow(10, 10, 2, 0.9)
	g.ClearShadow()
	if got := g.Light(10, 10); got != 1 {
		t.Errorf("Light after ClearShadow = %v, want 1", got)
	}
}

func TestClearShadowKeepsOccupancy(t *testing.T) {
	g := NewLightGrid(20, 20)
	g.Occupy(3, 4, 7)
	g.ClearShadow()
	if g.OwnerAt(3, 4) != 7 {
		t.Error("ClearShadow must not touch occupancy")
	}
}

func TestOccupancyLifecycle(t *testing.T) {
	g := NewLightGrid(10, 10)

	if g.IsOccupied(2, 3) {
		t.Error("fresh cell should be free")
	}

	g.Occupy(2, 3, 42)
	if !g.IsOccupied(2, 3) {
		t.Error("cell should be occupied after Occupy")
	}
	if got := g.OwnerAt(2, 3); got != 42 {
		t.Errorf("OwnerAt = %v, want 42", got)
	}

	g.Vacate(2, 3)
	if g.IsOccupied(2, 3) {
		t.Error("cell should be free after Vacate")
	}
}

func TestReserveMarksSeedCell(t *testing.T) {
	g := NewLightGrid(10, 10)

	g.Reserve(5, 5)
	if !g.IsOccupied(5, 5) {
		t.Error("reserved cell should read as occupied")
	}
	if got := g.OwnerAt(5, 5); got != SeedReservation {
		t.Errorf("OwnerAt reserved cell = %v, want SeedReservation", got)
	}

	g.Vacate(5, 5)
	if g.IsOccupied(5, 5) {
		t.Error("vacated reservation should be free")
	}
}
