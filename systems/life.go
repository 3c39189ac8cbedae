package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/genome"
)

const (
	// matureHeightFrac: reaching this fraction of genetic max height
	// matures a plant regardless of age.
	matureHeightFrac = 0.9

	// seedlingHeight: growing past this height promotes Seedling to Growing.
	seedlingHeight = 1.0

	// girthExponent penalizes thin-but-tall structures super-linearly in
	// the trunk and branch biomass terms.
	girthExponent = 2.3
)

// Biomass computes a plant's structural mass from its current size and
// traits: trunk, leaf, and branch terms with independent scale factors.
func Biomass(life *components.Life, tr genome.Traits, p *config.ParamsConfig) float64 {
	girth := math.Pow(tr[genome.TrunkGirth], girthExponent)
	trunk := p.TrunkMassScale * girth * life.Height
	leaf := p.LeafMassScale * float64(life.Leaves) * math.Pow(tr[genome.LeafSize], 2)
	branch := p.BranchMassScale * girth * tr[genome.BranchLength] * float64(life.Leaves)
	return trunk + leaf + branch
}

// SeedBudget returns the energy a plant may spend on seeds this tick:
// zero unless Mature, otherwise energy minus a safety buffer of half
// the current biomass, floored at zero. Mature plants never spend
// their whole reserve on offspring.
func SeedBudget(life *components.Life) float64 {
	if life.Stage != components.StageMature {
		return 0
	}
	budget := life.Energy - life.Biomass/2
	if budget < 0 {
		return 0
	}
	return budget
}

// ReproInterval derives a plant's reproduction interval in ticks from
// its lifespan: longer-lived genotypes reproduce less frequently in
// absolute terms but proportionally similarly.
func ReproInterval(tr genome.Traits, p *config.ParamsConfig) int32 {
	interval := int32(math.Floor(tr[genome.MaxAge] * p.ReproIntervalFrac))
	if interval < 1 {
		interval = 1
	}
	return interval
}

// LeafInterval returns the tick spacing between leaf additions, derived
// from maturity age and the genetic leaf budget.
func LeafInterval(tr genome.Traits) int32 {
	interval := int32(math.Floor(tr[genome.MaturityAge] / tr[genome.LeafCount]))
	if interval < 1 {
		interval = 1
	}
	return interval
}

// TickLife advances one plant by one tick: aging, germination,
// structural failure, growth, stage transitions, biomass, and
// maintenance. All failure modes are state transitions into StageDead
// with a recorded cause; no-op if the plant is already dead.
//
// Energy gates on growth are strict ("energy > cost"), so a single
// growth transaction never drives energy negative; only the
// unconditional maintenance and germination burns can.
func TickLife(life *components.Life, tr genome.Traits, p *config.ParamsConfig, rng *rand.Rand) {
	if life.Dead() {
		return
	}

	// Old age preempts everything else this tick.
	life.Age++
	if float64(life.Age) >= tr[genome.MaxAge] {
		life.Die(components.CauseAge)
		return
	}

	// Ungerminated seeds only burn and count down.
	if life.Stage == components.StageSeed {
		// Faster sprouting costs more per tick.
		life.Energy -= p.GerminationBurn / tr[genome.GerminationTime]
		life.Sprout--
		if life.Energy <= 0 {
			life.Die(components.CauseGermination)
			return
		}
		if life.Sprout <= 0 {
			life.Stage = components.StageSeedling
		}
		return
	}

	// Structural check: top-heavy plants risk collapse.
	ratio := tr[genome.TrunkGirth] / (life.Height * p.StabilityCoeff)
	if ratio < 1 {
		deficit := 1 - ratio
		if rng.Float64() < deficit*deficit*p.ToppleBaseChance {
			life.Die(components.CauseTopple)
			return
		}
	}

	prevHeight := life.Height
	prevLeaves := life.Leaves

	if life.Stage == components.StageSeedling || life.Stage == components.StageGrowing {
		grow(life, tr, p)
	}

	// Stage advancement.
	switch {
	case life.Height >= matureHeightFrac*tr[genome.MaxHeight] || float64(life.Age) >= tr[genome.MaturityAge]:
		life.Stage = components.StageMature
	case life.Stage == components.StageSeedling && life.Height > seedlingHeight:
		life.Stage = components.StageGrowing
	}

	life.Biomass = Biomass(life, tr, p)

	// Maintenance. Mature plants that never expressed their genetic
	// potential pay a premium, counter-selecting runaway trait inflation.
	mult := 1.0
	if life.Stage == components.StageMature {
		realized := (life.Height/tr[genome.MaxHeight] + float64(life.Leaves)/tr[genome.LeafCount]) / 2
		if realized > 1 {
			realized = 1
		}
		mult = 1 + (1-realized)*p.UnrealizedPenalty
	}
	life.Energy -= life.Biomass * p.MaintenanceRate * mult
	if life.Energy <= 0 {
		life.Die(components.CauseEnergy)
		return
	}

	if life.Height != prevHeight || life.Leaves != prevLeaves {
		life.GeometryDirty = true
	}
}

// grow attempts height growth and scheduled leaf addition, both gated
// on strict affordability.
func grow(life *components.Life, tr genome.Traits, p *config.ParamsConfig) {
	maxHeight := tr[genome.MaxHeight]
	if life.Height < maxHeight {
		step := tr[genome.GrowthRate]
		if remaining := maxHeight - life.Height; remaining < step {
			step = remaining
		}
		cost := step * tr[genome.TrunkGirth] * p.GrowthCostRate
		if life.Energy > cost {
			life.Height += step
			life.Energy -= cost
		}
	}

	if float64(life.Leaves) < tr[genome.LeafCount] && life.Age%LeafInterval(tr) == 0 {
		cost := p.LeafCostRate * math.Pow(tr[genome.LeafSize], 3)
		if life.Energy > cost {
			life.Leaves++
			life.Energy -= cost
		}
	}
}
