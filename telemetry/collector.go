package telemetry

import (
	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genome"
	"github.com/pthm-cable/grove/sim"
)

// Collector samples the simulation's cumulative counters and snapshot
// surface at window boundaries, producing per-window deltas. It holds
// no reference into simulation state between flushes.
type Collector struct {
	windowTicks int32
	windowStart int32

	// Cumulative values at the last flush, for windowed deltas.
	lastGerminations  int64
	lastSeedsProduced int64
	lastSeedsExpired  int64
	lastSeedsLost     int64
	lastDeaths        map[string]int64
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: int32(windowTicks),
		lastDeaths:  make(map[string]int64),
	}
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStart >= c.windowTicks
}

// Flush samples the simulation and produces a WindowStats, resetting
// the window baseline.
func (c *Collector) Flush(s *sim.Simulation) WindowStats {
	tick := s.Tick()
	deaths := s.DeathCounts()
	organisms := s.Organisms()

	stats := WindowStats{
		WindowStartTick: c.windowStart,
		WindowEndTick:   tick,
		Population:      len(organisms),
		SeedCount:       s.SeedCount(),

		Germinations:     s.Germinations() - c.lastGerminations,
		SeedsProduced:    s.SeedsProduced() - c.lastSeedsProduced,
		SeedsExpired:     s.SeedsExpired() - c.lastSeedsExpired,
		SeedsLost:        s.SeedsLost() - c.lastSeedsLost,
		DeathsEnergy:     deaths["energy"] - c.lastDeaths["energy"],
		DeathsAge:        deaths["age"] - c.lastDeaths["age"],
		DeathsTopple:     deaths["topple"] - c.lastDeaths["topple"],
		DeathsGermFailed: deaths["germination"] - c.lastDeaths["germination"],
	}

	energies := make([]float64, 0, len(organisms))
	heights := make([]float64, 0, len(organisms))
	maxHeightTraits := make([]float64, 0, len(organisms))
	var growthRate, girth, leafCount, maxAge, seedEnergy, generation float64

	for _, o := range organisms {
		switch o.Stage {
		case components.StageSeedling:
			stats.Seedlings++
		case components.StageGrowing:
			stats.Growing++
		case components.StageMature:
			stats.Mature++
		}
		energies = append(energies, o.Energy)
		heights = append(heights, o.Height)
		if o.Height > stats.HeightMax {
			stats.HeightMax = o.Height
		}
		maxHeightTraits = append(maxHeightTraits, o.Traits[genome.MaxHeight])
		growthRate += o.Traits[genome.GrowthRate]
		girth += o.Traits[genome.TrunkGirth]
		leafCount += o.Traits[genome.LeafCount]
		maxAge += o.Traits[genome.MaxAge]
		seedEnergy += o.Traits[genome.SeedEnergy]
		generation += float64(o.Generation)
	}

	stats.EnergyMean, stats.EnergyP10, stats.EnergyP50, stats.EnergyP90 = Distribution(energies)
	stats.HeightMean, _, _, stats.HeightP90 = Distribution(heights)
	stats.MeanMaxHeight, stats.TraitHeightStd = MeanStd(maxHeightTraits)

	if n := float64(len(organisms)); n > 0 {
		stats.MeanGrowthRate = growthRate / n
		stats.MeanTrunkGirth = girth / n
		stats.MeanLeafCount = leafCount / n
		stats.MeanMaxAge = maxAge / n
		stats.MeanSeedEnergy = seedEnergy / n
		stats.MeanGeneration = generation / n
	}

	// Reset the window baseline.
	c.windowStart = tick
	c.lastGerminations = s.Germinations()
	c.lastSeedsProduced = s.SeedsProduced()
	c.lastSeedsExpired = s.SeedsExpired()
	c.lastSeedsLost = s.SeedsLost()
	c.lastDeaths = deaths

	return stats
}
