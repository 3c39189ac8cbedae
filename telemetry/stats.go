// Package telemetry aggregates per-window simulation statistics and
// writes them as CSV and structured logs. It consumes the simulation's
// read-only snapshot surface and never feeds anything back.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`
	Seedlings  int `csv:"seedlings"`
	Growing    int `csv:"growing"`
	Mature     int `csv:"mature"`
	SeedCount  int `csv:"seeds_pending"`

	// Events during window
	Germinations     int64 `csv:"germinations"`
	DeathsEnergy     int64 `csv:"deaths_energy"`
	DeathsAge        int64 `csv:"deaths_age"`
	DeathsTopple     int64 `csv:"deaths_topple"`
	DeathsGermFailed int64 `csv:"deaths_germination"`
	SeedsProduced    int64 `csv:"seeds_produced"`
	SeedsExpired     int64 `csv:"seeds_expired"`
	SeedsLost        int64 `csv:"seeds_lost"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Height distribution
	HeightMean float64 `csv:"height_mean"`
	HeightP90  float64 `csv:"height_p90"`
	HeightMax  float64 `csv:"height_max"`

	// Trait drift (population means of decoded traits)
	MeanMaxHeight   float64 `csv:"trait_max_height"`
	MeanGrowthRate  float64 `csv:"trait_growth_rate"`
	MeanTrunkGirth  float64 `csv:"trait_trunk_girth"`
	MeanLeafCount   float64 `csv:"trait_leaf_count"`
	MeanMaxAge      float64 `csv:"trait_max_age"`
	MeanSeedEnergy  float64 `csv:"trait_seed_energy"`
	TraitHeightStd  float64 `csv:"trait_max_height_std"`
	MeanGeneration  float64 `csv:"generation_mean"`
}

// Distribution summarizes a sample: mean and the 10/50/90 quantiles.
// Returns zeros for an empty sample.
func Distribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}

// MeanStd returns the mean and standard deviation of a sample.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	return mean, std
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("population", s.Population),
		slog.Int("seedlings", s.Seedlings),
		slog.Int("growing", s.Growing),
		slog.Int("mature", s.Mature),
		slog.Int("seeds_pending", s.SeedCount),
		slog.Int64("germinations", s.Germinations),
		slog.Int64("deaths_energy", s.DeathsEnergy),
		slog.Int64("deaths_age", s.DeathsAge),
		slog.Int64("deaths_topple", s.DeathsTopple),
		slog.Int64("deaths_germination", s.DeathsGermFailed),
		slog.Int64("seeds_produced", s.SeedsProduced),
		slog.Int64("seeds_expired", s.SeedsExpired),
		slog.Int64("seeds_lost", s.SeedsLost),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("height_mean", s.HeightMean),
		slog.Float64("height_max", s.HeightMax),
		slog.Float64("trait_max_height", s.MeanMaxHeight),
		slog.Float64("trait_growth_rate", s.MeanGrowthRate),
		slog.Float64("trait_leaf_count", s.MeanLeafCount),
		slog.Float64("generation_mean", s.MeanGeneration),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
