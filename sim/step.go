package sim

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/genome"
	"github.com/pthm-cable/grove/systems"
)

// Step advances the simulation by exactly one tick. Phase order is
// load-bearing: each phase's output is the next phase's input.
func (s *Simulation) Step() {
	s.tick++

	s.lightPass()
	s.tickPlants()
	s.reproduce()
	s.germinate()
	s.cleanup()
}

// lightPass runs the global light/energy sweep. Every leaf of every
// living, non-Seed, leaf-bearing plant is gathered into one list and
// sorted by height descending; walking that list once (read lit area,
// then stamp own shadow) yields both self-shading and mutual shading
// from a single mechanism, with strict top-down causality. Gains are
// applied only after the sweep completes so no plant's harvest feeds
// back into the same pass.
func (s *Simulation) lightPass() {
	p := &s.cfg.Params
	s.grid.ClearShadow()
	s.leafBuf = s.leafBuf[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, _, plant, life := query.Get()
		if life.Dead() || life.Stage == components.StageSeed || life.Leaves == 0 {
			continue
		}
		tr := plant.Traits
		for i, pt := range systems.LeafPositions(plant.ID, pos.X, pos.Y, life.Leaves, life.Height, tr) {
			s.leafBuf = append(s.leafBuf, systems.Leaf{
				OrgID:      plant.ID,
				Index:      i,
				X:          pt.X,
				Y:          pt.Y,
				Height:     pt.Height,
				Radius:     tr[genome.LeafSize],
				Opacity:    tr[genome.LeafOpacity],
				Efficiency: tr[genome.PhotoEfficiency],
			})
		}
	}

	systems.SortLeaves(s.leafBuf)

	for id := range s.gains {
		delete(s.gains, id)
	}
	for _, leaf := range s.leafBuf {
		lit := s.grid.LitArea(leaf.X, leaf.Y, leaf.Radius, leaf.Opacity)
		s.gains[leaf.OrgID] += systems.HarvestPerLeaf(lit, leaf.Efficiency)
		s.grid.StampLeafShadow(leaf.X, leaf.Y, leaf.Radius, leaf.Opacity)
	}

	for id, gain := range s.gains {
		entity, ok := s.byID[id]
		if !ok {
			continue
		}
		life := s.lifeMap.Get(entity)
		if !life.Dead() {
			life.Energy += gain * p.EnergyScale
		}
	}
}

// tickPlants runs the per-plant state machine. No plant's tick reads
// another's mutable state, so iteration order is irrelevant here.
func (s *Simulation) tickPlants() {
	p := &s.cfg.Params
	query := s.filter.Query()
	for query.Next() {
		_, _, plant, life := query.Get()
		systems.TickLife(life, plant.Traits, p, s.rng)
	}
}

// reproduce lets every Mature plant on its reproduction tick spend its
// seed budget on dispersed seeds. Seeds landing out of bounds or on an
// occupied cell are skipped; the parent pays only for seeds actually
// placed.
func (s *Simulation) reproduce() {
	p := &s.cfg.Params
	rate := s.cfg.Mutation.Rate

	query := s.filter.Query()
	for query.Next() {
		pos, geno, plant, life := query.Get()
		if life.Dead() || life.Stage != components.StageMature {
			continue
		}
		tr := plant.Traits
		if life.Age%systems.ReproInterval(tr, p) != 0 {
			continue
		}

		cost := tr[genome.SeedEnergy]
		numSeeds := int(math.Floor(systems.SeedBudget(life) / cost))
		for i := 0; i < numSeeds; i++ {
			angle := s.rng.Float64() * 2 * math.Pi
			dist := s.rng.Float64() * life.Height * p.DispersalScale * tr[genome.SeedRange]
			x := pos.X + int(math.Round(math.Cos(angle)*dist))
			y := pos.Y + int(math.Round(math.Sin(angle)*dist))
			if s.grid.IsOccupied(x, y) {
				continue
			}

			s.grid.Reserve(x, y)
			s.seeds.Add(systems.Seed{
				X:          x,
				Y:          y,
				Genes:      genome.Mutate(geno.Genes, rate, s.rng),
				Energy:     cost,
				Generation: geno.Generation + 1,
				Countdown:  int32(tr[genome.GerminationTime]),
			})
			life.Energy -= cost
			s.seedsProduced++
		}
	}
}

// germinate ages the seed bank. Expired seeds vacate their cell
// silently; due seeds attempt to spawn a Seedling, which fails quietly
// at the population cap or on a contested cell. Lost attempts are
// never requeued.
func (s *Simulation) germinate() {
	s.seeds.Update(int32(s.cfg.Params.SeedMaxAge),
		func(seed *systems.Seed) {
			s.grid.Vacate(seed.X, seed.Y)
			s.seedsExpired++
		},
		func(seed *systems.Seed) {
			s.grid.Vacate(seed.X, seed.Y)
			if s.population >= s.cfg.Population.Max || s.grid.IsOccupied(seed.X, seed.Y) {
				s.seedsLost++
				return
			}
			s.spawn(seed.X, seed.Y, seed.Genes, components.StageSeedling,
				s.cfg.Plant.SproutHeight, 0, seed.Energy, seed.Generation)
			s.germinations++
		})
}

// cleanup removes dead plants: tally the cause, fire OnRemoved, vacate
// the cell. Entities are collected first and removed after the query,
// since the world is locked during iteration.
func (s *Simulation) cleanup() {
	type deadInfo struct {
		entity ecs.Entity
		view   OrganismView
	}
	var toRemove []deadInfo

	query := s.filter.Query()
	for query.Next() {
		pos, geno, plant, life := query.Get()
		if life.Dead() {
			toRemove = append(toRemove, deadInfo{
				entity: query.Entity(),
				view:   s.view(pos, geno, plant, life),
			})
		}
	}

	for _, dead := range toRemove {
		s.deathCounts[dead.view.DeathCause]++
		if s.onRemoved != nil {
			s.onRemoved(dead.view)
		}
		s.grid.Vacate(dead.view.X, dead.view.Y)
		s.mapper.Remove(dead.entity)
		delete(s.byID, dead.view.ID)
		s.population--
	}
}
