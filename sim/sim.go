// Package sim owns the plant population and advances it tick by tick.
//
// The Simulation is single-threaded: Step advances exactly one tick and
// returns after all five phases complete. Collaborators treat the
// population and grid as read-only snapshots between calls; the only
// mutation they may perform is acknowledging the geometry-dirty flag.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/genome"
	"github.com/pthm-cable/grove/systems"
)

// OrganismView is a read-only snapshot of one plant, consumed by
// renderers, inspectors, and telemetry.
type OrganismView struct {
	ID            uint32
	X, Y          int
	Stage         components.Stage
	Age           int32
	Height        float64
	Leaves        int32
	Energy        float64
	Biomass       float64
	Generation    int32
	Traits        genome.Traits
	Genes         genome.Genes
	DeathCause    components.DeathCause
	GeometryDirty bool
}

// Options configures a Simulation beyond the config file.
type Options struct {
	Seed int64 // RNG seed for all stochastic draws

	// OnAdded fires synchronously when a plant is created, from initial
	// seeding or germination. OnRemoved fires on death, before the grid
	// cell is vacated. Either may be nil.
	OnAdded   func(OrganismView)
	OnRemoved func(OrganismView)
}

// Simulation owns the light grid, the plant population, and the
// pending seed bank. It is the only writer of grid occupancy.
type Simulation struct {
	world *ecs.World
	rng   *rand.Rand
	cfg   *config.Config

	mapper *ecs.Map4[components.Position, components.Genotype, components.Plant, components.Life]
	filter *ecs.Filter4[components.Position, components.Genotype, components.Plant, components.Life]

	posMap   *ecs.Map1[components.Position]
	genoMap  *ecs.Map1[components.Genotype]
	plantMap *ecs.Map1[components.Plant]
	lifeMap  *ecs.Map1[components.Life]

	grid  *systems.LightGrid
	seeds *systems.SeedBank

	byID       map[uint32]ecs.Entity
	nextID     uint32
	tick       int32
	population int

	// Cumulative event counters; telemetry diffs these per window.
	deathCounts   [components.NumDeathCauses]int64
	germinations  int64
	seedsProduced int64
	seedsExpired  int64
	seedsLost     int64

	onAdded   func(OrganismView)
	onRemoved func(OrganismView)

	// Reused light-pass buffers.
	leafBuf []systems.Leaf
	gains   map[uint32]float64
}

// New constructs a Simulation from a validated config and seeds the
// founder population. Malformed configuration fails fast here.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sim: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	s := &Simulation{
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		cfg:   cfg,

		mapper: ecs.NewMap4[components.Position, components.Genotype, components.Plant, components.Life](world),
		filter: ecs.NewFilter4[components.Position, components.Genotype, components.Plant, components.Life](world),

		posMap:   ecs.NewMap1[components.Position](world),
		genoMap:  ecs.NewMap1[components.Genotype](world),
		plantMap: ecs.NewMap1[components.Plant](world),
		lifeMap:  ecs.NewMap1[components.Life](world),

		grid:  systems.NewLightGrid(cfg.Grid.Width, cfg.Grid.Height),
		seeds: systems.NewSeedBank(),

		byID:   make(map[uint32]ecs.Entity),
		nextID: 1,
		gains:  make(map[uint32]float64),

		onAdded:   opts.OnAdded,
		onRemoved: opts.OnRemoved,
	}

	s.seedFounders()
	return s, nil
}

// seedFounders places the initial population on random free cells.
func (s *Simulation) seedFounders() {
	for i := 0; i < s.cfg.Population.Initial; i++ {
		for tries := 0; tries < 100; tries++ {
			x := s.rng.Intn(s.grid.Width())
			y := s.rng.Intn(s.grid.Height())
			if s.grid.IsOccupied(x, y) {
				continue
			}
			s.spawn(x, y, genome.Random(s.rng), components.StageSeedling,
				s.cfg.Plant.FounderHeight, 0, s.cfg.Plant.FounderEnergy, 0)
			break
		}
	}
}

// AddPlant places a plant at an explicit cell: the external seeding
// surface. Fails if the cell is out of bounds or taken.
func (s *Simulation) AddPlant(x, y int, genes genome.Genes, stage components.Stage, height float64, leaves int32, energy float64) (uint32, error) {
	if !s.grid.InBounds(x, y) {
		return 0, fmt.Errorf("sim: cell (%d,%d) out of bounds", x, y)
	}
	if s.grid.IsOccupied(x, y) {
		return 0, fmt.Errorf("sim: cell (%d,%d) already occupied", x, y)
	}
	return s.spawn(x, y, genes, stage, height, leaves, energy, 0), nil
}

// spawn creates a plant entity, claims its cell, and fires OnAdded.
// Must not be called while a query is open.
func (s *Simulation) spawn(x, y int, genes genome.Genes, stage components.Stage, height float64, leaves int32, energy float64, generation int32) uint32 {
	id := s.nextID
	s.nextID++

	traits := genome.Decode(genes)
	pos := components.Position{X: x, Y: y}
	geno := components.Genotype{Genes: genes, Generation: generation}
	plant := components.Plant{ID: id, Traits: traits}
	life := components.Life{
		Stage:         stage,
		Height:        height,
		Leaves:        leaves,
		Energy:        energy,
		Sprout:        int32(traits[genome.GerminationTime]),
		GeometryDirty: true,
	}

	entity := s.mapper.NewEntity(&pos, &geno, &plant, &life)
	s.byID[id] = entity
	s.grid.Occupy(x, y, id)
	s.population++

	if s.onAdded != nil {
		s.onAdded(s.view(&pos, &geno, &plant, &life))
	}
	return id
}

func (s *Simulation) view(pos *components.Position, geno *components.Genotype, plant *components.Plant, life *components.Life) OrganismView {
	return OrganismView{
		ID:            plant.ID,
		X:             pos.X,
		Y:             pos.Y,
		Stage:         life.Stage,
		Age:           life.Age,
		Height:        life.Height,
		Leaves:        life.Leaves,
		Energy:        life.Energy,
		Biomass:       life.Biomass,
		Generation:    geno.Generation,
		Traits:        plant.Traits,
		Genes:         geno.Genes,
		DeathCause:    life.Cause,
		GeometryDirty: life.GeometryDirty,
	}
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int32 { return s.tick }

// Population returns the number of living plants.
func (s *Simulation) Population() int { return s.population }

// SeedCount returns the number of pending seeds.
func (s *Simulation) SeedCount() int { return s.seeds.Count() }

// Grid exposes the light grid for read-only queries.
func (s *Simulation) Grid() *systems.LightGrid { return s.grid }

// Config returns the live configuration; tunables edited on it take
// effect on the next tick.
func (s *Simulation) Config() *config.Config { return s.cfg }

// DeathCounts returns the cumulative per-cause death tallies.
func (s *Simulation) DeathCounts() map[string]int64 {
	counts := make(map[string]int64, 4)
	for c := components.CauseEnergy; c < components.NumDeathCauses; c++ {
		counts[c.String()] = s.deathCounts[c]
	}
	return counts
}

// Germinations returns the cumulative count of seeds that became plants.
func (s *Simulation) Germinations() int64 { return s.germinations }

// SeedsProduced returns the cumulative count of seeds placed on the grid.
func (s *Simulation) SeedsProduced() int64 { return s.seedsProduced }

// SeedsExpired returns the cumulative count of seeds that aged out.
func (s *Simulation) SeedsExpired() int64 { return s.seedsExpired }

// SeedsLost returns the cumulative count of germination attempts dropped
// to the population cap or a contested cell.
func (s *Simulation) SeedsLost() int64 { return s.seedsLost }

// Organisms returns a snapshot of every living plant, ordered by id.
func (s *Simulation) Organisms() []OrganismView {
	views := make([]OrganismView, 0, s.population)
	query := s.filter.Query()
	for query.Next() {
		pos, geno, plant, life := query.Get()
		views = append(views, s.view(pos, geno, plant, life))
	}
	// Ids are allocated in creation order; present them that way.
	for i := 1; i < len(views); i++ {
		for j := i; j > 0 && views[j-1].ID > views[j].ID; j-- {
			views[j-1], views[j] = views[j], views[j-1]
		}
	}
	return views
}

// OrganismByID returns a snapshot of one plant.
func (s *Simulation) OrganismByID(id uint32) (OrganismView, bool) {
	entity, ok := s.byID[id]
	if !ok {
		return OrganismView{}, false
	}
	return s.view(s.posMap.Get(entity), s.genoMap.Get(entity), s.plantMap.Get(entity), s.lifeMap.Get(entity)), true
}

// ConsumeGeometryDirty reports and clears a plant's one-shot geometry
// flag. This is the single mutation collaborators may perform.
func (s *Simulation) ConsumeGeometryDirty(id uint32) bool {
	entity, ok := s.byID[id]
	if !ok {
		return false
	}
	life := s.lifeMap.Get(entity)
	dirty := life.GeometryDirty
	life.GeometryDirty = false
	return dirty
}

// LeafPositionsOf derives a plant's current leaf layout: the same pure
// function the energy pass uses, so visuals always match the simulated
// canopy.
func (s *Simulation) LeafPositionsOf(id uint32) []systems.LeafPoint {
	entity, ok := s.byID[id]
	if !ok {
		return nil
	}
	pos := s.posMap.Get(entity)
	plant := s.plantMap.Get(entity)
	life := s.lifeMap.Get(entity)
	return systems.LeafPositions(plant.ID, pos.X, pos.Y, life.Leaves, life.Height, plant.Traits)
}
