package components

// Stage is a plant's life-cycle phase.
type Stage uint8

const (
	StageSeed Stage = iota
	StageSeedling
	StageGrowing
	StageMature
	StageDead
)

// String returns the display name for a Stage.
func (s Stage) String() string {
	switch s {
	case StageSeed:
		return "Seed"
	case StageSeedling:
		return "Seedling"
	case StageGrowing:
		return "Growing"
	case StageMature:
		return "Mature"
	case StageDead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// DeathCause records why a plant died. Set exactly once, at the
// transition into StageDead.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseEnergy
	CauseAge
	CauseTopple
	CauseGermination

	NumDeathCauses
)

// String returns the tally key for a DeathCause.
func (c DeathCause) String() string {
	switch c {
	case CauseEnergy:
		return "energy"
	case CauseAge:
		return "age"
	case CauseTopple:
		return "topple"
	case CauseGermination:
		return "germination"
	default:
		return "none"
	}
}

// Life is a plant's mutable state. Only the plant's own tick logic and
// the simulation's energy deposit write to it; renderers may only
// consume the GeometryDirty flag.
type Life struct {
	Stage         Stage
	Age           int32   // ticks since creation
	Height        float64 // non-decreasing until death
	Leaves        int32   // non-decreasing until death
	Energy        float64 // sole currency; death at or below zero
	Biomass       float64 // recomputed each tick
	Sprout        int32   // germination countdown, meaningful while StageSeed
	Cause         DeathCause
	GeometryDirty bool // set on height/leaf change, cleared by the consumer
}

// Dead reports whether the plant has reached the terminal stage.
func (l *Life) Dead() bool {
	return l.Stage == StageDead
}

// Die transitions to the terminal stage, recording the cause once.
// Further calls are no-ops.
func (l *Life) Die(cause DeathCause) {
	if l.Stage == StageDead {
		return
	}
	l.Stage = StageDead
	l.Cause = cause
}
