// Package components defines the ECS component types for plants.
package components

import "github.com/pthm-cable/grove/genome"

// Position is a plant's anchor cell on the grid. Immutable after creation.
type Position struct {
	X, Y int
}

// Genotype carries the immutable gene vector and lineage depth.
type Genotype struct {
	Genes      genome.Genes
	Generation int32
}

// Plant bundles identity and the decoded trait snapshot. Both are fixed
// at creation; traits are decoded once from the genotype.
type Plant struct {
	ID     uint32
	Traits genome.Traits
}
