// Package genome maps fixed-length gene vectors to phenotypic traits.
//
// Every gene is a value strictly inside (0,1). Decoding is a pure
// function of the gene vector and the static trait table; mutation
// works in logit space so offspring genes can approach but never reach
// the interval bounds.
package genome

import (
	"math"
	"math/rand"
)

// TraitID indexes both the trait definition table and decoded Traits.
type TraitID int

const (
	MaxHeight TraitID = iota
	GrowthRate
	TrunkGirth
	LeafSize
	LeafCount
	BranchLength
	LeafOpacity
	PhotoEfficiency
	MaxAge
	MaturityAge
	GerminationTime
	SeedEnergy
	SeedRange

	NumTraits
)

// Def describes one trait's decoding parameters.
type Def struct {
	Name        string
	Base        float64 // value reproduced by gene = 0.5 (exponential mapping)
	Sensitivity float64 // exponent coefficient k in base * exp(k * logit(g))
	Unit        string
	Integer     bool // floor to integer, minimum 1
	Linear      bool // value = gene * base instead of the exponential mapping
}

// Defs is the static trait definition table. Index i corresponds to
// gene slot i in every gene vector.
var Defs = [NumTraits]Def{
	MaxHeight:       {Name: "max_height", Base: 20, Sensitivity: 0.9, Unit: "cells"},
	GrowthRate:      {Name: "growth_rate", Base: 0.4, Sensitivity: 0.8, Unit: "cells/tick"},
	TrunkGirth:      {Name: "trunk_girth", Base: 1.2, Sensitivity: 0.8, Unit: "cells"},
	LeafSize:        {Name: "leaf_size", Base: 1.5, Sensitivity: 0.7, Unit: "cells"},
	LeafCount:       {Name: "leaf_count", Base: 8, Sensitivity: 0.9, Unit: "leaves", Integer: true},
	BranchLength:    {Name: "branch_length", Base: 3.0, Sensitivity: 0.8, Unit: "cells"},
	LeafOpacity:     {Name: "leaf_opacity", Base: 0.9, Unit: "fraction", Linear: true},
	PhotoEfficiency: {Name: "photo_efficiency", Base: 1.0, Sensitivity: 0.7, Unit: ""},
	MaxAge:          {Name: "max_age", Base: 600, Sensitivity: 0.8, Unit: "ticks", Integer: true},
	MaturityAge:     {Name: "maturity_age", Base: 200, Sensitivity: 0.8, Unit: "ticks", Integer: true},
	GerminationTime: {Name: "germination_time", Base: 20, Sensitivity: 0.8, Unit: "ticks", Integer: true},
	SeedEnergy:      {Name: "seed_energy", Base: 40, Sensitivity: 0.8, Unit: "units"},
	SeedRange:       {Name: "seed_range", Base: 1.0, Sensitivity: 0.8, Unit: "x"},
}

const (
	// logitClamp keeps logit inputs away from the singularities at 0 and 1.
	logitClamp = 1e-6

	// traitMin and traitMax bound decoded values before integer flooring.
	traitMin = 1e-4
	traitMax = 1e4

	// Founder genes are drawn from [founderLo, founderHi] so initial
	// populations start with moderate, non-degenerate traits.
	founderLo = 0.35
	founderHi = 0.65
)

// Genes is a fixed-length gene vector. Never mutated in place; Mutate
// returns a fresh vector.
type Genes [NumTraits]float64

// Traits holds one decoded value per trait definition, indexed by TraitID.
type Traits [NumTraits]float64

func logit(x float64) float64 {
	if x < logitClamp {
		x = logitClamp
	}
	if x > 1-logitClamp {
		x = 1 - logitClamp
	}
	return math.Log(x / (1 - x))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Decode derives trait values from a gene vector. Pure function: the
// same genes always decode to the same traits.
func Decode(g Genes) Traits {
	var t Traits
	for i := TraitID(0); i < NumTraits; i++ {
		def := Defs[i]
		var v float64
		if def.Linear {
			// Linear traits span [0, base] directly; no range clamp.
			v = g[i] * def.Base
		} else {
			v = def.Base * math.Exp(def.Sensitivity*logit(g[i]))
			if v < traitMin {
				v = traitMin
			}
			if v > traitMax {
				v = traitMax
			}
		}
		if def.Integer {
			v = math.Floor(v)
			if v < 1 {
				v = 1
			}
		}
		t[i] = v
	}
	return t
}

// Random draws a founder gene vector. Genes are uniform in a band
// centered on 0.5 rather than the full (0,1).
func Random(rng *rand.Rand) Genes {
	var g Genes
	for i := range g {
		g[i] = founderLo + rng.Float64()*(founderHi-founderLo)
	}
	return g
}

// Mutate returns a child gene vector. Each gene is perturbed by
// zero-mean Gaussian noise in logit space with standard deviation
// rate, then mapped back through the sigmoid. The child gene is always
// strictly inside (0,1): extreme parents drift back asymptotically
// instead of saturating at a clamp.
func Mutate(parent Genes, rate float64, rng *rand.Rand) Genes {
	var child Genes
	for i := range parent {
		child[i] = sigmoid(logit(parent[i]) + rng.NormFloat64()*rate)
	}
	return child
}
