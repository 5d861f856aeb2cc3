package metrics

import (
	"math"

	"github.com/san-kum/bouncesim/internal/sim"
)

// Energy is the mean total kinetic energy over observed frames.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	e.total += f.KineticEnergy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyGrowth is the largest relative increase of kinetic energy between
// consecutive frames with an unchanged population. In a closed arena with
// restitution at most 1 and no gravity it stays near zero.
type EnergyGrowth struct {
	name       string
	lastEnergy float64
	lastPop    int
	maxGrowth  float64
	samples    int
}

func NewEnergyGrowth() *EnergyGrowth {
	return &EnergyGrowth{name: "energy_growth"}
}

func (e *EnergyGrowth) Name() string { return e.name }

func (e *EnergyGrowth) Observe(f sim.Frame) {
	energy := f.KineticEnergy()
	if e.samples > 0 && f.Population == e.lastPop && e.lastEnergy > 0 {
		growth := (energy - e.lastEnergy) / e.lastEnergy
		e.maxGrowth = math.Max(e.maxGrowth, growth)
	}
	e.lastEnergy = energy
	e.lastPop = f.Population
	e.samples++
}

func (e *EnergyGrowth) Value() float64 {
	return e.maxGrowth
}

func (e *EnergyGrowth) Reset() {
	e.lastEnergy = 0
	e.lastPop = 0
	e.maxGrowth = 0
	e.samples = 0
}
