// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either a first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// Component is a single named entry of a structured observation, e.g.
// "position" or "velocity". Scalar quantities are stored as vectors of
// length 1 so that flattening treats every component uniformly.
type Component struct {
	Name   string
	Values *mat.VecDense
}

// Scalar returns a Component holding a single value. The value occupies
// one slot when the observation is flattened.
func Scalar(name string, value float64) Component {
	return Component{Name: name, Values: mat.NewVecDense(1, []float64{value})}
}

// Vector returns a Component holding the given values. The backing slice
// is used directly, not copied.
func Vector(name string, values []float64) Component {
	return Component{Name: name, Values: mat.NewVecDense(len(values), values)}
}

// Observation is an ordered collection of named components. Order is
// significant: flattening concatenates components in the order they
// appear, which must match the order of the environment's observation
// specification.
type Observation []Component

// Get returns the values of the named component and whether it exists
func (o Observation) Get(name string) (*mat.VecDense, bool) {
	for _, c := range o {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// Len returns the total number of scalar entries across all components
func (o Observation) Len() int {
	n := 0
	for _, c := range o {
		n += c.Values.Len()
	}
	return n
}

// Flatten concatenates all components into a single flat vector in
// component order. Scalar components occupy a single slot.
func (o Observation) Flatten() *mat.VecDense {
	data := make([]float64, 0, o.Len())
	for _, c := range o {
		for i := 0; i < c.Values.Len(); i++ {
			data = append(data, c.Values.AtVec(i))
		}
	}
	return mat.NewVecDense(len(data), data)
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Discount    float64
	Observation Observation
	Number      int
}

func New(t StepType, r, d float64, o Observation, n int) TimeStep {
	return TimeStep{t, r, d, o, n}
}

// First returns whether a TimeStep is the first in an environment
func (t TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t TimeStep) Last() bool {
	return t.StepType == Last
}

func (t TimeStep) String() string {
	names := make([]string, len(t.Observation))
	for i, c := range t.Observation {
		names[i] = c.Name
	}

	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  Components: [%v]"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number,
		strings.Join(names, ", "))
}
