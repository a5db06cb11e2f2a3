// Package environment outlines the interfaces and structs needed to implement
// concrete timestep-based environments and the capabilities wrappers may
// require of them
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/pointrl/pcgym/timestep"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines when episodes end for reasons other than the task
// itself, e.g. a step limit
type Ender interface {
	// End returns whether the episode should end at timestep t. If so,
	// End modifies t so that its StepType field is timestep.Last
	End(t *timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some environment
type Task interface {
	GetReward(state, action, nextState mat.Vector) float64
	AtGoal(state mat.Vector) bool
}

// Environment implements a simulated environment with structured,
// named-component observations. This is the surface the adapters in the
// wrappers package convert to a step/reset tuple interface.
type Environment interface {
	// Reset resets the environment between episodes and returns the
	// first timestep of the new episode
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step given an action and returns the
	// next timestep and whether that timestep is the last of the episode
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	// CurrentTimeStep returns the most recent timestep of the environment
	CurrentTimeStep() timestep.TimeStep

	ActionSpec() Spec
	ObservationSpec() []NamedSpec
	DiscountSpec() Spec

	// Close releases any resources held by the environment
	Close() error
}

// Wrapper is an Environment that wraps another Environment. Wrappers
// expose their inner environment explicitly instead of forwarding
// arbitrary attribute access to it, so the capabilities a wrapper needs
// are always visible in its type.
type Wrapper interface {
	Environment

	// Unwrapped returns the environment this wrapper wraps, one level down
	Unwrapped() Environment
}

// Unwrapped walks a chain of nested wrappers and returns the innermost
// environment that wraps nothing further.
func Unwrapped(e Environment) Environment {
	for {
		w, ok := e.(Wrapper)
		if !ok {
			return e
		}
		e = w.Unwrapped()
	}
}
