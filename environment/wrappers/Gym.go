// Package wrappers adapts timestep-based environments to the
// step/reset tuple interface expected by training loops and derives
// render-based observations (point clouds, pixels) from them
package wrappers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/pointrl/pcgym/environment"
	ts "github.com/pointrl/pcgym/timestep"
	"github.com/pointrl/pcgym/utils/matutils"
)

// ObservationLimit bounds each dimension of the inferred observation
// space symmetrically in [-ObservationLimit, ObservationLimit]
const ObservationLimit float64 = 1.0

// Info carries auxiliary diagnostics from a step. The adapters in this
// package never surface any, so it is always nil; the type exists so
// wrappers such as FrameSkip can pass a sub-step's info through
// unmodified.
type Info map[string]interface{}

// ObservationMode selects how a structured observation is converted to
// the vector handed to the training loop. The two modes intentionally
// disagree on flattening; callers choose explicitly.
type ObservationMode int

const (
	// FlattenObservations concatenates every named component of the
	// observation into one flat vector, in specification order, with
	// scalar components occupying a single slot.
	FlattenObservations ObservationMode = iota

	// PassthroughObservations returns the observation unmodified. The
	// environment must declare exactly one observation component.
	PassthroughObservations
)

// GymEnv is the step/reset surface produced by the adapters in this
// package. Step returns the next observation, the reward for the action,
// whether the episode ended, auxiliary info, and any error.
type GymEnv interface {
	Step(action *mat.VecDense) (*mat.VecDense, float64, bool, Info, error)
	Reset() (*mat.VecDense, error)
	ObservationSpace() environment.Spec
	ActionSpace() environment.Spec
}

// Gym adapts a timestep-based environment to the step/reset tuple
// interface. Observation and action spaces are inferred once at
// construction: the action space is copied from the environment's
// declared action specification, and the observation space is a
// continuous box whose length is the total size of all observation
// components, bounded symmetrically by ObservationLimit.
type Gym struct {
	env  environment.Environment
	mode ObservationMode

	observationSpace environment.Spec
	actionSpace      environment.Spec
}

// NewGym returns a new Gym adapter over env using the given observation
// mode. With PassthroughObservations, env must declare exactly one
// observation component.
func NewGym(env environment.Environment, mode ObservationMode) (*Gym, error) {
	obsSpec := env.ObservationSpec()
	if mode == PassthroughObservations && len(obsSpec) != 1 {
		return nil, fmt.Errorf("newGym: passthrough observations need "+
			"exactly 1 observation component, environment has %v",
			len(obsSpec))
	}

	return &Gym{
		env:              env,
		mode:             mode,
		observationSpace: inferObservationSpace(obsSpec),
		actionSpace:      inferActionSpace(env.ActionSpec()),
	}, nil
}

// Step takes one environmental step given an action. The done flag is
// Done of the resulting timestep, the environment's own terminal-state
// signal, and info is always nil.
func (g *Gym) Step(action *mat.VecDense) (*mat.VecDense, float64, bool,
	Info, error) {
	step, _, err := g.env.Step(action)
	if err != nil {
		return nil, 0, true, nil, fmt.Errorf("step: %v", err)
	}

	obs, err := g.Observation(step)
	if err != nil {
		return nil, 0, true, nil, fmt.Errorf("step: %v", err)
	}
	return obs, g.Reward(step), g.Done(step), nil, nil
}

// Reset resets the environment and returns the starting observation
func (g *Gym) Reset() (*mat.VecDense, error) {
	step, err := g.env.Reset()
	if err != nil {
		return nil, fmt.Errorf("reset: %v", err)
	}
	return g.Observation(step)
}

// Observation converts a timestep's structured observation according to
// the adapter's observation mode
func (g *Gym) Observation(t ts.TimeStep) (*mat.VecDense, error) {
	switch g.mode {
	case PassthroughObservations:
		if len(t.Observation) != 1 {
			return nil, fmt.Errorf("observation: passthrough needs "+
				"exactly 1 component, got %v", len(t.Observation))
		}
		return t.Observation[0].Values, nil
	default:
		return t.Observation.Flatten(), nil
	}
}

// Reward returns the reward of a timestep
func (g *Gym) Reward(t ts.TimeStep) float64 {
	return t.Reward
}

// Done returns whether a timestep ends its episode
func (g *Gym) Done(t ts.TimeStep) bool {
	return t.Last()
}

// ObservationSpace returns the inferred observation space
func (g *Gym) ObservationSpace() environment.Spec {
	return g.observationSpace
}

// ActionSpace returns the inferred action space
func (g *Gym) ActionSpace() environment.Spec {
	return g.actionSpace
}

// Unwrapped returns the innermost environment beneath this adapter
func (g *Gym) Unwrapped() environment.Environment {
	return environment.Unwrapped(g.env)
}

func (g *Gym) String() string {
	return fmt.Sprintf("Gym: %T", g.env)
}

// inferActionSpace copies the environment's declared continuous action
// bounds and shape. A nil shape denotes a scalar action and is kept as
// such.
func inferActionSpace(spec environment.Spec) environment.Spec {
	if spec.Shape == nil {
		return environment.Spec{
			Shape:       nil,
			Type:        environment.Action,
			LowerBound:  spec.LowerBound,
			UpperBound:  spec.UpperBound,
			Cardinality: spec.Cardinality,
		}
	}
	return environment.NewSpec(spec.Shape, environment.Action,
		spec.LowerBound, spec.UpperBound, environment.Continuous)
}

// inferObservationSpace builds a flat continuous box from the sizes of
// all observation components. Scalar components contribute one slot.
func inferObservationSpace(specs []environment.NamedSpec) environment.Spec {
	size := 0
	for _, s := range specs {
		size += s.Size()
	}

	upper := matutils.VecOnes(size)
	upper.ScaleVec(ObservationLimit, upper)
	lower := matutils.VecOnes(size)
	lower.ScaleVec(-ObservationLimit, lower)

	return environment.NewSpec(mat.NewVecDense(size, nil),
		environment.Observation, lower, upper, environment.Continuous)
}
