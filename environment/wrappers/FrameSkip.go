package wrappers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/pointrl/pcgym/environment"
)

// FrameSkip repeats each action for a fixed number of consecutive
// sub-steps against a wrapped step/reset environment, accumulating
// reward. The loop stops early if any sub-step ends the episode, so one
// Step never runs more than the configured number of sub-steps.
type FrameSkip struct {
	env GymEnv
	fn  int
}

// NewFrameSkip returns a FrameSkip that repeats each action fn times
// against env. fn must be at least 1.
func NewFrameSkip(env GymEnv, fn int) (*FrameSkip, error) {
	if fn < 1 {
		return nil, fmt.Errorf("newFrameSkip: repeat count must be "+
			"positive, got %v", fn)
	}
	return &FrameSkip{env: env, fn: fn}, nil
}

// Step applies action up to fn consecutive times, summing the rewards of
// every sub-step taken, including the one that triggers termination. It
// returns the final sub-step's observation, the accumulated reward, the
// termination flag, and the final sub-step's info unmodified. When no
// sub-step terminates, the loop runs its full length and done is false.
func (f *FrameSkip) Step(action *mat.VecDense) (*mat.VecDense, float64,
	bool, Info, error) {
	var (
		obs   *mat.VecDense
		total float64
		done  bool
		info  Info
	)

	for i := 0; i < f.fn; i++ {
		var reward float64
		var err error

		obs, reward, done, info, err = f.env.Step(action)
		if err != nil {
			return nil, 0, true, nil, fmt.Errorf("step: sub-step %v: %v",
				i, err)
		}

		total += reward
		if done {
			break
		}
	}

	return obs, total, done, info, nil
}

// Reset resets the wrapped environment and returns the starting
// observation
func (f *FrameSkip) Reset() (*mat.VecDense, error) {
	return f.env.Reset()
}

// ObservationSpace returns the observation space of the wrapped
// environment
func (f *FrameSkip) ObservationSpace() environment.Spec {
	return f.env.ObservationSpace()
}

// ActionSpace returns the action space of the wrapped environment
func (f *FrameSkip) ActionSpace() environment.Spec {
	return f.env.ActionSpace()
}

// Repeat returns the number of sub-steps each action is applied for
func (f *FrameSkip) Repeat() int {
	return f.fn
}

// Unwrapped returns the innermost environment beneath this adapter, if
// the wrapped step/reset environment exposes one.
func (f *FrameSkip) Unwrapped() environment.Environment {
	if u, ok := f.env.(interface{ Unwrapped() environment.Environment }); ok {
		return u.Unwrapped()
	}
	return nil
}
