package wrappers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/pointrl/pcgym/environment/wrappers"
)

func newSkip(t *testing.T, env *scriptedEnv, fn int) *wrappers.FrameSkip {
	t.Helper()
	gym, err := wrappers.NewGym(env, wrappers.FlattenObservations)
	require.NoError(t, err)
	skip, err := wrappers.NewFrameSkip(gym, fn)
	require.NoError(t, err)
	return skip
}

func TestFrameSkipRepeatCount(t *testing.T) {
	gym, err := wrappers.NewGym(&scriptedEnv{}, wrappers.FlattenObservations)
	require.NoError(t, err)

	for _, fn := range []int{0, -3} {
		if _, err := wrappers.NewFrameSkip(gym, fn); err == nil {
			t.Errorf("repeat count %v: expected an error", fn)
		}
	}

	skip, err := wrappers.NewFrameSkip(gym, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, skip.Repeat())
}

func TestFrameSkipAccumulatesReward(t *testing.T) {
	env := &scriptedEnv{}
	skip := newSkip(t, env, 4)

	_, err := skip.Reset()
	require.NoError(t, err)

	obs, reward, done, info, err := skip.Step(mat.NewVecDense(2, nil))
	require.NoError(t, err)

	// Sub-step rewards 1 through 4 sum to 10
	assert.Equal(t, 10.0, reward)
	assert.False(t, done)
	assert.Nil(t, info)
	assert.Equal(t, 4, env.stepNum)

	// The observation is the final sub-step's
	assert.Equal(t, []float64{4, -4, 0.4}, obs.RawVector().Data)
}

func TestFrameSkipStopsOnTermination(t *testing.T) {
	env := &scriptedEnv{doneAt: 2}
	skip := newSkip(t, env, 4)

	_, err := skip.Reset()
	require.NoError(t, err)

	obs, reward, done, _, err := skip.Step(mat.NewVecDense(2, nil))
	require.NoError(t, err)

	// The terminating sub-step's reward counts, then the loop stops
	assert.Equal(t, 3.0, reward)
	assert.True(t, done)
	assert.Equal(t, 2, env.stepNum)
	assert.Equal(t, []float64{2, -2, 0.2}, obs.RawVector().Data)
}

func TestFrameSkipDelegatesSpaces(t *testing.T) {
	env := &scriptedEnv{}
	skip := newSkip(t, env, 2)

	assert.Equal(t, 3, skip.ObservationSpace().Shape.Len())
	assert.Equal(t, 2, skip.ActionSpace().Shape.Len())
	assert.Same(t, env, skip.Unwrapped().(*scriptedEnv))
}

func TestFrameSkipReset(t *testing.T) {
	env := &scriptedEnv{}
	skip := newSkip(t, env, 3)

	_, _, done, _, err := skip.Step(mat.NewVecDense(2, nil))
	require.NoError(t, err)
	assert.False(t, done)
	require.Equal(t, 3, env.stepNum)

	obs, err := skip.Reset()
	require.NoError(t, err)
	assert.Equal(t, 0, env.stepNum)
	assert.Equal(t, []float64{0, 0, 0}, obs.RawVector().Data)
}
