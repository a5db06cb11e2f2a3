package wrappers

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/pointrl/pcgym/environment"
	"github.com/pointrl/pcgym/pointcloud"
)

// Default depth-camera render dimensions
const (
	DefaultDepthHeight int = 240
	DefaultDepthWidth  int = 320
)

// DepthCloudConfig configures a DepthCloud wrapper. The zero value is
// usable apart from RNG, which must be supplied whenever Points > 0 and
// a render may contain more surviving points than Points.
type DepthCloudConfig struct {
	// CameraID selects the physics camera to render depth from
	CameraID int

	// Height and Width are the depth render dimensions. Zero values
	// default to DefaultDepthHeight and DefaultDepthWidth.
	Height int
	Width  int

	// Points is the fixed cardinality of emitted clouds. Zero disables
	// resampling and cloud size is whatever survives distance filtering.
	Points int

	// MaxDepth is the background cutoff: points with Z at or beyond it
	// are dropped. Zero defaults to pointcloud.DefaultMaxDepth.
	MaxDepth float64

	// ReturnPos additionally surfaces the physics position vector with
	// every observation
	ReturnPos bool

	// RNG drives the uniform index subsampling when a filtered cloud
	// holds more than Points points. Supplying it explicitly keeps
	// cloud downsampling reproducible.
	RNG *rand.Rand

	// Flags are the scene elements enabled during depth renders. The
	// default, RenderNothing, renders geometry only.
	Flags environment.RenderFlag
}

// DepthCloud wraps an environment whose physics can be rendered and
// replaces its observations with fixed-cardinality point clouds derived
// from depth renders. The render configuration and the unprojection
// intrinsics are fixed at construction.
type DepthCloud struct {
	env     environment.Environment
	physics environment.Physics

	cfg  DepthCloudConfig
	opts environment.RenderOptions
	gen  *pointcloud.Generator
}

// NewDepthCloud returns a DepthCloud over env. env must implement
// environment.PhysicsProvider; environment.ErrNoPhysics is returned
// otherwise. The camera's vertical field of view is read once, here, and
// environment.ErrInvalidCamera is returned for a camera the physics
// backend does not have.
func NewDepthCloud(env environment.Environment,
	cfg DepthCloudConfig) (*DepthCloud, error) {
	provider, ok := env.(environment.PhysicsProvider)
	if !ok {
		return nil, errors.Wrapf(environment.ErrNoPhysics,
			"newDepthCloud: %T", env)
	}
	physics := provider.Physics()

	if cfg.Height == 0 {
		cfg.Height = DefaultDepthHeight
	}
	if cfg.Width == 0 {
		cfg.Width = DefaultDepthWidth
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = pointcloud.DefaultMaxDepth
	}

	fovy, err := physics.CameraFOVY(cfg.CameraID)
	if err != nil {
		return nil, errors.Wrap(err, "newDepthCloud")
	}

	gen, err := pointcloud.NewGenerator(fovy, cfg.Height, cfg.Width)
	if err != nil {
		return nil, errors.Wrap(err, "newDepthCloud")
	}

	return &DepthCloud{
		env:     env,
		physics: physics,
		cfg:     cfg,
		opts: environment.RenderOptions{
			CameraID: cfg.CameraID,
			Height:   cfg.Height,
			Width:    cfg.Width,
			Flags:    cfg.Flags,
		},
		gen: gen,
	}, nil
}

// Observation renders a depth image from the current physics state,
// unprojects it, drops background points, and resamples the survivors to
// the configured cardinality. The position vector is non-nil only when
// the wrapper was configured with ReturnPos.
//
// The cloud is derived from the physics state at call time, not from any
// particular timestep.
func (d *DepthCloud) Observation() (*tensor.Dense, *mat.VecDense, error) {
	depth, err := d.physics.RenderDepth(d.opts)
	if err != nil {
		return nil, nil, errors.Wrap(err, "observation")
	}

	pc, err := d.gen.Generate(depth)
	if err != nil {
		return nil, nil, errors.Wrap(err, "observation")
	}

	pc, err = pointcloud.FilterRange(pc, d.cfg.MaxDepth)
	switch {
	case stderrors.Is(err, pointcloud.ErrEmptyCloud) && d.cfg.Points > 0:
		// Nothing in range. Padding semantics still apply, so the
		// observation is all zero-vector points.
		pc = tensor.New(tensor.Of(tensor.Float64),
			tensor.WithShape(d.cfg.Points, 3))
	case err != nil:
		return nil, nil, errors.Wrap(err, "observation")
	default:
		pc, err = pointcloud.Resample(pc, d.cfg.Points, d.cfg.RNG)
		if err != nil {
			return nil, nil, errors.Wrap(err, "observation")
		}
	}

	var pos *mat.VecDense
	if d.cfg.ReturnPos {
		pos = d.physics.Position()
	}
	return pc, pos, nil
}

// Step takes one environmental step and returns the point-cloud
// observation derived from the resulting physics state, the optional
// position vector, the reward, and the termination flag.
func (d *DepthCloud) Step(action *mat.VecDense) (*tensor.Dense,
	*mat.VecDense, float64, bool, error) {
	step, done, err := d.env.Step(action)
	if err != nil {
		return nil, nil, 0, true, fmt.Errorf("step: %v", err)
	}

	pc, pos, err := d.Observation()
	if err != nil {
		return nil, nil, 0, true, fmt.Errorf("step: %v", err)
	}
	return pc, pos, step.Reward, done, nil
}

// Reset resets the environment and returns the starting point-cloud
// observation and optional position vector.
func (d *DepthCloud) Reset() (*tensor.Dense, *mat.VecDense, error) {
	if _, err := d.env.Reset(); err != nil {
		return nil, nil, fmt.Errorf("reset: %v", err)
	}
	return d.Observation()
}

// ObservationShape returns the shape of emitted clouds. With resampling
// disabled the leading dimension is unknown and reported as 0.
func (d *DepthCloud) ObservationShape() tensor.Shape {
	return tensor.Shape{d.cfg.Points, 3}
}

// ActionSpace returns the action space of the wrapped environment
func (d *DepthCloud) ActionSpace() environment.Spec {
	return d.env.ActionSpec()
}

// Unwrapped returns the innermost environment beneath this adapter
func (d *DepthCloud) Unwrapped() environment.Environment {
	return environment.Unwrapped(d.env)
}
