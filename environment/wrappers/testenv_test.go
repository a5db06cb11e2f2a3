package wrappers_test

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/pointrl/pcgym/environment"
	ts "github.com/pointrl/pcgym/timestep"
)

// scriptedEnv is a deterministic environment for adapter tests. Step n
// observes position (n, -n) and touch n/10, and rewards n. Episodes end
// at step doneAt, or never when doneAt is 0.
type scriptedEnv struct {
	stepNum int
	doneAt  int
	resets  int
	closed  bool

	// single declares only the position component, for passthrough tests
	single bool

	// scalarAction declares a scalar action specification
	scalarAction bool

	last ts.TimeStep
}

func (s *scriptedEnv) observation() ts.Observation {
	n := float64(s.stepNum)
	obs := ts.Observation{ts.Vector("position", []float64{n, -n})}
	if !s.single {
		obs = append(obs, ts.Scalar("touch", n/10))
	}
	return obs
}

func (s *scriptedEnv) Reset() (ts.TimeStep, error) {
	s.stepNum = 0
	s.resets++
	s.last = ts.New(ts.First, 0, 1, s.observation(), 0)
	return s.last, nil
}

func (s *scriptedEnv) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	s.stepNum++

	stepType := ts.Mid
	if s.doneAt > 0 && s.stepNum >= s.doneAt {
		stepType = ts.Last
	}

	s.last = ts.New(stepType, float64(s.stepNum), 1, s.observation(),
		s.stepNum)
	return s.last, s.last.Last(), nil
}

func (s *scriptedEnv) CurrentTimeStep() ts.TimeStep {
	return s.last
}

func (s *scriptedEnv) ActionSpec() environment.Spec {
	if s.scalarAction {
		return environment.NewScalarSpec(environment.Action, -10, 10,
			environment.Continuous)
	}
	return environment.NewSpec(mat.NewVecDense(2, nil), environment.Action,
		mat.NewVecDense(2, []float64{-10, -10}),
		mat.NewVecDense(2, []float64{10, 10}), environment.Continuous)
}

func (s *scriptedEnv) ObservationSpec() []environment.NamedSpec {
	specs := []environment.NamedSpec{
		{
			Name: "position",
			Spec: environment.NewSpec(mat.NewVecDense(2, nil),
				environment.Observation,
				mat.NewVecDense(2, []float64{-5, -5}),
				mat.NewVecDense(2, []float64{5, 5}),
				environment.Continuous),
		},
	}
	if !s.single {
		specs = append(specs, environment.NamedSpec{
			Name: "touch",
			Spec: environment.NewScalarSpec(environment.Observation, 0, 1,
				environment.Continuous),
		})
	}
	return specs
}

func (s *scriptedEnv) DiscountSpec() environment.Spec {
	return environment.NewScalarSpec(environment.Discount, 0, 1,
		environment.Continuous)
}

func (s *scriptedEnv) Close() error {
	s.closed = true
	return nil
}

// fakePhysics serves canned renders so render-based wrappers can be
// tested without a simulator.
type fakePhysics struct {
	depth *mat.Dense
	img   image.Image
	pos   *mat.VecDense
	fovy  float64

	depthRenders int
	rgbRenders   int

	lastDepthOpts environment.RenderOptions
}

func (f *fakePhysics) RenderDepth(
	opts environment.RenderOptions) (*mat.Dense, error) {
	f.depthRenders++
	f.lastDepthOpts = opts
	return f.depth, nil
}

func (f *fakePhysics) RenderRGB(
	opts environment.RenderOptions) (image.Image, error) {
	f.rgbRenders++
	return f.img, nil
}

func (f *fakePhysics) Position() *mat.VecDense {
	return f.pos
}

func (f *fakePhysics) CameraFOVY(cameraID int) (float64, error) {
	if cameraID != 0 {
		return 0, errors.Wrapf(environment.ErrInvalidCamera,
			"cameraFOVY: no camera %v", cameraID)
	}
	return f.fovy, nil
}

// physEnv is a scriptedEnv whose physics state can be rendered
type physEnv struct {
	scriptedEnv
	phys *fakePhysics
}

func (p *physEnv) Physics() environment.Physics {
	return p.phys
}

// newPhysEnv returns a physEnv with a 4x4 depth render holding surfaces
// at depths 5, 10, and 15 against a background of depth 25, and a
// 90-degree camera.
func newPhysEnv() *physEnv {
	depth := mat.NewDense(4, 4, nil)
	for v := 0; v < 4; v++ {
		for u := 0; u < 4; u++ {
			depth.Set(v, u, 25)
		}
	}
	depth.Set(0, 0, 5)
	depth.Set(1, 1, 10)
	depth.Set(2, 2, 15)

	return &physEnv{
		phys: &fakePhysics{
			depth: depth,
			pos:   mat.NewVecDense(2, []float64{1.5, -2.5}),
			fovy:  90,
		},
	}
}
