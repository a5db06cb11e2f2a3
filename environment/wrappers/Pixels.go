package wrappers

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/pointrl/pcgym/environment"
)

// Pixel render configuration, fixed for every Pixels wrapper
const (
	PixelHeight   int = 64
	PixelWidth    int = 64
	pixelCameraID int = 0
)

// Pixels wraps an environment whose physics can be rendered and replaces
// its observations with normalized color renders. Byte values are scaled
// to the unit interval and axes are reordered from (height, width,
// channel) to (channel, width, height), so emitted tensors have shape
// (3, PixelWidth, PixelHeight) with entries in [0, 1]. The declared
// observation shape matches the emitted layout.
type Pixels struct {
	env     environment.Environment
	physics environment.Physics
	opts    environment.RenderOptions
}

// NewPixels returns a Pixels wrapper over env. env must implement
// environment.PhysicsProvider.
func NewPixels(env environment.Environment) (*Pixels, error) {
	provider, ok := env.(environment.PhysicsProvider)
	if !ok {
		return nil, errors.Wrapf(environment.ErrNoPhysics,
			"newPixels: %T", env)
	}

	return &Pixels{
		env:     env,
		physics: provider.Physics(),
		opts: environment.RenderOptions{
			CameraID: pixelCameraID,
			Height:   PixelHeight,
			Width:    PixelWidth,
		},
	}, nil
}

// Observation renders the scene and returns the normalized, transposed
// pixel tensor for the current physics state.
func (p *Pixels) Observation() (*tensor.Dense, error) {
	img, err := p.physics.RenderRGB(p.opts)
	if err != nil {
		return nil, errors.Wrap(err, "observation")
	}

	bounds := img.Bounds()
	if bounds.Dx() != PixelWidth || bounds.Dy() != PixelHeight {
		return nil, errors.Errorf("observation: render is %vx%v, "+
			"want %vx%v", bounds.Dx(), bounds.Dy(), PixelWidth, PixelHeight)
	}

	// (H, W, C) -> (C, W, H), scaled to [0, 1]
	backing := make([]float64, 3*PixelWidth*PixelHeight)
	for y := 0; y < PixelHeight; y++ {
		for x := 0; x < PixelWidth; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			channels := [3]float64{
				float64(r>>8) / 255,
				float64(g>>8) / 255,
				float64(b>>8) / 255,
			}
			for c, value := range channels {
				backing[c*PixelWidth*PixelHeight+x*PixelHeight+y] = value
			}
		}
	}

	return tensor.New(tensor.WithShape(3, PixelWidth, PixelHeight),
		tensor.WithBacking(backing)), nil
}

// Step takes one environmental step and returns the pixel observation of
// the resulting physics state, the reward, and the termination flag.
func (p *Pixels) Step(action *mat.VecDense) (*tensor.Dense, float64, bool,
	error) {
	step, done, err := p.env.Step(action)
	if err != nil {
		return nil, 0, true, fmt.Errorf("step: %v", err)
	}

	obs, err := p.Observation()
	if err != nil {
		return nil, 0, true, fmt.Errorf("step: %v", err)
	}
	return obs, step.Reward, done, nil
}

// Reset resets the environment and returns the starting pixel
// observation
func (p *Pixels) Reset() (*tensor.Dense, error) {
	if _, err := p.env.Reset(); err != nil {
		return nil, fmt.Errorf("reset: %v", err)
	}
	return p.Observation()
}

// ObservationShape returns the shape of emitted pixel tensors
func (p *Pixels) ObservationShape() tensor.Shape {
	return tensor.Shape{3, PixelWidth, PixelHeight}
}

// ActionSpace returns the action space of the wrapped environment
func (p *Pixels) ActionSpace() environment.Spec {
	return p.env.ActionSpec()
}

// Unwrapped returns the innermost environment beneath this adapter
func (p *Pixels) Unwrapped() environment.Environment {
	return environment.Unwrapped(p.env)
}
