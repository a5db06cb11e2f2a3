package environment

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidCamera is returned when render options name a camera the
// physics backend does not have, or when the camera's parameters are
// unusable (nonpositive image dimensions, degenerate field of view).
var ErrInvalidCamera = errors.New("invalid camera configuration")

// ErrNoPhysics is returned when a wrapper that renders from physics
// state is given an environment that does not expose physics.
var ErrNoPhysics = errors.New("environment does not expose physics")

// RenderFlag controls optional elements of a rendered scene. Wrappers
// that only need geometry render with RenderNothing so that depth
// buffers contain nothing but the simulated bodies.
type RenderFlag uint32

const (
	RenderShadows RenderFlag = 1 << iota
	RenderReflections
	RenderSkybox
	RenderFog
	RenderHaze
)

// RenderNothing disables every optional scene element
const RenderNothing RenderFlag = 0

// RenderOptions configures a single render request. The same options
// struct is reused across requests by wrappers with a fixed camera
// configuration.
type RenderOptions struct {
	CameraID int
	Height   int
	Width    int
	Flags    RenderFlag
}

// Physics exposes the simulation state of an environment to wrappers
// that derive observations from renders rather than from the
// environment's declared observation components.
type Physics interface {
	// RenderDepth renders a per-pixel depth image of the scene from the
	// configured camera. The returned matrix has opts.Height rows and
	// opts.Width columns, and each entry is the camera-space Z distance
	// of the nearest surface under that pixel. Pixels with no surface
	// report the backend's far depth.
	RenderDepth(opts RenderOptions) (*mat.Dense, error)

	// RenderRGB renders a color image of the scene from the configured
	// camera.
	RenderRGB(opts RenderOptions) (image.Image, error)

	// Position returns the generalized position vector of the physics
	// state.
	Position() *mat.VecDense

	// CameraFOVY returns the vertical field of view, in degrees, of the
	// given camera.
	CameraFOVY(cameraID int) (float64, error)
}

// PhysicsProvider is implemented by environments whose physics state can
// be rendered. Wrappers requiring renders ask for this capability
// explicitly at construction instead of assuming every environment has
// it.
type PhysicsProvider interface {
	Physics() Physics
}
