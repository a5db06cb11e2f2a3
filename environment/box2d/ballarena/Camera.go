package ballarena

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/pointrl/pcgym/environment"
)

const (
	// CameraHeight is the distance from the overhead camera to the
	// arena floor plane
	CameraHeight float64 = 10.0

	// CameraFOVY is the camera's vertical field of view, in degrees
	CameraFOVY float64 = 45.0

	// MissDepth is reported for pixels whose rays hit nothing. It sits
	// past the point-cloud background cutoff, so these pixels are
	// filtered out of cloud observations.
	MissDepth float64 = 25.0
)

// Camera is a synthetic pinhole camera hovering above the arena center
// and looking straight down. Depth renders ray-trace the ball
// analytically; color renders rasterize the scene. The arena has a
// single camera, id 0.
type Camera struct {
	arena *BallArena
}

// NewCamera returns the overhead camera of an arena
func NewCamera(arena *BallArena) *Camera {
	return &Camera{arena: arena}
}

// CameraFOVY returns the vertical field of view of the given camera, in
// degrees
func (c *Camera) CameraFOVY(cameraID int) (float64, error) {
	if cameraID != 0 {
		return 0, errors.Wrapf(environment.ErrInvalidCamera,
			"cameraFOVY: camera %v", cameraID)
	}
	return CameraFOVY, nil
}

// Position returns the ball's generalized position vector
func (c *Camera) Position() *mat.VecDense {
	pos := c.arena.ball.GetPosition()
	return mat.NewVecDense(2, []float64{pos.X, pos.Y})
}

// RenderDepth renders a per-pixel depth image by intersecting each
// pixel's camera ray with the ball. Camera space has X right, Y down,
// and Z pointing down at the floor, so a point on the floor plane sits
// at depth CameraHeight and the ball's nearest surface at roughly
// CameraHeight - 2*BallRadius. Rays that miss the ball report MissDepth:
// with display elements disabled, the floor itself is not rendered.
func (c *Camera) RenderDepth(opts environment.RenderOptions) (*mat.Dense,
	error) {
	fx, fy, ppx, ppy, err := c.intrinsics(opts)
	if err != nil {
		return nil, errors.Wrap(err, "renderDepth")
	}

	pos := c.arena.ball.GetPosition()
	center := r3.Vector{X: pos.X, Y: pos.Y, Z: CameraHeight - BallRadius}

	depth := mat.NewDense(opts.Height, opts.Width, nil)
	for v := 0; v < opts.Height; v++ {
		for u := 0; u < opts.Width; u++ {
			dir := r3.Vector{
				X: (float64(u) - ppx) / fx,
				Y: (float64(v) - ppy) / fy,
				Z: 1,
			}
			depth.Set(v, u, sphereDepth(dir, center, BallRadius))
		}
	}
	return depth, nil
}

// RenderRGB rasterizes the scene: dark floor, the goal point (when the
// task has one), and the ball.
func (c *Camera) RenderRGB(opts environment.RenderOptions) (image.Image,
	error) {
	fx, fy, ppx, ppy, err := c.intrinsics(opts)
	if err != nil {
		return nil, errors.Wrap(err, "renderRGB")
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.Clear()

	// World (x, y) on the floor plane projects through the camera at
	// depth CameraHeight
	project := func(x, y float64) (float64, float64) {
		return x*fx/CameraHeight + ppx, y*fy/CameraHeight + ppy
	}

	if task, ok := c.arena.Task.(*ReachGoal); ok {
		gx, gy := task.Goal()
		u, v := project(gx, gy)
		dc.SetRGB(0, 0.8, 0)
		dc.DrawCircle(u, v, GoalRadius*fx/CameraHeight)
		dc.Fill()
	}

	pos := c.arena.ball.GetPosition()
	u, v := project(pos.X, pos.Y)
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.DrawCircle(u, v, BallRadius*fx/(CameraHeight-BallRadius))
	dc.Fill()

	return dc.Image(), nil
}

// intrinsics derives the pinhole parameters for a render request
func (c *Camera) intrinsics(opts environment.RenderOptions) (fx, fy, ppx,
	ppy float64, err error) {
	if opts.CameraID != 0 {
		return 0, 0, 0, 0, errors.Wrapf(environment.ErrInvalidCamera,
			"camera %v", opts.CameraID)
	}
	if opts.Height <= 0 || opts.Width <= 0 {
		return 0, 0, 0, 0, errors.Wrapf(environment.ErrInvalidCamera,
			"render dimensions (%v, %v)", opts.Height, opts.Width)
	}

	fy = float64(opts.Height) / (2 * math.Tan(CameraFOVY*math.Pi/360))
	return fy, fy, float64(opts.Width) / 2, float64(opts.Height) / 2, nil
}

// sphereDepth returns the Z depth at which a ray from the origin with
// direction dir (dir.Z == 1) first hits a sphere, or MissDepth when it
// does not hit.
func sphereDepth(dir, center r3.Vector, radius float64) float64 {
	a := dir.Dot(dir)
	b := -2 * dir.Dot(center)
	c := center.Dot(center) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return MissDepth
	}

	t := (-b - math.Sqrt(disc)) / (2 * a)
	if t <= 0 {
		return MissDepth
	}

	// dir.Z == 1, so the ray parameter is the Z depth directly
	return t
}
