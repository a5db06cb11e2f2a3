// Package pointcloud derives 3-D point clouds from depth-camera renders
// of simulated scenes and reshapes them for neural-network consumption.
//
// A cloud is a *tensor.Dense of shape (N, 3) whose rows are camera-space
// points: X right, Y down, Z away from the camera. Clouds are ephemeral
// and re-derived on every observation request.
package pointcloud

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/pointrl/pcgym/environment"
)

// Generator unprojects depth images into point clouds using a pinhole
// camera model. The intrinsics are derived once, at construction, from
// the camera's vertical field of view and the image dimensions: the
// focal length is height / (2 tan(fovy/2)) with square pixels, and the
// principal point sits at the image center.
type Generator struct {
	fovy   float64 // vertical field of view, degrees
	height int
	width  int

	fx, fy   float64
	ppx, ppy float64
}

// NewGenerator returns a Generator for a camera with the given vertical
// field of view (in degrees) rendering images of the given dimensions.
func NewGenerator(fovy float64, height, width int) (*Generator, error) {
	if height <= 0 || width <= 0 {
		return nil, errors.Wrapf(environment.ErrInvalidCamera,
			"newGenerator: image dimensions (%v, %v)", height, width)
	}
	if fovy <= 0 || fovy >= 180 {
		return nil, errors.Wrapf(environment.ErrInvalidCamera,
			"newGenerator: vertical fov %v degrees", fovy)
	}

	fy := float64(height) / (2 * math.Tan(fovy*math.Pi/360))

	return &Generator{
		fovy:   fovy,
		height: height,
		width:  width,
		fx:     fy,
		fy:     fy,
		ppx:    float64(width) / 2,
		ppy:    float64(height) / 2,
	}, nil
}

// Dims returns the image dimensions the Generator expects, height first
func (g *Generator) Dims() (height, width int) {
	return g.height, g.width
}

// FOVY returns the vertical field of view of the camera, in degrees
func (g *Generator) FOVY() float64 {
	return g.fovy
}

// Generate unprojects a depth image into a point cloud with one point
// per pixel, in row-major pixel order. The depth image must have the
// dimensions the Generator was constructed with. No filtering is done
// here: background pixels come through at the renderer's far depth and
// are expected to be removed with FilterRange.
func (g *Generator) Generate(depth *mat.Dense) (*tensor.Dense, error) {
	r, c := depth.Dims()
	if r != g.height || c != g.width {
		return nil, errors.Errorf("generate: depth image dimensions "+
			"(%v, %v) do not match camera dimensions (%v, %v)",
			r, c, g.height, g.width)
	}

	backing := make([]float64, 0, r*c*3)
	for v := 0; v < r; v++ {
		for u := 0; u < c; u++ {
			d := depth.At(v, u)
			x := (float64(u) - g.ppx) * d / g.fx
			y := (float64(v) - g.ppy) * d / g.fy
			backing = append(backing, x, y, d)
		}
	}

	return tensor.New(tensor.WithShape(r*c, 3),
		tensor.WithBacking(backing)), nil
}
