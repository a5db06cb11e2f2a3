package pointcloud_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/pointrl/pcgym/environment"
	"github.com/pointrl/pcgym/pointcloud"
)

func TestNewGeneratorInvalidParams(t *testing.T) {
	tests := []struct {
		name          string
		fovy          float64
		height, width int
	}{
		{"zero height", 45, 0, 320},
		{"zero width", 45, 240, 0},
		{"negative dims", 45, -240, -320},
		{"zero fov", 0, 240, 320},
		{"negative fov", -45, 240, 320},
		{"straight-angle fov", 180, 240, 320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pointcloud.NewGenerator(tt.fovy, tt.height, tt.width)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, environment.ErrInvalidCamera))
		})
	}
}

func TestGenerateDimsMismatch(t *testing.T) {
	gen, err := pointcloud.NewGenerator(45, 4, 4)
	require.NoError(t, err)

	_, err = gen.Generate(mat.NewDense(4, 5, nil))
	assert.Error(t, err)
}

// TestGenerateUnprojection checks the pinhole unprojection against known
// geometry: the principal point unprojects straight down the camera
// axis, and off-center pixels scale with depth over focal length.
func TestGenerateUnprojection(t *testing.T) {
	const (
		fovy   = 90.0
		height = 4
		width  = 4
		d      = 5.0
	)

	// fovy of 90 degrees gives a focal length of height/2
	gen, err := pointcloud.NewGenerator(fovy, height, width)
	require.NoError(t, err)

	depth := mat.NewDense(height, width, nil)
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			depth.Set(v, u, d)
		}
	}

	pc, err := gen.Generate(depth)
	require.NoError(t, err)
	require.Equal(t, height*width, pointcloud.Size(pc))

	// Principal point: pixel (u, v) = (2, 2), row-major index 2*4+2
	center := pointcloud.At(pc, 2*width+2)
	assert.InDelta(t, 0.0, center.X, 1e-12)
	assert.InDelta(t, 0.0, center.Y, 1e-12)
	assert.InDelta(t, d, center.Z, 1e-12)

	// Pixel (0, 0) sits 2 pixels left of and above the principal point,
	// so with focal length 2 it unprojects to (-d, -d, d)
	corner := pointcloud.At(pc, 0)
	assert.InDelta(t, -d, corner.X, 1e-12)
	assert.InDelta(t, -d, corner.Y, 1e-12)
	assert.InDelta(t, d, corner.Z, 1e-12)
}

func TestGeneratorDims(t *testing.T) {
	gen, err := pointcloud.NewGenerator(45, 240, 320)
	require.NoError(t, err)

	h, w := gen.Dims()
	assert.Equal(t, 240, h)
	assert.Equal(t, 320, w)
	assert.Equal(t, 45.0, gen.FOVY())
}
