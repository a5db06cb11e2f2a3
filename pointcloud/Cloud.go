package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Size returns the number of points in a cloud. A nil cloud has size 0.
func Size(pc *tensor.Dense) int {
	if pc == nil {
		return 0
	}
	shape := pc.Shape()
	if len(shape) != 2 {
		return 0
	}
	return shape[0]
}

// At returns the i'th point of a cloud as a spatial vector. Only the
// first three coordinates of the point are used.
func At(pc *tensor.Dense, i int) r3.Vector {
	d := pc.Shape()[1]
	data := pc.Data().([]float64)
	row := data[i*d : (i+1)*d]
	return r3.Vector{X: row[0], Y: row[1], Z: row[2]}
}

// Bounds returns the minimum and maximum corners of a cloud's axis
// aligned bounding box.
func Bounds(pc *tensor.Dense) (min, max r3.Vector, err error) {
	n, d, err := cloudDims(pc)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, errors.Wrap(err, "bounds")
	}

	min = r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}

	data := pc.Data().([]float64)
	for i := 0; i < n; i++ {
		row := data[i*d : (i+1)*d]
		min.X = math.Min(min.X, row[0])
		min.Y = math.Min(min.Y, row[1])
		min.Z = math.Min(min.Z, row[2])
		max.X = math.Max(max.X, row[0])
		max.Y = math.Max(max.Y, row[1])
		max.Z = math.Max(max.Z, row[2])
	}
	return min, max, nil
}
