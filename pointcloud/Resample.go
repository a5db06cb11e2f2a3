package pointcloud

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// DefaultMaxDepth is the Z distance at and beyond which points are
// treated as background. Renderers report no-return pixels at their far
// depth, which sits past this cutoff.
const DefaultMaxDepth float64 = 19.0

// ErrEmptyCloud is returned when distance filtering removes every point
// of a cloud.
var ErrEmptyCloud = errors.New("point cloud has no points")

// FilterRange returns a new cloud holding only the points of pc whose Z
// coordinate is strictly less than maxDepth. Points at exactly maxDepth
// are dropped. Point order is preserved. If no point survives,
// ErrEmptyCloud is returned.
func FilterRange(pc *tensor.Dense, maxDepth float64) (*tensor.Dense, error) {
	n, d, err := cloudDims(pc)
	if err != nil {
		return nil, errors.Wrap(err, "filterRange")
	}

	data := pc.Data().([]float64)
	kept := make([]float64, 0, len(data))
	for i := 0; i < n; i++ {
		row := data[i*d : (i+1)*d]
		if row[2] < maxDepth {
			kept = append(kept, row...)
		}
	}

	if len(kept) == 0 {
		return nil, errors.Wrapf(ErrEmptyCloud,
			"filterRange: no points closer than %v", maxDepth)
	}

	return tensor.New(tensor.WithShape(len(kept)/d, d),
		tensor.WithBacking(kept)), nil
}

// Resample forces a cloud to exactly points rows. A cloud with more
// rows is downsampled by selecting the first points indices of a
// uniform-random permutation, so no index repeats. A cloud with fewer
// rows is padded with trailing zero-vector points; real points keep
// their order and padding points are indistinguishable from points at
// the origin. A cloud with exactly points rows is returned unchanged,
// as the same tensor.
//
// When points is zero or negative, resampling is skipped and pc is
// returned as is. The rng is only consulted when downsampling occurs;
// callers that may downsample must supply one.
func Resample(pc *tensor.Dense, points int, rng *rand.Rand) (*tensor.Dense, error) {
	if points <= 0 {
		return pc, nil
	}

	n, d, err := cloudDims(pc)
	if err != nil {
		return nil, errors.Wrap(err, "resample")
	}

	switch {
	case n == points:
		return pc, nil

	case n > points:
		if rng == nil {
			return nil, errors.New("resample: nil rng with downsampling " +
				"required")
		}
		data := pc.Data().([]float64)
		ind := rng.Perm(n)[:points]

		out := make([]float64, 0, points*d)
		for _, i := range ind {
			out = append(out, data[i*d:(i+1)*d]...)
		}
		return tensor.New(tensor.WithShape(points, d),
			tensor.WithBacking(out)), nil

	default: // n < points, pad with zeros after the real points
		data := pc.Data().([]float64)
		out := make([]float64, points*d)
		copy(out, data)
		return tensor.New(tensor.WithShape(points, d),
			tensor.WithBacking(out)), nil
	}
}

// cloudDims validates that pc is a nonempty (N, D) cloud with at least
// three coordinates per point and returns N and D.
func cloudDims(pc *tensor.Dense) (n, d int, err error) {
	if pc == nil {
		return 0, 0, errors.Wrap(ErrEmptyCloud, "nil cloud")
	}
	shape := pc.Shape()
	if len(shape) != 2 {
		return 0, 0, errors.Errorf("cloud must have shape (N, D), got %v",
			shape)
	}
	if shape[1] < 3 {
		return 0, 0, errors.Errorf("cloud points need at least 3 "+
			"coordinates, got %v", shape[1])
	}
	if shape[0] == 0 {
		return 0, 0, errors.Wrap(ErrEmptyCloud, "zero-row cloud")
	}
	return shape[0], shape[1], nil
}
