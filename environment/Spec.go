package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an action, an observation, a discount, or a reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action, observation, discount, or reward in
// an environment.
//
// A nil Shape denotes a scalar quantity. Scalars occupy a single slot
// when observations are flattened, so their Size is 1.
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new environment specification. The shape argument
// outlines the shape of the data described by the specification. The
// argument t outlines what the specification is describing (e.g. actions,
// observations, etc.). The cardinality argument describes whether the
// values that the spec describes are continuous or discrete.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			shape.Len(), upperBound.Len()))
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// NewScalarSpec constructs a specification for a scalar quantity bounded
// in [lowerBound, upperBound]
func NewScalarSpec(t SpecType, lowerBound, upperBound float64,
	cardinality Cardinality) Spec {
	return Spec{
		Shape:       nil,
		Type:        t,
		LowerBound:  mat.NewVecDense(1, []float64{lowerBound}),
		UpperBound:  mat.NewVecDense(1, []float64{upperBound}),
		Cardinality: cardinality,
	}
}

// Size returns the number of scalar entries the described quantity
// occupies in a flat vector. Scalars have size 1.
func (s Spec) Size() int {
	if s.Shape == nil {
		return 1
	}
	return s.Shape.Len()
}

// NamedSpec is a Spec for one named component of a structured
// observation. An environment's observation specification is an ordered
// list of NamedSpecs, and observations carry their components in the
// same order.
type NamedSpec struct {
	Name string
	Spec
}
