package timestep

import (
	"testing"
)

func TestObservationFlatten(t *testing.T) {
	obs := Observation{
		Vector("position", []float64{1.5, -2.5}),
		Vector("velocity", []float64{0.5, 0.25}),
		Scalar("time", 3.0),
	}

	if obs.Len() != 5 {
		t.Errorf("len: have %v, want 5", obs.Len())
	}

	flat := obs.Flatten()
	want := []float64{1.5, -2.5, 0.5, 0.25, 3.0}
	if flat.Len() != len(want) {
		t.Fatalf("flatten length: have %v, want %v", flat.Len(), len(want))
	}
	for i, w := range want {
		if flat.AtVec(i) != w {
			t.Errorf("flatten at %v: have %v, want %v", i, flat.AtVec(i), w)
		}
	}
}

func TestObservationGet(t *testing.T) {
	obs := Observation{
		Vector("position", []float64{1, 2}),
		Scalar("touch", 0.5),
	}

	if v, ok := obs.Get("touch"); !ok || v.AtVec(0) != 0.5 {
		t.Errorf("get touch: have (%v, %v)", v, ok)
	}
	if _, ok := obs.Get("missing"); ok {
		t.Error("get missing: should not exist")
	}
}

func TestStepTypePredicates(t *testing.T) {
	first := New(First, 0, 1, nil, 0)
	mid := New(Mid, 1, 1, nil, 1)
	last := New(Last, 1, 1, nil, 2)

	if !first.First() || first.Mid() || first.Last() {
		t.Error("first step predicates incorrect")
	}
	if mid.First() || !mid.Mid() || mid.Last() {
		t.Error("mid step predicates incorrect")
	}
	if last.First() || last.Mid() || !last.Last() {
		t.Error("last step predicates incorrect")
	}
}
