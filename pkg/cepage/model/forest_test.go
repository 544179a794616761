package model

import (
	"errors"
	"math"
	"testing"

	"github.com/oenolab/cepage/pkg/cepage/internalerr"
)

// leaf builds a single-node tree that always returns value.
func leaf(value ...float64) Tree {
	return Tree{Nodes: []Node{{Feature: -1, Value: value}}}
}

// stump builds a one-split tree: feature <= threshold routes to left,
// otherwise right.
func stump(feature int, threshold float64, left, right []float64) Tree {
	return Tree{Nodes: []Node{
		{Feature: feature, Threshold: threshold, Left: 1, Right: 2},
		{Feature: -1, Value: left},
		{Feature: -1, Value: right},
	}}
}

func testForest() *Forest {
	return &Forest{
		ModelName:   "rf",
		ClassLabels: []string{"France", "Italy", "US"},
		NumFeatures: 3,
		Trees: []Tree{
			stump(0, 0.5, []float64{0.6, 0.3, 0.1}, []float64{0.2, 0.3, 0.5}),
			stump(2, 0.0, []float64{0.4, 0.4, 0.2}, []float64{0.2, 0.5, 0.3}),
		},
	}
}

func TestForestPredictProbaAverages(t *testing.T) {
	f := testForest()
	if err := f.Validate(); err != nil {
		t.Fatalf("Fixture should validate: %v", err)
	}

	// Row routes tree 1 left and tree 2 right.
	proba, err := f.PredictProba([]float64{0.2, 0, 1})
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}

	want := []float64{0.4, 0.4, 0.2}
	for i := range want {
		if math.Abs(proba[i]-want[i]) > 1e-9 {
			t.Errorf("Class %d: expected %f, got %f", i, want[i], proba[i])
		}
	}
}

func TestForestProbaSumsToOne(t *testing.T) {
	f := testForest()

	proba, err := f.PredictProba([]float64{0.9, -1, 0})
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	var sum float64
	for _, p := range proba {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("Distribution should sum to 1, got %f", sum)
	}
}

func TestForestShapeMismatch(t *testing.T) {
	f := testForest()

	_, err := f.PredictProba([]float64{0.1, 0.2})
	if !errors.Is(err, internalerr.ErrStructuralMismatch) {
		t.Errorf("Expected ErrStructuralMismatch, got %v", err)
	}
}

func TestForestValidateRejectsBadTrees(t *testing.T) {
	cases := []struct {
		name string
		f    *Forest
	}{
		{"no trees", &Forest{ModelName: "rf", ClassLabels: []string{"a"}, NumFeatures: 1}},
		{"feature out of range", &Forest{
			ModelName: "rf", ClassLabels: []string{"a", "b"}, NumFeatures: 1,
			Trees: []Tree{stump(5, 0, []float64{1, 0}, []float64{0, 1})},
		}},
		{"leaf width mismatch", &Forest{
			ModelName: "rf", ClassLabels: []string{"a", "b"}, NumFeatures: 1,
			Trees: []Tree{leaf(1.0)},
		}},
		{"child index cycle", &Forest{
			ModelName: "rf", ClassLabels: []string{"a"}, NumFeatures: 1,
			Trees: []Tree{{Nodes: []Node{{Feature: 0, Threshold: 0, Left: 0, Right: 0}}}},
		}},
	}

	for _, tc := range cases {
		if err := tc.f.Validate(); err == nil {
			t.Errorf("%s: Validate should fail", tc.name)
		}
	}
}
