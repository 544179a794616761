package model

import (
	"errors"
	"math"
	"testing"

	"github.com/oenolab/cepage/pkg/cepage/internalerr"
)

func testGBT() *GBT {
	return &GBT{
		ModelName:    "gbt",
		ClassLabels:  []string{"France", "Italy", "US"},
		NumFeatures:  3,
		LearningRate: 0.5,
		BaseScore:    0.0,
		Rounds: []Round{
			{Trees: []Tree{leaf(1.8), leaf(0.6), leaf(0.2)}},
			{Trees: []Tree{
				stump(1, 0.5, []float64{0.4}, []float64{-0.4}),
				leaf(0.0),
				leaf(0.0),
			}},
		},
	}
}

func TestGBTPredictProbaSoftmax(t *testing.T) {
	g := testGBT()
	if err := g.Validate(); err != nil {
		t.Fatalf("Fixture should validate: %v", err)
	}

	proba, err := g.PredictProba([]float64{0, 0, 0})
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}

	// Raw scores: 0.5*(1.8+0.4)=1.1, 0.5*0.6=0.3, 0.5*0.2=0.1
	raw := []float64{1.1, 0.3, 0.1}
	var sum float64
	exp := make([]float64, len(raw))
	for i, s := range raw {
		exp[i] = math.Exp(s)
		sum += exp[i]
	}
	for i := range exp {
		if math.Abs(proba[i]-exp[i]/sum) > 1e-9 {
			t.Errorf("Class %d: expected %f, got %f", i, exp[i]/sum, proba[i])
		}
	}
}

func TestGBTProbaSumsToOne(t *testing.T) {
	g := testGBT()

	proba, err := g.PredictProba([]float64{0, 1, 0})
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

func TestGBTShapeMismatch(t *testing.T) {
	g := testGBT()

	_, err := g.PredictProba(make([]float64, 7))
	if !errors.Is(err, internalerr.ErrStructuralMismatch) {
		t.Errorf("Expected ErrStructuralMismatch, got %v", err)
	}
}

func TestGBTValidateRejectsRoundShape(t *testing.T) {
	g := testGBT()
	g.Rounds[0].Trees = g.Rounds[0].Trees[:2]

	if err := g.Validate(); err == nil {
		t.Error("Round with missing class tree should fail validation")
	}
}

func TestGBTValidateRejectsWideLeaves(t *testing.T) {
	g := testGBT()
	g.Rounds[0].Trees[0] = leaf(0.1, 0.2)

	if err := g.Validate(); err == nil {
		t.Error("Regression leaves must hold a single value")
	}
}

func TestSoftmaxLargeScores(t *testing.T) {
	out := softmax([]float64{1000, 999, 998})

	var sum float64
	for _, p := range out {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			t.Fatalf("Softmax overflowed: %v", out)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("Softmax should sum to 1, got %f", sum)
	}
	if out[0] <= out[1] || out[1] <= out[2] {
		t.Errorf("Softmax should preserve ordering: %v", out)
	}
}
