package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/oenolab/cepage/pkg/cepage/internalerr"
)

// GBT is a fitted gradient-boosted tree classifier. Every boosting
// round holds one regression tree per class (in class order); per-class
// raw scores are BaseScore plus the learning-rate-weighted sum of leaf
// outputs, pushed through a softmax.
type GBT struct {
	ModelName    string   `json:"name"`
	ClassLabels  []string `json:"classes"`
	NumFeatures  int      `json:"num_features"`
	LearningRate float64  `json:"learning_rate"`
	BaseScore    float64  `json:"base_score"`
	Rounds       []Round  `json:"rounds"`
}

// Round is one boosting iteration.
type Round struct {
	Trees []Tree `json:"trees"`
}

// LoadGBT reads a fitted boosted model from a JSON file and validates it.
func LoadGBT(path string) (*GBT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g GBT
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Validate checks the fitted structure before first use.
func (g *GBT) Validate() error {
	if len(g.ClassLabels) == 0 {
		return fmt.Errorf("gbt %q: no classes", g.ModelName)
	}
	if g.NumFeatures <= 0 {
		return fmt.Errorf("gbt %q: num_features must be positive", g.ModelName)
	}
	if g.LearningRate <= 0 {
		return fmt.Errorf("gbt %q: learning_rate must be positive", g.ModelName)
	}
	if len(g.Rounds) == 0 {
		return fmt.Errorf("gbt %q: no boosting rounds", g.ModelName)
	}
	for r, round := range g.Rounds {
		if len(round.Trees) != len(g.ClassLabels) {
			return fmt.Errorf("gbt %q: round %d has %d trees, expected one per class (%d)",
				g.ModelName, r, len(round.Trees), len(g.ClassLabels))
		}
		for i := range round.Trees {
			if err := round.Trees[i].validate(g.NumFeatures, 1); err != nil {
				return fmt.Errorf("gbt %q: round %d tree %d: %w", g.ModelName, r, i, err)
			}
		}
	}
	return nil
}

// Name implements Classifier.
func (g *GBT) Name() string {
	if g.ModelName != "" {
		return g.ModelName
	}
	return "gradient_boosting"
}

// Classes implements Classifier.
func (g *GBT) Classes() []string {
	out := make([]string, len(g.ClassLabels))
	copy(out, g.ClassLabels)
	return out
}

// PredictProba implements Classifier.
func (g *GBT) PredictProba(features []float64) ([]float64, error) {
	if len(features) != g.NumFeatures {
		return nil, fmt.Errorf("%w: %s expects %d features, got %d",
			internalerr.ErrStructuralMismatch, g.Name(), g.NumFeatures, len(features))
	}

	raw := make([]float64, len(g.ClassLabels))
	for c := range raw {
		raw[c] = g.BaseScore
	}
	for _, round := range g.Rounds {
		for c := range round.Trees {
			leaf := round.Trees[c].Apply(features)
			raw[c] += g.LearningRate * leaf[0]
		}
	}

	return softmax(raw), nil
}

// softmax converts raw scores to a probability distribution. The max
// is subtracted first to keep the exponentials in range.
func softmax(raw []float64) []float64 {
	maxScore := raw[0]
	for _, s := range raw[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	out := make([]float64, len(raw))
	var sum float64
	for i, s := range raw {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
