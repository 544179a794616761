package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oenolab/cepage/pkg/cepage/internalerr"
)

// Forest is a fitted random forest classifier. Each leaf holds a
// per-class probability distribution; prediction averages the leaf
// distributions across trees.
type Forest struct {
	ModelName   string   `json:"name"`
	ClassLabels []string `json:"classes"`
	NumFeatures int      `json:"num_features"`
	Trees       []Tree   `json:"trees"`
}

// LoadForest reads a fitted forest from a JSON file and validates it.
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the fitted structure before first use.
func (f *Forest) Validate() error {
	if len(f.ClassLabels) == 0 {
		return fmt.Errorf("forest %q: no classes", f.ModelName)
	}
	if f.NumFeatures <= 0 {
		return fmt.Errorf("forest %q: num_features must be positive", f.ModelName)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest %q: no trees", f.ModelName)
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.NumFeatures, len(f.ClassLabels)); err != nil {
			return fmt.Errorf("forest %q: tree %d: %w", f.ModelName, i, err)
		}
	}
	return nil
}

// Name implements Classifier.
func (f *Forest) Name() string {
	if f.ModelName != "" {
		return f.ModelName
	}
	return "random_forest"
}

// Classes implements Classifier.
func (f *Forest) Classes() []string {
	out := make([]string, len(f.ClassLabels))
	copy(out, f.ClassLabels)
	return out
}

// PredictProba implements Classifier. Rows of the wrong width are a
// structural failure, never a partial result.
func (f *Forest) PredictProba(features []float64) ([]float64, error) {
	if len(features) != f.NumFeatures {
		return nil, fmt.Errorf("%w: %s expects %d features, got %d",
			internalerr.ErrStructuralMismatch, f.Name(), f.NumFeatures, len(features))
	}

	avg := make([]float64, len(f.ClassLabels))
	for i := range f.Trees {
		leaf := f.Trees[i].Apply(features)
		for c, p := range leaf {
			avg[c] += p
		}
	}
	n := float64(len(f.Trees))
	for c := range avg {
		avg[c] /= n
	}
	return avg, nil
}
