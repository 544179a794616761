package model

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/oenolab/cepage/pkg/cepage/internalerr"
)

// Ensemble averages the class probability distributions of two fitted
// classifiers over the same feature row.
type Ensemble struct {
	a, b    Classifier
	classes []string
}

// Prediction is the ensemble output: the winning label and the full
// averaged distribution keyed by class label.
type Prediction struct {
	Label  string
	Scores map[string]float64
}

// NewEnsemble pairs two classifiers. Averaging is only meaningful over
// an identical, identically ordered label set; a mismatch silently
// corrupts every prediction, so it is rejected here rather than at
// request time.
func NewEnsemble(a, b Classifier) (*Ensemble, error) {
	ca, cb := a.Classes(), b.Classes()
	if len(ca) != len(cb) {
		return nil, fmt.Errorf("%w: %s has %d classes, %s has %d",
			internalerr.ErrArtifactLoad, a.Name(), len(ca), b.Name(), len(cb))
	}
	for i := range ca {
		if ca[i] != cb[i] {
			return nil, fmt.Errorf("%w: class %d differs between %s (%q) and %s (%q)",
				internalerr.ErrArtifactLoad, i, a.Name(), ca[i], b.Name(), cb[i])
		}
	}
	return &Ensemble{a: a, b: b, classes: ca}, nil
}

// Classes returns the shared label set in training order.
func (e *Ensemble) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Predict runs both classifiers over the same row, averages the two
// distributions elementwise and picks the arg-max class. Ties break to
// the first index, so results are deterministic regardless of which
// classifier finishes first.
func (e *Ensemble) Predict(features []float64) (Prediction, error) {
	var pa, pb []float64

	var g errgroup.Group
	g.Go(func() error {
		var err error
		pa, err = e.a.PredictProba(features)
		return err
	})
	g.Go(func() error {
		var err error
		pb, err = e.b.PredictProba(features)
		return err
	})
	if err := g.Wait(); err != nil {
		return Prediction{}, err
	}

	best := 0
	avg := make([]float64, len(e.classes))
	scores := make(map[string]float64, len(e.classes))
	for i := range avg {
		avg[i] = (pa[i] + pb[i]) / 2
		scores[e.classes[i]] = avg[i]
		if avg[i] > avg[best] {
			best = i
		}
	}

	return Prediction{Label: e.classes[best], Scores: scores}, nil
}
