package model

// Classifier is a fitted multi-class probabilistic model. Parameters
// were determined by prior training and are read-only at runtime.
type Classifier interface {
	Name() string

	// Classes returns the label set in training order.
	Classes() []string

	// PredictProba returns the per-class probability distribution for
	// one feature row, aligned with Classes.
	PredictProba(features []float64) ([]float64, error)
}
