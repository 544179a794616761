package feature

// Scaler standardizes the numeric pair using per-feature statistics fit
// at training time. Column order is (price, points) and the stored
// statistics follow that same order; transposing the pair produces
// silently wrong predictions downstream.
type Scaler struct {
	mean [2]float64
	std  [2]float64
}

// NewScaler creates a scaler from fitted mean and standard deviation
// pairs, each ordered (price, points). The artifact loader rejects
// zero standard deviations.
func NewScaler(mean, std [2]float64) *Scaler {
	return &Scaler{mean: mean, std: std}
}

// Scale returns [(price-mean)/std, (points-mean)/std]. Out-of-range
// values are scaled like any other; bounds are the caller's concern.
func (s *Scaler) Scale(price, points float64) []float64 {
	return []float64{
		(price - s.mean[0]) / s.std[0],
		(points - s.mean[1]) / s.std[1],
	}
}
