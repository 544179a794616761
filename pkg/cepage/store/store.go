package store

import (
	"context"
	"time"
)

// Store persists served predictions for offline analysis and future
// retraining sets.
type Store interface {
	Close() error

	RecordPrediction(ctx context.Context, p Prediction) error
	RecentPredictions(ctx context.Context, limit int) ([]Prediction, error)
	CountPredictions(ctx context.Context) (int64, error)
}

// Prediction is one served prediction: the raw input alongside the
// ensemble decision.
type Prediction struct {
	ID                string
	Description       string
	Points            float64
	Price             float64
	Variety           string
	PredictedCountry  string
	Confidence        map[string]float64
	VarietyRecognized bool
	ElapsedSeconds    float64
	CreatedAt         time.Time
}
