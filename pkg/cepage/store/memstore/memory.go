package memstore

import (
	"context"
	"sync"

	"github.com/oenolab/cepage/pkg/cepage/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu          sync.RWMutex
	predictions []store.Prediction
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// RecordPrediction appends a prediction in arrival order.
func (s *Store) RecordPrediction(ctx context.Context, p store.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.predictions = append(s.predictions, copyPrediction(p))
	return nil
}

// RecentPredictions returns up to limit predictions, newest first.
func (s *Store) RecentPredictions(ctx context.Context, limit int) ([]store.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	if limit > len(s.predictions) {
		limit = len(s.predictions)
	}

	out := make([]store.Prediction, 0, limit)
	for i := len(s.predictions) - 1; i >= len(s.predictions)-limit; i-- {
		out = append(out, copyPrediction(s.predictions[i]))
	}
	return out, nil
}

// CountPredictions returns the total number of stored predictions.
func (s *Store) CountPredictions(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.predictions)), nil
}

func copyPrediction(p store.Prediction) store.Prediction {
	out := p
	if p.Confidence != nil {
		out.Confidence = make(map[string]float64, len(p.Confidence))
		for k, v := range p.Confidence {
			out.Confidence[k] = v
		}
	}
	return out
}
