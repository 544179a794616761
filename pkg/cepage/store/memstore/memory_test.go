package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/oenolab/cepage/pkg/cepage/store"
)

func samplePrediction(id string) store.Prediction {
	return store.Prediction{
		ID:                id,
		Description:       "bright cherry fruit with firm tannins",
		Points:            91,
		Price:             28,
		Variety:           "Sangiovese",
		PredictedCountry:  "Italy",
		Confidence:        map[string]float64{"Italy": 0.7, "France": 0.3},
		VarietyRecognized: true,
		ElapsedSeconds:    0.002,
		CreatedAt:         time.Now().UTC(),
	}
}

func TestRecordAndCount(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		if err := s.RecordPrediction(ctx, samplePrediction(id)); err != nil {
			t.Fatalf("RecordPrediction failed: %v", err)
		}
	}

	n, err := s.CountPredictions(ctx)
	if err != nil {
		t.Fatalf("CountPredictions failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 predictions, got %d", n)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		if err := s.RecordPrediction(ctx, samplePrediction(id)); err != nil {
			t.Fatalf("RecordPrediction failed: %v", err)
		}
	}

	recent, err := s.RecentPredictions(ctx, 2)
	if err != nil {
		t.Fatalf("RecentPredictions failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 predictions, got %d", len(recent))
	}
	if recent[0].ID != "p3" || recent[1].ID != "p2" {
		t.Errorf("Expected newest first, got %s, %s", recent[0].ID, recent[1].ID)
	}
}

func TestRecentCopiesConfidence(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.RecordPrediction(ctx, samplePrediction("p1")); err != nil {
		t.Fatalf("RecordPrediction failed: %v", err)
	}

	recent, _ := s.RecentPredictions(ctx, 1)
	recent[0].Confidence["Italy"] = 0

	again, _ := s.RecentPredictions(ctx, 1)
	if again[0].Confidence["Italy"] != 0.7 {
		t.Error("Stored confidence should not be mutable through results")
	}
}
