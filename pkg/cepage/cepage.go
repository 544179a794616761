package cepage

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/oenolab/cepage/pkg/cepage/artifact"
	"github.com/oenolab/cepage/pkg/cepage/feature"
	"github.com/oenolab/cepage/pkg/cepage/internalerr"
	"github.com/oenolab/cepage/pkg/cepage/store"
)

// Input validation bounds, matching what the fitted models were
// trained against.
const (
	MinDescriptionLen = 10
	MaxDescriptionLen = 1000
	MaxPoints         = 100
	MaxPrice          = 10000
)

// Predictor is the wine-origin prediction facade. It runs the feature
// transforms and the classifier ensemble over a read-only artifact
// bundle, so concurrent calls need no coordination.
type Predictor struct {
	bundle  *artifact.Bundle
	history store.Store
	version string

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures a Predictor instance
type Options struct {
	Bundle *artifact.Bundle

	// History, when set, records every served prediction.
	History store.Store

	// ModelVersion is reported on each result. Defaults to "1.0.0".
	ModelVersion string
}

// Input is one wine to classify.
type Input struct {
	Description string  `json:"description"`
	Points      float64 `json:"points"`
	Price       float64 `json:"price"`
	Variety     string  `json:"variety"`
}

// Result is one served prediction.
type Result struct {
	ID               string             `json:"id"`
	PredictedCountry string             `json:"predicted_country"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`

	// VarietyRecognized reports whether the input variety was part of
	// the trained category set. When false, the variety contributed no
	// signal to the prediction.
	VarietyRecognized bool `json:"variety_recognized"`

	PredictionTime float64   `json:"prediction_time"`
	ModelVersion   string    `json:"model_version"`
	Timestamp      time.Time `json:"timestamp"`
}

// New creates a Predictor. The bundle must be fully loaded: a predictor
// over partial artifacts refuses to exist rather than serve corrupt
// predictions.
func New(opts Options) (*Predictor, error) {
	if !opts.Bundle.Ready() {
		return nil, fmt.Errorf("%w: bundle incomplete", internalerr.ErrNotReady)
	}
	version := opts.ModelVersion
	if version == "" {
		version = "1.0.0"
	}
	return &Predictor{
		bundle:  opts.Bundle,
		history: opts.History,
		version: version,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Ready reports whether the predictor can serve. Callers gating traffic
// should refuse requests while this is false.
func (p *Predictor) Ready() bool {
	return p != nil && p.bundle.Ready()
}

// Classes returns the label set predictions are scored over.
func (p *Predictor) Classes() []string {
	return p.bundle.Classes()
}

// Predict classifies one wine. The confidence map always sums to 1 and
// the predicted country is its arg-max key.
func (p *Predictor) Predict(ctx context.Context, in Input) (Result, error) {
	if !p.Ready() {
		return Result{}, internalerr.ErrNotReady
	}
	if err := validate(in); err != nil {
		return Result{}, err
	}

	description := strings.TrimSpace(in.Description)

	start := time.Now()

	textVec := p.bundle.Vectorizer.Vectorize(description)
	varietyEnc := p.bundle.Encoder.Encode(in.Variety)
	numericVec := p.bundle.Scaler.Scale(in.Price, in.Points)

	row := feature.Assemble(textVec, varietyEnc.Vector, numericVec)

	pred, err := p.bundle.Ensemble.Predict(row)
	if err != nil {
		return Result{}, fmt.Errorf("prediction failed: %w", err)
	}

	elapsed := time.Since(start).Seconds()

	result := Result{
		ID:                p.newID(),
		PredictedCountry:  pred.Label,
		ConfidenceScores:  pred.Scores,
		VarietyRecognized: varietyEnc.Known,
		PredictionTime:    elapsed,
		ModelVersion:      p.version,
		Timestamp:         time.Now().UTC(),
	}

	if p.history != nil {
		rec := store.Prediction{
			ID:                result.ID,
			Description:       description,
			Points:            in.Points,
			Price:             in.Price,
			Variety:           in.Variety,
			PredictedCountry:  result.PredictedCountry,
			Confidence:        result.ConfidenceScores,
			VarietyRecognized: result.VarietyRecognized,
			ElapsedSeconds:    result.PredictionTime,
			CreatedAt:         result.Timestamp,
		}
		if err := p.history.RecordPrediction(ctx, rec); err != nil {
			return Result{}, fmt.Errorf("record prediction: %w", err)
		}
	}

	return result, nil
}

func (p *Predictor) newID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ulid.MustNew(ulid.Now(), p.entropy).String()
}

func validate(in Input) error {
	desc := strings.TrimSpace(in.Description)
	if n := utf8.RuneCountInString(desc); n < MinDescriptionLen || n > MaxDescriptionLen {
		return fmt.Errorf("%w: description length must be in [%d,%d]",
			internalerr.ErrInvalidInput, MinDescriptionLen, MaxDescriptionLen)
	}
	if in.Points < 0 || in.Points > MaxPoints {
		return fmt.Errorf("%w: points must be in [0,%d]", internalerr.ErrInvalidInput, MaxPoints)
	}
	if in.Price < 0 || in.Price > MaxPrice {
		return fmt.Errorf("%w: price must be in [0,%d]", internalerr.ErrInvalidInput, MaxPrice)
	}
	if strings.TrimSpace(in.Variety) == "" {
		return fmt.Errorf("%w: variety must not be empty", internalerr.ErrInvalidInput)
	}
	return nil
}
