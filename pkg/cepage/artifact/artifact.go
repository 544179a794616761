package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oenolab/cepage/pkg/cepage/feature"
	"github.com/oenolab/cepage/pkg/cepage/internalerr"
	"github.com/oenolab/cepage/pkg/cepage/model"
)

// Loader holds the locations of the five fitted artifacts.
type Loader struct {
	VectorizerPath string
	EncoderPath    string
	ScalerPath     string
	ForestPath     string
	GBTPath        string
}

// Bundle is the full set of fitted components the pipeline runs on,
// loaded once at startup and read-only afterwards. A Bundle either
// loads completely or not at all; partial state never escapes Load.
type Bundle struct {
	Vectorizer *feature.Vectorizer
	Encoder    *feature.Encoder
	Scaler     *feature.Scaler
	Ensemble   *model.Ensemble
}

type vectorizerFile struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

type encoderFile struct {
	Categories []string `json:"categories"`
}

// scalerFile statistics are ordered (price, points).
type scalerFile struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Load reads and cross-validates all five artifacts. Any failure wraps
// internalerr.ErrArtifactLoad so callers can refuse to serve.
func (l *Loader) Load() (*Bundle, error) {
	vectorizer, err := l.loadVectorizer()
	if err != nil {
		return nil, fmt.Errorf("%w: vectorizer: %w", internalerr.ErrArtifactLoad, err)
	}

	encoder, err := l.loadEncoder()
	if err != nil {
		return nil, fmt.Errorf("%w: encoder: %w", internalerr.ErrArtifactLoad, err)
	}

	scaler, err := l.loadScaler()
	if err != nil {
		return nil, fmt.Errorf("%w: scaler: %w", internalerr.ErrArtifactLoad, err)
	}

	forest, err := model.LoadForest(l.ForestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: forest: %w", internalerr.ErrArtifactLoad, err)
	}

	gbt, err := model.LoadGBT(l.GBTPath)
	if err != nil {
		return nil, fmt.Errorf("%w: gradient boosting: %w", internalerr.ErrArtifactLoad, err)
	}

	// Column order and count are a hard contract with the fitted
	// classifiers: both must have been trained on text|variety|numeric
	// rows of exactly this width.
	width := vectorizer.Width() + encoder.Width() + 2
	if forest.NumFeatures != width {
		return nil, fmt.Errorf("%w: forest expects %d features, transforms produce %d",
			internalerr.ErrArtifactLoad, forest.NumFeatures, width)
	}
	if gbt.NumFeatures != width {
		return nil, fmt.Errorf("%w: gradient boosting expects %d features, transforms produce %d",
			internalerr.ErrArtifactLoad, gbt.NumFeatures, width)
	}

	ensemble, err := model.NewEnsemble(forest, gbt)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Vectorizer: vectorizer,
		Encoder:    encoder,
		Scaler:     scaler,
		Ensemble:   ensemble,
	}, nil
}

func (l *Loader) loadVectorizer() (*feature.Vectorizer, error) {
	var raw vectorizerFile
	if err := readJSON(l.VectorizerPath, &raw); err != nil {
		return nil, err
	}
	if len(raw.IDF) == 0 {
		return nil, fmt.Errorf("empty idf weights")
	}
	for term, idx := range raw.Vocabulary {
		if idx < 0 || idx >= len(raw.IDF) {
			return nil, fmt.Errorf("term %q index %d out of range (width %d)", term, idx, len(raw.IDF))
		}
	}
	return feature.NewVectorizer(raw.Vocabulary, raw.IDF), nil
}

func (l *Loader) loadEncoder() (*feature.Encoder, error) {
	var raw encoderFile
	if err := readJSON(l.EncoderPath, &raw); err != nil {
		return nil, err
	}
	if len(raw.Categories) == 0 {
		return nil, fmt.Errorf("empty category set")
	}
	seen := make(map[string]struct{}, len(raw.Categories))
	for _, c := range raw.Categories {
		if c == "" {
			return nil, fmt.Errorf("empty category label")
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate category %q", c)
		}
		seen[c] = struct{}{}
	}
	return feature.NewEncoder(raw.Categories), nil
}

func (l *Loader) loadScaler() (*feature.Scaler, error) {
	var raw scalerFile
	if err := readJSON(l.ScalerPath, &raw); err != nil {
		return nil, err
	}
	if len(raw.Mean) != 2 || len(raw.Std) != 2 {
		return nil, fmt.Errorf("expected 2 statistics per list, got mean=%d std=%d", len(raw.Mean), len(raw.Std))
	}
	for i, s := range raw.Std {
		if s == 0 {
			return nil, fmt.Errorf("zero standard deviation at column %d", i)
		}
	}
	return feature.NewScaler(
		[2]float64{raw.Mean[0], raw.Mean[1]},
		[2]float64{raw.Std[0], raw.Std[1]},
	), nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Classes returns the shared class label set of the loaded ensemble.
func (b *Bundle) Classes() []string {
	return b.Ensemble.Classes()
}

// Ready reports whether every fitted component is present.
func (b *Bundle) Ready() bool {
	return b != nil && b.Vectorizer != nil && b.Encoder != nil && b.Scaler != nil && b.Ensemble != nil
}
