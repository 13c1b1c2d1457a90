package prakriti

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Artifact file names inside the configured models directory. The files are
// exported by the external training pipeline together.
const (
	modelFileName   = "prakriti_model.json"
	encoderFileName = "prakriti_encoder.json"
)

// ErrFeatureLength is returned when a feature vector does not match the
// encoder layout the model was trained against.
var ErrFeatureLength = errors.New("feature vector length mismatch")

// FeatureSpec describes one categorical question: its name and the ordered
// value vocabulary used for one-hot encoding. Order is significant on both
// levels; it fixes the feature vector layout.
type FeatureSpec struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// modelArtifact mirrors the serialized linear model: one weight row and one
// intercept per class, rows aligned with the encoder's one-hot layout.
type modelArtifact struct {
	Classes    []string    `json:"classes"`
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
}

// encoderArtifact mirrors the serialized one-hot encoder vocabulary.
type encoderArtifact struct {
	Features []FeatureSpec `json:"features"`
}

// FileModel is a Classifier backed by serialized artifacts on disk: a
// multinomial linear model plus its one-hot encoder vocabulary. All state
// is read-only after Load, so a single instance serves concurrent requests.
type FileModel struct {
	classes    []string
	weights    [][]float64
	intercepts []float64
	features   []FeatureSpec
	width      int
}

// Load reads and validates both artifacts from dir. It is called once at
// process start; a failure leaves the prediction endpoint degraded rather
// than crashing the process (the caller decides).
func Load(dir string) (*FileModel, error) {
	var m modelArtifact
	if err := readJSON(filepath.Join(dir, modelFileName), &m); err != nil {
		return nil, fmt.Errorf("load model artifact: %w", err)
	}
	var e encoderArtifact
	if err := readJSON(filepath.Join(dir, encoderFileName), &e); err != nil {
		return nil, fmt.Errorf("load encoder artifact: %w", err)
	}

	if len(m.Classes) == 0 {
		return nil, errors.New("model artifact has no classes")
	}
	if len(m.Weights) != len(m.Classes) || len(m.Intercepts) != len(m.Classes) {
		return nil, errors.New("model artifact weight/intercept rows do not match classes")
	}

	width := 0
	for _, f := range e.Features {
		if f.Name == "" || len(f.Values) == 0 {
			return nil, fmt.Errorf("encoder artifact has malformed feature %q", f.Name)
		}
		width += len(f.Values)
	}
	for i, row := range m.Weights {
		if len(row) != width {
			return nil, fmt.Errorf("weight row %d has %d columns, encoder expects %d", i, len(row), width)
		}
	}

	return &FileModel{
		classes:    m.Classes,
		weights:    m.Weights,
		intercepts: m.Intercepts,
		features:   e.Features,
		width:      width,
	}, nil
}

// Encode converts answers into the model's fixed-order one-hot feature
// vector. Unknown questions are rejected; a value outside a question's
// vocabulary leaves that block all-zero, mirroring the training pipeline's
// ignore-unknown behavior.
func (fm *FileModel) Encode(a Answers) ([]float64, error) {
	for q := range a {
		if !fm.hasFeature(q) {
			return nil, fmt.Errorf("unknown question %q", q)
		}
	}
	vec := make([]float64, fm.width)
	off := 0
	for _, f := range fm.features {
		if v, ok := a[f.Name]; ok {
			for i, known := range f.Values {
				if v == known {
					vec[off+i] = 1
					break
				}
			}
		}
		off += len(f.Values)
	}
	return vec, nil
}

// Predict computes softmax probabilities over the linear scores and returns
// the winning class. Ties resolve to the first class in artifact order.
func (fm *FileModel) Predict(features []float64) (string, map[string]float64, error) {
	if len(features) != fm.width {
		return "", nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureLength, len(features), fm.width)
	}

	scores := make([]float64, len(fm.classes))
	maxScore := math.Inf(-1)
	for c, row := range fm.weights {
		s := fm.intercepts[c]
		for i, w := range row {
			s += w * features[i]
		}
		scores[c] = s
		if s > maxScore {
			maxScore = s
		}
	}

	// Softmax with max-shift for numerical stability.
	var sum float64
	for c, s := range scores {
		scores[c] = math.Exp(s - maxScore)
		sum += scores[c]
	}

	probs := make(map[string]float64, len(fm.classes))
	best, bestP := fm.classes[0], -1.0
	for c, name := range fm.classes {
		p := scores[c] / sum
		probs[name] = p
		if p > bestP {
			best, bestP = name, p
		}
	}
	return best, probs, nil
}

// Features exposes the encoder layout (read-only) for input validation.
func (fm *FileModel) Features() []FeatureSpec { return fm.features }

func (fm *FileModel) hasFeature(name string) bool {
	for _, f := range fm.features {
		if f.Name == name {
			return true
		}
	}
	return false
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
