package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArtifactVersion guards against loading artifacts written by an
// incompatible build.
const ArtifactVersion = 1

// Artifact is the persisted form of a trained classifier: the fitted
// vocabulary plus all ensemble member parameters, serialized as JSON.
type Artifact struct {
	Version    int         `json:"version"`
	TrainedAt  time.Time   `json:"trainedAt"`
	Accuracy   float64     `json:"accuracy"`
	Vectorizer *Vectorizer `json:"vectorizer"`
	Ensemble   *Ensemble   `json:"ensemble"`
}

// Save writes the trained model state to path, creating parent
// directories as needed. Rule-only classifiers cannot be saved.
func (c *Classifier) Save(path string) error {
	if c.vec == nil || c.ens == nil {
		return fmt.Errorf("classifier has no trained model to save")
	}

	artifact := Artifact{
		Version:    ArtifactVersion,
		TrainedAt:  time.Now().UTC(),
		Accuracy:   c.accuracy,
		Vectorizer: c.vec,
		Ensemble:   c.ens,
	}

	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create model directory: %w", err)
		}
	}

	// Write-then-rename so a crashed save never leaves a torn artifact.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write model artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize model artifact: %w", err)
	}
	return nil
}

// LoadClassifier restores a classifier from a saved artifact. The
// recorded training accuracy is re-checked against the gate, so a stale
// artifact below the bar degrades to the rule path just like a fresh
// low-scoring training run.
func LoadClassifier(path string, opts ...ClassifierOption) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if artifact.Version != ArtifactVersion {
		return nil, fmt.Errorf("model artifact version %d, want %d", artifact.Version, ArtifactVersion)
	}
	if artifact.Vectorizer == nil || artifact.Ensemble == nil {
		return nil, fmt.Errorf("model artifact is incomplete")
	}

	c := NewRuleOnlyClassifier(opts...)
	c.vec = artifact.Vectorizer
	c.ens = artifact.Ensemble
	c.accuracy = artifact.Accuracy
	c.usable = artifact.Accuracy >= c.gate

	return c, nil
}
