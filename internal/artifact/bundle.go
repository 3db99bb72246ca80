// Package artifact serializes everything inference needs into a single
// JSON bundle: the fitted encoder state, the selected feature set and
// the fitted classifier parameters. The bundle is the only contract
// between training and serving; the server never refits anything.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Lemiti/credit-risk-model/internal/features"
	"github.com/Lemiti/credit-risk-model/internal/idhash"
	"github.com/Lemiti/credit-risk-model/internal/model"
)

// SchemaVersion guards against loading a bundle written by an
// incompatible build.
const SchemaVersion = 1

// Model names as recorded in bundles and reports.
const (
	ModelLogisticRegression = "logistic_regression"
	ModelGradientBoosting   = "gradient_boosting"
)

var (
	// ErrSchemaVersion is returned when a bundle's schema_version does
	// not match this build.
	ErrSchemaVersion = errors.New("artifact: unsupported schema version")

	// ErrNoModel is returned when a bundle carries no fitted model.
	ErrNoModel = errors.New("artifact: no fitted model in bundle")
)

// Bundle is the persisted model artifact.
type Bundle struct {
	SchemaVersion    int                    `json:"schema_version"`
	ArtifactID       string                 `json:"artifact_id"`
	ModelName        string                 `json:"model_name"`
	Seed             int64                  `json:"seed"`
	CreatedAt        time.Time              `json:"created_at"`
	Encoder          *features.EncoderState `json:"encoder"`
	SelectedIndices  []int                  `json:"selected_indices"`
	SelectedFeatures []string               `json:"selected_features"`
	Logistic         *model.Logistic        `json:"logistic,omitempty"`
	Boosting         *model.Boosting        `json:"boosting,omitempty"`
}

// New assembles a bundle and stamps its deterministic artifact ID.
// Exactly one of logistic/boosting must be non-nil.
func New(
	modelName string,
	seed int64,
	encoder *features.EncoderState,
	selected []int,
	logistic *model.Logistic,
	boosting *model.Boosting,
	now time.Time,
) (*Bundle, error) {
	b := &Bundle{
		SchemaVersion:   SchemaVersion,
		ModelName:       modelName,
		Seed:            seed,
		CreatedAt:       now.UTC(),
		Encoder:         encoder,
		SelectedIndices: selected,
		Logistic:        logistic,
		Boosting:        boosting,
	}
	for _, idx := range selected {
		if idx < 0 || idx >= len(encoder.Columns) {
			return nil, fmt.Errorf("artifact: selected index %d outside encoder layout (%d columns)", idx, len(encoder.Columns))
		}
		b.SelectedFeatures = append(b.SelectedFeatures, encoder.Columns[idx])
	}

	encoderJSON, err := json.Marshal(encoder)
	if err != nil {
		return nil, fmt.Errorf("marshal encoder state: %w", err)
	}
	modelJSON, err := b.marshalModel()
	if err != nil {
		return nil, err
	}
	b.ArtifactID = idhash.ComputeArtifactID(modelName, seed, encoderJSON, modelJSON, selected)
	return b, nil
}

func (b *Bundle) marshalModel() ([]byte, error) {
	switch {
	case b.Logistic != nil:
		return json.Marshal(b.Logistic)
	case b.Boosting != nil:
		return json.Marshal(b.Boosting)
	}
	return nil, ErrNoModel
}

// Classifier returns the fitted model carried by the bundle.
func (b *Bundle) Classifier() (model.Classifier, error) {
	switch {
	case b.Logistic != nil:
		return b.Logistic, nil
	case b.Boosting != nil:
		return b.Boosting, nil
	}
	return nil, ErrNoModel
}

// FeatureCount is the input vector length the serving endpoint expects.
func (b *Bundle) FeatureCount() int {
	return len(b.SelectedIndices)
}

// Save writes the bundle as indented JSON.
func (b *Bundle) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}

// Load reads and validates a bundle.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}
	if b.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaVersion, b.SchemaVersion, SchemaVersion)
	}
	if _, err := b.Classifier(); err != nil {
		return nil, err
	}
	return &b, nil
}
